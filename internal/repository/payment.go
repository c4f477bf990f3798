package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierhq/atelier-api/internal/domain/payment"
)

const (
	paymentColumns = `id, order_id, amount, method, reference, status, created_at`

	listPaymentsSQL = `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`

	listPaymentsByOrderSQL = `SELECT ` + paymentColumns + ` FROM payments
		WHERE order_id = $1 ORDER BY created_at DESC`

	insertPaymentSQL = `INSERT INTO payments (id, order_id, amount, method, reference, status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	confirmPaymentSQL = `UPDATE payments SET status = 'confirmed' WHERE id = $1 AND status = 'pending'`

	failPaymentSQL = `UPDATE payments SET status = 'failed' WHERE id = $1 AND status = 'pending'`

	markOrderPaidSQL = `UPDATE orders SET payment_status = 'paid'
		WHERE id = (SELECT order_id FROM payments WHERE id = $1)`
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository implements payment.Repository backed by PostgreSQL.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a PaymentRepository that uses the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// List returns all payments, newest first.
func (r *PaymentRepository) List(ctx context.Context) ([]payment.Payment, error) {
	rows, err := r.pool.Query(ctx, listPaymentsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	return pgx.CollectRows(rows, scanPayment)
}

// ListByOrder returns the payments recorded against one order.
func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID string) ([]payment.Payment, error) {
	rows, err := r.pool.Query(ctx, listPaymentsByOrderSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing payments for order %q: %w", orderID, err)
	}
	return pgx.CollectRows(rows, scanPayment)
}

// Create records a new pending payment.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.pool.Exec(ctx, insertPaymentSQL,
		p.ID, p.OrderID, p.Amount, p.Method, p.Reference, string(p.Status),
	)
	if err != nil {
		return fmt.Errorf("creating payment %q: %w", p.ID, err)
	}
	return nil
}

// Confirm marks a pending payment confirmed and flips the owning order to
// paid, in one transaction. Confirming a non-pending or missing payment
// returns payment.ErrNotFound.
func (r *PaymentRepository) Confirm(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, confirmPaymentSQL, id)
	if err != nil {
		return fmt.Errorf("confirming payment %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrNotFound
	}

	if _, err := tx.Exec(ctx, markOrderPaidSQL, id); err != nil {
		return fmt.Errorf("marking order paid for payment %q: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing payment confirmation %q: %w", id, err)
	}
	return nil
}

// Fail marks a pending payment failed.
func (r *PaymentRepository) Fail(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, failPaymentSQL, id)
	if err != nil {
		return fmt.Errorf("failing payment %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.CollectableRow) (payment.Payment, error) {
	var (
		p      payment.Payment
		status string
	)
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Reference, &status, &p.CreatedAt)
	p.Status = payment.Status(status)
	return p, err
}
