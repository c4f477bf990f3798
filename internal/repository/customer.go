package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierhq/atelier-api/internal/domain/customer"
)

const (
	hasCompletedPurchaseSQL = `SELECT first_purchase_completed FROM customers WHERE email = $1`

	markPurchaseCompletedSQL = `INSERT INTO customers (email, first_purchase_completed)
		VALUES ($1, TRUE)
		ON CONFLICT (email) DO UPDATE SET first_purchase_completed = TRUE`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// HasCompletedPurchase reports whether the customer has a completed prior
// purchase. Unknown customers report false.
func (r *CustomerRepository) HasCompletedPurchase(ctx context.Context, email string) (bool, error) {
	var completed bool
	err := r.pool.QueryRow(ctx, hasCompletedPurchaseSQL, email).Scan(&completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking purchase history for %q: %w", email, err)
	}
	return completed, nil
}

// MarkPurchaseCompleted upserts the customer's discount record.
func (r *CustomerRepository) MarkPurchaseCompleted(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, markPurchaseCompletedSQL, email)
	if err != nil {
		return fmt.Errorf("marking purchase completed for %q: %w", email, err)
	}
	return nil
}
