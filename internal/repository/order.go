package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/atelierhq/atelier-api/internal/domain/order"
)

const (
	orderColumns = `id, customer_email, subtotal, discount, total,
		COALESCE(coupon_id, ''), coupon_code, status, payment_status, created_at`

	insertOrderSQL = `INSERT INTO orders (id, customer_email, subtotal, discount, total,
		coupon_id, coupon_code, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, unit_price, quantity)
		VALUES ($1, $2, $3, $4)`

	// Conditional decrement: zero affected rows means the product lacks stock.
	decrementStockSQL = `UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`

	getOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	listOrderItemsSQL = `SELECT product_id, unit_price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY product_id`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists an order, its line items, and the matching stock
// decrements in a single transaction. An out-of-stock line rolls everything
// back with an InsufficientStockError.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID, o.CustomerEmail, o.Subtotal, o.Discount, o.Total,
		o.CouponID, o.CouponCode, string(o.Status), string(o.PaymentStatus),
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	for _, item := range o.Items {
		if _, err := tx.Exec(ctx, insertOrderItemSQL, o.ID, item.ProductID, item.UnitPrice, item.Quantity); err != nil {
			return fmt.Errorf("creating order item %q: %w", item.ProductID, err)
		}
		tag, err := tx.Exec(ctx, decrementStockSQL, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("decrementing stock for %q: %w", item.ProductID, err)
		}
		if tag.RowsAffected() == 0 {
			return &order.InsufficientStockError{ProductID: item.ProductID}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// Delete removes an order and restores the stock its items consumed.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	items, err := r.listItems(ctx, tx, id)
	if err != nil {
		return err
	}
	for _, item := range items {
		restore := `UPDATE products SET stock = stock + $2 WHERE id = $1`
		if _, err := tx.Exec(ctx, restore, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("restoring stock for %q: %w", item.ProductID, err)
		}
	}

	tag, err := tx.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete of order %q: %w", id, err)
	}
	return nil
}

// GetByID returns an order with its line items, or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	items, err := r.listItems(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// List returns all orders, newest first, without line items.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdateStatus changes an order's fulfillment status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(status))
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// querier covers both pgxpool.Pool and pgx.Tx for read helpers.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *OrderRepository) listItems(ctx context.Context, q querier, orderID string) ([]order.OrderItem, error) {
	rows, err := q.Query(ctx, listOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing items of order %q: %w", orderID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.OrderItem, error) {
		var (
			item  order.OrderItem
			price decimal.Decimal
		)
		err := row.Scan(&item.ProductID, &price, &item.Quantity)
		item.UnitPrice = price
		return item, err
	})
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o             order.Order
		status        string
		paymentStatus string
	)
	err := row.Scan(
		&o.ID, &o.CustomerEmail, &o.Subtotal, &o.Discount, &o.Total,
		&o.CouponID, &o.CouponCode, &status, &paymentStatus, &o.CreatedAt,
	)
	o.Status = order.Status(status)
	o.PaymentStatus = order.PaymentStatus(paymentStatus)
	return o, err
}
