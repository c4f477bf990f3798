// Package payment defines payments recorded against orders.
package payment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a payment does not exist.
var ErrNotFound = errors.New("payment not found")

// Status enumerates payment lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Payment records money received (or attempted) for an order.
type Payment struct {
	ID        string
	OrderID   string
	Amount    decimal.Decimal
	Method    string
	Reference string
	Status    Status
	CreatedAt time.Time
}

// Repository defines persistence operations for payments. Confirm atomically
// marks the payment confirmed and flips the owning order's payment status to
// paid in the same transaction.
type Repository interface {
	List(ctx context.Context) ([]Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]Payment, error)
	Create(ctx context.Context, p *Payment) error
	Confirm(ctx context.Context, id string) error
	Fail(ctx context.Context, id string) error
}
