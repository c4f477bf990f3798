// Package order defines customer orders and the checkout service.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status enumerates fulfillment states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentStatus enumerates payment states tracked on the order itself.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// ErrNotFound is returned when an order does not exist.
var ErrNotFound = errors.New("order not found")

// Order is a placed customer order with pricing and discount details.
// Orders are created unpaid; payments are recorded separately.
type Order struct {
	ID            string
	CustomerEmail string
	Items         []OrderItem
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	CouponID      string
	CouponCode    string
	Status        Status
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
}

// OrderItem is a single line item with the unit price captured at checkout.
type OrderItem struct {
	ProductID string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Repository defines persistence operations for orders. Create must also
// decrement product stock for every line, returning InsufficientStockError
// when any product lacks inventory, all within one transaction.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
