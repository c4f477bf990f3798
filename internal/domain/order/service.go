package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atelierhq/atelier-api/internal/domain/coupon"
	"github.com/atelierhq/atelier-api/internal/domain/customer"
	"github.com/atelierhq/atelier-api/internal/domain/product"
)

// Sentinel errors for checkout input validation.
var (
	ErrEmptyItems   = errors.New("items required")
	ErrInvalidEmail = errors.New("a valid customer email is required")
)

// ProductNotFoundError indicates a requested product does not exist or is
// not available for sale.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// InsufficientStockError indicates a product lacks inventory for the
// requested quantity.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

// CouponRejectedError carries the customer-displayable reason a coupon was
// refused. It covers both up-front validation failures and the last-moment
// race where a concurrent checkout exhausts the usage limit.
type CouponRejectedError struct {
	Message string
}

func (e *CouponRejectedError) Error() string { return e.Message }

// CouponUnavailableError wraps an infrastructure failure during coupon
// validation, so callers can offer a retry instead of telling the customer
// their code is wrong.
type CouponUnavailableError struct {
	Err error
}

func (e *CouponUnavailableError) Error() string {
	return fmt.Sprintf("coupon validation unavailable: %v", e.Err)
}

func (e *CouponUnavailableError) Unwrap() error { return e.Err }

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	CustomerEmail string
	Items         []OrderItem
	CouponCode    string
}

// Service encapsulates checkout business logic.
type Service struct {
	products  product.Repository
	coupons   coupon.Validator
	ledger    coupon.Ledger
	orders    Repository
	customers customer.Repository
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	products product.Repository,
	coupons coupon.Validator,
	ledger coupon.Ledger,
	orders Repository,
	customers customer.Repository,
) *Service {
	return &Service{
		products:  products,
		coupons:   coupons,
		ledger:    ledger,
		orders:    orders,
		customers: customers,
	}
}

// PlaceOrder validates the cart, re-validates the coupon immediately before
// the order is written, persists the order, and records the redemption.
// A redemption race loss deletes the just-created order and reports the
// coupon as rejected, so a discounted order is never left standing with a
// stale usage count.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	email := strings.TrimSpace(strings.ToLower(req.CustomerEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	// Capture live unit prices; the stored cart is never trusted for pricing.
	items := make([]OrderItem, len(req.Items))
	couponItems := make([]coupon.Item, len(req.Items))
	subtotal := decimal.Zero
	for i, item := range req.Items {
		p, ok := byID[item.ProductID]
		if !ok || !p.Active {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		if p.Stock < item.Quantity {
			return nil, &InsufficientStockError{ProductID: item.ProductID}
		}
		items[i] = OrderItem{ProductID: p.ID, UnitPrice: p.Price, Quantity: item.Quantity}
		couponItems[i] = coupon.Item{ProductID: p.ID, Price: p.Price, Quantity: item.Quantity}
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	var applied *coupon.Result
	discount := decimal.Zero
	code := coupon.NormalizeCode(req.CouponCode)
	if code != "" {
		res, err := s.coupons.Validate(ctx, code, email, couponItems)
		if err != nil {
			return nil, &CouponUnavailableError{Err: err}
		}
		if !res.Valid {
			return nil, &CouponRejectedError{Message: res.Message}
		}
		applied = res
		discount = res.DiscountAmount
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	o := &Order{
		ID:            uuid.New().String(),
		CustomerEmail: email,
		Items:         items,
		Subtotal:      subtotal.Round(2),
		Discount:      discount.Round(2),
		Total:         total.Round(2),
		CouponCode:    code,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
	}
	if applied != nil {
		o.CouponID = applied.CouponID
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	if applied != nil {
		if err := s.redeem(ctx, applied, o); err != nil {
			return nil, err
		}
	}

	// The discount record is advisory state for first-time-only coupons; a
	// failed upsert must not unwind an already-placed order.
	if err := s.customers.MarkPurchaseCompleted(ctx, email); err != nil {
		zctx.From(ctx).Warn("mark first purchase failed",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}

	return o, nil
}

// redeem records the coupon redemption for a freshly created order and
// deletes the order when the redemption cannot be recorded.
func (s *Service) redeem(ctx context.Context, res *coupon.Result, o *Order) error {
	err := s.ledger.Redeem(ctx, res.CouponID, o.ID, o.CustomerEmail, res.DiscountAmount)
	if err == nil {
		return nil
	}

	if delErr := s.orders.Delete(ctx, o.ID); delErr != nil {
		zctx.From(ctx).Error("rollback of discounted order failed",
			zap.String("order_id", o.ID),
			zap.Error(delErr),
		)
	}

	if errors.Is(err, coupon.ErrUsageLimitReached) {
		return &CouponRejectedError{Message: "This coupon has reached its usage limit"}
	}
	return errors.Wrap(err, "record redemption")
}
