package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage reduces the eligible subtotal by a percentage (0-100).
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixedAmount subtracts a fixed monetary amount, capped at the subtotal.
	DiscountFixedAmount DiscountType = "fixed_amount"
	// DiscountFreeShipping waives shipping cost; the order subtotal is unchanged.
	DiscountFreeShipping DiscountType = "free_shipping"
)

// InclusionType governs how a product-specific coupon interprets its bound
// product set.
type InclusionType string

const (
	// InclusionInclude treats the bound set as an allow-list: at least one
	// cart line must match for the coupon to apply.
	InclusionInclude InclusionType = "include"
	// InclusionExclude treats the bound set as a deny-list: no cart line may
	// match.
	InclusionExclude InclusionType = "exclude"
)

var (
	// ErrNotFound is returned by repositories when no coupon matches a code or id.
	ErrNotFound = errors.New("coupon not found")
	// ErrUsageLimitReached is returned by the ledger when a conditional
	// usage_count increment finds the limit already exhausted.
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
	// ErrDuplicateCode is returned when creating a coupon whose code already exists.
	ErrDuplicateCode = errors.New("coupon code already exists")
)

// Coupon is a named discount rule with eligibility constraints.
type Coupon struct {
	ID                 string
	Code               string
	Description        string
	DiscountType       DiscountType
	Value              decimal.Decimal
	MinimumOrderAmount decimal.Decimal
	UsageLimit         *int
	UsageCount         int
	FirstTimeOnly      bool
	Active             bool
	StartsAt           *time.Time
	ExpiresAt          *time.Time
	ProductSpecific    bool
	InclusionType      InclusionType
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Item is a single cart line evaluated for discount eligibility.
type Item struct {
	ProductID string
	Price     decimal.Decimal
	Quantity  int
}

// Result is the outcome of validating a coupon code against a cart.
// Business-rule rejections are reported here with Valid=false and a
// customer-displayable Message; they are never errors.
type Result struct {
	Valid          bool
	DiscountAmount decimal.Decimal
	Message        string
	CouponID       string
}

// Repository provides coupon persistence. FindByCode matches the normalized
// code case-insensitively and returns ErrNotFound when nothing matches.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	ProductIDs(ctx context.Context, couponID string) ([]string, error)
}

// AdminRepository is the full coupon management surface used by the admin
// API. Create and Update replace the coupon's bound product set atomically.
// Delete cascades to the bound product rows.
type AdminRepository interface {
	Repository
	List(ctx context.Context) ([]Coupon, error)
	GetByID(ctx context.Context, id string) (*Coupon, error)
	Create(ctx context.Context, c *Coupon, productIDs []string) error
	Update(ctx context.Context, c *Coupon, productIDs []string) error
	Delete(ctx context.Context, id string) error
}

// Ledger records successful redemptions. Redeem must be atomic: it inserts a
// redemption row keyed by order id (making retries idempotent) and
// conditionally increments the coupon's usage count, returning
// ErrUsageLimitReached when a concurrent redemption exhausted the limit first.
type Ledger interface {
	Redeem(ctx context.Context, couponID, orderID, customerEmail string, amount decimal.Decimal) error
}

// PurchaseHistory answers whether a customer has a completed prior purchase,
// backing the first-time-only check.
type PurchaseHistory interface {
	HasCompletedPurchase(ctx context.Context, email string) (bool, error)
}

// NormalizeCode folds a customer-typed code to its canonical form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Subtotal returns the sum of price * quantity across all items.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}
