// Package customer tracks per-customer discount eligibility state.
package customer

import (
	"context"
	"time"
)

// DiscountRecord holds the durable first-purchase flag consulted by
// first-time-only coupons. One row per customer email, created on the first
// completed purchase.
type DiscountRecord struct {
	Email                  string
	FirstPurchaseCompleted bool
	CreatedAt              time.Time
}

// Repository defines persistence operations for customer discount records.
type Repository interface {
	// HasCompletedPurchase reports whether the customer has at least one
	// completed prior purchase. Unknown customers report false.
	HasCompletedPurchase(ctx context.Context, email string) (bool, error)
	// MarkPurchaseCompleted upserts the customer's record with
	// first_purchase_completed set to true.
	MarkPurchaseCompleted(ctx context.Context, email string) error
}
