package coupon

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Validator decides whether a coupon code applies to a cart and computes the
// resulting discount. Business-rule rejections come back as a Result with
// Valid=false; the error return is reserved for infrastructure failures
// (store unreachable), which callers surface as retryable.
type Validator interface {
	Validate(ctx context.Context, code, customerEmail string, items []Item) (*Result, error)
}

// RepoValidator implements Validator against a coupon Repository and a
// customer PurchaseHistory.
type RepoValidator struct {
	coupons Repository
	history PurchaseHistory
	now     func() time.Time
}

// NewRepoValidator creates a RepoValidator backed by the given stores.
func NewRepoValidator(coupons Repository, history PurchaseHistory) *RepoValidator {
	return &RepoValidator{coupons: coupons, history: history, now: time.Now}
}

// Validate applies the eligibility checks in a fixed precedence order:
// lookup, active flag, time window, usage limit, minimum order amount,
// first-time restriction, product scope. The first failing check determines
// the message; later checks are not evaluated.
func (v *RepoValidator) Validate(ctx context.Context, code, customerEmail string, items []Item) (*Result, error) {
	code = NormalizeCode(code)
	if code == "" {
		return invalid("Invalid coupon code"), nil
	}
	if len(items) == 0 {
		return invalid("Your cart is empty"), nil
	}

	c, err := v.coupons.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalid("Invalid coupon code"), nil
		}
		return nil, errors.Wrap(err, "lookup coupon")
	}

	if !c.Active {
		return invalid("This coupon is no longer active"), nil
	}

	now := v.now()
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return invalid("This coupon is not valid yet"), nil
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return invalid("This coupon has expired"), nil
	}

	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return invalid("This coupon has reached its usage limit"), nil
	}

	// The order total is computed exactly once here; redemption reuses the
	// amount from this result rather than recomputing.
	total := Subtotal(items)
	if total.LessThan(c.MinimumOrderAmount) {
		return invalid(fmt.Sprintf(
			"A minimum order of $%s is required to use this coupon",
			c.MinimumOrderAmount.StringFixed(2),
		)), nil
	}

	if c.FirstTimeOnly {
		returning, err := v.history.HasCompletedPurchase(ctx, customerEmail)
		if err != nil {
			return nil, errors.Wrap(err, "check purchase history")
		}
		if returning {
			return invalid("This coupon is only available to first-time customers"), nil
		}
	}

	base := total
	if c.ProductSpecific {
		bound, err := v.coupons.ProductIDs(ctx, c.ID)
		if err != nil {
			return nil, errors.Wrap(err, "load coupon products")
		}
		eligible, ok := eligibleBase(c.InclusionType, bound, items, total)
		if !ok {
			return invalid("This coupon does not apply to the items in your cart"), nil
		}
		base = eligible
	}

	return &Result{
		Valid:          true,
		DiscountAmount: Amount(c.DiscountType, c.Value, base),
		Message:        "Coupon applied: " + FormatLabel(c.DiscountType, c.Value),
		CouponID:       c.ID,
	}, nil
}

// eligibleBase resolves the discount base for a product-specific coupon.
//
// Include: at least one cart line must be in the bound set, and the discount
// applies to the matching lines' subtotal only. Exclude: no cart line may be
// in the bound set; the discount applies to the full order total.
func eligibleBase(t InclusionType, bound []string, items []Item, total decimal.Decimal) (decimal.Decimal, bool) {
	set := make(map[string]struct{}, len(bound))
	for _, id := range bound {
		set[id] = struct{}{}
	}

	if t == InclusionExclude {
		for _, item := range items {
			if _, hit := set[item.ProductID]; hit {
				return decimal.Zero, false
			}
		}
		return total, true
	}

	matched := decimal.Zero
	any := false
	for _, item := range items {
		if _, hit := set[item.ProductID]; hit {
			matched = matched.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			any = true
		}
	}
	return matched, any
}

func invalid(msg string) *Result {
	return &Result{Valid: false, DiscountAmount: decimal.Zero, Message: msg}
}
