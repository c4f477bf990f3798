package coupon

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatLabel maps a discount type and value to a display label.
func FormatLabel(t DiscountType, value decimal.Decimal) string {
	switch t {
	case DiscountPercentage:
		return fmt.Sprintf("%s%% OFF", trimZeros(value))
	case DiscountFixedAmount:
		return fmt.Sprintf("$%s OFF", trimZeros(value))
	case DiscountFreeShipping:
		return "FREE SHIPPING"
	default:
		return ""
	}
}

// FinalPrice applies a discount to a base price. Percentage and fixed
// discounts floor at zero; free shipping leaves the base price unchanged
// because shipping is adjusted by a separate calculator. Full precision is
// kept; callers round at the display edge.
func FinalPrice(base decimal.Decimal, t DiscountType, value decimal.Decimal) decimal.Decimal {
	switch t {
	case DiscountPercentage:
		return floorAtZero(base.Mul(hundred.Sub(value)).Div(hundred))
	case DiscountFixedAmount:
		return floorAtZero(base.Sub(value))
	case DiscountFreeShipping:
		return base
	default:
		return base
	}
}

// Amount returns the monetary discount a coupon yields on the given base.
// Free-shipping coupons reduce the item subtotal by zero.
func Amount(t DiscountType, value, base decimal.Decimal) decimal.Decimal {
	return floorAtZero(base.Sub(FinalPrice(base, t, value)))
}

func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// trimZeros renders a decimal without a trailing fractional part when it is
// a whole number, so labels read "20% OFF" rather than "20.00% OFF".
func trimZeros(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.Truncate(0).String()
	}
	return d.String()
}
