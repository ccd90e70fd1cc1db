package domain

import (
	"errors"
	"fmt"
	"strings"
)

type DiscountType string

const (
	DiscountFlat       DiscountType = "flat"
	DiscountPercentage DiscountType = "percentage"
)

var (
	ErrInvalidCoupon  = errors.New("invalid coupon code")
	ErrCouponMinOrder = errors.New("order subtotal below coupon minimum")
)

// CouponRule maps a coupon code to its discount behaviour and the minimum
// order subtotal required to redeem it.
type CouponRule struct {
	Code     string
	Type     DiscountType
	Value    int64 // flat amount, or percent for percentage coupons
	MinOrder int64
}

// couponRules is the closed allow-list of redeemable codes.
var couponRules = map[string]CouponRule{
	"WELCOME50": {Code: "WELCOME50", Type: DiscountFlat, Value: 50, MinOrder: 500},
	"SAVE10":    {Code: "SAVE10", Type: DiscountFlat, Value: 20, MinOrder: 500},
	"FIRST20":   {Code: "FIRST20", Type: DiscountFlat, Value: 20, MinOrder: 0},
	"UPI10":     {Code: "UPI10", Type: DiscountPercentage, Value: 10, MinOrder: 300},
}

// NormalizeCouponCode maps user input to the canonical code form.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LookupCoupon resolves a code against the allow-list. Codes are
// case-insensitive. Unknown codes return ErrInvalidCoupon.
func LookupCoupon(code string) (CouponRule, error) {
	rule, ok := couponRules[NormalizeCouponCode(code)]
	if !ok {
		return CouponRule{}, ErrInvalidCoupon
	}
	return rule, nil
}

// Eligible reports whether the subtotal meets the rule's minimum order.
func (r CouponRule) Eligible(subtotal int64) bool {
	return subtotal >= r.MinOrder
}

// DiscountFor returns the discount amount for the given subtotal. Callers
// must check Eligible first; an ineligible rule contributes nothing.
func (r CouponRule) DiscountFor(subtotal int64) int64 {
	if !r.Eligible(subtotal) {
		return 0
	}
	switch r.Type {
	case DiscountPercentage:
		return PercentOf(subtotal, r.Value)
	default:
		if r.Value > subtotal {
			return subtotal
		}
		return r.Value
	}
}

// ValidateCouponRules sanity-checks the allow-list at startup so a bad
// entry fails fast instead of at apply time.
func ValidateCouponRules() error {
	for code, rule := range couponRules {
		if code != rule.Code {
			return fmt.Errorf("coupon %s: key does not match rule code %s", code, rule.Code)
		}
		if rule.Value <= 0 {
			return fmt.Errorf("coupon %s: non-positive value %d", code, rule.Value)
		}
		if rule.Type == DiscountPercentage && rule.Value > 100 {
			return fmt.Errorf("coupon %s: percentage above 100", code)
		}
		if rule.MinOrder < 0 {
			return fmt.Errorf("coupon %s: negative minimum order", code)
		}
	}
	return nil
}
