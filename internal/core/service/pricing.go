package service

import (
	"github.com/agrikart/checkout/internal/core/domain"
)

// PricingEngine turns cart contents and the selected discount instruments
// into a price breakdown. It is pure: no I/O, no state beyond the fee
// schedule, safe to call on every selection change for live previews.
type PricingEngine struct {
	fees domain.FeeSchedule
}

func NewPricingEngine(fees domain.FeeSchedule) *PricingEngine {
	return &PricingEngine{fees: fees}
}

// ComputeBreakdown prices the cart. The applied coupon may be nil. A coupon
// whose minimum order is no longer met contributes zero here; rejecting it
// outright is the apply operation's job.
//
// Both discounts compose additively when their conditions hold. The final
// total is clamped at zero so stacked discounts can never produce a
// negative payable amount.
func (e *PricingEngine) ComputeBreakdown(
	lines []domain.CartLine,
	payment domain.PaymentSelection,
	coupon *domain.CouponRule,
) (domain.PriceBreakdown, error) {

	if len(lines) == 0 {
		return domain.PriceBreakdown{}, ErrEmptyCart
	}

	subtotal := domain.Subtotal(lines)

	var upiDiscount int64
	if payment.QualifiesForUPIDiscount() {
		upiDiscount = domain.PercentOf(subtotal, domain.UPIDiscountPercent)
	}

	var couponDiscount int64
	if coupon != nil {
		couponDiscount = coupon.DiscountFor(subtotal)
	}

	total := subtotal + e.fees.Delivery + e.fees.Platform + e.fees.Handling - upiDiscount - couponDiscount
	if total < 0 {
		total = 0
	}

	return domain.PriceBreakdown{
		Subtotal:       subtotal,
		DeliveryFee:    e.fees.Delivery,
		PlatformFee:    e.fees.Platform,
		HandlingFee:    e.fees.Handling,
		UPIDiscount:    upiDiscount,
		CouponDiscount: couponDiscount,
		FinalTotal:     total,
	}, nil
}
