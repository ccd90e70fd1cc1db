package domain

// Fee defaults. Currently zero across the board, kept as named values so a
// deployment can override them through configuration without touching the
// engine.
const (
	DefaultDeliveryFee int64 = 0
	DefaultPlatformFee int64 = 0
	DefaultHandlingFee int64 = 0

	// UPIDiscountPercent is the incentive for paying via UPI with a UPI ID
	// entered, as a percentage of the subtotal.
	UPIDiscountPercent int64 = 10
)

// FeeSchedule carries the per-order fees added on top of the subtotal.
type FeeSchedule struct {
	Delivery int64
	Platform int64
	Handling int64
}

func DefaultFees() FeeSchedule {
	return FeeSchedule{
		Delivery: DefaultDeliveryFee,
		Platform: DefaultPlatformFee,
		Handling: DefaultHandlingFee,
	}
}

// PriceBreakdown is the itemized result of pricing a cart. It is ephemeral:
// recomputed from inputs on every change, never mutated in place.
type PriceBreakdown struct {
	Subtotal       int64 `json:"subtotal"`
	DeliveryFee    int64 `json:"delivery_fee"`
	PlatformFee    int64 `json:"platform_fee"`
	HandlingFee    int64 `json:"handling_fee"`
	UPIDiscount    int64 `json:"upi_discount"`
	CouponDiscount int64 `json:"coupon_discount"`
	FinalTotal     int64 `json:"final_total"`
}
