package domain

// Amounts are whole currency units (rupees). The storefront never
// charges fractional units, so int64 arithmetic is exact.

// PercentOf returns percent% of amount, rounded half-up.
func PercentOf(amount int64, percent int64) int64 {
	return (amount*percent + 50) / 100
}
