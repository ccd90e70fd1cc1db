package domain

// CartLine is a read-only snapshot of one cart entry. The cart itself is
// owned by the storefront session; checkout only ever receives copies.
type CartLine struct {
	ProductID string `json:"product_id"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.UnitPrice * int64(l.Quantity)
	}
	return total
}
