package service

import (
	"fmt"
	"strings"

	"github.com/agrikart/checkout/internal/core/domain"
)

type BlockReason string

const (
	ReasonMissingAddress          BlockReason = "missing_address"
	ReasonMissingPaymentMethod    BlockReason = "missing_payment_method"
	ReasonIncompleteUpiDetails    BlockReason = "incomplete_upi_details"
	ReasonIncompleteCardDetails   BlockReason = "incomplete_card_details"
	ReasonIncompleteBankSelection BlockReason = "incomplete_bank_selection"
	ReasonIncompleteEmiSelection  BlockReason = "incomplete_emi_selection"
	ReasonEmptyCart               BlockReason = "empty_cart"
)

// ValidationResult lists everything still blocking submission. An empty
// reason list means the checkout is ready to finalize.
type ValidationResult struct {
	Reasons []BlockReason
}

func (r ValidationResult) Ready() bool {
	return len(r.Reasons) == 0
}

// BlockedError is returned when finalization is attempted while blocked.
type BlockedError struct {
	Reasons []BlockReason
}

func (e *BlockedError) Error() string {
	parts := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		parts[i] = string(r)
	}
	return fmt.Sprintf("checkout blocked: %s", strings.Join(parts, ", "))
}

// CheckoutValidator gates order finalization. Every rule is checked
// independently so the caller can surface all missing fields at once
// instead of one per attempt.
type CheckoutValidator struct{}

func (CheckoutValidator) Validate(
	address *domain.Address,
	payment *domain.PaymentSelection,
	lines []domain.CartLine,
) ValidationResult {

	var reasons []BlockReason

	if address == nil {
		reasons = append(reasons, ReasonMissingAddress)
	}

	switch {
	case payment == nil || payment.Method == "":
		reasons = append(reasons, ReasonMissingPaymentMethod)
	case payment.Method == domain.PaymentUPI:
		if payment.UPI.UPIID == "" {
			reasons = append(reasons, ReasonIncompleteUpiDetails)
		}
	case payment.Method == domain.PaymentCard:
		c := payment.Card
		if c.Number == "" || c.Expiry == "" || c.CVV == "" || c.NameOnCard == "" {
			reasons = append(reasons, ReasonIncompleteCardDetails)
		}
	case payment.Method == domain.PaymentNetBanking:
		if payment.NetBanking.Bank == "" {
			reasons = append(reasons, ReasonIncompleteBankSelection)
		}
	case payment.Method == domain.PaymentEMI:
		if payment.EMI.TermMonths <= 0 {
			reasons = append(reasons, ReasonIncompleteEmiSelection)
		}
	default:
		reasons = append(reasons, ReasonMissingPaymentMethod)
	}

	// Re-asserted here even though pricing rejects empty carts: an order
	// must never be created from one.
	if len(lines) == 0 {
		reasons = append(reasons, ReasonEmptyCart)
	}

	return ValidationResult{Reasons: reasons}
}
