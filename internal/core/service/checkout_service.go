package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agrikart/checkout/internal/core/domain"
	"github.com/agrikart/checkout/internal/port"
)

// CheckoutRequest carries everything the caller has selected for one
// checkout attempt. All state is owned by the caller's session; the
// service itself is stateless.
type CheckoutRequest struct {
	RequestID     string
	SessionID     string
	UserID        string
	CustomerEmail string
	Lines         []domain.CartLine
	Address       *domain.Address
	Payment       *domain.PaymentSelection
}

// CheckoutService drives a checkout attempt end to end: gate, price,
// snapshot, persist.
type CheckoutService struct {
	pricing   *PricingEngine
	validator CheckoutValidator
	sink      OrderSink
	sessions  port.SessionStore
	log       *slog.Logger
}

func NewCheckoutService(
	pricing *PricingEngine,
	sink OrderSink,
	sessions port.SessionStore,
	log *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		pricing:  pricing,
		sink:     sink,
		sessions: sessions,
		log:      log,
	}
}

// Preview prices the current cart and selections without any side effect,
// for the live total shown while the customer is still choosing.
func (s *CheckoutService) Preview(
	ctx context.Context,
	sessionID string,
	lines []domain.CartLine,
	payment *domain.PaymentSelection,
) (domain.PriceBreakdown, error) {

	var pay domain.PaymentSelection
	if payment != nil {
		pay = *payment
	}
	coupon, err := s.sessionCoupon(ctx, sessionID)
	if err != nil {
		return domain.PriceBreakdown{}, err
	}
	return s.pricing.ComputeBreakdown(lines, pay, coupon)
}

// ApplyCoupon makes the code the session's single active coupon. Unknown
// codes and carts below the coupon's minimum are rejected outright rather
// than silently contributing zero.
func (s *CheckoutService) ApplyCoupon(
	ctx context.Context,
	sessionID, code string,
	lines []domain.CartLine,
) (domain.CouponRule, error) {

	rule, err := domain.LookupCoupon(code)
	if err != nil {
		return domain.CouponRule{}, err
	}
	if !rule.Eligible(domain.Subtotal(lines)) {
		return domain.CouponRule{}, domain.ErrCouponMinOrder
	}
	if err := s.sessions.SetAppliedCoupon(ctx, sessionID, rule.Code); err != nil {
		return domain.CouponRule{}, fmt.Errorf("store applied coupon: %w", err)
	}
	return rule, nil
}

func (s *CheckoutService) RemoveCoupon(ctx context.Context, sessionID string) error {
	return s.sessions.ClearAppliedCoupon(ctx, sessionID)
}

// Checkout validates the attempt, prices it and hands the finalized order
// to the sink. A blocked attempt returns *BlockedError before any write,
// redis or otherwise, has happened.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (domain.OrderReceipt, error) {
	result := s.validator.Validate(req.Address, req.Payment, req.Lines)
	if !result.Ready() {
		return domain.OrderReceipt{}, &BlockedError{Reasons: result.Reasons}
	}

	coupon, err := s.sessionCoupon(ctx, req.SessionID)
	if err != nil {
		return domain.OrderReceipt{}, err
	}

	breakdown, err := s.pricing.ComputeBreakdown(req.Lines, *req.Payment, coupon)
	if err != nil {
		return domain.OrderReceipt{}, err
	}

	claimKey := "checkout:" + req.RequestID
	ok, err := s.sessions.ClaimRequest(ctx, claimKey)
	if err != nil {
		return domain.OrderReceipt{}, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return domain.OrderReceipt{}, ErrDuplicateRequest
	}

	order := domain.Order{
		UserID:          req.UserID,
		CustomerEmail:   req.CustomerEmail,
		Items:           append([]domain.CartLine(nil), req.Lines...),
		TotalAmount:     breakdown.FinalTotal,
		PaymentMethod:   req.Payment.Method,
		ShippingAddress: *req.Address,
	}

	receipt, err := s.sink.PlaceOrder(ctx, order)
	if err != nil {
		// Free the claim so the customer's retry is not rejected as a
		// duplicate of an attempt that never produced an order.
		if relErr := s.sessions.ReleaseRequest(ctx, claimKey); relErr != nil {
			s.log.Warn("failed to release checkout claim",
				"request_id", req.RequestID, "error", relErr)
		}
		return domain.OrderReceipt{}, err
	}

	if req.SessionID != "" {
		if clrErr := s.sessions.ClearAppliedCoupon(ctx, req.SessionID); clrErr != nil {
			s.log.Warn("failed to clear applied coupon",
				"session_id", req.SessionID, "error", clrErr)
		}
	}

	return receipt, nil
}

// sessionCoupon resolves the session's applied coupon, if any. A stored
// code that no longer resolves is treated as no coupon.
func (s *CheckoutService) sessionCoupon(ctx context.Context, sessionID string) (*domain.CouponRule, error) {
	if sessionID == "" {
		return nil, nil
	}
	code, err := s.sessions.AppliedCoupon(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load applied coupon: %w", err)
	}
	if code == "" {
		return nil, nil
	}
	rule, err := domain.LookupCoupon(code)
	if err != nil {
		s.log.Warn("stored coupon no longer valid", "code", code)
		return nil, nil
	}
	return &rule, nil
}
