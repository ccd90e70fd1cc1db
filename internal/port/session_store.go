package port

import "context"

// SessionStore holds short-lived checkout state: submission idempotency
// claims and the at-most-one applied coupon per session.
type SessionStore interface {
	// ClaimRequest sets an idempotency key, returning false if it was
	// already claimed.
	ClaimRequest(ctx context.Context, key string) (bool, error)

	// ReleaseRequest frees a claim so a failed submission can be retried.
	ReleaseRequest(ctx context.Context, key string) error

	SetAppliedCoupon(ctx context.Context, sessionID, code string) error

	// AppliedCoupon returns the session's coupon code, or "" if none.
	AppliedCoupon(ctx context.Context, sessionID string) (string, error)

	ClearAppliedCoupon(ctx context.Context, sessionID string) error
}
