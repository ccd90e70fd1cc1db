package port

import "context"

// SMSProvider delivers a text message through one channel. Dispatch policy
// across providers is decided by the caller, not here.
type SMSProvider interface {
	Name() string
	SendSMS(ctx context.Context, phone, message string) error
}
