package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agrikart/checkout/internal/port"
	"github.com/agrikart/checkout/pkg/metrics"
)

var ErrNoSMSProvider = errors.New("no sms provider configured")

// Notifier dispatches OTP and order notifications over SMS. It uses the
// RequireAny policy: the send succeeds if either provider accepts it. This
// is deliberately the opposite of the order sink's RequirePrimary policy;
// neither provider is authoritative for a notification.
type Notifier struct {
	primary   port.SMSProvider
	secondary port.SMSProvider // optional
	log       *slog.Logger
	metrics   *metrics.CheckoutMetrics
}

func NewNotifier(primary, secondary port.SMSProvider, log *slog.Logger, m *metrics.CheckoutMetrics) *Notifier {
	return &Notifier{
		primary:   primary,
		secondary: secondary,
		log:       log,
		metrics:   m,
	}
}

func (n *Notifier) SendOTP(ctx context.Context, phone, otp string) error {
	return n.Send(ctx, phone, fmt.Sprintf("Your AgriKart verification code is %s", otp))
}

func (n *Notifier) Send(ctx context.Context, phone, message string) error {
	if n.primary == nil {
		return ErrNoSMSProvider
	}
	if n.secondary == nil {
		return n.send(ctx, n.primary, phone, message)
	}

	return dispatchDual(ctx, RequireAny,
		func(ctx context.Context) error {
			return n.send(ctx, n.primary, phone, message)
		},
		func(ctx context.Context) error {
			return n.send(ctx, n.secondary, phone, message)
		},
		nil,
	)
}

func (n *Notifier) send(ctx context.Context, p port.SMSProvider, phone, message string) error {
	err := p.SendSMS(ctx, phone, message)
	if err != nil {
		n.metrics.SMSDispatches.WithLabelValues(p.Name(), "error").Inc()
		n.log.Warn("sms dispatch failed", "provider", p.Name(), "error", err)
		return err
	}
	n.metrics.SMSDispatches.WithLabelValues(p.Name(), "ok").Inc()
	return nil
}
