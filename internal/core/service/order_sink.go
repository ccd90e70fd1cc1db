package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrikart/checkout/internal/core/domain"
	"github.com/agrikart/checkout/internal/port"
	"github.com/agrikart/checkout/pkg/metrics"
)

// OrderSink persists finalized orders.
type OrderSink interface {
	PlaceOrder(ctx context.Context, order domain.Order) (domain.OrderReceipt, error)
	UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error
}

const (
	// mirrorAttempts bounds retries against the secondary store. The
	// primary write is never retried here: without server-side idempotency
	// a blind retry risks duplicate orders.
	mirrorAttempts = 3
	mirrorBackoff  = 200 * time.Millisecond
	mirrorTimeout  = 5 * time.Second
)

// DualWriteOrderSink writes orders to the authoritative primary store and
// best-effort-mirrors them to the secondary store. Secondary unavailability
// must never block or roll back a customer order.
type DualWriteOrderSink struct {
	primary   port.PrimaryStore
	secondary port.SecondaryStore
	log       *slog.Logger
	metrics   *metrics.CheckoutMetrics
}

func NewDualWriteOrderSink(
	primary port.PrimaryStore,
	secondary port.SecondaryStore,
	log *slog.Logger,
	m *metrics.CheckoutMetrics,
) *DualWriteOrderSink {
	return &DualWriteOrderSink{
		primary:   primary,
		secondary: secondary,
		log:       log,
		metrics:   m,
	}
}

// PlaceOrder finalizes the order under the RequirePrimary policy. The order
// number is generated before any network call so it can double as an
// idempotency key if primary retries are ever introduced.
func (s *DualWriteOrderSink) PlaceOrder(ctx context.Context, order domain.Order) (domain.OrderReceipt, error) {
	if order.OrderNumber == "" {
		order.OrderNumber = domain.NewOrderNumber()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Status = domain.OrderStatusPending
	order.PaymentStatus = domain.PaymentStatusCompleted

	err := dispatchDual(ctx, RequirePrimary,
		func(ctx context.Context) error {
			return s.primary.CreateOrder(ctx, order)
		},
		func(ctx context.Context) error {
			return s.mirror(ctx, order.OrderNumber, func(ctx context.Context) error {
				return s.secondary.MirrorOrder(ctx, order)
			})
		},
		func(err error) {
			s.metrics.MirrorFailures.Inc()
			s.log.Warn("order mirror failed",
				"order_number", order.OrderNumber, "error", err)
		},
	)
	if err != nil {
		s.metrics.PrimaryWriteFailures.Inc()
		s.log.Error("primary order write failed",
			"order_number", order.OrderNumber, "error", err)
		return domain.OrderReceipt{}, fmt.Errorf("%w: %v", ErrPrimaryWriteFailed, err)
	}

	s.metrics.OrdersPlaced.Inc()
	s.log.Info("order placed",
		"order_number", order.OrderNumber, "total", order.TotalAmount)

	return domain.OrderReceipt{
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		PlacedAt:    now,
	}, nil
}

// UpdateOrderStatus follows the same primary-authoritative policy as
// PlaceOrder.
func (s *DualWriteOrderSink) UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	err := dispatchDual(ctx, RequirePrimary,
		func(ctx context.Context) error {
			return s.primary.UpdateOrderStatus(ctx, orderNumber, status)
		},
		func(ctx context.Context) error {
			return s.mirror(ctx, orderNumber, func(ctx context.Context) error {
				return s.secondary.UpdateOrderStatus(ctx, orderNumber, status)
			})
		},
		func(err error) {
			s.metrics.MirrorFailures.Inc()
			s.log.Warn("status mirror failed",
				"order_number", orderNumber, "status", status, "error", err)
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPrimaryWriteFailed, err)
	}
	return nil
}

// mirror runs one secondary-store call with bounded retries. It detaches
// from the request's cancellation: the customer already has their success
// response riding on the primary write, and navigation away must not abort
// the mirror. A hung secondary is cut off by mirrorTimeout instead.
func (s *DualWriteOrderSink) mirror(ctx context.Context, orderNumber string, call func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mirrorTimeout)
	defer cancel()

	var err error
	for attempt := 1; attempt <= mirrorAttempts; attempt++ {
		if err = call(ctx); err == nil {
			return nil
		}
		if attempt == mirrorAttempts {
			break
		}
		s.metrics.MirrorRetries.Inc()
		s.log.Warn("retrying secondary store",
			"order_number", orderNumber, "attempt", attempt, "error", err)

		select {
		case <-time.After(mirrorBackoff):
		case <-ctx.Done():
			return err
		}
	}
	return err
}
