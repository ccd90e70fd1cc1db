package port

import (
	"context"

	"github.com/agrikart/checkout/internal/core/domain"
)

// SecondaryStore is the best-effort mirror used for backup/analytics. Its
// failures must never surface to the customer.
type SecondaryStore interface {
	MirrorOrder(ctx context.Context, order domain.Order) error
	UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error
}
