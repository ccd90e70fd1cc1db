package port

import (
	"context"

	"github.com/agrikart/checkout/internal/core/domain"
)

// PrimaryStore is the authoritative backend. A checkout only counts as
// placed once CreateOrder has succeeded here.
type PrimaryStore interface {
	CreateOrder(ctx context.Context, order domain.Order) error

	// UpdateOrderStatus transitions an existing order's fulfillment status
	UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error

	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)

	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	CreateAddress(ctx context.Context, addr domain.Address) error
	UpdateAddress(ctx context.Context, addr domain.Address) error
	DeleteAddress(ctx context.Context, userID, addressID string) error

	// SetDefaultAddress marks one address as the user's default and clears
	// the flag on every other address of that user, atomically.
	SetDefaultAddress(ctx context.Context, userID, addressID string) error
}
