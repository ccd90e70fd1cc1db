package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agrikart/checkout/internal/core/domain"
	"github.com/agrikart/checkout/internal/port"
)

var ErrIncompleteAddress = errors.New("address is missing required fields")

// AddressService manages the user's address book on the primary store.
// Addresses live only there; they are never mirrored.
type AddressService struct {
	store port.PrimaryStore
}

func NewAddressService(store port.PrimaryStore) *AddressService {
	return &AddressService{store: store}
}

func (s *AddressService) List(ctx context.Context, userID string) ([]domain.Address, error) {
	return s.store.ListAddresses(ctx, userID)
}

func (s *AddressService) Create(ctx context.Context, addr domain.Address) (domain.Address, error) {
	if err := validateAddress(addr); err != nil {
		return domain.Address{}, err
	}
	addr.ID = uuid.NewString()
	if addr.Type == "" {
		addr.Type = domain.AddressHome
	}
	now := time.Now()
	addr.CreatedAt = now
	addr.UpdatedAt = now

	if err := s.store.CreateAddress(ctx, addr); err != nil {
		return domain.Address{}, err
	}
	if addr.IsDefault {
		if err := s.store.SetDefaultAddress(ctx, addr.UserID, addr.ID); err != nil {
			return domain.Address{}, err
		}
	}
	return addr, nil
}

func (s *AddressService) Update(ctx context.Context, addr domain.Address) error {
	if err := validateAddress(addr); err != nil {
		return err
	}
	addr.UpdatedAt = time.Now()
	return s.store.UpdateAddress(ctx, addr)
}

func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	return s.store.DeleteAddress(ctx, userID, addressID)
}

// SetDefault promotes one address; the store clears the flag on every
// other address of the user in the same transaction.
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID string) error {
	return s.store.SetDefaultAddress(ctx, userID, addressID)
}

func validateAddress(addr domain.Address) error {
	if addr.UserID == "" || addr.Name == "" || addr.Phone == "" ||
		addr.AddressLine == "" || addr.City == "" || addr.State == "" || addr.Pincode == "" {
		return ErrIncompleteAddress
	}
	return nil
}
