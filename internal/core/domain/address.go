package domain

import "time"

type AddressType string

const (
	AddressHome AddressType = "home"
	AddressWork AddressType = "work"
)

// Address is a delivery address owned by one user. At most one address per
// user carries IsDefault; the write path enforces it by clearing the rest.
type Address struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	Phone       string      `json:"phone"`
	AddressLine string      `json:"address_line"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Pincode     string      `json:"pincode"`
	Type        AddressType `json:"type"`
	IsDefault   bool        `json:"is_default"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
