package domain

import (
	"math/rand"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Order is the terminal artifact of a successful checkout. Items and the
// shipping address are snapshots; later edits to the cart or address book
// do not touch placed orders.
type Order struct {
	OrderNumber     string
	UserID          string
	CustomerEmail   string
	Items           []CartLine
	TotalAmount     int64
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	PaymentMethod   PaymentMethod
	ShippingAddress Address
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderReceipt is what the customer gets back once the primary write has
// succeeded.
type OrderReceipt struct {
	OrderNumber string
	TotalAmount int64
	PlacedAt    time.Time
}

const (
	orderNumberPrefix   = "#AG"
	orderNumberLength   = 9
	orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewOrderNumber generates a human-readable order number: "#AG" followed by
// nine random base-36 characters. Collisions are possible but not checked;
// at this order volume the space is large enough.
func NewOrderNumber() string {
	var b strings.Builder
	b.WriteString(orderNumberPrefix)
	for i := 0; i < orderNumberLength; i++ {
		b.WriteByte(orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))])
	}
	return b.String()
}
