package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agrikart/checkout/internal/core/domain"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrAddressNotFound = errors.New("address not found")
)

// MySQLAdapter is the primary store: the authoritative record of orders
// and the user's address book. Item and address snapshots are stored as
// JSON columns alongside the scalar order fields.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO orders
			(order_number, user_id, customer_email, total_amount, status,
			 payment_status, payment_method, items, shipping_address,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.OrderNumber, order.UserID, order.CustomerEmail, order.TotalAmount,
		order.Status, order.PaymentStatus, order.PaymentMethod,
		items, address, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = NOW()
		WHERE order_number = ?`,
		status, orderNumber,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var (
		order   domain.Order
		items   []byte
		address []byte
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT order_number, user_id, customer_email, total_amount, status,
		       payment_status, payment_method, items, shipping_address,
		       created_at, updated_at
		FROM orders WHERE order_number = ?`, orderNumber,
	).Scan(
		&order.OrderNumber, &order.UserID, &order.CustomerEmail,
		&order.TotalAmount, &order.Status, &order.PaymentStatus,
		&order.PaymentMethod, &items, &address,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(address, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	return &order, nil
}

func (m *MySQLAdapter) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, user_id, name, phone, address_line, city, state, pincode,
		       type, is_default, created_at, updated_at
		FROM addresses WHERE user_id = ?
		ORDER BY is_default DESC, created_at`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query addresses: %w", err)
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Name, &a.Phone, &a.AddressLine,
			&a.City, &a.State, &a.Pincode, &a.Type, &a.IsDefault,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (m *MySQLAdapter) CreateAddress(ctx context.Context, addr domain.Address) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO addresses
			(id, user_id, name, phone, address_line, city, state, pincode,
			 type, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		addr.ID, addr.UserID, addr.Name, addr.Phone, addr.AddressLine,
		addr.City, addr.State, addr.Pincode, addr.Type, addr.IsDefault,
		addr.CreatedAt, addr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) UpdateAddress(ctx context.Context, addr domain.Address) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE addresses
		SET name = ?, phone = ?, address_line = ?, city = ?, state = ?,
		    pincode = ?, type = ?, updated_at = NOW()
		WHERE id = ? AND user_id = ?`,
		addr.Name, addr.Phone, addr.AddressLine, addr.City, addr.State,
		addr.Pincode, addr.Type, addr.ID, addr.UserID,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (m *MySQLAdapter) DeleteAddress(ctx context.Context, userID, addressID string) error {
	result, err := m.db.ExecContext(ctx, `
		DELETE FROM addresses WHERE id = ? AND user_id = ?`,
		addressID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// SetDefaultAddress clears the default flag for all of the user's
// addresses and sets it on the chosen one in a single transaction, so at
// most one default ever holds.
func (m *MySQLAdapter) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE addresses SET is_default = FALSE, updated_at = NOW()
		WHERE user_id = ?`, userID,
	)
	if err != nil {
		return fmt.Errorf("clear defaults: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE addresses SET is_default = TRUE, updated_at = NOW()
		WHERE id = ? AND user_id = ?`,
		addressID, userID,
	)
	if err != nil {
		return fmt.Errorf("set default: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrAddressNotFound
	}

	return tx.Commit()
}
