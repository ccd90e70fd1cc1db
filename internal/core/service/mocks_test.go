package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agrikart/checkout/internal/core/domain"
	"github.com/agrikart/checkout/pkg/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics(t *testing.T) *metrics.CheckoutMetrics {
	t.Helper()
	return metrics.New(prometheus.NewRegistry())
}

type mockPrimary struct {
	mu          sync.Mutex
	createErr   error
	statusErr   error
	createCalls int
	statusCalls int
	lastOrder   domain.Order
	addresses   []domain.Address
}

func (m *mockPrimary) CreateOrder(ctx context.Context, order domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	m.lastOrder = order
	return m.createErr
}

func (m *mockPrimary) UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls++
	return m.statusErr
}

func (m *mockPrimary) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return nil, nil
}

func (m *mockPrimary) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Address
	for _, a := range m.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockPrimary) CreateAddress(ctx context.Context, addr domain.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses = append(m.addresses, addr)
	return nil
}

func (m *mockPrimary) UpdateAddress(ctx context.Context, addr domain.Address) error { return nil }
func (m *mockPrimary) DeleteAddress(ctx context.Context, userID, addressID string) error {
	return nil
}

func (m *mockPrimary) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.addresses {
		m.addresses[i].IsDefault = m.addresses[i].ID == addressID && m.addresses[i].UserID == userID
	}
	return nil
}

type mockSecondary struct {
	mu          sync.Mutex
	mirrorErrs  []error // consumed per call; nil once exhausted
	statusErr   error
	mirrorCalls int
	statusCalls int
}

func (m *mockSecondary) MirrorOrder(ctx context.Context, order domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mirrorCalls++
	if len(m.mirrorErrs) > 0 {
		err := m.mirrorErrs[0]
		m.mirrorErrs = m.mirrorErrs[1:]
		return err
	}
	return nil
}

func (m *mockSecondary) UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls++
	return m.statusErr
}

type mockSessions struct {
	mu      sync.Mutex
	claims  map[string]bool
	coupons map[string]string
}

func newMockSessions() *mockSessions {
	return &mockSessions{
		claims:  make(map[string]bool),
		coupons: make(map[string]string),
	}
}

func (m *mockSessions) ClaimRequest(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claims[key] {
		return false, nil
	}
	m.claims[key] = true
	return true, nil
}

func (m *mockSessions) ReleaseRequest(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, key)
	return nil
}

func (m *mockSessions) SetAppliedCoupon(ctx context.Context, sessionID, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coupons[sessionID] = code
	return nil
}

func (m *mockSessions) AppliedCoupon(ctx context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coupons[sessionID], nil
}

func (m *mockSessions) ClearAppliedCoupon(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.coupons, sessionID)
	return nil
}

type mockSink struct {
	mu         sync.Mutex
	placeErr   error
	placeCalls int
	lastOrder  domain.Order
}

func (m *mockSink) PlaceOrder(ctx context.Context, order domain.Order) (domain.OrderReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.placeCalls++
	m.lastOrder = order
	if m.placeErr != nil {
		return domain.OrderReceipt{}, m.placeErr
	}
	return domain.OrderReceipt{OrderNumber: domain.NewOrderNumber(), TotalAmount: order.TotalAmount}, nil
}

func (m *mockSink) UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	return nil
}

type mockSMSProvider struct {
	name  string
	err   error
	calls int
}

func (m *mockSMSProvider) Name() string { return m.name }

func (m *mockSMSProvider) SendSMS(ctx context.Context, phone, message string) error {
	m.calls++
	return m.err
}
