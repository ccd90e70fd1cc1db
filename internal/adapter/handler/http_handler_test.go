package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrikart/checkout/internal/adapter/hostinger"
	"github.com/agrikart/checkout/internal/core/domain"
	"github.com/agrikart/checkout/internal/core/service"
	"github.com/agrikart/checkout/pkg/metrics"
)

type fakeSink struct {
	placeCalls int
	statusErr  error
}

func (f *fakeSink) PlaceOrder(ctx context.Context, order domain.Order) (domain.OrderReceipt, error) {
	f.placeCalls++
	return domain.OrderReceipt{OrderNumber: domain.NewOrderNumber(), TotalAmount: order.TotalAmount}, nil
}

func (f *fakeSink) UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	return f.statusErr
}

type fakeSessions struct {
	claims  map[string]bool
	coupons map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{claims: map[string]bool{}, coupons: map[string]string{}}
}

func (f *fakeSessions) ClaimRequest(ctx context.Context, key string) (bool, error) {
	if f.claims[key] {
		return false, nil
	}
	f.claims[key] = true
	return true, nil
}

func (f *fakeSessions) ReleaseRequest(ctx context.Context, key string) error {
	delete(f.claims, key)
	return nil
}

func (f *fakeSessions) SetAppliedCoupon(ctx context.Context, sessionID, code string) error {
	f.coupons[sessionID] = code
	return nil
}

func (f *fakeSessions) AppliedCoupon(ctx context.Context, sessionID string) (string, error) {
	return f.coupons[sessionID], nil
}

func (f *fakeSessions) ClearAppliedCoupon(ctx context.Context, sessionID string) error {
	delete(f.coupons, sessionID)
	return nil
}

type fakePrimary struct {
	addresses []domain.Address
}

func (f *fakePrimary) CreateOrder(ctx context.Context, order domain.Order) error { return nil }
func (f *fakePrimary) UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	return nil
}
func (f *fakePrimary) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return nil, nil
}
func (f *fakePrimary) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	return f.addresses, nil
}
func (f *fakePrimary) CreateAddress(ctx context.Context, addr domain.Address) error {
	f.addresses = append(f.addresses, addr)
	return nil
}
func (f *fakePrimary) UpdateAddress(ctx context.Context, addr domain.Address) error { return nil }
func (f *fakePrimary) DeleteAddress(ctx context.Context, userID, addressID string) error {
	return nil
}
func (f *fakePrimary) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	return nil
}

type fakeSMS struct{ err error }

func (f *fakeSMS) Name() string { return "fake" }
func (f *fakeSMS) SendSMS(ctx context.Context, phone, message string) error {
	return f.err
}

type fakeDirectory struct{}

func (fakeDirectory) GetCustomer(ctx context.Context, id string) (*hostinger.Customer, error) {
	return &hostinger.Customer{ID: id, Name: "Ravi"}, nil
}

func newTestHandler(t *testing.T, sink *fakeSink) *HTTPHandler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())

	checkout := service.NewCheckoutService(
		service.NewPricingEngine(domain.DefaultFees()),
		sink,
		newFakeSessions(),
		log,
	)
	addresses := service.NewAddressService(&fakePrimary{})
	notifier := service.NewNotifier(&fakeSMS{}, nil, log, m)

	return NewHTTPHandler(checkout, addresses, sink, notifier, fakeDirectory{})
}

func doRequest(t *testing.T, h *HTTPHandler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func checkoutBody() map[string]any {
	return map[string]any{
		"request_id": "req-1",
		"session_id": "sess-1",
		"user_id":    "user-1",
		"email":      "ravi@example.com",
		"items": []map[string]any{
			{"product_id": "organic-fertilizer", "unit_price": 299, "quantity": 1},
			{"product_id": "drip-irrigation-kit", "unit_price": 799, "quantity": 1},
		},
		"address": map[string]any{
			"id": "addr-1", "user_id": "user-1", "name": "Ravi",
			"phone": "9876543210", "address_line": "12 Farm Road",
			"city": "Nashik", "state": "Maharashtra", "pincode": "422001",
		},
		"payment": map[string]any{"method": "upi", "upi_id": "farmer@upi"},
	}
}

func TestCheckoutEndpoint_Success(t *testing.T) {
	sink := &fakeSink{}
	h := newTestHandler(t, sink)

	rec := doRequest(t, h, http.MethodPost, "/api/checkout", checkoutBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp checkoutResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Regexp(t, `^#AG[0-9A-Z]{9}$`, resp.OrderNumber)
	assert.EqualValues(t, 988, resp.TotalAmount)
	assert.Equal(t, 1, sink.placeCalls)
}

func TestCheckoutEndpoint_Blocked(t *testing.T) {
	sink := &fakeSink{}
	h := newTestHandler(t, sink)

	body := checkoutBody()
	delete(body, "address")
	body["payment"] = map[string]any{"method": "upi"} // no UPI id either

	rec := doRequest(t, h, http.MethodPost, "/api/checkout", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp checkoutResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.ElementsMatch(t, []string{"missing_address", "incomplete_upi_details"}, resp.Reasons)
	assert.Equal(t, 0, sink.placeCalls)
}

func TestCheckoutEndpoint_Duplicate(t *testing.T) {
	h := newTestHandler(t, &fakeSink{})

	first := doRequest(t, h, http.MethodPost, "/api/checkout", checkoutBody())
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, h, http.MethodPost, "/api/checkout", checkoutBody())
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestApplyCouponEndpoint_Invalid(t *testing.T) {
	h := newTestHandler(t, &fakeSink{})

	rec := doRequest(t, h, http.MethodPost, "/api/coupons/apply", map[string]any{
		"session_id": "sess-1",
		"code":       "BOGUS",
		"items": []map[string]any{
			{"product_id": "p", "unit_price": 600, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Coupon")
}

func TestApplyCouponEndpoint_BelowMinimum(t *testing.T) {
	h := newTestHandler(t, &fakeSink{})

	rec := doRequest(t, h, http.MethodPost, "/api/coupons/apply", map[string]any{
		"session_id": "sess-1",
		"code":       "WELCOME50",
		"items": []map[string]any{
			{"product_id": "p", "unit_price": 100, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakeSink{})

	rec := doRequest(t, h, http.MethodPost, "/api/checkout/preview", map[string]any{
		"session_id": "sess-1",
		"items": []map[string]any{
			{"product_id": "p", "unit_price": 500, "quantity": 1},
		},
		"payment": map[string]any{"method": "upi", "upi_id": "farmer@upi"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success   bool                  `json:"success"`
		Breakdown domain.PriceBreakdown `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 50, resp.Breakdown.UPIDiscount)
	assert.EqualValues(t, 450, resp.Breakdown.FinalTotal)
}

func TestAddressEndpoints(t *testing.T) {
	h := newTestHandler(t, &fakeSink{})

	rec := doRequest(t, h, http.MethodPost, "/api/addresses", map[string]any{
		"user_id": "user-1", "name": "Ravi", "phone": "9876543210",
		"address_line": "12 Farm Road", "city": "Nashik",
		"state": "Maharashtra", "pincode": "422001",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, h, http.MethodGet, "/api/addresses?user_id=user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Addresses []domain.Address `json:"addresses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Addresses, 1)
	assert.Equal(t, domain.AddressHome, resp.Addresses[0].Type)

	// incomplete address is a field-level rejection
	rec = doRequest(t, h, http.MethodPost, "/api/addresses", map[string]any{
		"user_id": "user-1", "name": "Ravi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendOTPEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakeSink{})

	rec := doRequest(t, h, http.MethodPost, "/api/otp/send", map[string]any{
		"phone": "9876543210", "code": "482913",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/otp/send", map[string]any{"phone": "9876543210"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakeSink{})

	rec := doRequest(t, h, http.MethodPut, "/api/orders/%23AGABC123XYZ/status", map[string]any{
		"status": "shipped",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetCustomerEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakeSink{})

	rec := doRequest(t, h, http.MethodGet, "/api/customers/cust-7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ravi")
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakeSink{})
	rec := doRequest(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
