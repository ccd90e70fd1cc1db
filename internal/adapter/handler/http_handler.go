package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agrikart/checkout/internal/adapter/hostinger"
	"github.com/agrikart/checkout/internal/adapter/storage"
	"github.com/agrikart/checkout/internal/core/domain"
	"github.com/agrikart/checkout/internal/core/service"
)

// CustomerDirectory is the read-side of the secondary store used by the
// customer lookup passthrough.
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, id string) (*hostinger.Customer, error)
}

type HTTPHandler struct {
	checkout  *service.CheckoutService
	addresses *service.AddressService
	sink      service.OrderSink
	notifier  *service.Notifier
	customers CustomerDirectory
}

func NewHTTPHandler(
	checkout *service.CheckoutService,
	addresses *service.AddressService,
	sink service.OrderSink,
	notifier *service.Notifier,
	customers CustomerDirectory,
) *HTTPHandler {
	return &HTTPHandler{
		checkout:  checkout,
		addresses: addresses,
		sink:      sink,
		notifier:  notifier,
		customers: customers,
	}
}

func (h *HTTPHandler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/checkout", h.Checkout)
		r.Post("/checkout/preview", h.Preview)

		r.Post("/coupons/apply", h.ApplyCoupon)
		r.Delete("/coupons", h.RemoveCoupon)

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", h.ListAddresses)
			r.Post("/", h.CreateAddress)
			r.Put("/{id}", h.UpdateAddress)
			r.Delete("/{id}", h.DeleteAddress)
			r.Put("/{id}/default", h.SetDefaultAddress)
		})

		r.Put("/orders/{orderNumber}/status", h.UpdateOrderStatus)
		r.Post("/otp/send", h.SendOTP)
		r.Get("/customers/{id}", h.GetCustomer)
	})
	return r
}

type cartLineDTO struct {
	ProductID string `json:"product_id"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type paymentDTO struct {
	Method string `json:"method"`
	UpiID  string `json:"upi_id"`
	Card   struct {
		Number     string `json:"number"`
		Expiry     string `json:"expiry"`
		CVV        string `json:"cvv"`
		NameOnCard string `json:"name_on_card"`
	} `json:"card"`
	Bank      string `json:"bank"`
	EmiMonths int    `json:"emi_months"`
}

type checkoutRequestDTO struct {
	RequestID string          `json:"request_id"`
	SessionID string          `json:"session_id"`
	UserID    string          `json:"user_id"`
	Email     string          `json:"email"`
	Items     []cartLineDTO   `json:"items"`
	Address   *domain.Address `json:"address"`
	Payment   *paymentDTO     `json:"payment"`
}

type checkoutResponseDTO struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	OrderNumber string   `json:"order_number,omitempty"`
	TotalAmount int64    `json:"total_amount,omitempty"`
	Reasons     []string `json:"reasons,omitempty"`
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, checkoutResponseDTO{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, checkoutResponseDTO{
			Success: false,
			Message: "missing user_id",
		})
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	receipt, err := h.checkout.Checkout(r.Context(), service.CheckoutRequest{
		RequestID:     req.RequestID,
		SessionID:     req.SessionID,
		UserID:        req.UserID,
		CustomerEmail: req.Email,
		Lines:         toCartLines(req.Items),
		Address:       req.Address,
		Payment:       toPaymentSelection(req.Payment),
	})
	if err != nil {
		var blocked *service.BlockedError
		switch {
		case errors.As(err, &blocked):
			writeJSON(w, http.StatusBadRequest, checkoutResponseDTO{
				Success: false,
				Message: "checkout blocked",
				Reasons: reasonStrings(blocked.Reasons),
			})
		case errors.Is(err, service.ErrDuplicateRequest):
			writeJSON(w, http.StatusConflict, checkoutResponseDTO{
				Success: false,
				Message: "duplicate request",
			})
		case errors.Is(err, service.ErrEmptyCart):
			writeJSON(w, http.StatusBadRequest, checkoutResponseDTO{
				Success: false,
				Message: "cart is empty",
			})
		default:
			writeJSON(w, http.StatusInternalServerError, checkoutResponseDTO{
				Success: false,
				Message: "order could not be placed, please try again",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponseDTO{
		Success:     true,
		Message:     "order placed successfully",
		OrderNumber: receipt.OrderNumber,
		TotalAmount: receipt.TotalAmount,
	})
}

type previewRequestDTO struct {
	SessionID string        `json:"session_id"`
	Items     []cartLineDTO `json:"items"`
	Payment   *paymentDTO   `json:"payment"`
}

func (h *HTTPHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "invalid request body",
		})
		return
	}

	breakdown, err := h.checkout.Preview(
		r.Context(), req.SessionID, toCartLines(req.Items), toPaymentSelection(req.Payment))
	if err != nil {
		status := http.StatusInternalServerError
		message := "internal error"
		if errors.Is(err, service.ErrEmptyCart) {
			status = http.StatusBadRequest
			message = "cart is empty"
		}
		writeJSON(w, status, map[string]any{"success": false, "message": message})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"breakdown": breakdown,
	})
}

type applyCouponDTO struct {
	SessionID string        `json:"session_id"`
	Code      string        `json:"code"`
	Items     []cartLineDTO `json:"items"`
}

func (h *HTTPHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "invalid request body",
		})
		return
	}

	rule, err := h.checkout.ApplyCoupon(r.Context(), req.SessionID, req.Code, toCartLines(req.Items))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCoupon):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false, "message": "Invalid Coupon",
			})
		case errors.Is(err, domain.ErrCouponMinOrder):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false, "message": "order does not meet the coupon minimum",
			})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false, "message": "internal error",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "coupon applied",
		"code":    rule.Code,
	})
}

func (h *HTTPHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "missing session_id",
		})
		return
	}
	if err := h.checkout.RemoveCoupon(r.Context(), sessionID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "message": "internal error",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "coupon removed"})
}

func (h *HTTPHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "missing user_id",
		})
		return
	}
	addresses, err := h.addresses.List(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "message": "internal error",
		})
		return
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "addresses": addresses})
}

func (h *HTTPHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var addr domain.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "invalid request body",
		})
		return
	}
	created, err := h.addresses.Create(r.Context(), addr)
	if err != nil {
		h.writeAddressError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "address": created})
}

func (h *HTTPHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var addr domain.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "invalid request body",
		})
		return
	}
	addr.ID = chi.URLParam(r, "id")
	if err := h.addresses.Update(r.Context(), addr); err != nil {
		h.writeAddressError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "address updated"})
}

func (h *HTTPHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if err := h.addresses.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.writeAddressError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "address deleted"})
}

type setDefaultDTO struct {
	UserID string `json:"user_id"`
}

func (h *HTTPHandler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	var req setDefaultDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "invalid request body",
		})
		return
	}
	if err := h.addresses.SetDefault(r.Context(), req.UserID, chi.URLParam(r, "id")); err != nil {
		h.writeAddressError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "default address updated"})
}

type statusUpdateDTO struct {
	Status string `json:"status"`
}

func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "invalid request body",
		})
		return
	}

	// order numbers contain '#' and arrive percent-encoded
	orderNumber, err := url.PathUnescape(chi.URLParam(r, "orderNumber"))
	if err != nil || orderNumber == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "invalid order number",
		})
		return
	}
	err = h.sink.UpdateOrderStatus(r.Context(), orderNumber, domain.OrderStatus(req.Status))
	if err != nil {
		status := http.StatusInternalServerError
		message := "status update failed"
		if errors.Is(err, storage.ErrOrderNotFound) {
			status = http.StatusNotFound
			message = "order not found"
		}
		writeJSON(w, status, map[string]any{"success": false, "message": message})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "status updated"})
}

type sendOTPDTO struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (h *HTTPHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" || req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": "missing phone or code",
		})
		return
	}
	if err := h.notifier.SendOTP(r.Context(), req.Phone, req.Code); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"success": false, "message": "otp could not be sent",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "otp sent"})
}

func (h *HTTPHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"success": false, "message": "customer lookup failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "customer": customer})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeAddressError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrIncompleteAddress):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "message": err.Error(),
		})
	case errors.Is(err, storage.ErrAddressNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false, "message": "address not found",
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "message": "internal error",
		})
	}
}

func toCartLines(items []cartLineDTO) []domain.CartLine {
	lines := make([]domain.CartLine, len(items))
	for i, it := range items {
		lines[i] = domain.CartLine{
			ProductID: it.ProductID,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}
	return lines
}

func toPaymentSelection(p *paymentDTO) *domain.PaymentSelection {
	if p == nil {
		return nil
	}
	return &domain.PaymentSelection{
		Method: domain.PaymentMethod(p.Method),
		UPI:    domain.UPIDetails{UPIID: p.UpiID},
		Card: domain.CardDetails{
			Number:     p.Card.Number,
			Expiry:     p.Card.Expiry,
			CVV:        p.Card.CVV,
			NameOnCard: p.Card.NameOnCard,
		},
		NetBanking: domain.NetBankingDetails{Bank: p.Bank},
		EMI:        domain.EMIDetails{TermMonths: p.EmiMonths},
	}
}

func reasonStrings(reasons []service.BlockReason) []string {
	out := make([]string, len(reasons))
	for i, r := range reasons {
		out[i] = string(r)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
