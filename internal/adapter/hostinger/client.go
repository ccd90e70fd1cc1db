// Package hostinger is the REST client for the secondary store: an
// externally hosted backup/analytics backend. Every endpoint answers with
// a {success, error} envelope instead of HTTP error semantics alone.
package hostinger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/agrikart/checkout/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type orderPayload struct {
	OrderID       string        `json:"orderId"`
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	CustomerPhone string        `json:"customerPhone"`
	Items         []itemPayload `json:"items"`
	TotalAmount   int64         `json:"totalAmount"`
	PaymentMethod string        `json:"paymentMethod"`
	Address       string        `json:"address"`
}

type itemPayload struct {
	ProductID string `json:"productId"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

type statusPayload struct {
	Status string `json:"status"`
}

type smsPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Customer is the secondary store's customer record.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// MirrorOrder pushes the order to the secondary store. The schema differs
// from the primary's (flattened customer fields, plain-text address) but
// carries the same semantic content.
func (c *Client) MirrorOrder(ctx context.Context, order domain.Order) error {
	items := make([]itemPayload, len(order.Items))
	for i, line := range order.Items {
		items[i] = itemPayload{
			ProductID: line.ProductID,
			Price:     line.UnitPrice,
			Quantity:  line.Quantity,
		}
	}

	addr := order.ShippingAddress
	payload := orderPayload{
		OrderID:       order.OrderNumber,
		CustomerName:  addr.Name,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: addr.Phone,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: string(order.PaymentMethod),
		Address: fmt.Sprintf("%s, %s, %s %s",
			addr.AddressLine, addr.City, addr.State, addr.Pincode),
	}

	return c.do(ctx, http.MethodPost, "/orders", payload, nil)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	// order numbers start with '#', which must not become a URL fragment
	path := fmt.Sprintf("/orders/%s/status", url.PathEscape(orderNumber))
	return c.do(ctx, http.MethodPut, path, statusPayload{Status: string(status)}, nil)
}

func (c *Client) SendSMS(ctx context.Context, phone, message string) error {
	return c.do(ctx, http.MethodPost, "/send-sms", smsPayload{Phone: phone, Message: message}, nil)
}

// Name identifies the client when used as an SMS provider.
func (c *Client) Name() string {
	return "hostinger"
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodGet, "/customers/"+id, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: decode response (http %d): %w", method, path, resp.StatusCode, err)
	}
	if !env.Success {
		return fmt.Errorf("%s %s: api error: %s", method, path, env.Error)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s %s: decode data: %w", method, path, err)
		}
	}
	return nil
}
