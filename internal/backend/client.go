// Package backend is the REST client for the shop backend. The backend owns
// all server-side state (user carts, promotions, orders, catalog); this
// client only relays the contract the storefront core relies on.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fragrancedemumu/storefront-go/internal/cart"
	"github.com/fragrancedemumu/storefront-go/internal/checkout"
	"github.com/fragrancedemumu/storefront-go/internal/filter"
	"github.com/fragrancedemumu/storefront-go/internal/promo"
)

// DefaultTimeout is the blanket request timeout applied to every call.
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx backend response. Message is the backend-provided
// human-readable reason when the body carried one.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

// Client talks to the shop backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// mutationPayload mirrors a local cart mutation. Version is the cart's
// monotonic mutation counter so the backend can detect and drop mutations
// arriving out of order.
type mutationPayload struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Version   int64  `json:"version"`

	Product *cart.Product `json:"product,omitempty"`
}

// FetchCart retrieves the user's stored cart.
func (c *Client) FetchCart(ctx context.Context, userID string) (cart.State, error) {
	var out struct {
		Items cart.State `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/cart", nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = cart.State{}
	}
	return out.Items, nil
}

// AddCartItem mirrors a local add.
func (c *Client) AddCartItem(ctx context.Context, userID string, item cart.LineItem, version int64) error {
	p := item.Product
	return c.do(ctx, http.MethodPost, "/cart/items", mutationPayload{
		UserID:    userID,
		ProductID: p.ID,
		Quantity:  item.Quantity,
		Version:   version,
		Product:   &p,
	}, nil)
}

// UpdateCartItem mirrors a local quantity change.
func (c *Client) UpdateCartItem(ctx context.Context, userID, productID string, quantity int, version int64) error {
	return c.do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(productID), mutationPayload{
		UserID:   userID,
		Quantity: quantity,
		Version:  version,
	}, nil)
}

// RemoveCartItem mirrors a local remove.
func (c *Client) RemoveCartItem(ctx context.Context, userID, productID string, version int64) error {
	return c.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(productID), mutationPayload{
		UserID:  userID,
		Version: version,
	}, nil)
}

// ClearCart mirrors a local clear.
func (c *Client) ClearCart(ctx context.Context, userID string, version int64) error {
	return c.do(ctx, http.MethodPost, "/cart/clear", mutationPayload{
		UserID:  userID,
		Version: version,
	}, nil)
}

// ValidatePromotion asks the backend to validate a promotion code against the
// current subtotal. A 4xx response carries the backend's rejection message
// and comes back as a *promo.RejectedError.
func (c *Client) ValidatePromotion(ctx context.Context, code string, subtotal decimal.Decimal) (*promo.Applied, error) {
	body := struct {
		Code     string          `json:"code"`
		Subtotal decimal.Decimal `json:"subtotal"`
	}{Code: code, Subtotal: subtotal}

	var out promo.Applied
	if err := c.do(ctx, http.MethodPost, "/promotions/apply", body, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 && apiErr.Message != "" {
			return nil, &promo.RejectedError{Message: apiErr.Message}
		}
		return nil, err
	}
	return &out, nil
}

// CreateOrder submits the final order with its price snapshot.
func (c *Client) CreateOrder(ctx context.Context, req checkout.OrderRequest) (*checkout.OrderReceipt, error) {
	var out checkout.OrderReceipt
	if err := c.do(ctx, http.MethodPost, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Product is a catalog entry as listed by the backend.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	Category  string          `json:"category,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image_ref,omitempty"`
	Stock     int             `json:"stock"`
}

// ListProducts proxies the catalog listing with the given filters encoded
// into the query string.
func (c *Client) ListProducts(ctx context.Context, f filter.Filters) ([]Product, error) {
	path := "/products"
	if qs := f.Encode(); qs != "" {
		path += "?" + qs
	}
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// do issues one request. Non-2xx responses become errors; 4xx on the
// promotion endpoint style (a JSON body with a "message" field) is converted
// to promo.RejectedError so callers can surface it verbatim.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Method: method, Path: path}
		var rej struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if jerr := json.Unmarshal(raw, &rej); jerr == nil {
			apiErr.Message = rej.Message
			if apiErr.Message == "" {
				apiErr.Message = rej.Error
			}
		}
		return apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}
