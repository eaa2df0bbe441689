package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fragrancedemumu/storefront-go/internal/cart"
	"github.com/fragrancedemumu/storefront-go/internal/promo"
)

// ShippingDetails is the checkout form data forwarded with the order.
type ShippingDetails struct {
	RecipientName string `json:"recipient_name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Note          string `json:"note,omitempty"`
}

// OrderRequest is the payload for the backend order-create endpoint. Prices
// are a snapshot taken at submit time; the backend does not recompute them
// from the items.
type OrderRequest struct {
	OrderID  string          `json:"order_id"`
	UserID   string          `json:"user_id,omitempty"`
	Items    cart.State      `json:"items"`
	Prices   PriceSnapshot   `json:"prices"`
	Shipping ShippingDetails `json:"shipping"`
}

// OrderReceipt is the backend's acknowledgement. PaymentURL points at the
// payment gateway's invoice page; the caller redirects the user there.
type OrderReceipt struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	PaymentURL string `json:"payment_url,omitempty"`
}

// OrderCreator is the backend order-create endpoint.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderReceipt, error)
}

var ErrEmptyCart = errors.New("cannot submit an order for an empty cart")

// Submitter builds the final order payload and sends it. Unlike cart mirror
// calls this is synchronous: a failure aborts the checkout and leaves the
// cart untouched so the user can retry.
type Submitter struct {
	backend OrderCreator
	calc    Calculator
	log     logrus.FieldLogger
	newID   func() string
}

func NewSubmitter(backend OrderCreator, calc Calculator, log logrus.FieldLogger) *Submitter {
	return &Submitter{
		backend: backend,
		calc:    calc,
		log:     log,
		newID:   uuid.NewString,
	}
}

// Submit snapshots prices for the given cart state and promotion and creates
// the order. The generated order id doubles as the idempotency key for the
// backend, so a retried submission cannot double-charge.
func (s *Submitter) Submit(ctx context.Context, userID string, items cart.State, p *promo.Applied, shipping ShippingDetails) (*OrderReceipt, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	req := OrderRequest{
		OrderID:  s.newID(),
		UserID:   userID,
		Items:    items.Clone(),
		Prices:   s.calc.Snapshot(items, p),
		Shipping: shipping,
	}
	receipt, err := s.backend.CreateOrder(ctx, req)
	if err != nil {
		s.log.WithError(err).WithField("order_id", req.OrderID).Error("checkout: order submission failed")
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"order_id": receipt.OrderID,
		"total":    req.Prices.Total.String(),
	}).Info("checkout: order created")
	return receipt, nil
}
