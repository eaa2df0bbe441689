package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/fragrancedemumu/storefront-go/internal/cart"
	"github.com/fragrancedemumu/storefront-go/internal/promo"
)

type mockOrderCreator struct {
	reqs    []OrderRequest
	receipt *OrderReceipt
	err     error
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, req OrderRequest) (*OrderReceipt, error) {
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testItems() cart.State {
	return cart.State{
		{Product: cart.Product{ID: "p1", Name: "No.5", UnitPrice: d(20000)}, Quantity: 2},
	}
}

func TestSubmit_SendsSnapshotAndGeneratedID(t *testing.T) {
	backend := &mockOrderCreator{receipt: &OrderReceipt{OrderID: "ignored", Status: "PENDING", PaymentURL: "https://pay.example/x"}}
	s := NewSubmitter(backend, NewCalculator(d(3000)), testLogger())
	s.newID = func() string { return "order-1" }

	p := &promo.Applied{Code: "SAVE5000", Kind: promo.KindFixed, Amount: d(5000)}
	receipt, err := s.Submit(context.Background(), "u1", testItems(), p, ShippingDetails{RecipientName: "Mumu", Address: "Seoul", Phone: "010"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.PaymentURL != "https://pay.example/x" {
		t.Fatalf("payment url not passed through: %+v", receipt)
	}

	if len(backend.reqs) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(backend.reqs))
	}
	req := backend.reqs[0]
	if req.OrderID != "order-1" || req.UserID != "u1" {
		t.Fatalf("unexpected ids %+v", req)
	}
	if !req.Prices.Subtotal.Equal(d(40000)) || !req.Prices.Total.Equal(d(38000)) {
		t.Fatalf("price snapshot wrong: %+v", req.Prices)
	}
	if len(req.Items) != 1 || req.Items[0].Product.ID != "p1" {
		t.Fatalf("items not carried: %+v", req.Items)
	}
}

func TestSubmit_EmptyCart(t *testing.T) {
	s := NewSubmitter(&mockOrderCreator{}, NewCalculator(d(3000)), testLogger())
	if _, err := s.Submit(context.Background(), "u1", cart.State{}, nil, ShippingDetails{}); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestSubmit_BackendFailureSurfaces(t *testing.T) {
	backend := &mockOrderCreator{err: errors.New("backend down")}
	s := NewSubmitter(backend, NewCalculator(d(3000)), testLogger())

	_, err := s.Submit(context.Background(), "", testItems(), nil, ShippingDetails{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, backend.err) {
		t.Fatalf("backend error not wrapped: %v", err)
	}
}

func TestSubmit_GeneratesUniqueIDs(t *testing.T) {
	backend := &mockOrderCreator{receipt: &OrderReceipt{OrderID: "x", Status: "PENDING"}}
	s := NewSubmitter(backend, NewCalculator(d(3000)), testLogger())

	if _, err := s.Submit(context.Background(), "u1", testItems(), nil, ShippingDetails{}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(context.Background(), "u1", testItems(), nil, ShippingDetails{}); err != nil {
		t.Fatal(err)
	}
	if backend.reqs[0].OrderID == backend.reqs[1].OrderID {
		t.Fatal("each submission must carry a fresh order id")
	}
}
