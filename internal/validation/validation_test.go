package validation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fragrancedemumu/storefront-go/internal/checkout"
)

func TestAddItemRequest_Valid(t *testing.T) {
	v := New()

	req := AddItemRequest{
		Product: ProductPayload{
			ID:        "p1",
			Name:      "Eau de Mumu",
			Brand:     "Mumu",
			UnitPrice: decimal.NewFromInt(52000),
			Stock:     7,
		},
		Quantity: 2,
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestAddItemRequest_NonPositivePrice(t *testing.T) {
	v := New()

	req := AddItemRequest{
		Product:  ProductPayload{ID: "p1", Name: "x", UnitPrice: decimal.Zero, Stock: 1},
		Quantity: 1,
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for zero unit price, got nil")
	}

	req.Product.UnitPrice = decimal.NewFromInt(-100)
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for negative unit price, got nil")
	}
}

func TestAddItemRequest_MissingFields(t *testing.T) {
	v := New()

	req := AddItemRequest{
		// product id and name missing
		Product:  ProductPayload{UnitPrice: decimal.NewFromInt(100), Stock: -1},
		Quantity: 0,
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation errors for missing required fields, got nil")
	}
}

func TestSubmitOrderRequest_ShippingRequired(t *testing.T) {
	v := New()

	req := SubmitOrderRequest{
		Shipping: checkout.ShippingDetails{RecipientName: "Mumu"},
	}
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for missing address and phone, got nil")
	}

	req.Shipping.Address = "12 Perfume St, Seoul"
	req.Shipping.Phone = "010-0000-0000"
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestLoginRequest_Email(t *testing.T) {
	v := New()

	if err := v.Struct(LoginRequest{UserID: "u1"}); err != nil {
		t.Fatalf("email is optional: %v", err)
	}
	if err := v.Struct(LoginRequest{UserID: "u1", Email: "not-an-email"}); err == nil {
		t.Fatal("expected validation error for malformed email, got nil")
	}
}
