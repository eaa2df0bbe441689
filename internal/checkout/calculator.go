// Package checkout turns cart state and an applied promotion into the final
// payable amount and submits the order to the shop backend.
package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/fragrancedemumu/storefront-go/internal/cart"
	"github.com/fragrancedemumu/storefront-go/internal/promo"
)

// DefaultShippingFee is the flat rate charged on every order unless a
// free-shipping promotion waives it.
var DefaultShippingFee = decimal.NewFromInt(3000)

// FreeShippingCode is honored even if the backend reports its kind
// differently; kept for parity with the storefront's advertised code.
const FreeShippingCode = "FREE30000"

// Calculator derives checkout totals. Zero value is not usable; construct
// with NewCalculator.
type Calculator struct {
	flatShippingFee decimal.Decimal
}

func NewCalculator(flatShippingFee decimal.Decimal) Calculator {
	return Calculator{flatShippingFee: flatShippingFee}
}

// ShippingFee is the flat rate, or zero when the applied promotion waives
// shipping.
func (c Calculator) ShippingFee(p *promo.Applied) decimal.Decimal {
	if p != nil && (p.Kind == promo.KindFreeShipping || p.Code == FreeShippingCode) {
		return decimal.Zero
	}
	return c.flatShippingFee
}

// FinalTotal combines subtotal, discount and shipping. The discounted
// subtotal is clamped at zero before shipping is added, so an oversized
// discount can never produce a negative payable amount.
func (c Calculator) FinalTotal(subtotal decimal.Decimal, p *promo.Applied) decimal.Decimal {
	discounted := subtotal
	if p != nil {
		discounted = discounted.Sub(p.Amount)
	}
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	return discounted.Add(c.ShippingFee(p))
}

// PriceSnapshot is the immutable price breakdown captured at submit time and
// sent with the order-create call.
type PriceSnapshot struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
	PromoCode   string          `json:"promo_code,omitempty"`
}

// Snapshot computes the full breakdown for the given cart state and
// promotion.
func (c Calculator) Snapshot(items cart.State, p *promo.Applied) PriceSnapshot {
	snap := PriceSnapshot{
		Subtotal:    cart.Subtotal(items),
		Discount:    decimal.Zero,
		ShippingFee: c.ShippingFee(p),
	}
	if p != nil {
		snap.Discount = p.Amount
		snap.PromoCode = p.Code
	}
	snap.Total = c.FinalTotal(snap.Subtotal, p)
	return snap
}
