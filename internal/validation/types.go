package validation

import (
	"github.com/shopspring/decimal"

	"github.com/fragrancedemumu/storefront-go/internal/checkout"
)

// ProductPayload is the product snapshot a caller supplies when adding to
// the cart. Validated here so arbitrary shapes never reach the cart.
type ProductPayload struct {
	ID        string          `json:"id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Brand     string          `json:"brand,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image_ref,omitempty"`
	Stock     int             `json:"stock" validate:"min=0"`
}

// AddItemRequest is the payload for POST /cart/items.
type AddItemRequest struct {
	Product  ProductPayload `json:"product" validate:"required"`
	Quantity int            `json:"quantity" validate:"required,min=1"`
}

// UpdateQtyRequest is the payload for PUT /cart/items/{id}. Quantity is an
// absolute set; zero or negative removes the line, so no min here.
type UpdateQtyRequest struct {
	Quantity int `json:"quantity"`
}

// ApplyPromotionRequest is the payload for POST /checkout/promotion.
type ApplyPromotionRequest struct {
	Code string `json:"code" validate:"required"`
}

// SubmitOrderRequest is the payload for POST /checkout/order.
type SubmitOrderRequest struct {
	Shipping checkout.ShippingDetails `json:"shipping" validate:"required"`
}

// LoginRequest is the payload for POST /session/login.
type LoginRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
}
