package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// register struct-level validation for AddItemRequest: decimal fields
	// can't carry gt/min tags, so the price check lives here.
	v.RegisterStructValidation(addItemStructValidation, AddItemRequest{})
	v.RegisterStructValidation(submitOrderStructValidation, SubmitOrderRequest{})

	return v
}

// addItemStructValidation verifies the product snapshot carries a positive unit price.
func addItemStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(AddItemRequest)

	if !req.Product.UnitPrice.IsPositive() {
		sl.ReportError(req.Product.UnitPrice, "product.unit_price", "UnitPrice", "unit_price_positive", "")
	}
}

// submitOrderStructValidation requires the shipping form fields the backend
// refuses to default.
func submitOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(SubmitOrderRequest)

	if req.Shipping.RecipientName == "" {
		sl.ReportError(req.Shipping.RecipientName, "shipping.recipient_name", "RecipientName", "required", "")
	}
	if req.Shipping.Address == "" {
		sl.ReportError(req.Shipping.Address, "shipping.address", "Address", "required", "")
	}
	if req.Shipping.Phone == "" {
		sl.ReportError(req.Shipping.Phone, "shipping.phone", "Phone", "required", "")
	}
}
