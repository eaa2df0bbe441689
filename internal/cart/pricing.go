package cart

import "github.com/shopspring/decimal"

// ItemsCount is the total number of units across all lines.
func ItemsCount(s State) int {
	n := 0
	for _, li := range s {
		n += li.Quantity
	}
	return n
}

// Subtotal is the sum of unit price times quantity across all lines.
// Rounding for display is the caller's concern.
func Subtotal(s State) decimal.Decimal {
	total := decimal.Zero
	for _, li := range s {
		total = total.Add(li.Product.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	return total
}
