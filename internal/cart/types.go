package cart

import "github.com/shopspring/decimal"

// Product is the denormalized snapshot stored alongside a cart line.
// It is captured at add-to-cart time and not refreshed afterwards.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image_ref,omitempty"`
	Stock     int             `json:"stock"`
}

// LineItem is one product-and-quantity pair in the cart.
// Quantity is always >= 1; a line that would drop to 0 is removed instead.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// State is the ordered collection of line items. Order carries no meaning
// beyond display stability: a product keeps its position across quantity
// changes.
type State []LineItem

// Clone returns a copy safe to hand out to readers.
func (s State) Clone() State {
	if s == nil {
		return State{}
	}
	out := make(State, len(s))
	copy(out, s)
	return out
}

// indexOf returns the position of the line for productID, or -1.
func (s State) indexOf(productID string) int {
	for i, li := range s {
		if li.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Op identifies a cart mutation for observers and mirror calls.
type Op string

const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpUpdate  Op = "update"
	OpClear   Op = "clear"
	OpReplace Op = "replace" // state pushed from the server; never mirrored back
)

// Event describes a completed mutation. State is a snapshot taken after the
// mutation was applied; Version is the cart's monotonic mutation counter.
type Event struct {
	Op        Op
	ProductID string
	Quantity  int
	Version   int64
	State     State
}
