package cart

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Storage persists the cart across restarts.
//
// Load never fails: an absent or unreadable snapshot yields an empty state.
// A Save error is reported to the caller for logging only; the in-memory
// state stays authoritative for the session either way.
type Storage interface {
	Load() State
	Save(State) error
}

var (
	ErrInvalidQuantity = errors.New("quantity must be >= 1")
	ErrInvalidProduct  = errors.New("product snapshot missing id")
)

// Cart is the single owner of the cart state. All mutations go through the
// four operations below; readers get copies. Observers registered with
// Subscribe are invoked synchronously after each mutation, inside the same
// lock, so they see events in mutation order.
type Cart struct {
	mu        sync.Mutex
	items     State
	version   int64
	storage   Storage
	log       logrus.FieldLogger
	observers []func(Event)
}

// New loads the initial state from storage and returns a ready cart.
func New(storage Storage, log logrus.FieldLogger) *Cart {
	return &Cart{
		items:   storage.Load(),
		storage: storage,
		log:     log,
	}
}

// Items returns a snapshot of the current state.
func (c *Cart) Items() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Clone()
}

// Version returns the monotonic mutation counter. It starts at 0 and is
// bumped by every mutation, including server replaces.
func (c *Cart) Version() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Subscribe registers an observer for mutation events. Not safe to call
// concurrently with mutations; wire observers up before serving traffic.
func (c *Cart) Subscribe(fn func(Event)) {
	c.observers = append(c.observers, fn)
}

// Add puts quantity units of product into the cart. If a line for the
// product already exists its quantity is increased; otherwise a new line is
// appended. No stock clamping happens here.
func (c *Cart) Add(p Product, quantity int) error {
	if p.ID == "" {
		return ErrInvalidProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.items.indexOf(p.ID); i >= 0 {
		c.items[i].Quantity += quantity
	} else {
		c.items = append(c.items, LineItem{Product: p, Quantity: quantity})
	}
	c.commit(OpAdd, p.ID, quantity)
	return nil
}

// Remove drops the line for productID. Removing an absent product is a no-op
// and emits no event.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.items.indexOf(productID)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.commit(OpRemove, productID, 0)
}

// UpdateQty sets the line's quantity to an absolute value. A quantity <= 0
// removes the line, matching Remove exactly.
func (c *Cart) UpdateQty(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.items.indexOf(productID)
	if i < 0 {
		return
	}
	c.items[i].Quantity = quantity
	c.commit(OpUpdate, productID, quantity)
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = State{}
	c.commit(OpClear, "", 0)
}

// Replace swaps the whole state for one fetched from the server. Observers
// see an OpReplace event, which the mirror ignores to avoid echoing server
// state back at the server.
func (c *Cart) Replace(items State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = items.Clone()
	c.commit(OpReplace, "", 0)
}

// commit persists the state, bumps the version and notifies observers.
// Callers hold c.mu.
func (c *Cart) commit(op Op, productID string, quantity int) {
	c.version++
	if err := c.storage.Save(c.items); err != nil {
		c.log.WithError(err).WithField("op", op).Warn("cart: persist failed, in-memory state stays authoritative")
	}
	if len(c.observers) == 0 {
		return
	}
	ev := Event{
		Op:        op,
		ProductID: productID,
		Quantity:  quantity,
		Version:   c.version,
		State:     c.items.Clone(),
	}
	for _, fn := range c.observers {
		fn(ev)
	}
}
