// Package mirror replicates local cart mutations to the shop backend.
// Mirroring is strictly fire-and-forget: it never blocks a mutation, never
// rolls one back, and failures are logged and counted, nothing more. The
// local cart stays the source of truth for the device; drift is repaired by
// the cart sync on the next login.
package mirror

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fragrancedemumu/storefront-go/internal/cart"
	"github.com/fragrancedemumu/storefront-go/internal/session"
)

// Backend is the subset of the shop client the mirror needs.
type Backend interface {
	AddCartItem(ctx context.Context, userID string, item cart.LineItem, version int64) error
	UpdateCartItem(ctx context.Context, userID, productID string, quantity int, version int64) error
	RemoveCartItem(ctx context.Context, userID, productID string, version int64) error
	ClearCart(ctx context.Context, userID string, version int64) error
}

// Reporter counts mirror failures for observability.
type Reporter interface {
	MirrorFailure(op string)
}

// NopReporter satisfies Reporter with no-ops.
type NopReporter struct{}

func (NopReporter) MirrorFailure(string) {}

// Mirror subscribes to cart events and replays them against the backend
// while a user session is active.
type Mirror struct {
	backend  Backend
	sessions *session.Manager
	log      logrus.FieldLogger
	reporter Reporter
	timeout  time.Duration

	wg sync.WaitGroup
}

func New(backend Backend, sessions *session.Manager, reporter Reporter, log logrus.FieldLogger) *Mirror {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Mirror{
		backend:  backend,
		sessions: sessions,
		log:      log,
		reporter: reporter,
		timeout:  30 * time.Second,
	}
}

// Attach wires the mirror to a cart. Call before serving traffic.
func (m *Mirror) Attach(c *cart.Cart) {
	c.Subscribe(m.handle)
}

// Wait blocks until in-flight mirror calls finish. Test and shutdown helper.
func (m *Mirror) Wait() {
	m.wg.Wait()
}

func (m *Mirror) handle(ev cart.Event) {
	// Replaces originate from the server; echoing them back would loop.
	if ev.Op == cart.OpReplace {
		return
	}
	user := m.sessions.Current()
	if user == nil {
		return
	}
	item, _ := lineFor(ev)
	m.wg.Add(1)
	go m.send(user.ID, ev, item)
}

// send issues one mirror call. Calls for successive mutations are not
// sequenced against each other; the version in each payload lets the backend
// reject out-of-order application.
func (m *Mirror) send(userID string, ev cart.Event, item cart.LineItem) {
	defer m.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	var err error
	switch ev.Op {
	case cart.OpAdd:
		err = m.backend.AddCartItem(ctx, userID, item, ev.Version)
	case cart.OpUpdate:
		err = m.backend.UpdateCartItem(ctx, userID, ev.ProductID, ev.Quantity, ev.Version)
	case cart.OpRemove:
		err = m.backend.RemoveCartItem(ctx, userID, ev.ProductID, ev.Version)
	case cart.OpClear:
		err = m.backend.ClearCart(ctx, userID, ev.Version)
	default:
		return
	}
	if err != nil {
		m.reporter.MirrorFailure(string(ev.Op))
		m.log.WithError(err).WithFields(logrus.Fields{
			"op":         ev.Op,
			"product_id": ev.ProductID,
			"version":    ev.Version,
		}).Warn("mirror: backend call failed, local cart unaffected")
	}
}

// lineFor extracts the mutated line from the post-mutation snapshot so an
// add can carry the full product payload.
func lineFor(ev cart.Event) (cart.LineItem, bool) {
	for _, li := range ev.State {
		if li.Product.ID == ev.ProductID {
			// Quantity in the mirror payload is the delta the user asked
			// for, not the accumulated line quantity.
			li.Quantity = ev.Quantity
			return li, true
		}
	}
	return cart.LineItem{}, false
}
