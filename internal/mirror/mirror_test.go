package mirror

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fragrancedemumu/storefront-go/internal/cart"
	"github.com/fragrancedemumu/storefront-go/internal/session"
)

type call struct {
	op        string
	userID    string
	productID string
	quantity  int
	version   int64
}

// mockBackend records mirror calls and can fail them all.
type mockBackend struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (m *mockBackend) record(c call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	return m.err
}

func (m *mockBackend) snapshot() []call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]call, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockBackend) AddCartItem(ctx context.Context, userID string, item cart.LineItem, version int64) error {
	return m.record(call{op: "add", userID: userID, productID: item.Product.ID, quantity: item.Quantity, version: version})
}

func (m *mockBackend) UpdateCartItem(ctx context.Context, userID, productID string, quantity int, version int64) error {
	return m.record(call{op: "update", userID: userID, productID: productID, quantity: quantity, version: version})
}

func (m *mockBackend) RemoveCartItem(ctx context.Context, userID, productID string, version int64) error {
	return m.record(call{op: "remove", userID: userID, productID: productID, version: version})
}

func (m *mockBackend) ClearCart(ctx context.Context, userID string, version int64) error {
	return m.record(call{op: "clear", userID: userID, version: version})
}

type countingReporter struct {
	mu       sync.Mutex
	failures []string
}

func (r *countingReporter) MirrorFailure(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, op)
}

type nullStorage struct{}

func (nullStorage) Load() cart.State      { return cart.State{} }
func (nullStorage) Save(cart.State) error { return nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setup(t *testing.T, backendErr error) (*cart.Cart, *session.Manager, *mockBackend, *countingReporter, *Mirror) {
	t.Helper()
	backend := &mockBackend{err: backendErr}
	reporter := &countingReporter{}
	sessions := session.NewManager()
	c := cart.New(nullStorage{}, testLogger())
	m := New(backend, sessions, reporter, testLogger())
	m.Attach(c)
	return c, sessions, backend, reporter, m
}

func p(id string) cart.Product {
	return cart.Product{ID: id, Name: id, UnitPrice: decimal.NewFromInt(5000), Stock: 9}
}

func TestNoSession_NoMirrorCalls(t *testing.T) {
	c, _, backend, _, m := setup(t, nil)

	_ = c.Add(p("p1"), 2)
	c.Remove("p1")
	m.Wait()

	if got := backend.snapshot(); len(got) != 0 {
		t.Fatalf("anonymous mutations must not be mirrored, got %+v", got)
	}
}

func TestMirror_CarriesOpAndVersion(t *testing.T) {
	c, sessions, backend, _, m := setup(t, nil)
	sessions.Login(session.User{ID: "u1"})

	_ = c.Add(p("p1"), 2)
	c.UpdateQty("p1", 5)
	c.Remove("p1")
	c.Clear()
	m.Wait()

	calls := backend.snapshot()
	if len(calls) != 4 {
		t.Fatalf("expected 4 mirror calls, got %d", len(calls))
	}
	byOp := map[string]call{}
	for _, cl := range calls {
		byOp[cl.op] = cl
		if cl.userID != "u1" {
			t.Fatalf("wrong user id in %+v", cl)
		}
		if cl.version == 0 {
			t.Fatalf("missing version in %+v", cl)
		}
	}
	if byOp["add"].quantity != 2 || byOp["add"].productID != "p1" {
		t.Fatalf("add payload %+v", byOp["add"])
	}
	if byOp["update"].quantity != 5 {
		t.Fatalf("update payload %+v", byOp["update"])
	}
}

func TestReplace_NotMirrored(t *testing.T) {
	c, sessions, backend, _, m := setup(t, nil)
	sessions.Login(session.User{ID: "u1"})

	c.Replace(cart.State{{Product: p("p2"), Quantity: 1}})
	m.Wait()

	if got := backend.snapshot(); len(got) != 0 {
		t.Fatalf("server-pushed state must not echo back, got %+v", got)
	}
}

func TestMirrorFailure_SwallowedAndCounted(t *testing.T) {
	c, sessions, backend, reporter, m := setup(t, errors.New("503"))
	sessions.Login(session.User{ID: "u1"})

	_ = c.Add(p("p1"), 1)
	m.Wait()

	if len(backend.snapshot()) != 1 {
		t.Fatal("mirror call expected despite failure")
	}
	if got := c.Items(); len(got) != 1 {
		t.Fatalf("local mutation must survive mirror failure, got %+v", got)
	}
	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	if len(reporter.failures) != 1 || reporter.failures[0] != "add" {
		t.Fatalf("failure not counted: %+v", reporter.failures)
	}
}

func TestLogout_StopsMirroring(t *testing.T) {
	c, sessions, backend, _, m := setup(t, nil)
	sessions.Login(session.User{ID: "u1"})
	_ = c.Add(p("p1"), 1)
	m.Wait()

	sessions.Logout()
	c.Remove("p1")
	m.Wait()

	calls := backend.snapshot()
	if len(calls) != 1 || calls[0].op != "add" {
		t.Fatalf("post-logout mutation must not mirror, got %+v", calls)
	}
}
