// Package cartsync pulls the authenticated user's server-stored cart into
// the local cart when a session starts.
package cartsync

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fragrancedemumu/storefront-go/internal/cart"
	"github.com/fragrancedemumu/storefront-go/internal/session"
)

// Fetcher is the backend user-cart endpoint.
type Fetcher interface {
	FetchCart(ctx context.Context, userID string) (cart.State, error)
}

// Syncer replaces the local cart with the server cart once per session.
// The fetched state wins over whatever was in the local cart at login; a
// fetch failure keeps the local cart untouched. No polling, no re-sync on
// later events, the guard resets on logout.
type Syncer struct {
	cart    *cart.Cart
	fetcher Fetcher
	log     logrus.FieldLogger
	timeout time.Duration

	mu     sync.Mutex
	synced bool
}

func New(c *cart.Cart, fetcher Fetcher, log logrus.FieldLogger) *Syncer {
	return &Syncer{
		cart:    c,
		fetcher: fetcher,
		log:     log,
		timeout: 30 * time.Second,
	}
}

// Attach registers the syncer on session transitions.
func (s *Syncer) Attach(m *session.Manager) {
	m.OnChange(s.handle)
}

func (s *Syncer) handle(t session.Transition) {
	if !t.LoggedIn {
		s.mu.Lock()
		s.synced = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	if s.synced {
		s.mu.Unlock()
		return
	}
	s.synced = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	fetched, err := s.fetcher.FetchCart(ctx, t.User.ID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", t.User.ID).Warn("cartsync: fetch failed, keeping local cart")
		return
	}
	s.cart.Replace(fetched)
	s.log.WithFields(logrus.Fields{
		"user_id": t.User.ID,
		"items":   len(fetched),
	}).Info("cartsync: server cart applied")
}
