// Package promo resolves user-entered promotion codes against the shop
// backend and holds the applied promotion for the checkout in progress.
package promo

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Kind is the discount variant reported by the backend.
type Kind string

const (
	KindPercentage   Kind = "percentage"
	KindFixed        Kind = "fixed"
	KindFreeShipping Kind = "free_shipping"
)

// Applied is an accepted promotion. Held in checkout memory only; never
// persisted. Amount is the backend-computed discount in the same currency
// unit as prices; the backend guarantees it does not exceed the subtotal at
// application time.
type Applied struct {
	Code    string          `json:"code"`
	Kind    Kind            `json:"kind"`
	Amount  decimal.Decimal `json:"amount"`
	Message string          `json:"message,omitempty"`
}

// RejectedError carries the backend's rejection verbatim (invalid code,
// expired, below minimum purchase, ...). Callers surface Message to the user
// as-is.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

// Validator is the backend promotion endpoint. The backend is the sole
// authority on code existence, validity window and discount computation.
type Validator interface {
	ValidatePromotion(ctx context.Context, code string, subtotal decimal.Decimal) (*Applied, error)
}

var (
	ErrEmptyCode = errors.New("promotion code is empty")
	ErrInFlight  = errors.New("a promotion check is already in flight")
)

// Resolver validates codes and keeps the currently applied promotion.
// A second Apply while one is in flight is refused rather than queued,
// mirroring the disabled Apply button in the UI.
type Resolver struct {
	validator Validator

	mu       sync.Mutex
	current  *Applied
	inFlight bool
}

func NewResolver(v Validator) *Resolver {
	return &Resolver{validator: v}
}

// Apply trims and validates code against the backend for the given subtotal.
// On success the result supersedes any previously applied promotion. On
// rejection the returned error is a *RejectedError; transport failures come
// back wrapped as-is.
func (r *Resolver) Apply(ctx context.Context, code string, subtotal decimal.Decimal) (*Applied, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return nil, ErrInFlight
	}
	r.inFlight = true
	r.mu.Unlock()

	applied, err := r.validator.ValidatePromotion(ctx, code, subtotal)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight = false
	if err != nil {
		return nil, err
	}
	r.current = applied
	return applied, nil
}

// Remove discards the applied promotion. Purely a client-side reset; there
// is no undo call to the backend.
func (r *Resolver) Remove() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
}

// Current returns the promotion applied to the checkout in progress, or nil.
func (r *Resolver) Current() *Applied {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
