// Package session tracks the authenticated user for the current client
// session. The cart mirror and the server cart sync both key off its
// transitions; nothing here talks to the network.
package session

import "sync"

// User is the authenticated storefront account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Transition is delivered to listeners on login and logout.
type Transition struct {
	User     *User
	LoggedIn bool
}

// Manager holds the current user and fans out login/logout transitions.
type Manager struct {
	mu        sync.Mutex
	user      *User
	listeners []func(Transition)
}

func NewManager() *Manager {
	return &Manager{}
}

// OnChange registers a transition listener. Register listeners before
// serving traffic; listeners run synchronously on the calling goroutine.
func (m *Manager) OnChange(fn func(Transition)) {
	m.listeners = append(m.listeners, fn)
}

// Login installs u as the current user and notifies listeners. Logging in
// while already logged in replaces the user and still notifies.
func (m *Manager) Login(u User) {
	m.mu.Lock()
	m.user = &u
	fns := m.listeners
	m.mu.Unlock()
	for _, fn := range fns {
		fn(Transition{User: &u, LoggedIn: true})
	}
}

// Logout clears the current user. A logout with no active session is a no-op.
func (m *Manager) Logout() {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return
	}
	m.user = nil
	fns := m.listeners
	m.mu.Unlock()
	for _, fn := range fns {
		fn(Transition{LoggedIn: false})
	}
}

// Current returns the logged-in user, or nil.
func (m *Manager) Current() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Active reports whether a user session exists.
func (m *Manager) Active() bool {
	return m.Current() != nil
}
