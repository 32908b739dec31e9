package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// AuthError indicates that sign-in failed or a session has expired.
// The UI reports it on the sign-in screen and never treats it as fatal.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Account is the signed-in user as reported by the identity provider.
// ID is the provider's stable identifier and becomes the owner id for
// every task read and write.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Provider is the contract every identity adapter implements. Exactly one
// account is active per running client; listeners receive nil on sign-out.
type Provider interface {
	// SignIn runs the provider's interactive flow and returns the account.
	SignIn(ctx context.Context) (*Account, error)

	// SignOut clears the active session.
	SignOut() error

	// Current returns the active account, or nil when signed out.
	Current() *Account

	// OnAuthChange registers fn to be called with the account on every
	// auth-state transition, including an immediate call with the current
	// state. The returned cancel function removes the listener.
	OnAuthChange(fn func(*Account)) (cancel func())
}

// authState is the shared listener bookkeeping embedded by providers.
type authState struct {
	mu        sync.Mutex
	account   *Account
	listeners map[int]func(*Account)
	nextID    int
}

func newAuthState() *authState {
	return &authState{listeners: make(map[int]func(*Account))}
}

// Current returns the active account, or nil.
func (s *authState) Current() *Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// OnAuthChange registers fn and immediately delivers the current state.
func (s *authState) OnAuthChange(fn func(*Account)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := s.account
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// set swaps the active account and notifies all listeners.
func (s *authState) set(a *Account) {
	s.mu.Lock()
	s.account = a
	fns := make([]func(*Account), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(a)
	}
}

// StaticProvider is an in-memory provider for tests and offline use.
// SignIn always succeeds with the configured account.
type StaticProvider struct {
	*authState
	account Account
}

// NewStaticProvider creates a provider that signs in the given account.
func NewStaticProvider(account Account) *StaticProvider {
	return &StaticProvider{authState: newAuthState(), account: account}
}

func (p *StaticProvider) SignIn(_ context.Context) (*Account, error) {
	a := p.account
	p.set(&a)
	return &a, nil
}

func (p *StaticProvider) SignOut() error {
	p.set(nil)
	return nil
}
