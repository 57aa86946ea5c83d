// Package session holds the client's per-login state: the auth token, the
// server-provided config, and the reconciliation store. Reset puts all of
// it back to the logged-out state in one place instead of scattering field
// clears across callers.
package session

import (
	"sync"

	"github.com/ohalin/pickdesk/internal/picking"
)

// Session is the explicit session context handed to the controller and the
// GUI. Safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	token  string
	config picking.ServerConfig
	store  *picking.Store
}

// New creates a logged-out session with an empty store.
func New() *Session {
	return &Session{store: picking.NewStore()}
}

// Store returns the reconciliation store. The store identity is stable for
// the life of the process; Reset empties it rather than replacing it.
func (s *Session) Store() *picking.Store {
	return s.store
}

// SetToken records the auth token after a successful login.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Token returns the auth token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetServerConfig records the thresholds and labels loaded from the
// server.
func (s *Session) SetServerConfig(cfg picking.ServerConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

// ServerConfig returns the loaded server config (zero value before the
// first load).
func (s *Session) ServerConfig() picking.ServerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Reset drops the token and server config and empties the store. Called on
// logout and on any authentication failure.
func (s *Session) Reset() {
	s.mu.Lock()
	s.token = ""
	s.config = picking.ServerConfig{}
	s.mu.Unlock()
	s.store.Clear()
}
