// Package session owns authentication state: the in-memory token and profile,
// token persistence across runs, startup bootstrap, and the single place
// where a 401 turns into a redirect to login.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/pochi-pay/pochi_pay/client"
	"github.com/pochi-pay/pochi_pay/client/apierr"
	"github.com/pochi-pay/pochi_pay/client/readcache"
)

// Navigator routes the user to app screens.
type Navigator interface {
	ToLogin()
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

func (f NavigatorFunc) ToLogin() { f() }

// Store holds the active session. It wires itself into the API client as
// both the token source and the unauthorized handler.
type Store struct {
	api    *client.Client
	tokens TokenStore
	nav    Navigator
	cache  *readcache.Cache

	mu          sync.Mutex
	token       string
	user        client.User
	hasUser     bool
	initialized bool
}

// New builds a session store and hooks it into api.
func New(api *client.Client, tokens TokenStore, nav Navigator, cache *readcache.Cache) *Store {
	s := &Store{api: api, tokens: tokens, nav: nav, cache: cache}
	api.SetTokenSource(s.Token)
	api.SetOnUnauthorized(s.expire)
	return s
}

// Token returns the current access token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the cached profile of the signed-in user.
func (s *Store) User() (client.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.hasUser
}

// Authenticated reports whether a session is active.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Initialize restores a persisted session at startup. Without a saved token
// it routes straight to login and performs no network call. A saved token is
// verified against the server; a rejected token is purged. Initialize is
// idempotent, repeat calls after the first completed run are no-ops.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	token, err := s.tokens.Load()
	if err != nil {
		return err
	}
	if token == "" {
		s.finishInit()
		s.nav.ToLogin()
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.api.Me(ctx)
	if err != nil {
		var unauthorized *apierr.Unauthorized
		if errors.As(err, &unauthorized) {
			// expire already purged state via the client's 401 hook.
			s.finishInit()
			return nil
		}
		// Transient failure. The persisted token stays so a later
		// Initialize can verify it again.
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.user = user
	s.hasUser = true
	s.mu.Unlock()
	s.finishInit()
	return nil
}

// SetAuth installs a fresh session after login or signup and persists the
// token for the next run.
func (s *Store) SetAuth(token string, user client.User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.hasUser = true
	s.initialized = true
	s.mu.Unlock()
	return s.tokens.Save(token)
}

// Logout clears the session, drops cached reads, and routes to login.
func (s *Store) Logout() error {
	s.purge()
	s.nav.ToLogin()
	return s.tokens.Clear()
}

// expire handles a server-side 401: same as logout, but the persisted token
// is purged unconditionally because the server no longer accepts it.
func (s *Store) expire() {
	s.purge()
	_ = s.tokens.Clear()
	s.nav.ToLogin()
}

func (s *Store) purge() {
	s.mu.Lock()
	s.token = ""
	s.user = client.User{}
	s.hasUser = false
	s.mu.Unlock()
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
}

func (s *Store) finishInit() {
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
}
