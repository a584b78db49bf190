// Package session owns the process-wide authentication state: the bearer
// token, the current user, and the loading flag that gates the rest of the
// application until startup token validation has resolved.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/meltforce/ironlog/internal/models"
)

// ProfileFetcher resolves the authoritative profile for the current token.
// *api.Client satisfies it.
type ProfileFetcher interface {
	GetMe(ctx context.Context) (*models.User, error)
}

// Store is the single holder of "who is logged in". It assumes single-flight
// usage: Initialize and Login are never in flight concurrently (the
// surrounding navigation disables entry points while Loading reports true).
// The mutex only protects reads from other goroutines, such as the API
// client's token lookups.
type Store struct {
	tokens TokenStore
	log    *slog.Logger

	mu      sync.RWMutex
	token   string
	user    *models.User
	loading bool
}

// NewStore creates a Store backed by the given token persistence.
func NewStore(tokens TokenStore, log *slog.Logger) *Store {
	return &Store{tokens: tokens, log: log, loading: true}
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user, or nil when logged out.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether startup token validation is still unresolved.
// It flips to false exactly once, when Initialize returns.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Initialize validates any persisted token against the backend. A rejected or
// unreadable token is discarded and the store resolves to logged out; only
// infrastructure failures (token storage itself) are returned.
func (s *Store) Initialize(ctx context.Context, fetch ProfileFetcher) error {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	token, err := s.tokens.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := fetch.GetMe(ctx)
	if err != nil {
		s.log.Info("stored token rejected, logging out", "error", err)
		s.mu.Lock()
		s.token = ""
		s.user = nil
		s.mu.Unlock()
		if clearErr := s.tokens.Clear(); clearErr != nil {
			return clearErr
		}
		return nil
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Login installs a fresh token and resolves the authoritative profile.
// When the profile fetch fails the fallback user from the login response is
// kept instead, so the store never ends up with a token but no user.
func (s *Store) Login(ctx context.Context, fetch ProfileFetcher, token string, fallback models.User) error {
	if err := s.tokens.Save(token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := fetch.GetMe(ctx)
	if err != nil {
		s.log.Warn("profile fetch after login failed, using login payload", "error", err)
		user = &fallback
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Logout clears the token and user. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Clear(); err != nil {
		s.log.Warn("clearing persisted token failed", "error", err)
	}
}
