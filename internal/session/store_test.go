package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/meltforce/ironlog/internal/models"
)

// memTokenStore is an in-memory TokenStore.
type memTokenStore struct {
	token   string
	loadErr error
}

func (m *memTokenStore) Load() (string, error) { return m.token, m.loadErr }
func (m *memTokenStore) Save(t string) error   { m.token = t; return nil }
func (m *memTokenStore) Clear() error          { m.token = ""; return nil }

// fakeFetcher returns a canned profile or error.
type fakeFetcher struct {
	user  *models.User
	err   error
	calls int
}

func (f *fakeFetcher) GetMe(ctx context.Context) (*models.User, error) {
	f.calls++
	return f.user, f.err
}

func newTestStore(tokens TokenStore) *Store {
	return NewStore(tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInitializeNoStoredToken(t *testing.T) {
	s := newTestStore(&memTokenStore{})
	fetch := &fakeFetcher{}

	if !s.Loading() {
		t.Fatal("Loading = false before Initialize")
	}
	if err := s.Initialize(context.Background(), fetch); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if s.Loading() {
		t.Error("Loading = true after Initialize")
	}
	if s.User() != nil {
		t.Error("User != nil with no stored token")
	}
	if fetch.calls != 0 {
		t.Errorf("GetMe called %d times with no token, want 0", fetch.calls)
	}
}

func TestInitializeValidToken(t *testing.T) {
	s := newTestStore(&memTokenStore{token: "tok"})
	fetch := &fakeFetcher{user: &models.User{ID: 1, Username: "alice"}}

	if err := s.Initialize(context.Background(), fetch); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if s.Token() != "tok" {
		t.Errorf("Token = %q, want tok", s.Token())
	}
	if u := s.User(); u == nil || u.Username != "alice" {
		t.Errorf("User = %+v, want alice", u)
	}
}

func TestInitializeRejectedTokenDiscarded(t *testing.T) {
	tokens := &memTokenStore{token: "stale"}
	s := newTestStore(tokens)
	fetch := &fakeFetcher{err: errors.New("401")}

	if err := s.Initialize(context.Background(), fetch); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if s.Token() != "" {
		t.Errorf("Token = %q after rejection, want empty", s.Token())
	}
	if s.User() != nil {
		t.Error("User != nil after rejection")
	}
	if tokens.token != "" {
		t.Error("persisted token not cleared after rejection")
	}
	if s.Loading() {
		t.Error("Loading = true after Initialize resolved")
	}
}

func TestInitializeStorageFailure(t *testing.T) {
	s := newTestStore(&memTokenStore{loadErr: errors.New("disk")})

	err := s.Initialize(context.Background(), &fakeFetcher{})
	if err == nil {
		t.Fatal("expected storage error")
	}
	if s.Loading() {
		t.Error("Loading = true even after a failed Initialize")
	}
}

func TestLoginKeepsFallbackUser(t *testing.T) {
	tokens := &memTokenStore{}
	s := newTestStore(tokens)
	fetch := &fakeFetcher{err: errors.New("temporarily down")}

	fallback := models.User{ID: 2, Username: "bob", Level: 1}
	if err := s.Login(context.Background(), fetch, "fresh", fallback); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if s.Token() != "fresh" {
		t.Errorf("Token = %q, want fresh", s.Token())
	}
	u := s.User()
	if u == nil {
		t.Fatal("User = nil after login, fallback should be kept")
	}
	if u.Username != "bob" {
		t.Errorf("User = %q, want bob", u.Username)
	}
	if tokens.token != "fresh" {
		t.Error("token not persisted")
	}
}

func TestLoginPrefersFetchedProfile(t *testing.T) {
	s := newTestStore(&memTokenStore{})
	fetch := &fakeFetcher{user: &models.User{ID: 2, Username: "bob", Level: 9}}

	if err := s.Login(context.Background(), fetch, "fresh", models.User{Username: "bob", Level: 1}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u := s.User(); u.Level != 9 {
		t.Errorf("Level = %d, want the fetched profile's 9", u.Level)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	tokens := &memTokenStore{token: "tok"}
	s := newTestStore(tokens)
	fetch := &fakeFetcher{user: &models.User{ID: 1}}
	if err := s.Initialize(context.Background(), fetch); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	s.Logout()
	s.Logout()

	if s.Token() != "" || s.User() != nil {
		t.Error("state not cleared after Logout")
	}
	if tokens.token != "" {
		t.Error("persisted token not cleared after Logout")
	}
}
