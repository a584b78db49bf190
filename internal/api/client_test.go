package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meltforce/ironlog/internal/models"
)

// newTestServer creates an httptest server that routes requests to handler
// functions keyed by path.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestBearerTokenAttached verifies authenticated requests carry the
// Authorization header and an X-Request-ID.
func TestBearerTokenAttached(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/routines": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer secret" {
				t.Errorf("Authorization = %q, want %q", got, "Bearer secret")
			}
			if r.Header.Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}
			writeTestJSON(t, w, []models.Routine{})
		},
	})
	defer ts.Close()

	c := New(ts.URL, StaticToken("secret"))
	if _, err := c.ListRoutines(context.Background()); err != nil {
		t.Fatalf("ListRoutines: %v", err)
	}
}

// TestNoAuthHeaderWithoutToken verifies the Authorization header is omitted
// entirely when the token source is empty.
func TestNoAuthHeaderWithoutToken(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/exercises": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("Authorization = %q, want empty", got)
			}
			writeTestJSON(t, w, []models.Exercise{})
		},
	})
	defer ts.Close()

	c := New(ts.URL, nil)
	if _, err := c.ListExercises(context.Background(), ""); err != nil {
		t.Fatalf("ListExercises: %v", err)
	}
}

// TestAPIErrorMessage verifies non-2xx responses become *APIError with the
// body's msg field.
func TestAPIErrorMessage(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/auth/login": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			writeTestJSON(t, w, map[string]string{"msg": "bad username or password"})
		},
	})
	defer ts.Close()

	c := New(ts.URL, nil)
	_, err := c.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.Status)
	}
	if apiErr.Message != "bad username or password" {
		t.Errorf("message = %q, want %q", apiErr.Message, "bad username or password")
	}
	if !IsAuthError(err) {
		t.Error("IsAuthError = false, want true")
	}
}

// TestAPIErrorWithoutMsgBody verifies a non-JSON error body still produces a
// usable APIError.
func TestAPIErrorWithoutMsgBody(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/profile": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gateway timeout", http.StatusBadGateway)
		},
	})
	defer ts.Close()

	c := New(ts.URL, StaticToken("x"))
	_, err := c.GetProfile(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", apiErr.Status)
	}
	if apiErr.Message == "" {
		t.Error("message is empty, want generic description")
	}
	if IsAuthError(err) {
		t.Error("IsAuthError = true for 502, want false")
	}
}

// TestLoginParsesResult verifies the login response decodes into token and
// user.
func TestLoginParsesResult(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/auth/login": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["username"] != "alice" {
				t.Errorf("username = %q, want alice", body["username"])
			}
			writeTestJSON(t, w, models.LoginResult{
				AccessToken: "tok123",
				User:        models.User{ID: 7, Username: "alice", Level: 3},
			})
		},
	})
	defer ts.Close()

	c := New(ts.URL, nil)
	result, err := c.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.AccessToken != "tok123" {
		t.Errorf("token = %q, want tok123", result.AccessToken)
	}
	if result.User.Username != "alice" || result.User.Level != 3 {
		t.Errorf("user = %+v", result.User)
	}
}

// TestQueryParams verifies analytics calls encode their window parameters.
func TestQueryParams(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/analytics/weekly-volume": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("weeks"); got != "8" {
				t.Errorf("weeks = %q, want 8", got)
			}
			writeTestJSON(t, w, []models.WeeklyVolume{{Week: "2026-W30", Volume: 1200}})
		},
	})
	defer ts.Close()

	c := New(ts.URL, StaticToken("x"))
	volume, err := c.WeeklyVolume(context.Background(), 8)
	if err != nil {
		t.Fatalf("WeeklyVolume: %v", err)
	}
	if len(volume) != 1 || volume[0].Week != "2026-W30" {
		t.Errorf("volume = %+v", volume)
	}
}

// TestStartSessionReturnsID verifies session creation decodes the new id.
func TestStartSessionReturnsID(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/workouts/sessions": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]int
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["routine_id"] != 42 {
				t.Errorf("routine_id = %d, want 42", body["routine_id"])
			}
			w.WriteHeader(http.StatusCreated)
			writeTestJSON(t, w, map[string]any{"msg": "session started", "id": 99})
		},
	})
	defer ts.Close()

	c := New(ts.URL, StaticToken("x"))
	id, err := c.StartSession(context.Background(), 42)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if id != 99 {
		t.Errorf("id = %d, want 99", id)
	}
}
