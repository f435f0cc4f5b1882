package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"huddygate/src-server/claim"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newFlakyServer(t *testing.T, failures int32, final func(w http.ResponseWriter)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if n <= failures {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
			return
		}
		final(w)
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func newTestClient(url string, maxTries uint) *Client {
	return NewClient(url, ClientOptions{Token: "tok", MaxTries: maxTries, InitialDelay: time.Millisecond})
}

func TestClientRetriesTransient(t *testing.T) {
	srv, calls := newFlakyServer(t, 2, func(w http.ResponseWriter) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   map[string]any{"name": "Ada", "email": "ada@x.io", "updatedCount": 2},
		})
	})

	res, err := newTestClient(srv.URL, 4).Claim(context.Background(), claim.KIND_ENTRY, "A1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Name != "Ada" || res.UpdatedCount != 2 {
		t.Errorf("unexpected result %+v", res)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClientGivesUpAsTransient(t *testing.T) {
	srv, calls := newFlakyServer(t, 100, nil)

	_, err := newTestClient(srv.URL, 3).Claim(context.Background(), claim.KIND_GIFT, "A1")
	if !errors.Is(err, claim.ErrTransient) {
		t.Errorf("expected ErrTransient, got %v", err)
	}
	if _, denied := claim.DeniedReason(err); denied {
		t.Error("a transient failure must never look like a denial")
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClientNeverRetriesDenied(t *testing.T) {
	srv, calls := newFlakyServer(t, 0, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"status": "denied", "reason": "already_taken"})
	})

	_, err := newTestClient(srv.URL, 4).Claim(context.Background(), claim.KIND_GIFT, "A1")
	if reason, ok := claim.DeniedReason(err); !ok || reason != claim.REASON_ALREADY_TAKEN {
		t.Errorf("expected already_taken, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestClientNeverRetriesInvalid(t *testing.T) {
	srv, calls := newFlakyServer(t, 0, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"status": "invalid", "message": "empty code"})
	})

	_, err := newTestClient(srv.URL, 4).Claim(context.Background(), claim.KIND_ENTRY, "")
	if !errors.Is(err, claim.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestClientUnauthorized(t *testing.T) {
	srv, calls := newFlakyServer(t, 0, nil)
	client := NewClient(srv.URL, ClientOptions{Token: "wrong", InitialDelay: time.Millisecond})

	if _, err := client.Claim(context.Background(), claim.KIND_ENTRY, "A1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, 2).Claim(context.Background(), claim.KIND_ENTRY, "A1")
	if !errors.Is(err, claim.ErrTransient) {
		t.Errorf("expected ErrTransient, got %v", err)
	}
}

func TestClientLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["passcode"] != "pass" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"status": "invalid"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": map[string]string{"token": "tok"}})
		case "/attendees/A%201", "/attendees/A 1":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": map[string]string{"name": "Ada"}})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"status": "denied", "reason": "not_found"})
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, ClientOptions{InitialDelay: time.Millisecond})
	if err := client.Login(context.Background(), "nope", "gate-1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := client.Login(context.Background(), "pass", "gate-1"); err != nil {
		t.Fatal(err)
	}
	res, err := client.Lookup(context.Background(), "A 1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Name != "Ada" {
		t.Errorf("unexpected lookup %+v", res)
	}
}
