package remote

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/e-Diag/CalendarBot/internal/model"
)

func testItem(id string) model.Item {
	target := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return model.Item{
		ID:         id,
		OwnerID:    "owner-1",
		Type:       model.TypeEvent,
		Title:      "standup",
		TargetTime: &target,
		LastEdited: time.Date(2026, 4, 30, 8, 0, 0, 0, time.UTC),
	}
}

func TestListSendsCredentialAndDecodes(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Method != http.MethodGet || r.URL.Path != "/api/items" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]model.Item{testItem("a"), testItem("b")})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	items, err := c.List(t.Context(), model.Session{Token: "Bearer opaque-tok"})
	if err != nil {
		t.Fatalf("List() = %v", err)
	}

	if gotAuth != "Bearer opaque-tok" {
		t.Errorf("Authorization = %q, want the token passed through verbatim", gotAuth)
	}
	if len(items) != 2 {
		t.Errorf("items = %d, want 2", len(items))
	}
	if items[0].TargetTime == nil || !items[0].TargetTime.Equal(*testItem("a").TargetTime) {
		t.Error("target_time_utc did not survive the round trip")
	}
}

func TestCreateStripsClientAssignedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got model.Item
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if got.ID != "" {
			t.Errorf("payload id = %q, want empty", got.ID)
		}
		if got.OwnerID != "" {
			t.Errorf("payload owner_id = %q, want empty", got.OwnerID)
		}
		got.ID = "srv-1"
		got.OwnerID = "owner-1"
		json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	draft := testItem(model.DraftID)

	created, err := c.Create(t.Context(), model.Session{Token: "tok"}, draft)
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if created.ID != "srv-1" {
		t.Errorf("created id = %q", created.ID)
	}
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindUnauthorized},
		{http.StatusNotFound, KindNotFound},
		{http.StatusInternalServerError, KindServer},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
		}))

		c := NewClient(srv.URL, 5*time.Second)
		_, err := c.List(t.Context(), model.Session{Token: "tok"})
		srv.Close()

		if err == nil {
			t.Fatalf("status %d: want error", tc.status)
		}
		if got := KindOf(err); got != tc.want {
			t.Errorf("status %d: kind = %q, want %q", tc.status, got, tc.want)
		}

		var re *Error
		if !errors.As(err, &re) {
			t.Fatalf("status %d: error type %T", tc.status, err)
		}
		if re.Status != tc.status {
			t.Errorf("status recorded = %d, want %d", re.Status, tc.status)
		}
	}
}

func TestNetworkErrorKind(t *testing.T) {
	// Server that is already closed: the dial fails.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	_, err := c.List(t.Context(), model.Session{Token: "tok"})
	if KindOf(err) != KindNetwork {
		t.Errorf("kind = %q, want network", KindOf(err))
	}
}

func TestRetryOn429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]model.Item{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.List(t.Context(), model.Session{Token: "tok"}); err != nil {
		t.Fatalf("List() = %v, want success after retry", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestDeleteNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/items/abc" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if err := c.Delete(t.Context(), model.Session{Token: "tok"}, "abc"); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
}
