package remote

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/e-Diag/CalendarBot/internal/model"
)

func TestLiveFeedDeliversSnapshots(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/items/ws" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		_ = conn.WriteJSON([]model.Item{testItem("a")})
		// Hold the connection until the client closes it.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	feed := NewLiveFeed(srv.URL)

	snapshots := make(chan []model.Item, 1)
	unsub, err := feed.Subscribe(t.Context(), model.Session{Token: "tok"},
		func(items []model.Item) {
			select {
			case snapshots <- items:
			default:
			}
		},
		func(err error) {},
	)
	if err != nil {
		t.Fatalf("Subscribe() = %v", err)
	}
	defer unsub()

	select {
	case items := <-snapshots:
		if len(items) != 1 || items[0].ID != "a" {
			t.Errorf("snapshot = %+v", items)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot received")
	}

	if gotAuth != "tok" {
		t.Errorf("Authorization = %q, want the session token", gotAuth)
	}

	unsub()
	unsub() // idempotent
}

func TestLiveFeedReportsStreamErrors(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Drop the connection immediately without a close handshake.
		conn.UnderlyingConn().Close()
	}))
	defer srv.Close()

	feed := NewLiveFeed(srv.URL)

	errCh := make(chan error, 1)
	unsub, err := feed.Subscribe(t.Context(), model.Session{Token: "tok"},
		func([]model.Item) {},
		func(err error) { errCh <- err },
	)
	if err != nil {
		t.Fatalf("Subscribe() = %v", err)
	}
	defer unsub()

	select {
	case err := <-errCh:
		if KindOf(err) != KindNetwork {
			t.Errorf("kind = %q, want network", KindOf(err))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stream failure was not reported")
	}
}

func TestLiveFeedDialRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	feed := NewLiveFeed(srv.URL)
	_, err := feed.Subscribe(t.Context(), model.Session{Token: "bad"},
		func([]model.Item) {}, func(error) {})
	if err == nil {
		t.Fatal("Subscribe() should fail on a 401 handshake")
	}
	if KindOf(err) != KindUnauthorized {
		t.Errorf("kind = %q, want unauthorized", KindOf(err))
	}
}
