package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/e-Diag/CalendarBot/internal/model"
	"github.com/e-Diag/CalendarBot/tests/testutil"
)

// Exercises the store against the real SQLite snapshot cache: a
// healthy session persists the collection, and the next start serves
// it while degraded.
func TestStoreWithSQLiteCacheFallback(t *testing.T) {
	db := testutil.NewTestCache(t)

	now := time.Now().UTC().Truncate(time.Second)
	rc := newFakeRemote(noteItem("a", "persisted", now))

	s := New(rc, Options{Strategy: model.SyncStrategyPoll, Cache: db})
	if err := s.Initialize(context.Background(), testSession()); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}

	cached, err := db.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshot() = %v", err)
	}
	if len(cached) != 1 || cached[0].ID != "a" {
		t.Fatalf("cached = %+v, want the fetched collection", cached)
	}

	// Second start against an unreachable backend.
	rc2 := newFakeRemote()
	rc2.listErr = errors.New("offline")

	s2 := New(rc2, Options{Strategy: model.SyncStrategyPoll, Cache: db})
	if err := s2.Initialize(context.Background(), testSession()); err == nil {
		t.Fatal("Initialize() should report the failure")
	}
	if s2.State() != SyncDegraded {
		t.Errorf("state = %v, want degraded", s2.State())
	}

	it, ok := findByID(s2.Snapshot(), "a")
	if !ok {
		t.Fatal("cached item not served while degraded")
	}
	if it.Title != "persisted" {
		t.Errorf("title = %q", it.Title)
	}
}
