package cache

import (
	"testing"
	"time"

	"github.com/e-Diag/CalendarBot/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing cache: %v", err)
		}
	})
	return db
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	db := openTestDB(t)
	ctx := t.Context()

	target := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	lead := model.ReminderLead{Value: 30, Unit: model.LeadMinutes}
	items := []model.Item{
		{
			ID:           "a",
			OwnerID:      "owner-1",
			Type:         model.TypeReminder,
			Title:        "standup",
			TargetTime:   &target,
			HasReminder:  true,
			ReminderLead: &lead,
			LastEdited:   time.Date(2026, 4, 30, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:         "b",
			OwnerID:    "owner-1",
			Type:       model.TypeNote,
			Title:      "groceries",
			Content:    "milk, eggs",
			LastEdited: time.Date(2026, 4, 29, 8, 0, 0, 0, time.UTC),
		},
	}

	if err := db.SaveSnapshot(ctx, items); err != nil {
		t.Fatalf("SaveSnapshot() = %v", err)
	}

	got, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot() = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d items, want 2", len(got))
	}

	byID := make(map[string]model.Item, len(got))
	for _, it := range got {
		byID[it.ID] = it
	}

	a := byID["a"]
	if a.Type != model.TypeReminder || !a.HasReminder {
		t.Errorf("reminder state lost: %+v", a)
	}
	if a.TargetTime == nil || !a.TargetTime.Equal(target) {
		t.Errorf("target time = %v, want %v", a.TargetTime, target)
	}
	if a.ReminderLead == nil || *a.ReminderLead != lead {
		t.Errorf("lead = %v, want %v", a.ReminderLead, lead)
	}

	b := byID["b"]
	if b.TargetTime != nil || b.ReminderLead != nil {
		t.Errorf("note grew schedule fields: %+v", b)
	}
	if b.Content != "milk, eggs" {
		t.Errorf("content = %q", b.Content)
	}
}

func TestSaveSnapshotReplacesPrevious(t *testing.T) {
	db := openTestDB(t)
	ctx := t.Context()

	first := []model.Item{{
		ID: "a", Type: model.TypeNote, Title: "old",
		LastEdited: time.Now().UTC(),
	}}
	second := []model.Item{{
		ID: "b", Type: model.TypeNote, Title: "new",
		LastEdited: time.Now().UTC(),
	}}

	if err := db.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := db.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot() = %v", err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("snapshot = %+v, want only the replacement", got)
	}
}

func TestLoadSnapshotEmpty(t *testing.T) {
	db := openTestDB(t)

	got, err := db.LoadSnapshot(t.Context())
	if err != nil {
		t.Fatalf("LoadSnapshot() = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("fresh cache returned %d items", len(got))
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := db.runMigrations(); err != nil {
		t.Fatalf("re-running migrations: %v", err)
	}
}
