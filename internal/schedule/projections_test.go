package schedule

import (
	"testing"
	"time"

	"github.com/e-Diag/CalendarBot/internal/model"
)

func scheduled(id, title string, t model.ItemType, target time.Time, edited time.Time) model.Item {
	utc := target.UTC()
	return model.Item{
		ID:         id,
		Type:       t,
		Title:      title,
		TargetTime: &utc,
		LastEdited: edited,
	}
}

func TestByType(t *testing.T) {
	now := time.Now().UTC()
	items := []model.Item{
		noteItem("n1", "note", now),
		scheduled("e1", "event", model.TypeEvent, now.Add(time.Hour), now),
		noteItem("n2", "note two", now.Add(time.Minute)),
	}

	got := ByType(items, model.TypeNote)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "n2" || got[1].ID != "n1" {
		t.Errorf("order = %s, %s; want newest edit first", got[0].ID, got[1].ID)
	}
}

func TestGroupByDayBucketsInLocalZone(t *testing.T) {
	// UTC-5: 03:00 UTC on the 2nd is still the evening of the 1st.
	loc := time.FixedZone("UTC-5", -5*3600)
	edited := time.Now().UTC()

	items := []model.Item{
		scheduled("late", "late show", model.TypeEvent,
			time.Date(2026, 7, 2, 3, 0, 0, 0, time.UTC), edited),
		scheduled("lunch", "lunch", model.TypeEvent,
			time.Date(2026, 7, 2, 17, 0, 0, 0, time.UTC), edited),
		noteItem("n", "unscheduled", edited),
	}

	groups := GroupByDay(items, loc)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}

	first := groups[0]
	if first.Day.Day() != 1 {
		t.Errorf("first day = %d, want 1 (local date of the 03:00 UTC item)", first.Day.Day())
	}
	if len(first.Items) != 1 || first.Items[0].ID != "late" {
		t.Errorf("first group = %+v", first.Items)
	}
	if groups[1].Items[0].ID != "lunch" {
		t.Errorf("second group item = %s, want lunch", groups[1].Items[0].ID)
	}
}

func TestGroupByDayOrdersWithinDay(t *testing.T) {
	loc := time.UTC
	edited := time.Now().UTC()
	day := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)

	items := []model.Item{
		scheduled("evening", "evening", model.TypeEvent, day.Add(19*time.Hour), edited),
		scheduled("allday", "all day", model.TypeReminder, day, edited),
		scheduled("morning", "morning", model.TypeEvent, day.Add(9*time.Hour), edited),
	}

	groups := GroupByDay(items, loc)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}

	ids := []string{}
	for _, it := range groups[0].Items {
		ids = append(ids, it.ID)
	}
	want := []string{"allday", "morning", "evening"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v (midnight items first)", ids, want)
		}
	}
}

func TestGroupByDayDeterministicTies(t *testing.T) {
	loc := time.UTC
	edited := time.Now().UTC()
	at := time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC)

	items := []model.Item{
		scheduled("b", "same", model.TypeEvent, at, edited),
		scheduled("a", "same", model.TypeEvent, at, edited),
	}

	groups := GroupByDay(items, loc)
	if groups[0].Items[0].ID != "a" {
		t.Error("equal times should tie-break by id")
	}
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2026, 7, 2, 12, 0, 0, 0, time.UTC)
	edited := now

	items := []model.Item{
		scheduled("past", "done", model.TypeEvent, now.Add(-time.Hour), edited),
		scheduled("soon", "soon", model.TypeEvent, now.Add(time.Hour), edited),
		scheduled("later", "later", model.TypeEvent, now.Add(2*time.Hour), edited),
		scheduled("rem", "a reminder", model.TypeReminder, now.Add(time.Minute), edited),
		scheduled("exact", "right now", model.TypeEvent, now, edited),
	}

	got := Upcoming(items, now, 0)
	ids := []string{}
	for _, it := range got {
		ids = append(ids, it.ID)
	}

	want := []string{"exact", "soon", "later"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}

	if got := Upcoming(items, now, 1); len(got) != 1 || got[0].ID != "exact" {
		t.Errorf("limited = %+v, want just the soonest", got)
	}
}

func TestRecentlyEdited(t *testing.T) {
	base := time.Date(2026, 7, 2, 12, 0, 0, 0, time.UTC)
	items := []model.Item{
		noteItem("old", "old", base.Add(-time.Hour)),
		noteItem("new", "new", base),
		noteItem("mid", "mid", base.Add(-time.Minute)),
	}

	got := RecentlyEdited(items, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "new" || got[1].ID != "mid" {
		t.Errorf("order = %s, %s", got[0].ID, got[1].ID)
	}

	// Input must not be reordered.
	if items[0].ID != "old" {
		t.Error("projection mutated its input")
	}
}

func TestSearchByTitle(t *testing.T) {
	now := time.Now().UTC()
	items := []model.Item{
		noteItem("a", "Grocery list", now),
		noteItem("b", "Call dentist", now.Add(time.Minute)),
		noteItem("c", "grocery budget", now.Add(2*time.Minute)),
	}

	got := SearchByTitle(items, "GROCERY")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("order = %s, %s; want newest edit first", got[0].ID, got[1].ID)
	}

	if got := SearchByTitle(items, "  "); len(got) != 3 {
		t.Errorf("blank query matched %d, want all 3", len(got))
	}
}

func TestDueReminders(t *testing.T) {
	now := time.Date(2026, 7, 2, 12, 0, 0, 0, time.UTC)
	lead := model.ReminderLead{Value: 15, Unit: model.LeadMinutes}

	withLead := func(it model.Item) model.Item {
		it.HasReminder = true
		l := lead
		it.ReminderLead = &l
		return it
	}

	items := []model.Item{
		// Window open: fires at 11:50, target 12:05.
		withLead(scheduled("due", "due", model.TypeReminder, now.Add(5*time.Minute), now)),
		// Not yet: fires at 12:45.
		withLead(scheduled("early", "early", model.TypeReminder, now.Add(time.Hour), now)),
		// Passed: target was 11:00.
		withLead(scheduled("past", "past", model.TypeReminder, now.Add(-time.Hour), now)),
		// No reminder configured.
		scheduled("plain", "plain", model.TypeEvent, now.Add(5*time.Minute), now),
	}

	got := DueReminders(items, now)
	if len(got) != 1 || got[0].ID != "due" {
		t.Fatalf("due = %+v, want only the open window", got)
	}
}
