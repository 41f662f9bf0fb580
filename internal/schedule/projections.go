package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/e-Diag/CalendarBot/internal/model"
)

// Projections are pure functions over collection snapshots. They never
// mutate their input and always return fresh slices, so views can hold
// results across store updates.

// DayGroup is one calendar day's worth of scheduled items, keyed by
// local midnight.
type DayGroup struct {
	Day   time.Time
	Items []model.Item
}

// ByType returns the items of the given type, ordered by descending
// lastEdited with id as tie-break.
func ByType(items []model.Item, t model.ItemType) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Type == t {
			out = append(out, it)
		}
	}
	sortByLastEditedDesc(out)
	return out
}

// GroupByDay buckets scheduled items by their calendar day in loc,
// days ascending. Within a day, items sort ascending by time of day,
// so date-only items stored at midnight come first; ties fall back to
// title then id. Unscheduled items are excluded.
func GroupByDay(items []model.Item, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.Local
	}

	buckets := make(map[time.Time][]model.Item)
	for _, it := range items {
		if !it.IsScheduled() || it.TargetTime == nil {
			continue
		}
		local := it.TargetTime.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		buckets[day] = append(buckets[day], it)
	}

	groups := make([]DayGroup, 0, len(buckets))
	for day, dayItems := range buckets {
		sort.SliceStable(dayItems, func(i, j int) bool {
			a, b := dayItems[i].TargetTime.In(loc), dayItems[j].TargetTime.In(loc)
			if !a.Equal(b) {
				return a.Before(b)
			}
			if dayItems[i].Title != dayItems[j].Title {
				return dayItems[i].Title < dayItems[j].Title
			}
			return dayItems[i].ID < dayItems[j].ID
		})
		groups = append(groups, DayGroup{Day: day, Items: dayItems})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Day.Before(groups[j].Day)
	})
	return groups
}

// Upcoming returns events whose target time is at or after now,
// soonest first. A limit of 0 or less means no limit.
func Upcoming(items []model.Item, now time.Time, limit int) []model.Item {
	out := make([]model.Item, 0)
	for _, it := range items {
		if it.Type != model.TypeEvent || it.TargetTime == nil {
			continue
		}
		if it.TargetTime.Before(now) {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TargetTime.Equal(*out[j].TargetTime) {
			return out[i].TargetTime.Before(*out[j].TargetTime)
		}
		return out[i].ID < out[j].ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RecentlyEdited returns the most recently edited items across all
// types, newest first. A limit of 0 or less means no limit.
func RecentlyEdited(items []model.Item, limit int) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)
	sortByLastEditedDesc(out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Notes returns all notes, newest edit first.
func Notes(items []model.Item) []model.Item {
	return ByType(items, model.TypeNote)
}

// SearchByTitle returns items whose title contains the query,
// case-insensitively, newest edit first. An empty query matches
// everything.
func SearchByTitle(items []model.Item, query string) []model.Item {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if query == "" || strings.Contains(strings.ToLower(it.Title), query) {
			out = append(out, it)
		}
	}
	sortByLastEditedDesc(out)
	return out
}

// DueReminders returns items whose reminder window is open: the lead
// time before the target has started and the target itself has not yet
// passed. Soonest target first.
func DueReminders(items []model.Item, now time.Time) []model.Item {
	out := make([]model.Item, 0)
	for _, it := range items {
		at, ok := it.ReminderAt()
		if !ok {
			continue
		}
		if at.After(now) || it.TargetTime.Before(now) {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TargetTime.Equal(*out[j].TargetTime) {
			return out[i].TargetTime.Before(*out[j].TargetTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func sortByLastEditedDesc(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].LastEdited.Equal(items[j].LastEdited) {
			return items[i].LastEdited.After(items[j].LastEdited)
		}
		return items[i].ID < items[j].ID
	})
}
