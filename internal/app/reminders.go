package app

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/e-Diag/CalendarBot/internal/model"
	"github.com/e-Diag/CalendarBot/internal/schedule"
)

// reminderCheckInterval is how often due reminders are re-evaluated.
const reminderCheckInterval = 30 * time.Second

// reminderTickMsg triggers a due-reminder evaluation.
type reminderTickMsg struct {
	now time.Time
}

// reminderTick schedules the next due-reminder check.
func reminderTick() tea.Cmd {
	return tea.Tick(reminderCheckInterval, func(t time.Time) tea.Msg {
		return reminderTickMsg{now: t}
	})
}

// dueReminders returns the open reminders that have not been dismissed
// this session.
func (m Model) dueReminders(items []model.Item, now time.Time) []model.Item {
	due := schedule.DueReminders(items, now)

	out := due[:0]
	for _, it := range due {
		if m.dismissed[it.ID] {
			continue
		}
		out = append(out, it)
	}
	return out
}

// bannerText formats the due-reminder banner line.
func bannerText(due []model.Item, loc *time.Location) string {
	if len(due) == 0 {
		return ""
	}

	first := due[0]
	when := first.TargetTime.In(loc).Format("15:04")
	text := "⏰ " + first.Title + " at " + when

	if len(due) > 1 {
		var rest []string
		for _, it := range due[1:] {
			rest = append(rest, it.Title)
		}
		text += " (+" + strings.Join(rest, ", ") + ")"
	}
	return text + "  [x dismiss]"
}
