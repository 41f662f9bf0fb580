package notes

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/e-Diag/CalendarBot/internal/model"
	"github.com/e-Diag/CalendarBot/internal/theme"
)

// NoteItem wraps a model.Item so it can be used in a bubbles/list.
type NoteItem struct {
	Item model.Item
}

// FilterValue returns the string used for fuzzy filtering.
func (i NoteItem) FilterValue() string { return i.Item.Title }

// Title returns the note title for the list.
func (i NoteItem) Title() string { return i.Item.Title }

// Description returns a short summary line for the list.
func (i NoteItem) Description() string {
	return RelativeTime(i.Item.LastEdited)
}

// ItemDelegate implements list.ItemDelegate for rendering note rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single note line: badge, title, content preview, and
// how long ago it was edited.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(NoteItem)
	if !ok {
		return
	}

	it := ni.Item
	badge := theme.TypeStyle(string(it.Type)).Render("NOTE")

	preview := it.Content
	if len(preview) > 40 {
		preview = preview[:40] + "…"
	}
	previewStr := ""
	if preview != "" {
		previewStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" " + preview)
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(RelativeTime(it.LastEdited))

	line := fmt.Sprintf("%s %s%s  %s", badge, it.Title, previewStr, timeStr)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// RelativeTime returns a human-friendly relative time string.
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
