// Package calendar is the agenda tab: scheduled items grouped by day,
// earliest day first, with a cursor over the items.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/e-Diag/CalendarBot/internal/keys"
	"github.com/e-Diag/CalendarBot/internal/model"
	"github.com/e-Diag/CalendarBot/internal/schedule"
	"github.com/e-Diag/CalendarBot/internal/theme"
)

// SelectedMsg is sent when the user opens a scheduled item for editing.
type SelectedMsg struct {
	ID string
}

// row is one rendered line: either a day heading or an item under it.
type row struct {
	heading string
	item    *model.Item
}

// Model is the agenda view component.
type Model struct {
	keys   *keys.KeyMap
	loc    *time.Location
	rows   []row
	cursor int
	offset int
	width  int
	height int
}

// New creates a new agenda model grouping days in loc.
func New(k *keys.KeyMap, loc *time.Location, width, height int) Model {
	if loc == nil {
		loc = time.Local
	}
	return Model{
		keys:   k,
		loc:    loc,
		cursor: -1,
		width:  width,
		height: height,
	}
}

// SetSnapshot replaces the collection snapshot and rebuilds the agenda
// rows. The cursor stays on the same item id when it survives the
// update.
func (m *Model) SetSnapshot(items []model.Item) {
	var selectedID string
	if it, ok := m.SelectedItem(); ok {
		selectedID = it.ID
	}

	groups := schedule.GroupByDay(items, m.loc)

	m.rows = m.rows[:0]
	for _, g := range groups {
		m.rows = append(m.rows, row{heading: formatDay(g.Day)})
		for i := range g.Items {
			it := g.Items[i]
			m.rows = append(m.rows, row{item: &it})
		}
	}

	m.cursor = -1
	for i, r := range m.rows {
		if r.item == nil {
			continue
		}
		if m.cursor < 0 || r.item.ID == selectedID {
			m.cursor = i
			if r.item.ID == selectedID {
				break
			}
		}
	}
	m.clampScroll()
}

// Update handles messages for the agenda view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(keyMsg, m.keys.Select):
		it, ok := m.SelectedItem()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedMsg{ID: it.ID}
		}
	}

	return m, nil
}

// moveCursor advances to the next item row in the given direction,
// skipping day headings.
func (m *Model) moveCursor(dir int) {
	for i := m.cursor + dir; i >= 0 && i < len(m.rows); i += dir {
		if m.rows[i].item != nil {
			m.cursor = i
			break
		}
	}
	m.clampScroll()
}

// clampScroll keeps the cursor row inside the visible window.
func (m *Model) clampScroll() {
	if m.cursor < 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if bottom := m.offset + m.height - 1; m.cursor > bottom {
		m.offset = m.cursor - m.height + 1
	}
}

// SelectedItem returns the item under the cursor, if any.
func (m Model) SelectedItem() (model.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) || m.rows[m.cursor].item == nil {
		return model.Item{}, false
	}
	return *m.rows[m.cursor].item, true
}

// View renders the agenda.
func (m Model) View() string {
	if len(m.rows) == 0 {
		return m.renderEmptyState()
	}

	var b strings.Builder
	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		if r.item == nil {
			b.WriteString(theme.DayHeaderStyle.Render(r.heading))
		} else {
			b.WriteString(m.renderItem(*r.item, i == m.cursor))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderItem draws a single agenda line: time of day, type badge,
// title, and the reminder marker.
func (m Model) renderItem(it model.Item, selected bool) string {
	local := it.TargetTime.In(m.loc)

	timeStr := local.Format("15:04")
	if local.Hour() == 0 && local.Minute() == 0 {
		timeStr = "all day"
	}
	timeCol := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Width(8).
		Render(timeStr)

	badge := theme.TypeStyle(string(it.Type)).Render(typeBadge(it.Type))

	bell := ""
	if it.HasReminder && it.ReminderLead != nil {
		bell = lipgloss.NewStyle().
			Foreground(theme.ColorOrange).
			Render(" ⏰ " + it.ReminderLead.Label() + " before")
	}

	line := fmt.Sprintf("%s %s %s%s", timeCol, badge, it.Title, bell)

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// renderEmptyState shows guidance text when nothing is scheduled.
func (m Model) renderEmptyState() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render("Nothing scheduled.\n\nPress e for an event, m for a reminder.")
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

// formatDay renders a day heading, e.g. "Mon, Jan 2 2006".
func formatDay(day time.Time) string {
	now := time.Now().In(day.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, day.Location())

	switch {
	case day.Equal(today):
		return "Today · " + day.Format("Mon, Jan 2")
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow · " + day.Format("Mon, Jan 2")
	default:
		return day.Format("Mon, Jan 2 2006")
	}
}

// typeBadge returns the short label for the agenda badge column.
func typeBadge(t model.ItemType) string {
	switch t {
	case model.TypeEvent:
		return "EVT"
	case model.TypeReminder:
		return "REM"
	default:
		return "???"
	}
}
