// Package recent is the recently-edited tab: every item type in one
// list, newest edit first.
package recent

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/e-Diag/CalendarBot/internal/keys"
	"github.com/e-Diag/CalendarBot/internal/model"
	"github.com/e-Diag/CalendarBot/internal/schedule"
	"github.com/e-Diag/CalendarBot/internal/theme"
	"github.com/e-Diag/CalendarBot/internal/ui/notes"
)

// SelectedMsg is sent when the user opens an item for editing.
type SelectedMsg struct {
	ID string
}

// recentItem wraps a model.Item for bubbles/list.
type recentItem struct {
	Item model.Item
}

func (i recentItem) FilterValue() string { return i.Item.Title }
func (i recentItem) Title() string       { return i.Item.Title }
func (i recentItem) Description() string {
	return notes.RelativeTime(i.Item.LastEdited)
}

// itemDelegate renders one row: type badge, title, schedule hint, and
// edit recency.
type itemDelegate struct{}

func (d itemDelegate) Height() int  { return 1 }
func (d itemDelegate) Spacing() int { return 0 }

func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(recentItem)
	if !ok {
		return
	}

	it := ri.Item
	badge := theme.TypeStyle(string(it.Type)).Render(string(it.Type))

	when := ""
	if it.TargetTime != nil {
		when = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" " + it.TargetTime.Local().Format("Jan 2 15:04"))
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(notes.RelativeTime(it.LastEdited))

	line := fmt.Sprintf("%s %s%s  %s", badge, it.Title, when, timeStr)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the recently-edited list view component.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	limit  int
	width  int
	height int
}

// New creates a new recently-edited model. A limit of 0 or less shows
// everything.
func New(k *keys.KeyMap, limit, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-2)
	l.Title = "Recently Edited"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		limit:  limit,
		width:  width,
		height: height,
	}
}

// SetSnapshot replaces the collection snapshot.
func (m *Model) SetSnapshot(items []model.Item) tea.Cmd {
	visible := schedule.RecentlyEdited(items, m.limit)
	rows := make([]list.Item, len(visible))
	for i, it := range visible {
		rows[i] = recentItem{Item: it}
	}
	return m.list.SetItems(rows)
}

// Update handles messages for the recently-edited view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Select) {
			item, ok := m.list.SelectedItem().(recentItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedMsg{ID: item.Item.ID}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Selected returns the id of the highlighted item, if any.
func (m Model) Selected() (string, bool) {
	item, ok := m.list.SelectedItem().(recentItem)
	if !ok {
		return "", false
	}
	return item.Item.ID, true
}

// View renders the recently-edited view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Nothing here yet.")
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
