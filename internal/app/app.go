// Package app is the root Bubble Tea model: it routes messages between
// the store bridge, the tab views, and the editor, and owns the frame
// layout.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/e-Diag/CalendarBot/internal/keys"
	"github.com/e-Diag/CalendarBot/internal/model"
	"github.com/e-Diag/CalendarBot/internal/schedule"
	"github.com/e-Diag/CalendarBot/internal/ui"
	"github.com/e-Diag/CalendarBot/internal/ui/calendar"
	"github.com/e-Diag/CalendarBot/internal/ui/editor"
	helpview "github.com/e-Diag/CalendarBot/internal/ui/help"
	"github.com/e-Diag/CalendarBot/internal/ui/notes"
	"github.com/e-Diag/CalendarBot/internal/ui/recent"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewCalendar ViewState = iota
	ViewNotes
	ViewRecent
	ViewEditor
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the schedule store.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *schedule.Store
	session      model.Session
	keys         *keys.KeyMap
	loc          *time.Location

	calendarView calendar.Model
	notesView    notes.Model
	recentView   recent.Model
	editorView   editor.Model
	helpView     helpview.Model

	bridge    *bridge
	snapshot  []model.Item
	syncState schedule.SyncState
	due       []model.Item
	dismissed map[string]bool
	statusMsg string
	ready     bool
}

// New creates the root application model.
func New(s *schedule.Store, session model.Session, display model.DisplayConfig) Model {
	k := keys.DefaultKeyMap()
	loc := time.Local

	return Model{
		currentView:  ViewCalendar,
		store:        s,
		session:      session,
		keys:         k,
		loc:          loc,
		calendarView: calendar.New(k, loc, 80, 24),
		notesView:    notes.New(k, 80, 24),
		recentView:   recent.New(k, display.UpcomingLimit, 80, 24),
		editorView:   editor.New(loc, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		bridge:       newBridge(s),
		syncState:    schedule.SyncInitializing,
		dismissed:    make(map[string]bool),
	}
}

// Init subscribes to the store, starts initialization, and schedules
// the reminder ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.bridge.Start(),
		m.initializeStore(),
		reminderTick(),
	)
}

// initializeStore binds the store to the backend in the background.
func (m Model) initializeStore() tea.Cmd {
	s := m.store
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		return mutationDoneMsg{err: s.Initialize(ctx, session)}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.layout.SetBannerVisible(len(m.due) > 0)
		m.ready = true
		m.resizeViews()
		// Forward to the active view so huh forms can lay out.
		return m.updateActiveView(msg)

	case SnapshotMsg:
		m.snapshot = msg.Items
		m.syncState = msg.State
		m.due = m.dueReminders(m.snapshot, time.Now())
		m.layout.SetBannerVisible(len(m.due) > 0)
		m.resizeViews()

		m.calendarView.SetSnapshot(m.snapshot)
		notesCmd := m.notesView.SetSnapshot(m.snapshot)
		recentCmd := m.recentView.SetSnapshot(m.snapshot)
		return m, tea.Batch(m.bridge.waitForSnapshot(), notesCmd, recentCmd)

	case mutationDoneMsg:
		m.statusMsg = statusMessage(msg.err)
		return m, nil

	case reminderTickMsg:
		m.due = m.dueReminders(m.snapshot, msg.now)
		m.layout.SetBannerVisible(len(m.due) > 0)
		m.resizeViews()
		return m, reminderTick()

	case calendar.SelectedMsg:
		return m.openEditor(msg.ID)

	case notes.SelectedMsg:
		return m.openEditor(msg.ID)

	case recent.SelectedMsg:
		return m.openEditor(msg.ID)

	case editor.SubmitMsg:
		m.currentView = m.previousView
		if msg.EditID == "" {
			return m, m.createItem(msg.Item)
		}
		return m, m.updateItem(msg.EditID, msg.Item)

	case editor.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the active
// view. The editor and the notes search own their input, so most
// globals are disabled there.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.currentView == ViewEditor {
		return m, nil, false
	}
	if m.currentView == ViewNotes && m.notesView.Searching() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView = m.currentView
			m.currentView = ViewHelp
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false

	case key.Matches(msg, m.keys.Calendar):
		m.currentView = ViewCalendar
		return m, nil, true

	case key.Matches(msg, m.keys.NotesTab):
		m.currentView = ViewNotes
		return m, nil, true

	case key.Matches(msg, m.keys.Recent):
		m.currentView = ViewRecent
		return m, nil, true

	case key.Matches(msg, m.keys.NewEvent):
		return m.startCreate(model.TypeEvent)

	case key.Matches(msg, m.keys.NewReminder):
		return m.startCreate(model.TypeReminder)

	case key.Matches(msg, m.keys.NewNote):
		return m.startCreate(model.TypeNote)

	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.selectedID(); ok {
			return m, m.deleteItem(id), true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Refresh):
		m.statusMsg = ""
		return m, m.refreshItems(), true

	case key.Matches(msg, m.keys.DismissBanner):
		for _, it := range m.due {
			m.dismissed[it.ID] = true
		}
		m.due = nil
		m.layout.SetBannerVisible(false)
		m.resizeViews()
		return m, nil, true
	}

	return m, nil, false
}

func (m Model) quit() (tea.Model, tea.Cmd, bool) {
	m.bridge.Stop()
	m.store.Close()
	return m, tea.Quit, true
}

// startCreate opens the editor with a fresh draft of the given type.
func (m Model) startCreate(t model.ItemType) (tea.Model, tea.Cmd, bool) {
	m.previousView = m.currentView
	m.currentView = ViewEditor
	return m, m.editorView.StartCreate(t, time.Now()), true
}

// openEditor loads an existing item into the editor.
func (m Model) openEditor(id string) (tea.Model, tea.Cmd) {
	it, ok := m.findItem(id)
	if !ok {
		m.statusMsg = "That item no longer exists."
		return m, nil
	}
	m.previousView = m.currentView
	m.currentView = ViewEditor
	return m, m.editorView.StartEdit(it)
}

// selectedID returns the id highlighted in the active tab.
func (m Model) selectedID() (string, bool) {
	switch m.currentView {
	case ViewCalendar:
		it, ok := m.calendarView.SelectedItem()
		return it.ID, ok
	case ViewNotes:
		return m.notesView.Selected()
	case ViewRecent:
		return m.recentView.Selected()
	}
	return "", false
}

// findItem looks up an item in the current snapshot.
func (m Model) findItem(id string) (model.Item, bool) {
	for _, it := range m.snapshot {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewCalendar:
		m.calendarView, cmd = m.calendarView.Update(msg)
	case ViewNotes:
		m.notesView, cmd = m.notesView.Update(msg)
	case ViewRecent:
		m.recentView, cmd = m.recentView.Update(msg)
	case ViewEditor:
		m.editorView, cmd = m.editorView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// resizeViews pushes the current content dimensions to every view.
func (m *Model) resizeViews() {
	if !m.ready {
		return
	}
	w := m.layout.ContentWidth()
	h := m.layout.ContentHeight()
	m.calendarView.SetSize(w, h)
	m.notesView.SetSize(w, h)
	m.recentView.SetSize(w, h)
	m.editorView.SetSize(w, h)
	m.helpView.SetSize(w, h)
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.syncState.String())

	banner := ""
	if len(m.due) > 0 {
		banner = m.layout.RenderBanner(bannerText(m.due, m.loc))
	}

	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, banner, m.renderContent(), statusBar)
}

// headerTitle shows the application name and, when one exists, the
// next upcoming event.
func (m Model) headerTitle() string {
	next := schedule.Upcoming(m.snapshot, time.Now(), 1)
	if len(next) == 0 {
		return "Calendar Bot"
	}
	ev := next[0]
	return "Calendar Bot · next: " + ev.Title + " " +
		ev.TargetTime.In(m.loc).Format("Jan 2 15:04")
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCalendar:
		return m.calendarView.View()
	case ViewNotes:
		return m.notesView.View()
	case ViewRecent:
		return m.recentView.View()
	case ViewEditor:
		return m.editorView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar. A
// pending status message takes priority.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView != ViewEditor {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewEditor:
		return "enter next field | esc cancel"
	case ViewNotes:
		return "q quit | ? help | / search | n new note | enter edit | d delete"
	case ViewRecent:
		return "q quit | ? help | enter edit | d delete"
	default:
		return "q quit | ? help | e event | m reminder | n note | enter edit | d delete"
	}
}
