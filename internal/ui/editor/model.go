// Package editor is the create/edit form for planner items, built on
// huh. It emits the full desired item state on submit; persistence is
// the caller's job.
package editor

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/e-Diag/CalendarBot/internal/model"
	"github.com/e-Diag/CalendarBot/internal/theme"
)

// SubmitMsg is dispatched when the form is completed. EditID is empty
// for a new item; Item carries the full desired state either way.
type SubmitMsg struct {
	EditID string
	Item   model.Item
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	itemType    model.ItemType
	title       string
	content     string
	date        string
	timeOfDay   string
	hasReminder bool
	leadIndex   int
}

// Model is the Bubble Tea model for the item create/edit form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	loc    *time.Location
	editID string
	width  int
	height int
}

// New creates a new editor model. Dates typed into the form are
// interpreted in loc.
func New(loc *time.Location, width, height int) Model {
	if loc == nil {
		loc = time.Local
	}
	return Model{
		fb:     &formBindings{itemType: model.TypeEvent},
		loc:    loc,
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a fresh draft of the given type.
func (m *Model) StartCreate(t model.ItemType, now time.Time) tea.Cmd {
	draft := model.NewDraft(t, now)
	m.editID = ""
	m.bindItem(draft)
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing item's state.
func (m *Model) StartEdit(it model.Item) tea.Cmd {
	m.editID = it.ID
	m.bindItem(it)
	m.form = m.buildForm()
	return m.form.Init()
}

// bindItem copies item state into the form bindings.
func (m *Model) bindItem(it model.Item) {
	m.fb.itemType = it.Type
	m.fb.title = it.Title
	m.fb.content = it.Content
	m.fb.date = ""
	m.fb.timeOfDay = ""
	if it.TargetTime != nil {
		local := it.TargetTime.In(m.loc)
		m.fb.date = local.Format("2006-01-02")
		if local.Hour() != 0 || local.Minute() != 0 {
			m.fb.timeOfDay = local.Format("15:04")
		}
	}
	m.fb.hasReminder = it.HasReminder
	m.fb.leadIndex = leadIndexOf(it.ReminderLead)
}

// Update handles messages for the editor form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the editor form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Item"
	if m.editID != "" {
		titleText = "Edit Item"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewSelect[model.ItemType]().
			Title("Type").
			Options(
				huh.NewOption("Event", model.TypeEvent),
				huh.NewOption("Reminder", model.TypeReminder),
				huh.NewOption("Note", model.TypeNote),
			).
			Value(&m.fb.itemType),
		huh.NewInput().
			Title("Title").
			Placeholder("What is it?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Details").
			Placeholder("Optional details...").
			Value(&m.fb.content),
		huh.NewInput().
			Title("Date").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.date).
			Validate(m.validateDate),
		huh.NewInput().
			Title("Time").
			Placeholder("HH:MM (empty for all day)").
			Value(&m.fb.timeOfDay).
			Validate(validateOptionalTime),
		huh.NewConfirm().
			Title("Remind me").
			Value(&m.fb.hasReminder),
		m.leadField(),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) leadField() huh.Field {
	opts := make([]huh.Option[int], len(model.ReminderLeadOptions))
	for i, lead := range model.ReminderLeadOptions {
		opts[i] = huh.NewOption(lead.Label()+" before", i)
	}
	return huh.NewSelect[int]().
		Title("Remind how early").
		Options(opts...).
		Value(&m.fb.leadIndex)
}

func (m Model) handleSubmit() tea.Cmd {
	it := model.Item{
		ID:      m.editID,
		Type:    m.fb.itemType,
		Title:   m.fb.title,
		Content: m.fb.content,
	}
	if it.ID == "" {
		it.ID = model.DraftID
	}

	if m.fb.itemType != model.TypeNote {
		if target, err := m.parseTarget(); err == nil {
			it.TargetTime = &target
		}
		it.HasReminder = m.fb.hasReminder
		if it.HasReminder {
			lead := model.ReminderLeadOptions[m.fb.leadIndex]
			it.ReminderLead = &lead
		}
	}

	editID := m.editID
	return func() tea.Msg { return SubmitMsg{EditID: editID, Item: it} }
}

// parseTarget combines the date and optional time fields into a UTC
// instant. An empty time means midnight, i.e. a date-only item.
func (m Model) parseTarget() (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(m.fb.date), m.loc)
	if err != nil {
		return time.Time{}, err
	}

	tod := strings.TrimSpace(m.fb.timeOfDay)
	if tod == "" {
		return day.UTC(), nil
	}

	clock, err := time.Parse("15:04", tod)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, m.loc,
	).UTC(), nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

// validateDate requires a parseable date whenever the selected type
// occupies a calendar slot. Notes ignore the field.
func (m Model) validateDate(s string) error {
	s = strings.TrimSpace(s)
	if m.fb.itemType == model.TypeNote {
		return nil
	}
	if s == "" {
		return fmt.Errorf("a date is required for events and reminders")
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("invalid time format, use HH:MM")
	}
	return nil
}

// leadIndexOf maps a lead back to its option index, defaulting to the
// 15 minute option.
func leadIndexOf(lead *model.ReminderLead) int {
	if lead == nil {
		lead = &model.DefaultReminderLead
	}
	for i, opt := range model.ReminderLeadOptions {
		if opt == *lead {
			return i
		}
	}
	return 1
}
