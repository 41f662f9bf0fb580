package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/e-Diag/CalendarBot/internal/model"
	"github.com/e-Diag/CalendarBot/internal/remote"
	"github.com/e-Diag/CalendarBot/internal/schedule"
)

// mutationTimeout bounds a single create/update/delete round trip.
const mutationTimeout = 30 * time.Second

// mutationDoneMsg reports the outcome of a mutation command. A nil
// error clears any previous status message.
type mutationDoneMsg struct {
	err error
}

// createItem returns a command that persists a draft from the editor.
func (m Model) createItem(draft model.Item) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		_, err := s.Create(ctx, draft)
		return mutationDoneMsg{err: err}
	}
}

// updateItem returns a command that applies the editor's full desired
// state to an existing item.
func (m Model) updateItem(id string, desired model.Item) tea.Cmd {
	s := m.store
	patch := patchFromItem(desired)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		_, err := s.Update(ctx, id, patch)
		return mutationDoneMsg{err: err}
	}
}

// deleteItem returns a command that removes an item.
func (m Model) deleteItem(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		return mutationDoneMsg{err: s.Delete(ctx, id)}
	}
}

// refreshItems returns a command that re-runs initialization, used by
// the manual refresh key to recover from a degraded state.
func (m Model) refreshItems() tea.Cmd {
	s := m.store
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		return mutationDoneMsg{err: s.Initialize(ctx, session)}
	}
}

// patchFromItem converts the editor's full state into a patch. The
// editor always submits every field, so the patch sets them all;
// clearing the schedule is expressed explicitly.
func patchFromItem(it model.Item) schedule.Patch {
	t := it.Type
	title := it.Title
	content := it.Content
	hasReminder := it.HasReminder

	p := schedule.Patch{
		Type:        &t,
		Title:       &title,
		Content:     &content,
		HasReminder: &hasReminder,
	}
	if it.TargetTime != nil {
		target := *it.TargetTime
		p.TargetTime = &target
	} else {
		p.ClearTargetTime = true
	}
	if it.ReminderLead != nil {
		lead := *it.ReminderLead
		p.ReminderLead = &lead
	}
	return p
}

// statusMessage maps a mutation error to a short status bar message.
func statusMessage(err error) string {
	if err == nil {
		return ""
	}

	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}

	switch {
	case errors.Is(err, schedule.ErrBusy):
		return "That item has a change in flight; try again in a moment."
	case errors.Is(err, schedule.ErrNotFound):
		return "That item no longer exists."
	case remote.IsUnauthorized(err):
		return "Authentication failed. Check your planner token."
	}

	switch remote.KindOf(err) {
	case remote.KindNetwork:
		return "Network error; the change was not saved."
	case remote.KindServer:
		return "The planner service rejected the change."
	}
	return fmt.Sprintf("Error: %v", err)
}
