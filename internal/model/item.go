package model

import (
	"fmt"
	"strings"
	"time"
)

// ItemType discriminates the three planner record kinds.
type ItemType string

const (
	TypeEvent    ItemType = "Event"
	TypeReminder ItemType = "Reminder"
	TypeNote     ItemType = "Note"
)

// DraftID is the sentinel id of an item that has not been persisted yet.
// The backend assigns the real id on create.
const DraftID = "new_item"

// LeadUnit is the unit of a reminder lead time.
type LeadUnit string

const (
	LeadMinutes LeadUnit = "minutes"
	LeadHours   LeadUnit = "hours"
	LeadDays    LeadUnit = "days"
)

// ReminderLead is how far ahead of the target time a reminder fires.
type ReminderLead struct {
	Value int      `json:"value"`
	Unit  LeadUnit `json:"unit"`
}

// DefaultReminderLead is applied when a reminder is enabled without an
// explicit lead.
var DefaultReminderLead = ReminderLead{Value: 15, Unit: LeadMinutes}

// ReminderLeadOptions are the lead choices offered by the editor.
var ReminderLeadOptions = []ReminderLead{
	{Value: 5, Unit: LeadMinutes},
	{Value: 15, Unit: LeadMinutes},
	{Value: 30, Unit: LeadMinutes},
	{Value: 1, Unit: LeadHours},
	{Value: 2, Unit: LeadHours},
	{Value: 1, Unit: LeadDays},
	{Value: 2, Unit: LeadDays},
}

// Duration converts the lead into a time.Duration.
func (l ReminderLead) Duration() time.Duration {
	switch l.Unit {
	case LeadHours:
		return time.Duration(l.Value) * time.Hour
	case LeadDays:
		return time.Duration(l.Value) * 24 * time.Hour
	default:
		return time.Duration(l.Value) * time.Minute
	}
}

// Label returns a short human-readable form, e.g. "15 minutes".
func (l ReminderLead) Label() string {
	unit := string(l.Unit)
	if l.Value == 1 {
		unit = strings.TrimSuffix(unit, "s")
	}
	return fmt.Sprintf("%d %s", l.Value, unit)
}

// Item is a single planner record: an event, a reminder, or a note.
// Type determines which optional fields are meaningful; Normalize
// enforces that at the mutation boundary.
type Item struct {
	// ID is assigned by the backend on create. DraftID (or empty)
	// marks an item that exists only in the editor.
	ID string `json:"id" db:"id"`

	// OwnerID is set by the backend from the request credential,
	// never by the client.
	OwnerID string `json:"owner_id" db:"owner_id"`

	Type    ItemType `json:"type" db:"type"`
	Title   string   `json:"title" db:"title"`
	Content string   `json:"content" db:"content"`

	// TargetTime is the scheduled moment in UTC. Only meaningful for
	// events and reminders; nil for notes.
	TargetTime *time.Time `json:"target_time_utc,omitempty" db:"target_time"`

	// HasReminder is only meaningful for events; reminders always
	// have it set.
	HasReminder bool `json:"has_reminder" db:"has_reminder"`

	// ReminderLead is only meaningful while HasReminder is true.
	ReminderLead *ReminderLead `json:"reminder_lead,omitempty" db:"-"`

	// LastEdited is stamped by the store on every accepted mutation
	// and drives the default display order.
	LastEdited time.Time `json:"last_edited" db:"last_edited"`
}

// NewDraft returns an unsaved item of the given type with the editor
// defaults: events and reminders start at 09:00 today (local time),
// reminders start with the reminder enabled.
func NewDraft(t ItemType, now time.Time) Item {
	it := Item{
		ID:   DraftID,
		Type: t,
	}
	if t == TypeEvent || t == TypeReminder {
		y, m, d := now.Date()
		target := time.Date(y, m, d, 9, 0, 0, 0, now.Location()).UTC()
		it.TargetTime = &target
	}
	if t == TypeReminder {
		it.HasReminder = true
		lead := DefaultReminderLead
		it.ReminderLead = &lead
	}
	return it
}

// IsDraft reports whether the item has not been persisted yet.
func (it Item) IsDraft() bool {
	return it.ID == "" || it.ID == DraftID
}

// IsScheduled reports whether the item occupies a calendar slot.
func (it Item) IsScheduled() bool {
	return (it.Type == TypeEvent || it.Type == TypeReminder) && it.TargetTime != nil
}

// ReminderAt returns the moment the reminder fires, if one is set.
func (it Item) ReminderAt() (time.Time, bool) {
	if !it.HasReminder || it.TargetTime == nil || it.ReminderLead == nil {
		return time.Time{}, false
	}
	return it.TargetTime.Add(-it.ReminderLead.Duration()), true
}

// Normalize enforces the per-type field invariants in place: notes
// carry no schedule or reminder, reminders always remind, and an
// enabled reminder always has a lead.
func (it *Item) Normalize() {
	switch it.Type {
	case TypeNote:
		it.TargetTime = nil
		it.HasReminder = false
		it.ReminderLead = nil
	case TypeReminder:
		it.HasReminder = true
	}

	if it.HasReminder && it.ReminderLead == nil {
		lead := DefaultReminderLead
		it.ReminderLead = &lead
	}
	if !it.HasReminder {
		it.ReminderLead = nil
	}
	if it.TargetTime != nil {
		utc := it.TargetTime.UTC()
		it.TargetTime = &utc
	}
}

// Validate checks that the item can be saved. It assumes Normalize has
// already run.
func (it Item) Validate() error {
	if strings.TrimSpace(it.Title) == "" {
		return &ValidationError{Field: "title", Reason: "title must not be empty"}
	}
	switch it.Type {
	case TypeEvent, TypeReminder, TypeNote:
	default:
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown item type %q", it.Type)}
	}
	if (it.Type == TypeEvent || it.Type == TypeReminder) && it.TargetTime == nil {
		return &ValidationError{Field: "target_time_utc", Reason: "a scheduled item needs a date and time"}
	}
	if it.ReminderLead != nil && it.ReminderLead.Value <= 0 {
		return &ValidationError{Field: "reminder_lead", Reason: "reminder lead must be positive"}
	}
	return nil
}

// ValidationError reports a field that blocks saving an item. It is
// raised before any remote call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
