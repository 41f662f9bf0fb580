package schedule

import (
	"time"

	"github.com/e-Diag/CalendarBot/internal/model"
)

// Patch describes a partial edit to an item. Nil fields are left
// untouched; ClearTargetTime removes the schedule outright (setting
// TargetTime and ClearTargetTime together is a caller bug, clearing
// wins). Type changes go through the same normalization as any other
// write, so switching to Note drops the schedule and switching to
// Reminder forces the reminder flag.
type Patch struct {
	Type            *model.ItemType
	Title           *string
	Content         *string
	TargetTime      *time.Time
	ClearTargetTime bool
	HasReminder     *bool
	ReminderLead    *model.ReminderLead
}

func (p Patch) apply(it *model.Item) {
	if p.Type != nil {
		it.Type = *p.Type
	}
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Content != nil {
		it.Content = *p.Content
	}
	if p.ClearTargetTime {
		it.TargetTime = nil
	} else if p.TargetTime != nil {
		t := *p.TargetTime
		it.TargetTime = &t
	}
	if p.HasReminder != nil {
		it.HasReminder = *p.HasReminder
	}
	if p.ReminderLead != nil {
		lead := *p.ReminderLead
		it.ReminderLead = &lead
	}
}
