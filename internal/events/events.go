// Package events defines the domain events exchanged between modules over the
// in-process bus. Payloads carry identifiers, not full aggregates, so handlers
// reload current state instead of acting on stale snapshots.
package events

import (
	"montagehub_backend/platform/events"

	"github.com/google/uuid"
)

const (
	EventMontageCreated         = "montages.created"
	EventMontageStatusChanged   = "montages.status_changed"
	EventChecklistItemCompleted = "montages.checklist.item_completed"
)

// MontageCreated fires after a montage row is committed. The checklist
// materializer listens for it.
type MontageCreated struct {
	events.BaseEvent
	MontageID uuid.UUID
}

func (e MontageCreated) EventName() string { return EventMontageCreated }

func NewMontageCreated(montageID uuid.UUID) MontageCreated {
	return MontageCreated{
		BaseEvent: events.NewBaseEvent(),
		MontageID: montageID,
	}
}

// MontageStatusChanged fires on every pipeline stage transition.
type MontageStatusChanged struct {
	events.BaseEvent
	MontageID  uuid.UUID
	FromStatus string
	ToStatus   string
}

func (e MontageStatusChanged) EventName() string { return EventMontageStatusChanged }

func NewMontageStatusChanged(montageID uuid.UUID, from, to string) MontageStatusChanged {
	return MontageStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		MontageID:  montageID,
		FromStatus: from,
		ToStatus:   to,
	}
}

// ChecklistItemCompleted fires when an administrative checklist item is
// ticked off.
type ChecklistItemCompleted struct {
	events.BaseEvent
	MontageID   uuid.UUID
	ItemID      uuid.UUID
	TemplateKey string
	CompletedBy uuid.UUID
}

func (e ChecklistItemCompleted) EventName() string { return EventChecklistItemCompleted }

func NewChecklistItemCompleted(montageID, itemID uuid.UUID, templateKey string, completedBy uuid.UUID) ChecklistItemCompleted {
	return ChecklistItemCompleted{
		BaseEvent:   events.NewBaseEvent(),
		MontageID:   montageID,
		ItemID:      itemID,
		TemplateKey: templateKey,
		CompletedBy: completedBy,
	}
}
