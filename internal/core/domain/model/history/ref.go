package history

import (
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
)

// Ref is the denormalized "current status" pointer an entity keeps to its
// newest history event.
type Ref struct {
	eventID   kernel.UUID
	statusID  status.ID
	createdAt time.Time
}

// RestoreRef rebuilds a pointer from its stored columns.
func RestoreRef(kind status.Kind, eventID kernel.UUID, statusID status.ID, createdAt time.Time) (Ref, error) {
	if err := eventID.Validate(); err != nil {
		return Ref{}, err
	}
	if err := status.ValidateID(kind, statusID); err != nil {
		return Ref{}, err
	}
	return Ref{eventID: eventID, statusID: statusID, createdAt: createdAt.UTC()}, nil
}

// EventID returns the event the pointer designates.
func (r Ref) EventID() kernel.UUID {
	return r.eventID
}

// StatusID returns the current status.
func (r Ref) StatusID() status.ID {
	return r.statusID
}

// CreatedAt returns the timestamp of the current event.
func (r Ref) CreatedAt() time.Time {
	return r.createdAt
}

// Advance returns the pointer the entity should hold after ev was appended.
// The pointer keeps referencing the event with the greatest timestamp, so an
// event back-dated before the current one is logged without moving it. Ties
// go to the later append.
func Advance(current *Ref, ev *Event) Ref {
	next := ev.Ref()
	if current == nil {
		return next
	}
	if ev.createdAt.Before(current.createdAt) {
		return *current
	}
	return next
}
