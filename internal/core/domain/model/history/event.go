// Package history models the append-only status history shared by commands,
// packages and tours.
//
// An Event is immutable once built. The owning entity keeps a Ref to its newest
// event; the Ref is only ever produced from an Event so the pointer and the log
// cannot describe different statuses.
package history

import (
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"
)

var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent constructor")

// Event is one status assignment of one entity.
type Event struct {
	id        kernel.UUID
	kind      status.Kind
	entityID  string
	statusID  status.ID
	profileID *kernel.UUID
	createdAt time.Time

	isConstructed bool
}

// NewEvent builds a fresh event. profileID is nil for system-created events.
func NewEvent(
	kind status.Kind,
	entityID string,
	statusID status.ID,
	profileID *kernel.UUID,
	createdAt time.Time,
) (*Event, error) {
	return RestoreEvent(kernel.NewUUID(), kind, entityID, statusID, profileID, createdAt)
}

// RestoreEvent rebuilds an event loaded from storage.
func RestoreEvent(
	id kernel.UUID,
	kind status.Kind,
	entityID string,
	statusID status.ID,
	profileID *kernel.UUID,
	createdAt time.Time,
) (*Event, error) {
	var errProfile error
	if profileID != nil {
		errProfile = profileID.Validate()
	}

	var errEntity error
	if entityID == "" {
		errEntity = errs.NewValueIsRequiredError("entityID")
	}

	var errCreatedAt error
	if createdAt.IsZero() {
		errCreatedAt = errs.NewValueIsRequiredError("createdAt")
	}

	if err := errors.Join(
		id.Validate(),
		status.ValidateID(kind, statusID),
		errEntity,
		errProfile,
		errCreatedAt,
	); err != nil {
		return nil, err
	}

	return &Event{
		id:            id,
		kind:          kind,
		entityID:      entityID,
		statusID:      statusID,
		profileID:     profileID,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}, nil
}

// Validate ensures the event was created through a constructor.
// Returns ErrEventIsNotConstructed if validation fails.
func (e *Event) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

// ID returns the event identifier.
func (e *Event) ID() kernel.UUID {
	return e.id
}

// Kind returns the entity table the event belongs to.
func (e *Event) Kind() status.Kind {
	return e.kind
}

// EntityID returns the command, package or tour id as text.
func (e *Event) EntityID() string {
	return e.entityID
}

// StatusID returns the status assigned by the event.
func (e *Event) StatusID() status.ID {
	return e.statusID
}

// ProfileID is the acting profile, nil when the system created the event.
func (e *Event) ProfileID() *kernel.UUID {
	return e.profileID
}

// CreatedAt returns when the status was assigned, in UTC.
func (e *Event) CreatedAt() time.Time {
	return e.createdAt
}

// Ref returns the pointer value an entity stores for this event.
func (e *Event) Ref() Ref {
	return Ref{eventID: e.id, statusID: e.statusID, createdAt: e.createdAt}
}
