// Package historyrepo persists the append-only status log, the static status
// tables and the current-status pointer columns shared by every entity table.
package historyrepo

import (
	"time"

	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"

	"github.com/google/uuid"
)

// EventDTO is one row of the status log. entity_id holds a uuid for commands
// and packages and the opaque hex id for tours.
type EventDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Kind      int        `gorm:"type:smallint;not null;index:idx_status_history_entity,priority:1"`
	EntityID  string     `gorm:"type:varchar(36);not null;index:idx_status_history_entity,priority:2"`
	StatusID  int        `gorm:"type:int;not null"`
	ProfileID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM.
func (EventDTO) TableName() string {
	return "status_history"
}

// StatusDTO is one entry of a status table.
type StatusDTO struct {
	Kind int    `gorm:"type:smallint;primaryKey;autoIncrement:false"`
	ID   int    `gorm:"type:int;primaryKey;autoIncrement:false"`
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM.
func (StatusDTO) TableName() string {
	return "statuses"
}

// StatusRefDTO is embedded by entity tables to store their current-status
// pointer, usually with the "status_" prefix.
type StatusRefDTO struct {
	EventID   *uuid.UUID `gorm:"type:uuid"`
	ID        *int       `gorm:"type:int;index"`
	CreatedAt *time.Time `gorm:"type:timestamptz"`
}

// RefFromDomain maps a nullable pointer onto its columns.
func RefFromDomain(ref *history.Ref) StatusRefDTO {
	if ref == nil {
		return StatusRefDTO{}
	}
	eventID := ref.EventID().Bytes()
	statusID := int(ref.StatusID())
	at := ref.CreatedAt()
	return StatusRefDTO{EventID: &eventID, ID: &statusID, CreatedAt: &at}
}

// RefToDomain is the inverse of RefFromDomain. A row without event id has no
// status yet.
func RefToDomain(kind status.Kind, dto StatusRefDTO) (*history.Ref, error) {
	if dto.EventID == nil || dto.ID == nil || dto.CreatedAt == nil {
		return nil, nil
	}
	eventID, err := kernel.UUIDFromBytes(dto.EventID[:])
	if err != nil {
		return nil, err
	}
	ref, err := history.RestoreRef(kind, eventID, status.ID(*dto.ID), *dto.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func eventFromDomain(ev *history.Event) EventDTO {
	return EventDTO{
		ID:        ev.ID().Bytes(),
		Kind:      int(ev.Kind()),
		EntityID:  ev.EntityID(),
		StatusID:  int(ev.StatusID()),
		ProfileID: kernel.OptionalBytes(ev.ProfileID()),
		CreatedAt: ev.CreatedAt(),
	}
}

func eventToDomain(dto EventDTO) (*history.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	profileID, err := kernel.OptionalUUIDFromBytes(dto.ProfileID)
	if err != nil {
		return nil, err
	}
	return history.RestoreEvent(id, status.Kind(dto.Kind), dto.EntityID, status.ID(dto.StatusID), profileID, dto.CreatedAt)
}
