// Package tourrepo persists tour aggregates.
package tourrepo

import (
	"time"

	"pharmadelivery/internal/adapters/out/postgres/historyrepo"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/model/tour"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// TourDTO is the tours table.
type TourDTO struct {
	ID           string                   `gorm:"type:varchar(20);primaryKey"`
	AccountID    uuid.UUID                `gorm:"type:uuid;not null;index:idx_tours_account_date,priority:1"`
	Name         string                   `gorm:"type:varchar(255);not null"`
	Color        string                   `gorm:"type:varchar(32)"`
	DriverID     *uuid.UUID               `gorm:"type:uuid"`
	ZoneID       *uuid.UUID               `gorm:"type:uuid"`
	DeliveryDate time.Time                `gorm:"type:date;not null;index:idx_tours_account_date,priority:2"`
	Recurrence   int                      `gorm:"type:smallint;not null;default:0"`
	Route        RouteDTO                 `gorm:"embedded;embeddedPrefix:route_"`
	StartedAt    *time.Time               `gorm:"type:timestamptz"`
	FinishedAt   *time.Time               `gorm:"type:timestamptz"`
	Status       historyrepo.StatusRefDTO `gorm:"embedded;embeddedPrefix:status_"`
}

// TableName returns the table name for GORM.
func (TourDTO) TableName() string {
	return "tours"
}

// RouteDTO stores the last computed route. An unknown route has a null
// geometry and zero distance and duration.
type RouteDTO struct {
	Geometry        *string  `gorm:"type:text"`
	DistanceKm      *float64 `gorm:"type:double precision"`
	DurationMinutes *float64 `gorm:"type:double precision"`
}

func fromDomain(aggregate *tour.Tour) TourDTO {
	var geometry *string
	var distance, duration float64
	if r := aggregate.Route(); r != nil {
		g := r.Geometry()
		geometry, distance, duration = &g, r.DistanceKm(), r.DurationMinutes()
	}
	route := RouteDTO{Geometry: geometry, DistanceKm: &distance, DurationMinutes: &duration}

	return TourDTO{
		ID:           aggregate.ID(),
		AccountID:    aggregate.AccountID().Bytes(),
		Name:         aggregate.Name(),
		Color:        aggregate.Color(),
		DriverID:     kernel.OptionalBytes(aggregate.DriverID()),
		ZoneID:       kernel.OptionalBytes(aggregate.ZoneID()),
		DeliveryDate: aggregate.DeliveryDate(),
		Recurrence:   int(aggregate.Recurrence()),
		Route:        route,
		StartedAt:    aggregate.StartedAt(),
		FinishedAt:   aggregate.FinishedAt(),
		Status:       historyrepo.RefFromDomain(aggregate.Status()),
	}
}

func toDomain(dto TourDTO) (*tour.Tour, error) {
	accountID, err := kernel.UUIDFromBytes(dto.AccountID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.OptionalUUIDFromBytes(dto.DriverID)
	if err != nil {
		return nil, err
	}
	zoneID, err := kernel.OptionalUUIDFromBytes(dto.ZoneID)
	if err != nil {
		return nil, err
	}
	current, err := historyrepo.RefToDomain(status.KindTour, dto.Status)
	if err != nil {
		return nil, err
	}

	var route *tour.Route
	if dto.Route.Geometry != nil {
		route, err = tour.NewRoute(*dto.Route.Geometry, valueOrZero(dto.Route.DistanceKm), valueOrZero(dto.Route.DurationMinutes))
		if err != nil {
			return nil, err
		}
	}

	return tour.RestoreTour(dto.ID, accountID, dto.Name, dto.DeliveryDate, tour.State{
		Color:      dto.Color,
		DriverID:   driverID,
		ZoneID:     zoneID,
		Recurrence: kernel.Weekdays(dto.Recurrence),
		Route:      route,
		StartedAt:  dto.StartedAt,
		FinishedAt: dto.FinishedAt,
		Status:     current,
	})
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
