package ports

import (
	"context"
	"time"

	"pharmadelivery/internal/core/domain/model/tour"
)

// TourRepository persists Tour aggregates.
type TourRepository interface {
	Add(ctx context.Context, aggregate *tour.Tour) error

	Update(ctx context.Context, aggregate *tour.Tour) error

	// Get loads and row-locks one tour.
	// Returns errs.ObjectNotFoundError when the id is unknown within scope.
	Get(ctx context.Context, scope Scope, id string) (*tour.Tour, error)

	// GetMany loads and row-locks every listed tour in the order of ids.
	// Any unresolved id fails the whole call with errs.ObjectNotFoundError.
	GetMany(ctx context.Context, scope Scope, ids []string) ([]*tour.Tour, error)

	// GetByDate lists the tours delivering on the calendar day of date.
	GetByDate(ctx context.Context, scope Scope, date time.Time) ([]*tour.Tour, error)

	// GetWithoutRoute lists tours of the day that have commands but no route.
	GetWithoutRoute(ctx context.Context, date time.Time) ([]*tour.Tour, error)

	// Exists reports whether a tour id is taken by any account.
	Exists(ctx context.Context, id string) (bool, error)
}
