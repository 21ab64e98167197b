// Package tour models a daily delivery run.
//
// A Tour knows nothing about its commands. Membership and order live on the
// command side and are resolved by tour id.
package tour

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"
)

// IDLength is the length of a tour id in lowercase hex characters.
const IDLength = 20

var (
	ErrTourIsNotConstructed  = errors.New("Tour must be created via NewTour constructor")
	ErrEventBelongsElsewhere = errors.New("history event belongs to another tour")

	idPattern = regexp.MustCompile(`^[0-9a-f]{20}$`)
)

// ValidateID checks the opaque tour id format.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return errs.NewValueIsInvalidErrorWithCause("tourID", fmt.Errorf("%q is not %d lowercase hex characters", id, IDLength))
	}
	return nil
}

// Tour is one delivery run for one delivery date.
// Its id is an opaque 20 character lowercase hex string. Status, start and
// finish times only move through ApplyEvent.
//
// Example:
//
//	tr, err := tour.NewTour(tourID, accountID, "North", time.Now())
//	if err != nil {
//	    return err
//	}
//	if err = tr.AssignDriver(driverID); err != nil {
//	    return err
//	}
//	err = tourRepo.Add(ctx, tr)
// Tour is one delivery run for one delivery date.
type Tour struct {
	id           string
	accountID    kernel.UUID
	name         string
	color        string
	driverID     *kernel.UUID
	zoneID       *kernel.UUID
	deliveryDate time.Time
	recurrence   kernel.Weekdays
	route        *Route
	startedAt    *time.Time
	finishedAt   *time.Time
	status       *history.Ref

	isConstructed bool
}

// NewTour creates a tour without driver, zone, route or status.
func NewTour(id string, accountID kernel.UUID, name string, deliveryDate time.Time) (*Tour, error) {
	t := &Tour{isConstructed: true}

	var errDate error
	if deliveryDate.IsZero() {
		errDate = errs.NewValueIsRequiredError("deliveryDate")
	}

	if err := errors.Join(
		ValidateID(id),
		accountID.Validate(),
		t.Rename(name),
		errDate,
	); err != nil {
		return nil, err
	}

	t.id = id
	t.accountID = accountID
	t.deliveryDate = truncateToDay(deliveryDate)
	return t, nil
}

// State carries the mutable columns of a stored tour.
type State struct {
	Color      string
	DriverID   *kernel.UUID
	ZoneID     *kernel.UUID
	Recurrence kernel.Weekdays
	Route      *Route
	StartedAt  *time.Time
	FinishedAt *time.Time
	Status     *history.Ref
}

// RestoreTour rebuilds a tour loaded from storage.
func RestoreTour(id string, accountID kernel.UUID, name string, deliveryDate time.Time, state State) (*Tour, error) {
	t, err := NewTour(id, accountID, name, deliveryDate)
	if err != nil {
		return nil, err
	}
	if err = state.Recurrence.Validate(); err != nil {
		return nil, err
	}

	t.color = state.Color
	t.driverID = state.DriverID
	t.zoneID = state.ZoneID
	t.recurrence = state.Recurrence
	t.route = state.Route
	t.startedAt = state.StartedAt
	t.finishedAt = state.FinishedAt
	t.status = state.Status
	return t, nil
}

// Validate ensures the tour was created through a constructor.
// Returns ErrTourIsNotConstructed if validation fails.
func (t *Tour) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTourIsNotConstructed
	}
	return nil
}

// ID returns the opaque tour id.
func (t *Tour) ID() string {
	return t.id
}

// AccountID returns the owning account.
func (t *Tour) AccountID() kernel.UUID {
	return t.accountID
}

// Name returns the display name.
func (t *Tour) Name() string {
	return t.name
}

// Color returns the display color, "" when unset.
func (t *Tour) Color() string {
	return t.color
}

// DriverID returns the assigned driver profile, nil when unassigned.
func (t *Tour) DriverID() *kernel.UUID {
	return t.driverID
}

// ZoneID returns the delivery zone, nil when unset.
func (t *Tour) ZoneID() *kernel.UUID {
	return t.zoneID
}

// DeliveryDate returns the delivery day at midnight UTC.
func (t *Tour) DeliveryDate() time.Time {
	return t.deliveryDate
}

// Recurrence returns the weekdays the tour repeats on.
func (t *Tour) Recurrence() kernel.Weekdays {
	return t.recurrence
}

// Route is nil when the route is unknown.
func (t *Tour) Route() *Route {
	return t.route
}

// StartedAt returns when the tour went "in delivery", nil until then.
func (t *Tour) StartedAt() *time.Time {
	return t.startedAt
}

// FinishedAt returns when the tour was completed, nil until then.
func (t *Tour) FinishedAt() *time.Time {
	return t.finishedAt
}

// Status returns the pointer to the current history event, nil before the first one.
func (t *Tour) Status() *history.Ref {
	return t.status
}

// Rename replaces the name.
// Returns errs.ErrValueIsRequired for an empty name.
func (t *Tour) Rename(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	t.name = name
	return nil
}

// Recolor replaces the display color. "" clears it.
func (t *Tour) Recolor(color string) {
	t.color = color
}

// MoveToZone replaces the zone. nil clears it.
func (t *Tour) MoveToZone(zoneID *kernel.UUID) {
	t.zoneID = zoneID
}

// Reschedule moves the tour to another day, keeping only the calendar date.
// Returns errs.ErrValueIsRequired for a zero date.
func (t *Tour) Reschedule(deliveryDate time.Time) error {
	if deliveryDate.IsZero() {
		return errs.NewValueIsRequiredError("deliveryDate")
	}
	t.deliveryDate = truncateToDay(deliveryDate)
	return nil
}

// SetRecurrence replaces the weekday mask.
// Returns errs.ErrValueIsOutOfRange for a mask above seven days.
func (t *Tour) SetRecurrence(days kernel.Weekdays) error {
	if err := days.Validate(); err != nil {
		return err
	}
	t.recurrence = days
	return nil
}

// AssignDriver sets the driver profile.
func (t *Tour) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	t.driverID = &driverID
	return nil
}

// UnassignDriver clears the driver profile.
func (t *Tour) UnassignDriver() {
	t.driverID = nil
}

// ApplyRoute stores a computed route. nil marks the route as unknown, which
// persists as null geometry and zero distance and duration.
func (t *Tour) ApplyRoute(route *Route) {
	t.route = route
}

// ApplyEvent moves the status pointer after ev was appended to the log.
// Entering "in delivery" stamps startedAt and entering "completed" stamps
// finishedAt, but only when ev became the current status. A back-dated event
// stays in the log and leaves the pointer and both stamps untouched.
//
// Returns ErrEventBelongsElsewhere when ev is not a tour event for this tour.
//
// Example:
//
//	ev, err := history.NewEvent(status.KindTour, tr.ID(), status.TourInDelivery, profileID, time.Now())
//	if err != nil {
//	    return err
//	}
//	if err = tr.ApplyEvent(ev); err != nil {
//	    return err
//	}
//	fmt.Println(tr.StartedAt())
func (t *Tour) ApplyEvent(ev *history.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if ev.Kind() != status.KindTour || ev.EntityID() != t.id {
		return ErrEventBelongsElsewhere
	}

	next := history.Advance(t.status, ev)
	t.status = &next
	if !next.EventID().IsEqual(ev.ID()) {
		return nil
	}

	at := ev.CreatedAt()
	switch ev.StatusID() {
	case status.TourInDelivery:
		t.startedAt = &at
	case status.TourCompleted:
		t.finishedAt = &at
	}
	return nil
}

func truncateToDay(at time.Time) time.Time {
	y, m, d := at.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
