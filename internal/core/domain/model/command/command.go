package command

import (
	"errors"
	"fmt"
	"math"
	"time"

	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"
)

// PendingOrder is the base tour order of commands that just joined a tour.
// Joined commands sort after every real position, in join order, until the
// tour is renumbered.
const PendingOrder = 1 << 30

var (
	ErrCommandIsNotConstructed = errors.New("Command must be created via NewCommand constructor")
	ErrCommandHasNoTour        = errors.New("command is not assigned to a tour")
	ErrEventBelongsElsewhere   = errors.New("history event belongs to another entity")
)

// Details are the descriptive fields of a command supplied at creation.
type Details struct {
	Comment       string
	Location      *kernel.GeoPoint
	ManualTariff  *float64
	PharmacyID    *kernel.UUID
	SenderID      *kernel.UUID
	IsNewPharmacy bool
}

// Command is a delivery order grouping one or more packages.
// Its status is a pointer to the newest history event; its place in a tour is
// a tour id and a 1-based order that only tour renumbering assigns.
//
// Example:
//
//	c, err := command.NewCommand(kernel.NewUUID(), accountID, time.Now(), command.Details{
//	    PharmacyID: &pharmacyID,
//	})
//	if err != nil {
//	    return err
//	}
//	p, err := command.NewPackage(kernel.NewUUID(), c.ID(), "75001-000001", command.Parcel{Weight: 1.2})
//	if err != nil {
//	    return err
//	}
//	err = c.AddPackage(p)
// Command is a delivery order grouping one or more packages.
type Command struct {
	id             kernel.UUID
	accountID      kernel.UUID
	expeditionDate time.Time
	closeDate      *time.Time
	details        Details
	tourID         *string
	tourOrder      *int
	packages       []*Package
	status         *history.Ref

	isConstructed bool
}

// NewCommand creates a command without packages, status or tour.
func NewCommand(id, accountID kernel.UUID, expeditionDate time.Time, details Details) (*Command, error) {
	c := &Command{isConstructed: true}

	if err := errors.Join(
		c.setID(id),
		c.setAccount(accountID),
		c.setExpeditionDate(expeditionDate),
		c.setDetails(details),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCommand rebuilds a command loaded from storage.
func RestoreCommand(
	id, accountID kernel.UUID,
	expeditionDate time.Time,
	closeDate *time.Time,
	details Details,
	tourID *string,
	tourOrder *int,
	packages []*Package,
	current *history.Ref,
) (*Command, error) {
	c, err := NewCommand(id, accountID, expeditionDate, details)
	if err != nil {
		return nil, err
	}

	if tourOrder != nil && tourID == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("tourOrder", ErrCommandHasNoTour)
	}

	for _, p := range packages {
		if err = c.AddPackage(p); err != nil {
			return nil, err
		}
	}

	c.closeDate = closeDate
	c.tourID = tourID
	c.tourOrder = tourOrder
	c.status = current
	return c, nil
}

// Validate ensures the command was created through a constructor.
// Returns ErrCommandIsNotConstructed if validation fails.
func (c *Command) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCommandIsNotConstructed
	}
	return nil
}

// IsEqual compares commands by identity.
func (c *Command) IsEqual(other *Command) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the command identifier.
func (c *Command) ID() kernel.UUID {
	return c.id
}

// AccountID returns the owning account.
func (c *Command) AccountID() kernel.UUID {
	return c.accountID
}

// ExpeditionDate returns the day the pharmacy ships the order.
func (c *Command) ExpeditionDate() time.Time {
	return c.expeditionDate
}

// CloseDate returns when the command was closed, nil while it is open.
func (c *Command) CloseDate() *time.Time {
	return c.closeDate
}

// Comment returns the free text entered at import.
func (c *Command) Comment() string {
	return c.details.Comment
}

// Location returns the last known delivery point, nil when unknown.
func (c *Command) Location() *kernel.GeoPoint {
	return c.details.Location
}

// ManualTariff returns the price fixed by hand, which overrides tariff bands.
func (c *Command) ManualTariff() *float64 {
	return c.details.ManualTariff
}

// PharmacyID returns the destination pharmacy.
func (c *Command) PharmacyID() *kernel.UUID {
	return c.details.PharmacyID
}

// SenderID returns the sending site, nil when the pharmacy ships itself.
func (c *Command) SenderID() *kernel.UUID {
	return c.details.SenderID
}

// IsNewPharmacy reports whether the import created the pharmacy.
func (c *Command) IsNewPharmacy() bool {
	return c.details.IsNewPharmacy
}

// TourID returns the tour holding the command, nil when unassigned.
func (c *Command) TourID() *string {
	return c.tourID
}

// TourOrder is the 1-based position inside the tour, nil when unknown.
func (c *Command) TourOrder() *int {
	return c.tourOrder
}

// Packages returns the command's packages in insertion order.
func (c *Command) Packages() []*Package {
	return c.packages
}

// Barcodes lists the barcodes of the command's packages in package order.
func (c *Command) Barcodes() []string {
	out := make([]string, 0, len(c.packages))
	for _, p := range c.packages {
		out = append(out, p.Barcode())
	}
	return out
}

// Status is the pointer to the newest history event, nil before the first one.
func (c *Command) Status() *history.Ref {
	return c.status
}

// AddPackage attaches a package built for this command.
func (c *Command) AddPackage(p *Package) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.commandID.IsEqual(c.id) {
		return errs.NewValueIsInvalidErrorWithCause("package", fmt.Errorf("package %s belongs to command %s", p.id, p.commandID))
	}
	c.packages = append(c.packages, p)
	return nil
}

// MoveToTour puts the command at the end of tourID until the tour is
// renumbered. rank orders commands joining in the same batch.
func (c *Command) MoveToTour(tourID string, rank int) error {
	if tourID == "" {
		return errs.NewValueIsRequiredError("tourID")
	}
	if rank < 0 || rank >= PendingOrder {
		return errs.NewValueIsOutOfRangeError("rank", rank, 0, PendingOrder-1)
	}
	order := PendingOrder + rank
	c.tourID = &tourID
	c.tourOrder = &order
	return nil
}

// LeaveTour clears the tour reference and the order.
func (c *Command) LeaveTour() {
	c.tourID = nil
	c.tourOrder = nil
}

// SetTourOrder places the command at a 1-based position of its current tour.
func (c *Command) SetTourOrder(order int) error {
	if c.tourID == nil {
		return ErrCommandHasNoTour
	}
	if order < 1 {
		return errs.NewValueIsOutOfRangeError("tourOrder", order, 1, 2*PendingOrder)
	}
	c.tourOrder = &order
	return nil
}

// Relocate overwrites the geolocation, typically with the driver position
// reported alongside a status change.
func (c *Command) Relocate(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.details.Location = &location
	return nil
}

// ApplyEvent moves the status pointer after ev was appended to the log.
func (c *Command) ApplyEvent(ev *history.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if ev.Kind() != status.KindCommand || ev.EntityID() != c.id.String() {
		return ErrEventBelongsElsewhere
	}
	next := history.Advance(c.status, ev)
	c.status = &next
	return nil
}

func (c *Command) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Command) setAccount(accountID kernel.UUID) error {
	if err := accountID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("accountID", err)
	}
	c.accountID = accountID
	return nil
}

func (c *Command) setExpeditionDate(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("expeditionDate")
	}
	c.expeditionDate = at
	return nil
}

func (c *Command) setDetails(d Details) error {
	if d.ManualTariff != nil && *d.ManualTariff < 0 {
		return errs.NewValueIsOutOfRangeError("manualTariff", *d.ManualTariff, 0, math.MaxFloat64)
	}
	if d.Location != nil {
		if err := d.Location.Validate(); err != nil {
			return err
		}
	}
	c.details = d
	return nil
}
