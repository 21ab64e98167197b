// Package status defines the three closed status enumerations of the core
// (command, package, tour) and the fixed rules that relate them.
package status

import (
	"errors"
	"fmt"

	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
)

// Kind selects one of the three status tables.
type Kind int

const (
	KindUnknown Kind = iota
	KindCommand
	KindPackage
	KindTour
)

// String returns the lowercase kind name used in logs and event payloads.
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindPackage:
		return "package"
	case KindTour:
		return "tour"
	default:
		return "unknown"
	}
}

// Validate accepts the three status tables and rejects KindUnknown.
// Returns errs.ErrValueIsInvalid for any other value.
func (k Kind) Validate() error {
	if k < KindCommand || k > KindTour {
		return errs.NewValueIsInvalidErrorWithCause("status kind", fmt.Errorf("%d is not a valid kind", k))
	}
	return nil
}

// ID is the integer key of a status row. Ids are seed data and never change.
type ID int

// Command statuses.
const (
	CommandToPickUp ID = iota + 1
	CommandInTransit
	CommandDelivered
	CommandNotDelivered
	CommandDeliveredWithReserve
	CommandPostponed
	CommandDamaged
	CommandRefused
	CommandRecipientAbsent
)

// Package statuses.
const (
	PackageToPickUp ID = iota + 1
	PackageInTransit
	PackageDelivered
	PackageNotDelivered
	PackageDamaged
	PackageReturned
)

// Tour statuses.
const (
	TourCreated ID = iota + 1
	TourLoading
	TourInDelivery
	TourCompleted
	TourCancelled
)

func count(kind Kind) ID {
	switch kind {
	case KindCommand:
		return CommandRecipientAbsent
	case KindPackage:
		return PackageReturned
	case KindTour:
		return TourCancelled
	default:
		return 0
	}
}

// ValidateID checks that id belongs to the table selected by kind.
func ValidateID(kind Kind, id ID) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if id < 1 || id > count(kind) {
		return errs.NewValueIsOutOfRangeError(kind.String()+" status", int(id), 1, int(count(kind)))
	}
	return nil
}

// commandToPackage[i] is the package status implied by command status i.
// Several command statuses collapse onto the same package status.
var commandToPackage = [...]ID{
	CommandToPickUp:             PackageToPickUp,
	CommandInTransit:            PackageInTransit,
	CommandDelivered:            PackageDelivered,
	CommandNotDelivered:         PackageNotDelivered,
	CommandDeliveredWithReserve: PackageDelivered,
	CommandPostponed:            PackageInTransit,
	CommandDamaged:              PackageDamaged,
	CommandRefused:              PackageNotDelivered,
	CommandRecipientAbsent:      PackageNotDelivered,
}

// PackageStatusFor returns the package status a command status cascades to.
func PackageStatusFor(commandStatus ID) (ID, bool) {
	if commandStatus < 1 || int(commandStatus) >= len(commandToPackage) {
		return 0, false
	}
	return commandToPackage[commandStatus], true
}

// IsAnomalyTrigger reports whether a command status is one of the negative
// outcomes that open an anomaly when reported from the field.
func IsAnomalyTrigger(commandStatus ID) bool {
	return commandStatus >= CommandNotDelivered && commandStatus <= CommandRecipientAbsent
}

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Entry is one immutable row of a status table.
type Entry struct {
	kind  Kind
	id    ID
	name  string
	guard guard.ConstructorGuard
}

// NewEntry creates a status row. The catalog builds entries from the
// status tables; handlers never create them.
// Returns errs.ErrValueIsOutOfRange for an id outside the kind's table and
// errs.ErrValueIsRequired for an empty name.
func NewEntry(kind Kind, id ID, name string) (Entry, error) {
	if err := ValidateID(kind, id); err != nil {
		return Entry{}, err
	}
	if name == "" {
		return Entry{}, errs.NewValueIsRequiredError("status name")
	}
	return Entry{kind: kind, id: id, name: name, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the entry was created through NewEntry.
// Returns ErrEntryIsNotConstructed for the zero value.
func (e Entry) Validate() error {
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

// Kind returns the table the row belongs to.
func (e Entry) Kind() Kind {
	return e.kind
}

// ID returns the row key.
func (e Entry) ID() ID {
	return e.id
}

// Name returns the label shown to users and quoted in anomaly comments.
func (e Entry) Name() string {
	return e.name
}
