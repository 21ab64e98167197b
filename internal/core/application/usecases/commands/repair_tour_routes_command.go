package commands

import (
	"errors"
	"time"

	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
)

var ErrRepairTourRoutesCommandIsNotConstructed = errors.New(
	"RepairTourRoutesCommand must be created via NewRepairTourRoutesCommand constructor",
)

// RepairTourRoutesCommand recomputes the routes the gateway could not deliver
// for the tours of one day, across every account.
//
// Example:
//
//	cmd, err := NewRepairTourRoutesCommand(time.Now())
//	if err != nil {
//	    return err
//	}
//	repaired, err := handler.Handle(ctx, cmd)
// RepairTourRoutesCommand recomputes the routes the gateway could not deliver
// for the tours of one day, across every account.
type RepairTourRoutesCommand struct { //nolint:recvcheck //using for validation
	day time.Time

	guard guard.ConstructorGuard
}

// NewRepairTourRoutesCommand creates a repair run for day.
// Returns errs.ErrValueIsRequired when day is zero.
func NewRepairTourRoutesCommand(day time.Time) (RepairTourRoutesCommand, error) {
	if day.IsZero() {
		return RepairTourRoutesCommand{}, errs.NewValueIsRequiredError("day")
	}

	return RepairTourRoutesCommand{
		day:   day,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRepairTourRoutesCommandIsNotConstructed if validation fails.
func (c RepairTourRoutesCommand) Validate() error {
	return c.guard.Validate(ErrRepairTourRoutesCommandIsNotConstructed)
}

// Day returns the delivery day whose tours are repaired.
func (c RepairTourRoutesCommand) Day() time.Time { return c.day }
