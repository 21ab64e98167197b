package commands

import (
	"errors"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/pkg/guard"
)

var (
	ErrAssignTourCommandIsNotConstructed = errors.New(
		"AssignTourCommand must be created via NewAssignTourCommand constructor",
	)
	ErrUnassignTourCommandIsNotConstructed = errors.New(
		"UnassignTourCommand must be created via NewUnassignTourCommand constructor",
	)
)

// AssignTourCommand gives a tour to a driver, replacing any previous one.
//
// Example:
//
//	cmd, err := NewAssignTourCommand(accountID, tourID, driverProfileID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
// AssignTourCommand gives a tour to a driver.
type AssignTourCommand struct { //nolint:recvcheck //using for validation
	accountID kernel.UUID
	tourID    string
	driverID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignTourCommand creates a driver assignment for tourID.
// Returns errs.ErrValueIsRequired for a zero account or driver id and
// errs.ErrValueIsInvalid for a malformed tour id.
func NewAssignTourCommand(accountID kernel.UUID, tourID string, driverID kernel.UUID) (AssignTourCommand, error) {
	if err := errors.Join(
		requireID("accountID", accountID),
		tour.ValidateID(tourID),
		requireID("driverID", driverID),
	); err != nil {
		return AssignTourCommand{}, err
	}

	return AssignTourCommand{
		accountID: accountID,
		tourID:    tourID,
		driverID:  driverID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignTourCommandIsNotConstructed if validation fails.
func (c AssignTourCommand) Validate() error {
	return c.guard.Validate(ErrAssignTourCommandIsNotConstructed)
}

// AccountID returns the account owning the tour.
func (c AssignTourCommand) AccountID() kernel.UUID { return c.accountID }

// TourID returns the tour to assign.
func (c AssignTourCommand) TourID() string { return c.tourID }

// DriverID returns the driver profile taking the tour.
func (c AssignTourCommand) DriverID() kernel.UUID { return c.driverID }

// UnassignTourCommand takes a tour away from its driver.
//
// Example:
//
//	cmd, err := NewUnassignTourCommand(accountID, tourID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
// UnassignTourCommand takes a tour away from its driver.
type UnassignTourCommand struct { //nolint:recvcheck //using for validation
	accountID kernel.UUID
	tourID    string

	guard guard.ConstructorGuard
}

// NewUnassignTourCommand creates a command clearing the driver of tourID.
// Returns errs.ErrValueIsInvalid for a malformed tour id.
func NewUnassignTourCommand(accountID kernel.UUID, tourID string) (UnassignTourCommand, error) {
	if err := errors.Join(requireID("accountID", accountID), tour.ValidateID(tourID)); err != nil {
		return UnassignTourCommand{}, err
	}

	return UnassignTourCommand{
		accountID: accountID,
		tourID:    tourID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUnassignTourCommandIsNotConstructed if validation fails.
func (c UnassignTourCommand) Validate() error {
	return c.guard.Validate(ErrUnassignTourCommandIsNotConstructed)
}

// AccountID returns the account owning the tour.
func (c UnassignTourCommand) AccountID() kernel.UUID { return c.accountID }

// TourID returns the tour losing its driver.
func (c UnassignTourCommand) TourID() string { return c.tourID }
