package commands

import (
	"errors"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/pkg/guard"
)

var ErrAssignCommandsToTourCommandIsNotConstructed = errors.New(
	"AssignCommandsToTourCommand must be created via NewAssignCommandsToTourCommand constructor",
)

// AssignCommandsToTourCommand moves commands into a tour. Commands join after
// the existing stops in the order listed.
//
// Example:
//
//	cmd, err := NewAssignCommandsToTourCommand(accountID, []kernel.UUID{first, second}, tourID)
//	if err != nil {
//	    return fmt.Errorf("invalid assignment: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
// AssignCommandsToTourCommand moves commands into a tour. Commands join after
// the existing stops in the order listed.
type AssignCommandsToTourCommand struct { //nolint:recvcheck //using for validation
	accountID  kernel.UUID
	commandIDs []kernel.UUID
	tourID     string

	guard guard.ConstructorGuard
}

// NewAssignCommandsToTourCommand creates a bulk assignment of commandIDs to tourID.
// Returns errs.ErrValueIsRequired for an empty id list or a zero id and
// errs.ErrValueIsInvalid for a malformed tour id.
func NewAssignCommandsToTourCommand(accountID kernel.UUID, commandIDs []kernel.UUID, tourID string) (AssignCommandsToTourCommand, error) {
	if err := errors.Join(
		requireID("accountID", accountID),
		requireIDs("commandIds", commandIDs),
		tour.ValidateID(tourID),
	); err != nil {
		return AssignCommandsToTourCommand{}, err
	}

	return AssignCommandsToTourCommand{
		accountID:  accountID,
		commandIDs: commandIDs,
		tourID:     tourID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignCommandsToTourCommandIsNotConstructed if validation fails.
func (c AssignCommandsToTourCommand) Validate() error {
	return c.guard.Validate(ErrAssignCommandsToTourCommandIsNotConstructed)
}

// AccountID returns the account the commands and the tour belong to.
func (c AssignCommandsToTourCommand) AccountID() kernel.UUID { return c.accountID }

// CommandIDs returns the commands to move, in their joining order.
func (c AssignCommandsToTourCommand) CommandIDs() []kernel.UUID { return c.commandIDs }

// TourID returns the destination tour.
func (c AssignCommandsToTourCommand) TourID() string { return c.tourID }
