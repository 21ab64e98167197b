package commands

import (
	"errors"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/pkg/guard"
)

var ErrUnassignCommandsFromTourCommandIsNotConstructed = errors.New(
	"UnassignCommandsFromTourCommand must be created via NewUnassignCommandsFromTourCommand constructor",
)

// UnassignCommandsFromTourCommand takes commands out of whatever tour holds them.
//
// Example:
//
//	cmd, err := NewUnassignCommandsFromTourCommand(accountID, []kernel.UUID{commandID})
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
// UnassignCommandsFromTourCommand takes commands out of whatever tour holds them.
type UnassignCommandsFromTourCommand struct { //nolint:recvcheck //using for validation
	accountID  kernel.UUID
	commandIDs []kernel.UUID

	guard guard.ConstructorGuard
}

// NewUnassignCommandsFromTourCommand creates a bulk unassignment.
// Returns errs.ErrValueIsRequired for an empty list or a zero id.
func NewUnassignCommandsFromTourCommand(accountID kernel.UUID, commandIDs []kernel.UUID) (UnassignCommandsFromTourCommand, error) {
	if err := errors.Join(requireID("accountID", accountID), requireIDs("commandIds", commandIDs)); err != nil {
		return UnassignCommandsFromTourCommand{}, err
	}

	return UnassignCommandsFromTourCommand{
		accountID:  accountID,
		commandIDs: commandIDs,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUnassignCommandsFromTourCommandIsNotConstructed if validation fails.
func (c UnassignCommandsFromTourCommand) Validate() error {
	return c.guard.Validate(ErrUnassignCommandsFromTourCommandIsNotConstructed)
}

// AccountID returns the account owning the commands.
func (c UnassignCommandsFromTourCommand) AccountID() kernel.UUID { return c.accountID }

// CommandIDs returns the commands to take out of their tour.
func (c UnassignCommandsFromTourCommand) CommandIDs() []kernel.UUID { return c.commandIDs }
