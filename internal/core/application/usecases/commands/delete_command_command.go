package commands

import (
	"errors"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/ports"
	"pharmadelivery/internal/pkg/guard"
)

var ErrDeleteCommandCommandIsNotConstructed = errors.New(
	"DeleteCommandCommand must be created via NewDeleteCommandCommand or NewHyperAdminDeleteCommandCommand",
)

// DeleteCommandCommand removes a command with its packages and history.
// The scope decides whose commands are visible: one account, or every
// account for a hyper admin.
//
// Example:
//
//	cmd, err := NewDeleteCommandCommand(accountID, commandID)
//	if err != nil {
//	    return err
//	}
//	if err = handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to delete command: %w", err)
//	}
// DeleteCommandCommand removes a command with its packages and history.
type DeleteCommandCommand struct { //nolint:recvcheck //using for validation
	scope     ports.Scope
	commandID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteCommandCommand deletes a command of accountID.
// Returns errs.ErrValueIsRequired when either id is zero.
// NewDeleteCommandCommand deletes a command of accountID.
func NewDeleteCommandCommand(accountID, commandID kernel.UUID) (DeleteCommandCommand, error) {
	if err := errors.Join(requireID("accountID", accountID), requireID("commandID", commandID)); err != nil {
		return DeleteCommandCommand{}, err
	}
	return DeleteCommandCommand{
		scope:     ports.AccountScope(accountID),
		commandID: commandID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// NewHyperAdminDeleteCommandCommand deletes a command of any account.
// Returns errs.ErrValueIsRequired when commandID is zero.
// NewHyperAdminDeleteCommandCommand deletes a command of any account.
func NewHyperAdminDeleteCommandCommand(commandID kernel.UUID) (DeleteCommandCommand, error) {
	if err := requireID("commandID", commandID); err != nil {
		return DeleteCommandCommand{}, err
	}
	return DeleteCommandCommand{
		scope:     ports.HyperAdmin(),
		commandID: commandID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through one of the constructors.
// Returns ErrDeleteCommandCommandIsNotConstructed if validation fails.
func (c DeleteCommandCommand) Validate() error {
	return c.guard.Validate(ErrDeleteCommandCommandIsNotConstructed)
}

// Scope returns the visibility the lookup runs under.
func (c DeleteCommandCommand) Scope() ports.Scope { return c.scope }

// CommandID returns the command to delete.
func (c DeleteCommandCommand) CommandID() kernel.UUID { return c.commandID }
