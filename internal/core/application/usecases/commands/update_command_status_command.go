package commands

import (
	"errors"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
)

var ErrUpdateCommandStatusCommandIsNotConstructed = errors.New(
	"UpdateCommandStatusCommand must be created via NewUpdateCommandStatusCommand constructor",
)

// UpdateCommandStatusCommand changes the status of one command.
// isWeb marks back-office edits; field edits (isWeb false) may open an anomaly.
//
// Example:
//
//	cmd, err := NewUpdateCommandStatusCommand(accountID, &profileID, commandID,
//	    status.CommandRecipientAbsent, false, "nobody answered")
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
// UpdateCommandStatusCommand changes the status of one command.
// isWeb marks back-office edits; field edits (isWeb false) may open an anomaly.
type UpdateCommandStatusCommand struct { //nolint:recvcheck //using for validation
	accountID kernel.UUID
	profileID *kernel.UUID
	commandID kernel.UUID
	statusID  status.ID
	isWeb     bool
	comment   string

	guard guard.ConstructorGuard
}

// NewUpdateCommandStatusCommand creates a single status change.
// Returns errs.ErrValueIsRequired for a zero account or command id and
// errs.ErrValueIsOutOfRange for a status id outside the command table.
func NewUpdateCommandStatusCommand(
	accountID kernel.UUID,
	profileID *kernel.UUID,
	commandID kernel.UUID,
	statusID status.ID,
	isWeb bool,
	comment string,
) (UpdateCommandStatusCommand, error) {
	if err := errors.Join(
		requireID("accountID", accountID),
		requireID("commandID", commandID),
		status.ValidateID(status.KindCommand, statusID),
	); err != nil {
		return UpdateCommandStatusCommand{}, err
	}

	return UpdateCommandStatusCommand{
		accountID: accountID,
		profileID: profileID,
		commandID: commandID,
		statusID:  statusID,
		isWeb:     isWeb,
		comment:   comment,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateCommandStatusCommandIsNotConstructed if validation fails.
func (c UpdateCommandStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCommandStatusCommandIsNotConstructed)
}

// AccountID returns the account the command must belong to.
func (c UpdateCommandStatusCommand) AccountID() kernel.UUID { return c.accountID }

// ProfileID returns the author of the event, nil for system changes.
func (c UpdateCommandStatusCommand) ProfileID() *kernel.UUID { return c.profileID }

// CommandID returns the command to update.
func (c UpdateCommandStatusCommand) CommandID() kernel.UUID { return c.commandID }

// StatusID returns the target command status.
func (c UpdateCommandStatusCommand) StatusID() status.ID { return c.statusID }

// IsWeb reports whether the change comes from the back office.
func (c UpdateCommandStatusCommand) IsWeb() bool { return c.isWeb }

// Comment returns the free text attached to a possible anomaly.
func (c UpdateCommandStatusCommand) Comment() string { return c.comment }

func requireID(name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return nil
}

func requireIDs(name string, ids []kernel.UUID) error {
	if len(ids) == 0 {
		return errs.NewValueIsRequiredError(name)
	}
	for _, id := range ids {
		if err := requireID(name, id); err != nil {
			return err
		}
	}
	return nil
}
