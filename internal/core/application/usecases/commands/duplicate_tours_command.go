package commands

import (
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/ports"
	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
)

var ErrDuplicateToursCommandIsNotConstructed = errors.New(
	"DuplicateToursCommand must be created via NewDuplicateToursCommand constructor",
)

// DuplicateToursCommand copies the tours of one delivery day onto another.
//
// Example:
//
//	source := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
//	cmd, err := NewDuplicateToursCommand(accountID, &profileID, source, source.AddDate(0, 0, 7))
//	if err != nil {
//	    return err
//	}
//	created, err := handler.Handle(ctx, cmd)
// DuplicateToursCommand copies the tours of one delivery day onto another.
type DuplicateToursCommand struct { //nolint:recvcheck //using for validation
	scope     ports.Scope
	profileID *kernel.UUID
	source    time.Time
	target    time.Time

	guard guard.ConstructorGuard
}

// NewDuplicateToursCommand duplicates the tours of one account.
// Returns errs.ErrValueIsRequired for a zero account id or a zero date.
func NewDuplicateToursCommand(accountID kernel.UUID, profileID *kernel.UUID, source, target time.Time) (DuplicateToursCommand, error) {
	if err := requireID("accountID", accountID); err != nil {
		return DuplicateToursCommand{}, err
	}
	return newDuplicateToursCommand(ports.AccountScope(accountID), profileID, source, target)
}

// NewDuplicateAllToursCommand duplicates for every account at once. The
// nightly job uses it.
func NewDuplicateAllToursCommand(source, target time.Time) (DuplicateToursCommand, error) {
	return newDuplicateToursCommand(ports.HyperAdmin(), nil, source, target)
}

func newDuplicateToursCommand(scope ports.Scope, profileID *kernel.UUID, source, target time.Time) (DuplicateToursCommand, error) {
	var errSource, errTarget error
	if source.IsZero() {
		errSource = errs.NewValueIsRequiredError("source")
	}
	if target.IsZero() {
		errTarget = errs.NewValueIsRequiredError("target")
	}
	if err := errors.Join(errSource, errTarget); err != nil {
		return DuplicateToursCommand{}, err
	}

	return DuplicateToursCommand{
		scope:     scope,
		profileID: profileID,
		source:    source,
		target:    target,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through one of the constructors.
// Returns ErrDuplicateToursCommandIsNotConstructed if validation fails.
func (c DuplicateToursCommand) Validate() error {
	return c.guard.Validate(ErrDuplicateToursCommandIsNotConstructed)
}

// Scope returns the accounts whose tours are copied.
func (c DuplicateToursCommand) Scope() ports.Scope { return c.scope }

// ProfileID returns the profile recorded on the copied tours' first event, nil
// for the nightly job.
func (c DuplicateToursCommand) ProfileID() *kernel.UUID { return c.profileID }

// Source returns the day copied from.
func (c DuplicateToursCommand) Source() time.Time { return c.source }

// Target returns the day copied to.
func (c DuplicateToursCommand) Target() time.Time { return c.target }
