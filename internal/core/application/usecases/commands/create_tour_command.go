package commands

import (
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
	"pharmadelivery/internal/pkg/optional"
)

var ErrCreateTourCommandIsNotConstructed = errors.New(
	"CreateTourCommand must be created via NewCreateTourCommand constructor",
)

// TourFields are the optional columns of a tour. For creation a null field is
// the same as an absent one.
type TourFields struct {
	Color      optional.Field[string]
	DriverID   optional.Field[kernel.UUID]
	ZoneID     optional.Field[kernel.UUID]
	Recurrence optional.Field[kernel.Weekdays]
}

// CreateTourCommand creates an empty tour for one delivery date.
//
// Example:
//
//	days, _ := kernel.ParseWeekdays("mon,thu")
//	cmd, err := NewCreateTourCommand(accountID, &profileID, "North", day, TourFields{
//	    Color:      optional.Of("#2a9d8f"),
//	    Recurrence: optional.Of(days),
//	})
//	if err != nil {
//	    return err
//	}
//	tourID, err := handler.Handle(ctx, cmd)
type CreateTourCommand struct { //nolint:recvcheck //using for validation
	accountID    kernel.UUID
	profileID    *kernel.UUID
	name         string
	deliveryDate time.Time
	fields       TourFields

	guard guard.ConstructorGuard
}

// NewCreateTourCommand creates a tour creation request.
// Returns errs.ErrValueIsRequired for a zero account id, an empty name or a
// zero delivery date, joined when several are missing.
func NewCreateTourCommand(
	accountID kernel.UUID,
	profileID *kernel.UUID,
	name string,
	deliveryDate time.Time,
	fields TourFields,
) (CreateTourCommand, error) {
	var errName, errDate error
	if name == "" {
		errName = errs.NewValueIsRequiredError("name")
	}
	if deliveryDate.IsZero() {
		errDate = errs.NewValueIsRequiredError("deliveryDate")
	}

	if err := errors.Join(requireID("accountID", accountID), errName, errDate); err != nil {
		return CreateTourCommand{}, err
	}

	return CreateTourCommand{
		accountID:    accountID,
		profileID:    profileID,
		name:         name,
		deliveryDate: deliveryDate,
		fields:       fields,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateTourCommandIsNotConstructed if validation fails.
func (c CreateTourCommand) Validate() error {
	return c.guard.Validate(ErrCreateTourCommandIsNotConstructed)
}

// AccountID returns the owning account.
func (c CreateTourCommand) AccountID() kernel.UUID { return c.accountID }

// ProfileID returns the profile recorded on the "created" event.
func (c CreateTourCommand) ProfileID() *kernel.UUID { return c.profileID }

// Name returns the tour name.
func (c CreateTourCommand) Name() string { return c.name }

// DeliveryDate returns the delivery day. Only the calendar date is kept.
func (c CreateTourCommand) DeliveryDate() time.Time { return c.deliveryDate }

// Fields returns the optional attributes.
func (c CreateTourCommand) Fields() TourFields { return c.fields }
