package commands

import (
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
	"pharmadelivery/internal/pkg/optional"
)

var ErrUpdateTourCommandIsNotConstructed = errors.New(
	"UpdateTourCommand must be created via NewUpdateTourCommand constructor",
)

// UpdateTourCommand is a partial update: absent fields are left alone, null
// fields are cleared. Name and delivery date cannot be cleared.
//
// Example:
//
//	cmd, err := NewUpdateTourCommand(accountID, tourID,
//	    optional.Of("North bis"), optional.Absent[time.Time](),
//	    TourFields{DriverID: optional.Null[kernel.UUID]()})
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
// UpdateTourCommand is a partial update: absent fields are left alone, null
// fields are cleared. Name and delivery date cannot be cleared.
type UpdateTourCommand struct { //nolint:recvcheck //using for validation
	accountID    kernel.UUID
	tourID       string
	name         optional.Field[string]
	deliveryDate optional.Field[time.Time]
	fields       TourFields

	guard guard.ConstructorGuard
}

// NewUpdateTourCommand creates a partial tour update.
// Returns errs.ErrValueIsInvalid when name or deliveryDate is null or the tour
// id is malformed, and errs.ErrValueIsRequired for a zero account id.
func NewUpdateTourCommand(
	accountID kernel.UUID,
	tourID string,
	name optional.Field[string],
	deliveryDate optional.Field[time.Time],
	fields TourFields,
) (UpdateTourCommand, error) {
	var errName, errDate error
	if name.IsNull() {
		errName = errs.NewValueIsInvalidError("name")
	}
	if deliveryDate.IsNull() {
		errDate = errs.NewValueIsInvalidError("deliveryDate")
	}

	if err := errors.Join(requireID("accountID", accountID), tour.ValidateID(tourID), errName, errDate); err != nil {
		return UpdateTourCommand{}, err
	}

	return UpdateTourCommand{
		accountID:    accountID,
		tourID:       tourID,
		name:         name,
		deliveryDate: deliveryDate,
		fields:       fields,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateTourCommandIsNotConstructed if validation fails.
func (c UpdateTourCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTourCommandIsNotConstructed)
}

// AccountID returns the account owning the tour.
func (c UpdateTourCommand) AccountID() kernel.UUID { return c.accountID }

// TourID returns the tour to update.
func (c UpdateTourCommand) TourID() string { return c.tourID }

// Name returns the new name, absent when unchanged.
func (c UpdateTourCommand) Name() optional.Field[string] { return c.name }

// DeliveryDate returns the new delivery day, absent when unchanged.
func (c UpdateTourCommand) DeliveryDate() optional.Field[time.Time] { return c.deliveryDate }

// Fields returns the clearable attributes.
func (c UpdateTourCommand) Fields() TourFields { return c.fields }
