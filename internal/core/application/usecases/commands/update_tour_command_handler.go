package commands

import (
	"context"

	"pharmadelivery/internal/core/ports"
)

// UpdateTourCommandHandler applies a partial update to one tour.
// Stops and route are not touched, even when the delivery date moves.
//
// Example:
//
//	handler := NewUpdateTourCommandHandler(tourUoWFactory)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    log.Println("No such tour in this account")
//	case err != nil:
//	    log.Printf("Update failed: %v", err)
//	}
type UpdateTourCommandHandler struct {
	uowFactory TourUoWFactory
}

// NewUpdateTourCommandHandler creates a handler for tour updates.
func NewUpdateTourCommandHandler(uowFactory TourUoWFactory) UpdateTourCommandHandler {
	return UpdateTourCommandHandler{uowFactory: uowFactory}
}

// Handle loads the tour, applies every present field and saves it.
// Returns errs.ErrObjectNotFound when the tour is not visible to the account
// and errs.ErrValueIsOutOfRange for a recurrence mask above seven days.
func (h UpdateTourCommandHandler) Handle(ctx context.Context, cmd UpdateTourCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tourRepo := uow.TourRepository()
	aggregate, err := tourRepo.Get(ctx, ports.AccountScope(cmd.AccountID()), cmd.TourID())
	if err != nil {
		return err
	}

	if name, ok := cmd.Name().Value(); ok {
		if err = aggregate.Rename(name); err != nil {
			return err
		}
	}
	if date, ok := cmd.DeliveryDate().Value(); ok {
		if err = aggregate.Reschedule(date); err != nil {
			return err
		}
	}
	if err = applyTourFields(aggregate, cmd.Fields()); err != nil {
		return err
	}

	if err = tourRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
