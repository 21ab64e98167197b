package commands

import (
	"context"

	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/ports"
)

// UpdateTourStatusBulkCommandHandler appends one event per tour. Every tour id
// must resolve within the account before any event is written.
//
// Example:
//
//	handler := NewUpdateTourStatusBulkCommandHandler(tourUoWFactory, transitions)
//	if err := handler.Handle(ctx, cmd); errors.Is(err, errs.ErrObjectNotFound) {
//	    log.Println("Unknown status or tour, nothing was written")
//	}
// UpdateTourStatusBulkCommandHandler appends one event per tour. Every tour id
// must resolve within the account before any event is written.
type UpdateTourStatusBulkCommandHandler struct {
	uowFactory  TourUoWFactory
	transitions StatusTransitions
}

// NewUpdateTourStatusBulkCommandHandler creates a handler for bulk tour status changes.
func NewUpdateTourStatusBulkCommandHandler(
	uowFactory TourUoWFactory,
	transitions StatusTransitions,
) UpdateTourStatusBulkCommandHandler {
	return UpdateTourStatusBulkCommandHandler{uowFactory: uowFactory, transitions: transitions}
}

// Handle moves each tour's status pointer. Entering "in delivery" or
// "completed" stamps the matching start or finish time.
// Returns errs.ErrObjectNotFound for an unknown status row or a tour outside
// the account.
func (h UpdateTourStatusBulkCommandHandler) Handle(ctx context.Context, cmd UpdateTourStatusBulkCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	entry, err := h.transitions.lookup(ctx, status.KindTour, cmd.StatusID())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tourRepo := uow.TourRepository()
	tours, err := tourRepo.GetMany(ctx, ports.AccountScope(cmd.AccountID()), cmd.TourIDs())
	if err != nil {
		return err
	}

	history := uow.HistoryRepository()
	for _, t := range tours {
		if _, err = h.transitions.ledger.RecordTour(ctx, history, t, entry.ID(), cmd.ProfileID(), cmd.CreatedAt()); err != nil {
			return err
		}
		if err = tourRepo.Update(ctx, t); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
