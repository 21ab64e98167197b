package commands

import (
	"context"

	"pharmadelivery/internal/core/domain/model/anomaly"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/ports"
)

// UpdateCommandStatusBulkCommandHandler changes the status of many commands in
// one transaction.
//
// The status is resolved once and every command id must resolve within the
// account before anything is written; an unknown id fails the whole batch with
// errs.ObjectNotFoundError. Cascade and anomaly rules are the same as for a
// single update, evaluated per command.
//
// Example:
//
//	handler := NewUpdateCommandStatusBulkCommandHandler(uowFactory, transitions)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    log.Println("Unknown status or command, nothing was written")
//	case err != nil:
//	    log.Printf("Bulk update failed: %v", err)
//	}
// UpdateCommandStatusBulkCommandHandler changes the status of many commands in
// one transaction.
//
// The status is resolved once and every command id must resolve within the
// account before anything is written; an unknown id fails the whole batch with
// errs.ObjectNotFoundError. Cascade and anomaly rules are the same as for a
// single update, evaluated per command.
type UpdateCommandStatusBulkCommandHandler struct {
	uowFactory  UoWFactory
	transitions StatusTransitions
}

// NewUpdateCommandStatusBulkCommandHandler creates a handler for bulk command
// status changes. transitions owns the catalog, the ledger and anomaly creation.
func NewUpdateCommandStatusBulkCommandHandler(
	uowFactory UoWFactory,
	transitions StatusTransitions,
) UpdateCommandStatusBulkCommandHandler {
	return UpdateCommandStatusBulkCommandHandler{uowFactory: uowFactory, transitions: transitions}
}

// Handle appends one event per command, stamped with the batch CreatedAt.
// Duplicate ids in the batch are written once.
// Returns errs.ErrObjectNotFound for an unknown status row or a command outside
// the account. Anomaly failures after commit are logged, never returned.
func (h UpdateCommandStatusBulkCommandHandler) Handle(ctx context.Context, cmd UpdateCommandStatusBulkCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	batch := cmd.Batch()
	entry, err := h.transitions.lookup(ctx, status.KindCommand, batch.StatusID)
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

	commandRepo := uow.CommandRepository()
	aggregates, err := commandRepo.GetMany(ctx, ports.AccountScope(cmd.AccountID()), batch.CommandIDs)
	if err != nil {
		return err
	}

	history := uow.HistoryRepository()
	pending := make([]*anomaly.Anomaly, 0)
	for _, aggregate := range aggregates {
		if batch.Location != nil {
			if err = aggregate.Relocate(*batch.Location); err != nil {
				return err
			}
		}

		a, changeErr := h.transitions.changeCommandStatus(ctx, history, aggregate, commandStatusChange{
			entry:     entry,
			profileID: cmd.ProfileID(),
			at:        batch.CreatedAt,
			isWeb:     batch.IsWeb,
			comment:   batch.Comment,
		})
		if changeErr != nil {
			return changeErr
		}
		if a != nil {
			pending = append(pending, a)
		}
	}

	for _, aggregate := range aggregates {
		if err = commandRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.transitions.reportAnomalies(ctx, pending)
	return nil
}
