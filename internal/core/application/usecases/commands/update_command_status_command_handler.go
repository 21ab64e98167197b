package commands

import (
	"context"
	"time"

	"pharmadelivery/internal/core/domain/model/anomaly"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/ports"
)

// UpdateCommandStatusCommandHandler appends one status event to a command.
//
// Web changes cascade the mapped package status onto every package not
// already there. Field changes to a negative outcome open an anomaly for the
// destination pharmacy once the transaction committed.
//
// Example:
//
//	handler := NewUpdateCommandStatusCommandHandler(uowFactory, transitions)
//	if err := handler.Handle(ctx, cmd); errors.Is(err, errs.ErrObjectNotFound) {
//	    log.Println("No such command or status")
//	}
// UpdateCommandStatusCommandHandler appends one status event to a command.
//
// Web changes cascade the mapped package status onto every package not
// already there. Field changes to a negative outcome open an anomaly for the
// destination pharmacy once the transaction committed.
type UpdateCommandStatusCommandHandler struct {
	uowFactory  UoWFactory
	transitions StatusTransitions
}

// NewUpdateCommandStatusCommandHandler creates a handler for single command
// status changes.
func NewUpdateCommandStatusCommandHandler(uowFactory UoWFactory, transitions StatusTransitions) UpdateCommandStatusCommandHandler {
	return UpdateCommandStatusCommandHandler{uowFactory: uowFactory, transitions: transitions}
}

// Handle stamps the event with the current time and moves the status pointer.
// Returns errs.ErrObjectNotFound for an unknown status row or a command outside
// the account.
func (h UpdateCommandStatusCommandHandler) Handle(ctx context.Context, cmd UpdateCommandStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	entry, err := h.transitions.lookup(ctx, status.KindCommand, cmd.StatusID())
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
	aggregate, err := commandRepo.Get(ctx, ports.AccountScope(cmd.AccountID()), cmd.CommandID())
	if err != nil {
		return err
	}

	pending, err := h.transitions.changeCommandStatus(ctx, uow.HistoryRepository(), aggregate, commandStatusChange{
		entry:     entry,
		profileID: cmd.ProfileID(),
		at:        time.Now(),
		isWeb:     cmd.IsWeb(),
		comment:   cmd.Comment(),
	})
	if err != nil {
		return err
	}

	if err = commandRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if pending != nil {
		h.transitions.reportAnomalies(ctx, []*anomaly.Anomaly{pending})
	}
	return nil
}
