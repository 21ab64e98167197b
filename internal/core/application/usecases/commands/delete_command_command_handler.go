package commands

import (
	"context"
	"log/slog"

	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/ports"
)

// DeleteCommandCommandHandler deletes a command bottom-up: for each package its
// history and the package row, then the command history and finally the
// command row. A command that belonged to a tour leaves a gap in the tour
// order; the tour is renumbered and rerouted in the same transaction. The
// stored package artifacts are removed once the transaction has committed.
//
// Example:
//
//	handler := NewDeleteCommandCommandHandler(uowFactory, planner, logger)
//	cmd, err := NewDeleteCommandCommand(accountID, commandID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    log.Println("No such command in this account")
//	case err != nil:
//	    log.Printf("Delete failed: %v", err)
//	}
type DeleteCommandCommandHandler struct {
	uowFactory UoWFactory
	planner    TourPlanner
	logger     *slog.Logger
}

// NewDeleteCommandCommandHandler creates a handler for command deletion.
// The planner renumbers and reroutes the tour the command leaves.
func NewDeleteCommandCommandHandler(uowFactory UoWFactory, planner TourPlanner, logger *slog.Logger) DeleteCommandCommandHandler {
	return DeleteCommandCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
		logger:     logger.With("component", "DeleteCommandCommandHandler"),
	}
}

// Handle deletes the command and everything hanging off it.
// Returns errs.ErrObjectNotFound when the command is not visible in the
// command's scope. Artifact removal failures after the commit are logged and
// do not fail the call, since the command is already gone.
func (h DeleteCommandCommandHandler) Handle(ctx context.Context, cmd DeleteCommandCommand) error {
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

	commandRepo := uow.CommandRepository()
	aggregate, err := commandRepo.Get(ctx, cmd.Scope(), cmd.CommandID())
	if err != nil {
		return err
	}

	history := uow.HistoryRepository()
	packageRepo := uow.PackageRepository()
	barcodes := make([]string, 0, len(aggregate.Packages()))
	for _, p := range aggregate.Packages() {
		barcodes = append(barcodes, p.Barcode())
		if err = history.Purge(ctx, status.KindPackage, p.ID().String()); err != nil {
			return err
		}
		if err = packageRepo.Delete(ctx, p.ID()); err != nil {
			return err
		}
	}

	if err = history.Purge(ctx, status.KindCommand, aggregate.ID().String()); err != nil {
		return err
	}
	if err = commandRepo.Delete(ctx, aggregate.ID()); err != nil {
		return err
	}

	if tourID := aggregate.TourID(); tourID != nil {
		if err = h.planner.Refresh(ctx, uow, cmd.Scope(), []string{*tourID}); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.deleteArtifacts(ctx, uow.ArtifactStore(), barcodes)
	return nil
}

func (h DeleteCommandCommandHandler) deleteArtifacts(ctx context.Context, artifacts ports.ArtifactStore, barcodes []string) {
	for _, barcode := range barcodes {
		if err := artifacts.DeletePackageArtifacts(ctx, barcode); err != nil {
			h.logger.ErrorContext(ctx, "failed to delete package artifacts", "barcode", barcode, "error", err)
		}
	}
}
