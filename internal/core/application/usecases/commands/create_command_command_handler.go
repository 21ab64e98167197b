package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/services"
	"pharmadelivery/internal/pkg/errs"
)

var ErrBarcodeIsTaken = errors.New("barcode is already used")

// CreateCommandCommandHandler builds a command from imported data, persists
// it and seeds the first status of the command and of each package.
//
// Missing barcodes are generated under the pharmacy postal code prefix; a
// missing transport number falls back to the barcode.
//
// Example:
//
//	handler := NewCreateCommandCommandHandler(uowFactory, transitions, services.NewIDGenerator())
//	id, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    log.Println("Unknown pharmacy")
//	case errors.Is(err, ErrBarcodeIsTaken):
//	    log.Println("Imported barcode already exists")
//	case err != nil:
//	    log.Printf("Import failed: %v", err)
//	default:
//	    log.Printf("Command %s created", id)
//	}
// CreateCommandCommandHandler builds a command from imported data, persists
// it and seeds the first status of the command and of each package.
//
// Missing barcodes are generated under the pharmacy postal code prefix; a
// missing transport number falls back to the barcode.
type CreateCommandCommandHandler struct {
	uowFactory  UoWFactory
	transitions StatusTransitions
	ids         services.IDGenerator
}

// NewCreateCommandCommandHandler creates a handler for command imports.
// transitions seeds the "to pick up" statuses and ids generates barcodes.
func NewCreateCommandCommandHandler(
	uowFactory UoWFactory,
	transitions StatusTransitions,
	ids services.IDGenerator,
) CreateCommandCommandHandler {
	return CreateCommandCommandHandler{uowFactory: uowFactory, transitions: transitions, ids: ids}
}

// Handle creates the command and returns its id.
// Returns errs.ErrObjectNotFound for an unknown pharmacy and
// errs.ErrValueIsInvalid wrapping ErrBarcodeIsTaken when an imported barcode
// is already used, by another package or earlier in the same import.
// Handle returns the id of the created command.
func (h CreateCommandCommandHandler) Handle(ctx context.Context, cmd CreateCommandCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ph, err := uow.PharmacyRepository().Get(ctx, cmd.PharmacyID())
	if err != nil {
		return kernel.UUID{}, err
	}

	pharmacyID := ph.ID()
	imported := cmd.Imported()
	aggregate, err := command.NewCommand(kernel.NewUUID(), cmd.AccountID(), cmd.ExpeditionDate(), command.Details{
		Comment:       imported.Comment,
		Location:      imported.Location,
		ManualTariff:  imported.ManualTariff,
		PharmacyID:    &pharmacyID,
		SenderID:      cmd.SenderID(),
		IsNewPharmacy: cmd.IsNewPharmacy(),
	})
	if err != nil {
		return kernel.UUID{}, err
	}

	packages := uow.PackageRepository()
	taken := make(map[string]struct{}, len(imported.Packages))
	exists := func(ctx context.Context, code string) (bool, error) {
		if _, ok := taken[code]; ok {
			return true, nil
		}
		return packages.BarcodeExists(ctx, code)
	}

	for _, line := range imported.Packages {
		barcode := line.Barcode
		if barcode == "" {
			prefix, prefixErr := ph.BarcodePrefix()
			if prefixErr != nil {
				return kernel.UUID{}, prefixErr
			}
			if barcode, err = h.ids.Barcode(ctx, prefix, exists); err != nil {
				return kernel.UUID{}, err
			}
		} else {
			used, existsErr := exists(ctx, barcode)
			if existsErr != nil {
				return kernel.UUID{}, existsErr
			}
			if used {
				return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("barcode", fmt.Errorf("%w: %s", ErrBarcodeIsTaken, barcode))
			}
		}
		taken[barcode] = struct{}{}

		p, pkgErr := command.NewPackage(kernel.NewUUID(), aggregate.ID(), barcode, command.Parcel{
			TransportNumber: line.TransportNumber,
			Weight:          line.Weight,
			Dimensions:      line.Dimensions,
			IsFresh:         line.IsFresh,
		})
		if pkgErr != nil {
			return kernel.UUID{}, pkgErr
		}
		if err = aggregate.AddPackage(p); err != nil {
			return kernel.UUID{}, err
		}
	}

	commandRepo := uow.CommandRepository()
	if err = commandRepo.Add(ctx, aggregate); err != nil {
		return kernel.UUID{}, err
	}

	history := uow.HistoryRepository()
	var seededAt time.Time // zero: the ledger stamps the current time
	for _, p := range aggregate.Packages() {
		if _, err = h.transitions.ledger.RecordPackage(ctx, history, p, status.PackageToPickUp, cmd.ProfileID(), seededAt); err != nil {
			return kernel.UUID{}, err
		}
	}
	if _, err = h.transitions.ledger.RecordCommand(ctx, history, aggregate, status.CommandToPickUp, cmd.ProfileID(), seededAt); err != nil {
		return kernel.UUID{}, err
	}

	if err = commandRepo.Update(ctx, aggregate); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return aggregate.ID(), nil
}
