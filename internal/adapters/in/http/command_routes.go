package http

import (
	"net/http"
	"time"

	"pharmadelivery/internal/core/application/usecases/commands"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type createdResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type importedPackageBody struct {
	Barcode         string  `json:"barcode"`
	TransportNumber string  `json:"transportNumber"`
	Weight          float64 `json:"weight"`
	Dimensions      string  `json:"dimensions"`
	IsFresh         bool    `json:"isFresh"`
}

type createCommandBody struct {
	PharmacyID     string                `json:"pharmacyId"`
	SenderID       *string               `json:"senderId"`
	ExpeditionDate time.Time             `json:"expeditionDate"`
	IsNewPharmacy  bool                  `json:"isNewPharmacy"`
	Comment        string                `json:"comment"`
	Location       *locationBody         `json:"location"`
	ManualTariff   *float64              `json:"manualTariff"`
	Packages       []importedPackageBody `json:"packages"`
}

// CreateCommand handles POST /api/v1/commands. Packages without barcode get
// one generated from the pharmacy postal code.
func (s *Server) CreateCommand(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body createCommandBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	pharmacyID, err := parseUUID("pharmacyId", body.PharmacyID)
	if err != nil {
		return respondError(ctx, err)
	}

	var senderID *kernel.UUID
	if body.SenderID != nil {
		id, idErr := parseUUID("senderId", *body.SenderID)
		if idErr != nil {
			return respondError(ctx, idErr)
		}
		senderID = &id
	}

	location, err := body.Location.toPoint()
	if err != nil {
		return respondError(ctx, err)
	}

	packages := make([]commands.ImportedPackage, 0, len(body.Packages))
	for _, p := range body.Packages {
		packages = append(packages, commands.ImportedPackage{
			Barcode:         p.Barcode,
			TransportNumber: p.TransportNumber,
			Weight:          p.Weight,
			Dimensions:      p.Dimensions,
			IsFresh:         p.IsFresh,
		})
	}

	cmd, err := commands.NewCreateCommandCommand(caller.accountID, pharmacyID, senderID, caller.profileID,
		commands.ImportedCommand{
			Comment:      body.Comment,
			Location:     location,
			ManualTariff: body.ManualTariff,
			Packages:     packages,
		}, body.ExpeditionDate, body.IsNewPharmacy)
	if err != nil {
		return respondError(ctx, err)
	}

	id, err := s.h.CreateCommand.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, createdResponse{Success: true, ID: id.String()})
}

// DeleteCommand handles DELETE /api/v1/commands/:id.
func (s *Server) DeleteCommand(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	id, err := parseUUID("id", ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewDeleteCommandCommand(caller.accountID, id)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.DeleteCommand.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

// DeleteAnyCommand handles DELETE /admin/v1/commands/:id. The command is
// looked up across every account.
func (s *Server) DeleteAnyCommand(ctx echo.Context) error {
	id, err := parseUUID("id", ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewHyperAdminDeleteCommandCommand(id)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.DeleteCommand.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

type singleStatusBody struct {
	StatusID int    `json:"statusId"`
	IsWeb    bool   `json:"isWeb"`
	Comment  string `json:"comment"`
}

// UpdateSingleCommandStatus handles POST /api/v1/commands/:id/status. The
// event is stamped with the server time.
func (s *Server) UpdateSingleCommandStatus(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	id, err := parseUUID("id", ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var body singleStatusBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewUpdateCommandStatusCommand(
		caller.accountID, caller.profileID, id, status.ID(body.StatusID), body.IsWeb, body.Comment,
	)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.SingleCommandStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

type moveCommandBody struct {
	TourID string `json:"tourId"`
}

// MoveCommand handles PUT /api/v1/commands/:id/tour. Both the old and the new
// tour are renumbered.
func (s *Server) MoveCommand(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	id, err := parseUUID("id", ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var body moveCommandBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewAddTourToCommandCommand(caller.accountID, id, body.TourID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.MoveCommand.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

func (l *locationBody) toPoint() (*kernel.GeoPoint, error) {
	if l == nil {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(l.Lat, l.Lon)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func parseUUID(param, raw string) (kernel.UUID, error) {
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(param)
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}
