package http

import (
	"net/http"
	"time"

	"pharmadelivery/internal/core/application/usecases/commands"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/pkg/optional"

	"github.com/labstack/echo/v4"
)

// tourFieldsBody carries the clearable tour attributes. A field missing from
// the JSON is left alone, an explicit null clears it.
type tourFieldsBody struct {
	Color      optional.Field[string] `json:"color"`
	DriverID   optional.Field[string] `json:"driverId"`
	ZoneID     optional.Field[string] `json:"zoneId"`
	Recurrence optional.Field[string] `json:"recurrence"`
}

func (b tourFieldsBody) toFields() (commands.TourFields, error) {
	driverID, err := mapField(b.DriverID, uuidParser("driverId"))
	if err != nil {
		return commands.TourFields{}, err
	}
	zoneID, err := mapField(b.ZoneID, uuidParser("zoneId"))
	if err != nil {
		return commands.TourFields{}, err
	}
	recurrence, err := mapField(b.Recurrence, kernel.ParseWeekdays)
	if err != nil {
		return commands.TourFields{}, err
	}
	return commands.TourFields{
		Color:      b.Color,
		DriverID:   driverID,
		ZoneID:     zoneID,
		Recurrence: recurrence,
	}, nil
}

type createTourBody struct {
	Name         string `json:"name"`
	DeliveryDate string `json:"deliveryDate"`
	tourFieldsBody
}

// CreateTour handles POST /api/v1/tours and answers with the generated id.
func (s *Server) CreateTour(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body createTourBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	day, err := parseDate("deliveryDate", body.DeliveryDate)
	if err != nil {
		return respondError(ctx, err)
	}
	fields, err := body.toFields()
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCreateTourCommand(caller.accountID, caller.profileID, body.Name, day, fields)
	if err != nil {
		return respondError(ctx, err)
	}

	id, err := s.h.CreateTour.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, createdResponse{Success: true, ID: id})
}

type updateTourBody struct {
	Name         optional.Field[string] `json:"name"`
	DeliveryDate optional.Field[string] `json:"deliveryDate"`
	tourFieldsBody
}

// UpdateTour handles PATCH /api/v1/tours/:id.
func (s *Server) UpdateTour(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body updateTourBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	day, err := mapField(body.DeliveryDate, func(raw string) (time.Time, error) {
		return parseDate("deliveryDate", raw)
	})
	if err != nil {
		return respondError(ctx, err)
	}
	fields, err := body.toFields()
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateTourCommand(caller.accountID, ctx.Param("id"), body.Name, day, fields)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.UpdateTour.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

// ReorderCommands handles PUT /api/v1/tours/:id/order. The listed commands
// take the first positions, in the given order.
func (s *Server) ReorderCommands(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body commandIDsBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	ids, err := parseUUIDs("commandIds", body.CommandIDs)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewReorderTourCommandsCommand(caller.accountID, ctx.Param("id"), ids)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.Reorder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

type driverBody struct {
	DriverID string `json:"driverId"`
}

// AssignDriver handles PUT /api/v1/tours/:id/driver.
func (s *Server) AssignDriver(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body driverBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	driverID, err := parseUUID("driverId", body.DriverID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewAssignTourCommand(caller.accountID, ctx.Param("id"), driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.AssignDriver.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

// UnassignDriver handles DELETE /api/v1/tours/:id/driver.
func (s *Server) UnassignDriver(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUnassignTourCommand(caller.accountID, ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.UnassignDriver.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

// mapField converts a present value with parse and keeps absent and null as
// they are.
func mapField[T, U any](f optional.Field[T], parse func(T) (U, error)) (optional.Field[U], error) {
	if !f.IsSet() {
		return optional.Absent[U](), nil
	}
	v, present := f.Value()
	if !present {
		return optional.Null[U](), nil
	}
	out, err := parse(v)
	if err != nil {
		return optional.Absent[U](), err
	}
	return optional.Of(out), nil
}

func uuidParser(param string) func(string) (kernel.UUID, error) {
	return func(raw string) (kernel.UUID, error) {
		return parseUUID(param, raw)
	}
}
