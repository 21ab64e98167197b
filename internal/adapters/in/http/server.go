// Package http exposes the delivery core over REST. Caller identity comes from
// the X-Account-ID and X-Profile-ID headers set by the upstream gateway.
package http

import (
	"context"
	"net/http"
	"time"

	"pharmadelivery/internal/core/application/usecases/commands"
	"pharmadelivery/internal/core/application/usecases/queries"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/services"
	"pharmadelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Caller identity headers.
const (
	HeaderAccountID = "X-Account-ID"
	HeaderProfileID = "X-Profile-ID"

	dateLayout = "2006-01-02"
)

type (
	// CommandStatusHandler serves POST /commands/status.
	CommandStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCommandStatusBulkCommand) error
	}
	// PackageStatusHandler serves POST /packages/status.
	PackageStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdatePackageStatusBulkCommand) error
	}
	// AssignHandler serves POST /tours/:id/commands.
	AssignHandler interface {
		Handle(ctx context.Context, cmd commands.AssignCommandsToTourCommand) error
	}
	// UnassignHandler serves DELETE /commands/tour.
	UnassignHandler interface {
		Handle(ctx context.Context, cmd commands.UnassignCommandsFromTourCommand) error
	}
	// TourStatusHandler serves POST /tours/status.
	TourStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateTourStatusBulkCommand) error
	}
	// ValidateLoadingHandler serves POST /tours/:id/validate-loading.
	ValidateLoadingHandler interface {
		Handle(ctx context.Context, cmd commands.ValidateLoadingCommand) (commands.LoadingResult, error)
	}
	// DuplicateHandler serves POST /tours/duplicate.
	DuplicateHandler interface {
		Handle(ctx context.Context, cmd commands.DuplicateToursCommand) (int, error)
	}
	// StatsHandler serves GET /stats/pharmacies.
	StatsHandler interface {
		Handle(ctx context.Context, query queries.GetPharmacyOrderStatsQuery) ([]queries.PharmacyOrderStats, error)
	}
	// CreateCommandHandler serves POST /commands.
	CreateCommandHandler interface {
		Handle(ctx context.Context, cmd commands.CreateCommandCommand) (kernel.UUID, error)
	}
	// DeleteCommandHandler serves both command delete routes.
	DeleteCommandHandler interface {
		Handle(ctx context.Context, cmd commands.DeleteCommandCommand) error
	}
	// SingleCommandStatusHandler serves POST /commands/:id/status.
	SingleCommandStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCommandStatusCommand) error
	}
	// MoveCommandHandler serves PUT /commands/:id/tour.
	MoveCommandHandler interface {
		Handle(ctx context.Context, cmd commands.AddTourToCommandCommand) error
	}
	// ReorderHandler serves PUT /tours/:id/order.
	ReorderHandler interface {
		Handle(ctx context.Context, cmd commands.ReorderTourCommandsCommand) error
	}
	// CreateTourHandler serves POST /tours.
	CreateTourHandler interface {
		Handle(ctx context.Context, cmd commands.CreateTourCommand) (string, error)
	}
	// UpdateTourHandler serves PATCH /tours/:id.
	UpdateTourHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateTourCommand) error
	}
	// AssignDriverHandler serves PUT /tours/:id/driver.
	AssignDriverHandler interface {
		Handle(ctx context.Context, cmd commands.AssignTourCommand) error
	}
	// UnassignDriverHandler serves DELETE /tours/:id/driver.
	UnassignDriverHandler interface {
		Handle(ctx context.Context, cmd commands.UnassignTourCommand) error
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CommandStatus   CommandStatusHandler
	PackageStatus   PackageStatusHandler
	Assign          AssignHandler
	Unassign        UnassignHandler
	TourStatus      TourStatusHandler
	ValidateLoading ValidateLoadingHandler
	Duplicate       DuplicateHandler
	Stats           StatsHandler

	CreateCommand       CreateCommandHandler
	DeleteCommand       DeleteCommandHandler
	SingleCommandStatus SingleCommandStatusHandler
	MoveCommand         MoveCommandHandler
	Reorder             ReorderHandler
	CreateTour          CreateTourHandler
	UpdateTour          UpdateTourHandler
	AssignDriver        AssignDriverHandler
	UnassignDriver      UnassignDriverHandler
}

// Server adapts HTTP requests to command and query handlers.
type Server struct {
	h       Handlers
	metrics http.Handler
}

// NewServer builds the server. metrics may be nil, which disables /metrics.
func NewServer(h Handlers, metrics http.Handler) *Server {
	return &Server{h: h, metrics: metrics}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics))
	}

	api := e.Group("/api/v1")
	api.POST("/commands", s.CreateCommand)
	api.POST("/commands/status", s.UpdateCommandStatus)
	api.DELETE("/commands/tour", s.UnassignCommands)
	api.DELETE("/commands/:id", s.DeleteCommand)
	api.POST("/commands/:id/status", s.UpdateSingleCommandStatus)
	api.PUT("/commands/:id/tour", s.MoveCommand)
	api.POST("/packages/status", s.UpdatePackageStatus)
	api.POST("/tours", s.CreateTour)
	api.POST("/tours/status", s.UpdateTourStatus)
	api.POST("/tours/duplicate", s.DuplicateTours)
	api.PATCH("/tours/:id", s.UpdateTour)
	api.POST("/tours/:id/commands", s.AssignCommands)
	api.PUT("/tours/:id/order", s.ReorderCommands)
	api.PUT("/tours/:id/driver", s.AssignDriver)
	api.DELETE("/tours/:id/driver", s.UnassignDriver)
	api.POST("/tours/:id/validate-loading", s.ValidateLoading)
	api.GET("/stats/pharmacies", s.PharmacyStats)

	// Reserved to support staff; the gateway only routes it for hyper-admin tokens.
	e.DELETE("/admin/v1/commands/:id", s.DeleteAnyCommand)
}

// Health answers 200 while the process is up. It does not touch the database.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "healthy")
}

type locationBody struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type commandStatusBody struct {
	StatusID   int           `json:"statusId"`
	CommandIDs []string      `json:"commandIds"`
	CreatedAt  time.Time     `json:"createdAt"`
	Location   *locationBody `json:"location"`
	IsWeb      bool          `json:"isWeb"`
	Comment    string        `json:"comment"`
}

// UpdateCommandStatus handles POST /api/v1/commands/status.
func (s *Server) UpdateCommandStatus(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body commandStatusBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	ids, err := parseUUIDs("commandIds", body.CommandIDs)
	if err != nil {
		return respondError(ctx, err)
	}

	location, err := body.Location.toPoint()
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateCommandStatusBulkCommand(caller.accountID, caller.profileID, commands.CommandStatusBatch{
		StatusID:   status.ID(body.StatusID),
		CommandIDs: ids,
		CreatedAt:  body.CreatedAt,
		Location:   location,
		IsWeb:      body.IsWeb,
		Comment:    body.Comment,
	})
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.CommandStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

type packageStatusBody struct {
	StatusID   int       `json:"statusId"`
	PackageIDs []string  `json:"packageIds"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UpdatePackageStatus handles POST /api/v1/packages/status.
func (s *Server) UpdatePackageStatus(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body packageStatusBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	ids, err := parseUUIDs("packageIds", body.PackageIDs)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdatePackageStatusBulkCommand(
		caller.accountID, caller.profileID, status.ID(body.StatusID), ids, body.CreatedAt,
	)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.PackageStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

type commandIDsBody struct {
	CommandIDs []string `json:"commandIds"`
}

// AssignCommands handles POST /api/v1/tours/:id/commands.
func (s *Server) AssignCommands(ctx echo.Context) error {
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

	cmd, err := commands.NewAssignCommandsToTourCommand(caller.accountID, ids, ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.Assign.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

// UnassignCommands handles DELETE /api/v1/commands/tour.
func (s *Server) UnassignCommands(ctx echo.Context) error {
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

	cmd, err := commands.NewUnassignCommandsFromTourCommand(caller.accountID, ids)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.Unassign.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

type tourStatusBody struct {
	StatusID  int       `json:"statusId"`
	TourIDs   []string  `json:"tourIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateTourStatus handles POST /api/v1/tours/status.
func (s *Server) UpdateTourStatus(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body tourStatusBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewUpdateTourStatusBulkCommand(
		caller.accountID, caller.profileID, status.ID(body.StatusID), body.TourIDs, body.CreatedAt,
	)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.h.TourStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ok(ctx)
}

type loadedCommandBody struct {
	CommandID *string  `json:"commandId"`
	Barcodes  []string `json:"barcodes"`
	StatusID  *int     `json:"statusId"`
	Comment   string   `json:"comment"`
}

type validateLoadingBody struct {
	Commands []loadedCommandBody `json:"commands"`
}

type validateLoadingResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ValidateLoading handles POST /api/v1/tours/:id/validate-loading. A snapshot
// that does not match answers 200 with status REFRESH_NEEDED.
func (s *Server) ValidateLoading(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body validateLoadingBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	snapshot := make([]services.LoadedCommand, 0, len(body.Commands))
	for _, loaded := range body.Commands {
		entry := services.LoadedCommand{Barcodes: loaded.Barcodes, Comment: loaded.Comment}
		if loaded.CommandID != nil {
			id, idErr := kernel.UUIDFromString(*loaded.CommandID)
			if idErr != nil {
				return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("commandId", idErr))
			}
			entry.CommandID = &id
		}
		if loaded.StatusID != nil {
			statusID := status.ID(*loaded.StatusID)
			entry.StatusID = &statusID
		}
		snapshot = append(snapshot, entry)
	}

	cmd, err := commands.NewValidateLoadingCommand(caller.accountID, caller.profileID, ctx.Param("id"), snapshot)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.h.ValidateLoading.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, validateLoadingResponse{Status: string(result.Status), Message: result.Message})
}

type duplicateBody struct {
	SourceDate string `json:"sourceDate"`
	TargetDate string `json:"targetDate"`
}

type duplicateResponse struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
}

// DuplicateTours handles POST /api/v1/tours/duplicate.
func (s *Server) DuplicateTours(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body duplicateBody
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	source, err := parseDate("sourceDate", body.SourceDate)
	if err != nil {
		return respondError(ctx, err)
	}
	target, err := parseDate("targetDate", body.TargetDate)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewDuplicateToursCommand(caller.accountID, caller.profileID, source, target)
	if err != nil {
		return respondError(ctx, err)
	}

	created, err := s.h.Duplicate.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, duplicateResponse{Success: true, Created: created})
}

type pharmacyStatsResponse struct {
	PharmacyID          string   `json:"pharmacyId"`
	Name                string   `json:"name"`
	OrderCount          int      `json:"orderCount"`
	PackageCount        int      `json:"packageCount"`
	TotalPrice          float64  `json:"totalPrice"`
	UndefinedPriceCount int      `json:"undefinedPriceCount"`
	AverageDistanceKm   *float64 `json:"averageDistanceKm"`
}

// PharmacyStats handles GET /api/v1/stats/pharmacies?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (s *Server) PharmacyStats(ctx echo.Context) error {
	caller, err := callerOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	from, err := parseDate("from", ctx.QueryParam("from"))
	if err != nil {
		return respondError(ctx, err)
	}
	to, err := parseDate("to", ctx.QueryParam("to"))
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetPharmacyOrderStatsQuery(caller.accountID, from, to)
	if err != nil {
		return respondError(ctx, err)
	}

	stats, err := s.h.Stats.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]pharmacyStatsResponse, len(stats))
	for i, st := range stats {
		response[i] = pharmacyStatsResponse{
			PharmacyID:          st.PharmacyID.String(),
			Name:                st.Name,
			OrderCount:          st.OrderCount,
			PackageCount:        st.PackageCount,
			TotalPrice:          st.TotalPrice,
			UndefinedPriceCount: st.UndefinedPriceCount,
			AverageDistanceKm:   st.AverageDistanceKm,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}
