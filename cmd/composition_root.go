package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	httpin "pharmadelivery/internal/adapters/in/http"
	"pharmadelivery/internal/adapters/out/kafka"
	"pharmadelivery/internal/adapters/out/postgres"
	"pharmadelivery/internal/adapters/out/postgres/anomalyrepo"
	"pharmadelivery/internal/adapters/out/postgres/historyrepo"
	"pharmadelivery/internal/adapters/out/postgres/referencerepo"
	"pharmadelivery/internal/adapters/out/rediscache"
	"pharmadelivery/internal/adapters/out/routing"
	"pharmadelivery/internal/core/application/catalog"
	"pharmadelivery/internal/core/application/ledger"
	"pharmadelivery/internal/core/application/routes"
	"pharmadelivery/internal/core/application/usecases/commands"
	"pharmadelivery/internal/core/application/usecases/queries"
	"pharmadelivery/internal/core/domain/services"
	"pharmadelivery/internal/core/ports"
	"pharmadelivery/internal/jobs"
	"pharmadelivery/internal/pkg/metrics"

	"gorm.io/gorm"
)

// CompositionRoot owns the shared adapters and builds every handler from them.
type CompositionRoot struct {
	configs     Config
	gormDB      *gorm.DB
	logger      *slog.Logger
	metrics     *metrics.Metrics
	uowFactory  *postgres.GormUnitOfWorkFactory
	gateway     ports.RoutingGateway
	transitions commands.StatusTransitions
	planner     *routes.Planner
	ids         services.IDGenerator
	closers     []func() error
}

// NewCompositionRoot connects the optional broker and cache named in configs.
// Call Close on shutdown.
func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		configs: configs,
		gormDB:  gormDB,
		logger:  logger,
		metrics: metrics.New(),
		ids:     services.NewIDGenerator(),
	}

	var publisher ports.StatusEventPublisher
	if configs.KafkaHost != "" {
		p := kafka.NewStatusPublisher(strings.Split(configs.KafkaHost, ","), configs.KafkaStatusChangedTopic)
		c.closers = append(c.closers, p.Close)
		publisher = p
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger)

	var gateway ports.RoutingGateway = routing.NewBreakerGateway(
		routing.NewClient(configs.RoutingBaseURL, configs.Depot, configs.RoutingTimeout),
		routing.DefaultBreakerConfig(),
		logger,
	)
	if configs.RedisAddr != "" {
		prefix := fmt.Sprintf("pharmadelivery:%.5f:%.5f", configs.Depot.Lat(), configs.Depot.Lon())
		cache := rediscache.New(configs.RedisAddr, prefix, rediscache.DefaultTTL, gateway, logger)
		c.closers = append(c.closers, cache.Close)
		gateway = cache
	}
	c.gateway = gateway

	c.transitions = commands.NewStatusTransitions(
		catalog.New(historyrepo.NewGormStatusRepository(gormDB)),
		ledger.New(c.metrics),
		anomalyrepo.NewGormAnomalyService(gormDB),
		c.metrics,
		logger,
	)
	c.planner = routes.NewPlanner(gateway, configs.RouteConcurrency, c.metrics, logger)

	return c
}

// Metrics returns the collectors shared by all handlers.
func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

// Close releases the broker and cache connections.
func (c *CompositionRoot) Close() error {
	var errList []error
	for _, closeFn := range c.closers {
		errList = append(errList, closeFn())
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) tourUoW() commands.TourUoWFactory {
	return FuncTourUoWFactory(func() commands.TourUoW {
		return c.uowFactory.Create()
	})
}

// CreateCreateCommandCommandHandler builds the CreateCommandCommandHandler.
func (c *CompositionRoot) CreateCreateCommandCommandHandler() commands.CreateCommandCommandHandler {
	return commands.NewCreateCommandCommandHandler(c.uow(), c.transitions, c.ids)
}

// CreateDeleteCommandCommandHandler builds the DeleteCommandCommandHandler.
func (c *CompositionRoot) CreateDeleteCommandCommandHandler() commands.DeleteCommandCommandHandler {
	return commands.NewDeleteCommandCommandHandler(c.uow(), c.planner, c.logger)
}

// CreateUpdateCommandStatusCommandHandler builds the UpdateCommandStatusCommandHandler.
func (c *CompositionRoot) CreateUpdateCommandStatusCommandHandler() commands.UpdateCommandStatusCommandHandler {
	return commands.NewUpdateCommandStatusCommandHandler(c.uow(), c.transitions)
}

// CreateUpdateCommandStatusBulkCommandHandler builds the UpdateCommandStatusBulkCommandHandler.
func (c *CompositionRoot) CreateUpdateCommandStatusBulkCommandHandler() commands.UpdateCommandStatusBulkCommandHandler {
	return commands.NewUpdateCommandStatusBulkCommandHandler(c.uow(), c.transitions)
}

// CreateUpdatePackageStatusBulkCommandHandler builds the UpdatePackageStatusBulkCommandHandler.
func (c *CompositionRoot) CreateUpdatePackageStatusBulkCommandHandler() commands.UpdatePackageStatusBulkCommandHandler {
	return commands.NewUpdatePackageStatusBulkCommandHandler(c.uow(), c.transitions)
}

// CreateAddTourToCommandCommandHandler builds the AddTourToCommandCommandHandler.
func (c *CompositionRoot) CreateAddTourToCommandCommandHandler() commands.AddTourToCommandCommandHandler {
	return commands.NewAddTourToCommandCommandHandler(c.uow(), c.planner)
}

// CreateAssignCommandsToTourCommandHandler builds the AssignCommandsToTourCommandHandler.
func (c *CompositionRoot) CreateAssignCommandsToTourCommandHandler() commands.AssignCommandsToTourCommandHandler {
	return commands.NewAssignCommandsToTourCommandHandler(c.uow(), c.planner)
}

// CreateUnassignCommandsFromTourCommandHandler builds the UnassignCommandsFromTourCommandHandler.
func (c *CompositionRoot) CreateUnassignCommandsFromTourCommandHandler() commands.UnassignCommandsFromTourCommandHandler {
	return commands.NewUnassignCommandsFromTourCommandHandler(c.uow(), c.planner)
}

// CreateReorderTourCommandsCommandHandler builds the ReorderTourCommandsCommandHandler.
func (c *CompositionRoot) CreateReorderTourCommandsCommandHandler() commands.ReorderTourCommandsCommandHandler {
	return commands.NewReorderTourCommandsCommandHandler(c.uow(), c.planner)
}

// CreateValidateLoadingCommandHandler builds the ValidateLoadingCommandHandler.
func (c *CompositionRoot) CreateValidateLoadingCommandHandler() commands.ValidateLoadingCommandHandler {
	return commands.NewValidateLoadingCommandHandler(c.uow(), c.transitions)
}

// CreateRepairTourRoutesCommandHandler builds the RepairTourRoutesCommandHandler.
func (c *CompositionRoot) CreateRepairTourRoutesCommandHandler() commands.RepairTourRoutesCommandHandler {
	return commands.NewRepairTourRoutesCommandHandler(c.uow(), c.planner)
}

// CreateCreateTourCommandHandler builds the CreateTourCommandHandler.
func (c *CompositionRoot) CreateCreateTourCommandHandler() commands.CreateTourCommandHandler {
	return commands.NewCreateTourCommandHandler(c.tourUoW(), c.transitions, c.ids)
}

// CreateUpdateTourCommandHandler builds the UpdateTourCommandHandler.
func (c *CompositionRoot) CreateUpdateTourCommandHandler() commands.UpdateTourCommandHandler {
	return commands.NewUpdateTourCommandHandler(c.tourUoW())
}

// CreateAssignTourCommandHandler builds the AssignTourCommandHandler.
func (c *CompositionRoot) CreateAssignTourCommandHandler() commands.AssignTourCommandHandler {
	return commands.NewAssignTourCommandHandler(c.tourUoW())
}

// CreateUnassignTourCommandHandler builds the UnassignTourCommandHandler.
func (c *CompositionRoot) CreateUnassignTourCommandHandler() commands.UnassignTourCommandHandler {
	return commands.NewUnassignTourCommandHandler(c.tourUoW())
}

// CreateUpdateTourStatusBulkCommandHandler builds the UpdateTourStatusBulkCommandHandler.
func (c *CompositionRoot) CreateUpdateTourStatusBulkCommandHandler() commands.UpdateTourStatusBulkCommandHandler {
	return commands.NewUpdateTourStatusBulkCommandHandler(c.tourUoW(), c.transitions)
}

// CreateDuplicateToursCommandHandler builds the DuplicateToursCommandHandler.
func (c *CompositionRoot) CreateDuplicateToursCommandHandler() commands.DuplicateToursCommandHandler {
	return commands.NewDuplicateToursCommandHandler(c.tourUoW(), c.transitions, c.ids)
}

// CreateGetPharmacyOrderStatsQueryHandler builds the GetPharmacyOrderStatsQueryHandler.
func (c *CompositionRoot) CreateGetPharmacyOrderStatsQueryHandler() queries.GetPharmacyOrderStatsQueryHandler {
	return queries.NewGetPharmacyOrderStatsQueryHandler(
		c.gormDB,
		referencerepo.NewGormTariffRepository(c.gormDB),
		c.gateway,
		c.logger,
	)
}

// HTTPServer binds the REST adapter to the handlers above.
func (c *CompositionRoot) HTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CommandStatus:   c.CreateUpdateCommandStatusBulkCommandHandler(),
		PackageStatus:   c.CreateUpdatePackageStatusBulkCommandHandler(),
		Assign:          c.CreateAssignCommandsToTourCommandHandler(),
		Unassign:        c.CreateUnassignCommandsFromTourCommandHandler(),
		TourStatus:      c.CreateUpdateTourStatusBulkCommandHandler(),
		ValidateLoading: c.CreateValidateLoadingCommandHandler(),
		Duplicate:       c.CreateDuplicateToursCommandHandler(),
		Stats:           c.CreateGetPharmacyOrderStatsQueryHandler(),

		CreateCommand:       c.CreateCreateCommandCommandHandler(),
		DeleteCommand:       c.CreateDeleteCommandCommandHandler(),
		SingleCommandStatus: c.CreateUpdateCommandStatusCommandHandler(),
		MoveCommand:         c.CreateAddTourToCommandCommandHandler(),
		Reorder:             c.CreateReorderTourCommandsCommandHandler(),
		CreateTour:          c.CreateCreateTourCommandHandler(),
		UpdateTour:          c.CreateUpdateTourCommandHandler(),
		AssignDriver:        c.CreateAssignTourCommandHandler(),
		UnassignDriver:      c.CreateUnassignTourCommandHandler(),
	}, c.metrics.Handler())
}

// CreateJobManager builds the scheduled duplication and route repair jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateDuplicateToursCommandHandler(),
		c.CreateRepairTourRoutesCommandHandler(),
		c.configs.DeliveryDays,
		c.logger,
	)
}

// FuncUoWFactory adapts a function to commands.UoWFactory.
type FuncUoWFactory func() commands.UoW

// Create calls f.
func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

// FuncTourUoWFactory adapts a function to commands.TourUoWFactory.
type FuncTourUoWFactory func() commands.TourUoW

// Create calls f.
func (f FuncTourUoWFactory) Create() commands.TourUoW {
	return f()
}
