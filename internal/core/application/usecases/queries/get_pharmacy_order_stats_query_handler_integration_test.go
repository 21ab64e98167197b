package queries_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"pharmadelivery/internal/adapters/out/postgres"
	"pharmadelivery/internal/adapters/out/postgres/commandrepo"
	"pharmadelivery/internal/adapters/out/postgres/referencerepo"
	"pharmadelivery/internal/adapters/out/postgres/tourrepo"
	"pharmadelivery/internal/core/application/usecases/queries"
	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(string, any) {}

type fixedDistances struct {
	km    map[string]float64
	err   error
	calls int
}

func (g *fixedDistances) RouteForTour(context.Context, []kernel.GeoPoint) (*tour.Route, error) {
	return nil, nil
}

func (g *fixedDistances) BatchDistances(_ context.Context, waypoints []ports.Waypoint) (map[string]float64, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	out := make(map[string]float64, len(waypoints))
	for _, w := range waypoints {
		if km, ok := g.km[w.ID]; ok {
			out[w.ID] = km
		}
	}
	return out, nil
}

type GetPharmacyOrderStatsQueryHandlerTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	gateway   *fixedDistances
	handler   queries.GetPharmacyOrderStatsQueryHandler
	accountID kernel.UUID
	day       time.Time
	near      uuid.UUID
	far       uuid.UUID
}

func TestGetPharmacyOrderStatsQueryHandlerTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(GetPharmacyOrderStatsQueryHandlerTestSuite))
}

func (suite *GetPharmacyOrderStatsQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres.Migrate(ctx, db))
}

func (suite *GetPharmacyOrderStatsQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetPharmacyOrderStatsQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE packages, commands, tours, pharmacies, tariff_bands",
	).Error)

	suite.accountID = kernel.NewUUID()
	suite.day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	suite.near, suite.far = uuid.New(), uuid.New()

	lat, lon := 45.0, 4.0
	suite.Require().NoError(suite.db.Create(&[]referencerepo.PharmacyDTO{
		{ID: suite.near, Name: "A Near", PostalCode: "69001", Lat: &lat, Lon: &lon},
		{ID: suite.far, Name: "B Far", PostalCode: "69002", Lat: &lat, Lon: &lon},
	}).Error)
	suite.Require().NoError(suite.db.Create(&[]referencerepo.TariffBandDTO{
		{ID: uuid.New(), AccountID: suite.accountID.Bytes(), KmMax: 10, Price: 8},
		{ID: uuid.New(), AccountID: suite.accountID.Bytes(), KmMax: 30, Price: 15},
	}).Error)

	suite.gateway = &fixedDistances{km: map[string]float64{
		suite.near.String(): 4,
		suite.far.String():  50,
	}}
	suite.handler = queries.NewGetPharmacyOrderStatsQueryHandler(
		suite.db,
		referencerepo.NewGormTariffRepository(suite.db),
		suite.gateway,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func (suite *GetPharmacyOrderStatsQueryHandlerTestSuite) addTour(id string, day time.Time) {
	t, err := tour.NewTour(id, suite.accountID, "Morning", day)
	suite.Require().NoError(err)
	suite.Require().NoError(tourrepo.NewGormTourRepository(suite.db, noopTracker{}).Add(context.Background(), t))
}

func (suite *GetPharmacyOrderStatsQueryHandlerTestSuite) addCommand(
	tourID string,
	pharmacy uuid.UUID,
	manual *float64,
	barcodes ...string,
) {
	pharmacyID, err := kernel.UUIDFromBytes(pharmacy[:])
	suite.Require().NoError(err)

	c, err := command.NewCommand(kernel.NewUUID(), suite.accountID, suite.day, command.Details{
		PharmacyID:   &pharmacyID,
		ManualTariff: manual,
	})
	suite.Require().NoError(err)
	for _, barcode := range barcodes {
		p, pkgErr := command.NewPackage(kernel.NewUUID(), c.ID(), barcode, command.Parcel{})
		suite.Require().NoError(pkgErr)
		suite.Require().NoError(c.AddPackage(p))
	}
	suite.Require().NoError(c.MoveToTour(tourID, 0))
	suite.Require().NoError(commandrepo.NewGormCommandRepository(suite.db, noopTracker{}).Add(context.Background(), c))
}

func (suite *GetPharmacyOrderStatsQueryHandlerTestSuite) query(from, to time.Time) queries.GetPharmacyOrderStatsQuery {
	q, err := queries.NewGetPharmacyOrderStatsQuery(suite.accountID, from, to)
	suite.Require().NoError(err)
	return q
}

func (suite *GetPharmacyOrderStatsQueryHandlerTestSuite) TestHandle_EmptyRange_ReturnsEmptySlice() {
	result, err := suite.handler.Handle(context.Background(), suite.query(suite.day, suite.day))

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
	suite.Zero(suite.gateway.calls)
}

func (suite *GetPharmacyOrderStatsQueryHandlerTestSuite) TestHandle_GroupsByPharmacyAndPrices() {
	tourID := "0123456789abcdef0123"
	suite.addTour(tourID, suite.day)
	manual := 42.0
	suite.addCommand(tourID, suite.near, nil, "100000000001", "100000000002")
	suite.addCommand(tourID, suite.near, &manual, "100000000003")
	suite.addCommand(tourID, suite.far, nil, "100000000004")

	result, err := suite.handler.Handle(context.Background(), suite.query(suite.day, suite.day))
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)

	near := result[0]
	suite.Equal("A Near", near.Name)
	suite.Equal(2, near.OrderCount)
	suite.Equal(3, near.PackageCount)
	suite.InDelta(8+42, near.TotalPrice, 1e-9)
	suite.Zero(near.UndefinedPriceCount)
	suite.Require().NotNil(near.AverageDistanceKm)
	suite.InDelta(4, *near.AverageDistanceKm, 1e-9)

	far := result[1]
	suite.Equal(1, far.OrderCount)
	suite.Zero(far.TotalPrice)
	suite.Equal(1, far.UndefinedPriceCount)
	suite.Equal(1, suite.gateway.calls)
}

func (suite *GetPharmacyOrderStatsQueryHandlerTestSuite) TestHandle_OutsideRangeIgnored() {
	suite.addTour("0123456789abcdef0124", suite.day.AddDate(0, 0, 7))
	suite.addCommand("0123456789abcdef0124", suite.near, nil, "100000000005")

	result, err := suite.handler.Handle(context.Background(), suite.query(suite.day, suite.day.AddDate(0, 0, 6)))
	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *GetPharmacyOrderStatsQueryHandlerTestSuite) TestHandle_GatewayDown_OnlyManualPriced() {
	suite.gateway.err = errors.New("routing unavailable")
	tourID := "0123456789abcdef0125"
	suite.addTour(tourID, suite.day)
	manual := 12.5
	suite.addCommand(tourID, suite.near, nil, "100000000006")
	suite.addCommand(tourID, suite.near, &manual, "100000000007")

	result, err := suite.handler.Handle(context.Background(), suite.query(suite.day, suite.day))
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.InDelta(12.5, result[0].TotalPrice, 1e-9)
	suite.Equal(1, result[0].UndefinedPriceCount)
	suite.Nil(result[0].AverageDistanceKm)
}

func (suite *GetPharmacyOrderStatsQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	result, err := suite.handler.Handle(context.Background(), queries.GetPharmacyOrderStatsQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetPharmacyOrderStatsQueryIsNotConstructed)
	suite.Nil(result)
}
