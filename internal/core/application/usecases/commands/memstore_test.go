package commands_test

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pharmadelivery/internal/core/application/catalog"
	"pharmadelivery/internal/core/application/ledger"
	"pharmadelivery/internal/core/application/routes"
	"pharmadelivery/internal/core/application/usecases/commands"
	"pharmadelivery/internal/core/domain/model/anomaly"
	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/pharmacy"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/model/tariff"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/domain/services"
	"pharmadelivery/internal/core/ports"
	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/metrics"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory persistence layer for scenario tests. Reads return
// copies, so handlers only change stored state through the repositories.
type memStore struct {
	mu         sync.Mutex
	commandIDs []kernel.UUID
	commands   map[kernel.UUID]*command.Command
	tourIDs    []string
	tours      map[string]*tour.Tour
	events     []*history.Event
	pharmacies map[kernel.UUID]*pharmacy.Pharmacy
	artifacts  []string
	commits    int
	commitErr  error
}

func newMemStore() *memStore {
	return &memStore{
		commands:   make(map[kernel.UUID]*command.Command),
		tours:      make(map[string]*tour.Tour),
		pharmacies: make(map[kernel.UUID]*pharmacy.Pharmacy),
	}
}

func (s *memStore) command(t *testing.T, id kernel.UUID) *command.Command {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commands[id]
	require.True(t, ok, "command %s is not stored", id)
	return cloneCommand(c)
}

func (s *memStore) tour(t *testing.T, id string) *tour.Tour {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.tours[id]
	require.True(t, ok, "tour %s is not stored", id)
	return cloneTour(tr)
}

func (s *memStore) eventsOf(kind status.Kind, entityID string) []*history.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*history.Event
	for _, ev := range s.events {
		if ev.Kind() == kind && ev.EntityID() == entityID {
			out = append(out, ev)
		}
	}
	return out
}

func (s *memStore) eventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func (s *memStore) tourOrders(tourID string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for _, id := range s.commandIDs {
		c := s.commands[id]
		if c.TourID() != nil && *c.TourID() == tourID && c.TourOrder() != nil {
			out = append(out, *c.TourOrder())
		}
	}
	slices.Sort(out)
	return out
}

func (s *memStore) addPharmacy(t *testing.T, postalCode string, lat, lon float64) *pharmacy.Pharmacy {
	t.Helper()
	loc, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	ph, err := pharmacy.RestorePharmacy(kernel.NewUUID(), "Pharmacy "+postalCode, postalCode, &loc)
	require.NoError(t, err)
	s.mu.Lock()
	s.pharmacies[ph.ID()] = ph
	s.mu.Unlock()
	return ph
}

func inScope(scope ports.Scope, accountID kernel.UUID) bool {
	return scope.Unscoped || scope.AccountID.IsEqual(accountID)
}

func cloneCommand(c *command.Command) *command.Command {
	pkgs := make([]*command.Package, 0, len(c.Packages()))
	for _, p := range c.Packages() {
		pkgs = append(pkgs, clonePackage(p))
	}
	out, err := command.RestoreCommand(
		c.ID(), c.AccountID(), c.ExpeditionDate(), c.CloseDate(),
		command.Details{
			Comment:       c.Comment(),
			Location:      c.Location(),
			ManualTariff:  c.ManualTariff(),
			PharmacyID:    c.PharmacyID(),
			SenderID:      c.SenderID(),
			IsNewPharmacy: c.IsNewPharmacy(),
		},
		c.TourID(), c.TourOrder(), pkgs, c.Status(),
	)
	if err != nil {
		panic(err)
	}
	return out
}

func clonePackage(p *command.Package) *command.Package {
	out, err := command.RestorePackage(p.ID(), p.CommandID(), p.Barcode(), command.Parcel{
		TransportNumber: p.TransportNumber(),
		Weight:          p.Weight(),
		Dimensions:      p.Dimensions(),
		IsFresh:         p.IsFresh(),
	}, p.Status())
	if err != nil {
		panic(err)
	}
	return out
}

func cloneTour(t *tour.Tour) *tour.Tour {
	out, err := tour.RestoreTour(t.ID(), t.AccountID(), t.Name(), t.DeliveryDate(), tour.State{
		Color:      t.Color(),
		DriverID:   t.DriverID(),
		ZoneID:     t.ZoneID(),
		Recurrence: t.Recurrence(),
		Route:      t.Route(),
		StartedAt:  t.StartedAt(),
		FinishedAt: t.FinishedAt(),
		Status:     t.Status(),
	})
	if err != nil {
		panic(err)
	}
	return out
}

type memCommandRepo struct{ s *memStore }

func (r memCommandRepo) Add(_ context.Context, c *command.Command) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.commands[c.ID()]; ok {
		return fmt.Errorf("duplicate command %s", c.ID())
	}
	r.s.commandIDs = append(r.s.commandIDs, c.ID())
	r.s.commands[c.ID()] = cloneCommand(c)
	return nil
}

func (r memCommandRepo) Update(_ context.Context, c *command.Command) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.commands[c.ID()]; !ok {
		return errs.NewObjectNotFoundError("command", c.ID())
	}
	r.s.commands[c.ID()] = cloneCommand(c)
	return nil
}

func (r memCommandRepo) Get(_ context.Context, scope ports.Scope, id kernel.UUID) (*command.Command, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.commands[id]
	if !ok || !inScope(scope, c.AccountID()) {
		return nil, errs.NewObjectNotFoundError("command", id)
	}
	return cloneCommand(c), nil
}

func (r memCommandRepo) GetMany(ctx context.Context, scope ports.Scope, ids []kernel.UUID) ([]*command.Command, error) {
	seen := make(map[kernel.UUID]struct{}, len(ids))
	out := make([]*command.Command, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		c, err := r.Get(ctx, scope, id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r memCommandRepo) GetByTour(_ context.Context, tourID string) ([]*command.Command, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*command.Command
	for _, id := range r.s.commandIDs {
		c := r.s.commands[id]
		if c.TourID() != nil && *c.TourID() == tourID {
			out = append(out, cloneCommand(c))
		}
	}
	slices.SortStableFunc(out, func(a, b *command.Command) int {
		switch {
		case a.TourOrder() == nil && b.TourOrder() == nil:
			return 0
		case a.TourOrder() == nil:
			return 1
		case b.TourOrder() == nil:
			return -1
		}
		return cmp.Compare(*a.TourOrder(), *b.TourOrder())
	})
	return out, nil
}

func (r memCommandRepo) Delete(_ context.Context, id kernel.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.commands, id)
	r.s.commandIDs = slices.DeleteFunc(r.s.commandIDs, func(other kernel.UUID) bool { return other.IsEqual(id) })
	return nil
}

type memPackageRepo struct{ s *memStore }

func (r memPackageRepo) GetMany(_ context.Context, scope ports.Scope, ids []kernel.UUID) ([]*command.Package, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*command.Package, 0, len(ids))
	for _, id := range ids {
		p := r.find(id)
		if p == nil || !inScope(scope, r.s.commands[p.CommandID()].AccountID()) {
			return nil, errs.NewObjectNotFoundError("package", id)
		}
		out = append(out, clonePackage(p))
	}
	return out, nil
}

func (r memPackageRepo) Update(_ context.Context, pkg *command.Package) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.commands[pkg.CommandID()]
	if !ok {
		return errs.NewObjectNotFoundError("package", pkg.ID())
	}
	pkgs := make([]*command.Package, 0, len(c.Packages()))
	for _, p := range c.Packages() {
		if p.ID().IsEqual(pkg.ID()) {
			p = pkg
		}
		pkgs = append(pkgs, clonePackage(p))
	}
	updated, err := command.RestoreCommand(
		c.ID(), c.AccountID(), c.ExpeditionDate(), c.CloseDate(),
		command.Details{
			Comment:       c.Comment(),
			Location:      c.Location(),
			ManualTariff:  c.ManualTariff(),
			PharmacyID:    c.PharmacyID(),
			SenderID:      c.SenderID(),
			IsNewPharmacy: c.IsNewPharmacy(),
		},
		c.TourID(), c.TourOrder(), pkgs, c.Status(),
	)
	if err != nil {
		return err
	}
	r.s.commands[c.ID()] = updated
	return nil
}

func (r memPackageRepo) Delete(context.Context, kernel.UUID) error {
	return nil
}

func (r memPackageRepo) BarcodeExists(_ context.Context, barcode string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.commands {
		if slices.Contains(c.Barcodes(), barcode) {
			return true, nil
		}
	}
	return false, nil
}

func (r memPackageRepo) find(id kernel.UUID) *command.Package {
	for _, c := range r.s.commands {
		for _, p := range c.Packages() {
			if p.ID().IsEqual(id) {
				return p
			}
		}
	}
	return nil
}

type memTourRepo struct{ s *memStore }

func (r memTourRepo) Add(_ context.Context, t *tour.Tour) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tours[t.ID()]; ok {
		return fmt.Errorf("duplicate tour %s", t.ID())
	}
	r.s.tourIDs = append(r.s.tourIDs, t.ID())
	r.s.tours[t.ID()] = cloneTour(t)
	return nil
}

func (r memTourRepo) Update(_ context.Context, t *tour.Tour) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tours[t.ID()]; !ok {
		return errs.NewObjectNotFoundError("tour", t.ID())
	}
	r.s.tours[t.ID()] = cloneTour(t)
	return nil
}

func (r memTourRepo) Get(_ context.Context, scope ports.Scope, id string) (*tour.Tour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tours[id]
	if !ok || !inScope(scope, t.AccountID()) {
		return nil, errs.NewObjectNotFoundError("tour", id)
	}
	return cloneTour(t), nil
}

func (r memTourRepo) GetMany(ctx context.Context, scope ports.Scope, ids []string) ([]*tour.Tour, error) {
	out := make([]*tour.Tour, 0, len(ids))
	for _, id := range ids {
		t, err := r.Get(ctx, scope, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r memTourRepo) GetByDate(_ context.Context, scope ports.Scope, date time.Time) ([]*tour.Tour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	var out []*tour.Tour
	for _, id := range r.s.tourIDs {
		t := r.s.tours[id]
		if t.DeliveryDate().Equal(day) && inScope(scope, t.AccountID()) {
			out = append(out, cloneTour(t))
		}
	}
	return out, nil
}

func (r memTourRepo) GetWithoutRoute(ctx context.Context, date time.Time) ([]*tour.Tour, error) {
	all, err := r.GetByDate(ctx, ports.HyperAdmin(), date)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(t *tour.Tour) bool { return t.Route() != nil }), nil
}

func (r memTourRepo) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.tours[id]
	return ok, nil
}

type memHistoryRepo struct{ s *memStore }

func (r memHistoryRepo) Append(_ context.Context, ev *history.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events = append(r.s.events, ev)
	return nil
}

func (r memHistoryRepo) List(_ context.Context, kind status.Kind, entityID string) ([]*history.Event, error) {
	return r.s.eventsOf(kind, entityID), nil
}

func (r memHistoryRepo) Purge(_ context.Context, kind status.Kind, entityID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events = slices.DeleteFunc(r.s.events, func(ev *history.Event) bool {
		return ev.Kind() == kind && ev.EntityID() == entityID
	})
	return nil
}

type memPharmacyRepo struct{ s *memStore }

func (r memPharmacyRepo) Get(_ context.Context, id kernel.UUID) (*pharmacy.Pharmacy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ph, ok := r.s.pharmacies[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("pharmacy", id)
	}
	return ph, nil
}

func (r memPharmacyRepo) GetMany(_ context.Context, ids []kernel.UUID) ([]*pharmacy.Pharmacy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*pharmacy.Pharmacy
	for _, id := range ids {
		if ph, ok := r.s.pharmacies[id]; ok {
			out = append(out, ph)
		}
	}
	return out, nil
}

type memTariffRepo struct{}

func (memTariffRepo) List(context.Context, kernel.UUID) ([]tariff.Band, error) {
	return nil, nil
}

type memArtifactStore struct{ s *memStore }

func (a memArtifactStore) DeletePackageArtifacts(_ context.Context, barcode string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	a.s.artifacts = append(a.s.artifacts, barcode)
	return nil
}

// memUoW satisfies both commands.UoW and commands.TourUoW.
type memUoW struct{ s *memStore }

func (u memUoW) Begin(context.Context) error { return nil }

func (u memUoW) Commit(context.Context) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.s.commitErr != nil {
		return u.s.commitErr
	}
	u.s.commits++
	return nil
}

func (u memUoW) Rollback(context.Context) error { return nil }

func (u memUoW) CommandRepository() ports.CommandRepository { return memCommandRepo(u) }

func (u memUoW) PackageRepository() ports.PackageRepository { return memPackageRepo(u) }

func (u memUoW) TourRepository() ports.TourRepository { return memTourRepo(u) }

func (u memUoW) HistoryRepository() ports.HistoryRepository { return memHistoryRepo(u) }

func (u memUoW) TariffRepository() ports.TariffRepository { return memTariffRepo{} }

func (u memUoW) PharmacyRepository() ports.PharmacyRepository { return memPharmacyRepo(u) }

func (u memUoW) ArtifactStore() ports.ArtifactStore { return memArtifactStore(u) }

type memUoWFactory struct{ s *memStore }

func (f memUoWFactory) Create() commands.UoW { return memUoW(f) }

type memTourUoWFactory struct{ s *memStore }

func (f memTourUoWFactory) Create() commands.TourUoW { return memUoW(f) }

var statusNames = map[status.Kind][]string{
	status.KindCommand: {"to pick up", "in transit", "delivered", "not delivered", "delivered with reserve",
		"postponed", "damaged", "refused", "recipient absent"},
	status.KindPackage: {"to pick up", "in transit", "delivered", "not delivered", "damaged", "returned"},
	status.KindTour:    {"created", "loading", "in delivery", "completed", "cancelled"},
}

type memStatusRepo struct{}

func (memStatusRepo) Get(_ context.Context, kind status.Kind, id status.ID) (status.Entry, error) {
	names := statusNames[kind]
	if id < 1 || int(id) > len(names) {
		return status.Entry{}, errs.NewObjectNotFoundError("status", id)
	}
	return status.NewEntry(kind, id, names[id-1])
}

type recordingAnomalies struct {
	mu      sync.Mutex
	created []*anomaly.Anomaly
	err     error
}

func (r *recordingAnomalies) Create(_ context.Context, a *anomaly.Anomaly) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, a)
	return nil
}

func (r *recordingAnomalies) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

// stubGateway answers every tour with the same route.
type stubGateway struct {
	route *tour.Route
	err   error
	calls atomic.Int32
}

func (g *stubGateway) RouteForTour(_ context.Context, points []kernel.GeoPoint) (*tour.Route, error) {
	g.calls.Add(1)
	if g.err != nil || len(points) == 0 {
		return nil, g.err
	}
	return g.route, nil
}

func (g *stubGateway) BatchDistances(context.Context, []ports.Waypoint) (map[string]float64, error) {
	return map[string]float64{}, nil
}

// world wires real catalog, ledger and planner onto a memStore.
type world struct {
	store       *memStore
	uow         memUoWFactory
	tourUoW     memTourUoWFactory
	anomalies   *recordingAnomalies
	gateway     *stubGateway
	metrics     *metrics.Metrics
	transitions commands.StatusTransitions
	planner     *routes.Planner
	ids         services.IDGenerator
	logger      *slog.Logger
	accountID   kernel.UUID
	profileID   kernel.UUID
}

func newWorld(t *testing.T) *world {
	t.Helper()
	route, err := tour.NewRoute("encoded", 12.5, 40)
	require.NoError(t, err)

	s := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	w := &world{
		store:     s,
		uow:       memUoWFactory{s: s},
		tourUoW:   memTourUoWFactory{s: s},
		anomalies: &recordingAnomalies{},
		gateway:   &stubGateway{route: route},
		metrics:   m,
		ids:       services.NewIDGenerator(),
		logger:    logger,
		accountID: kernel.NewUUID(),
		profileID: kernel.NewUUID(),
	}
	w.transitions = commands.NewStatusTransitions(catalog.New(memStatusRepo{}), ledger.New(m), w.anomalies, m, logger)
	w.planner = routes.NewPlanner(w.gateway, 2, m, logger)
	return w
}

func (w *world) createCommand(t *testing.T, ph *pharmacy.Pharmacy, barcodes ...string) kernel.UUID {
	t.Helper()
	lines := make([]commands.ImportedPackage, 0, len(barcodes))
	for _, code := range barcodes {
		lines = append(lines, commands.ImportedPackage{Barcode: code, Weight: 1})
	}
	cmd, err := commands.NewCreateCommandCommand(w.accountID, ph.ID(), nil, &w.profileID,
		commands.ImportedCommand{Packages: lines}, time.Now(), false)
	require.NoError(t, err)

	id, err := commands.NewCreateCommandCommandHandler(w.uow, w.transitions, w.ids).Handle(t.Context(), cmd)
	require.NoError(t, err)
	return id
}

func (w *world) createTour(t *testing.T, name string, day time.Time) string {
	t.Helper()
	cmd, err := commands.NewCreateTourCommand(w.accountID, &w.profileID, name, day, commands.TourFields{})
	require.NoError(t, err)

	id, err := commands.NewCreateTourCommandHandler(w.tourUoW, w.transitions, w.ids).Handle(t.Context(), cmd)
	require.NoError(t, err)
	return id
}

func (w *world) assign(t *testing.T, tourID string, ids ...kernel.UUID) {
	t.Helper()
	cmd, err := commands.NewAssignCommandsToTourCommand(w.accountID, ids, tourID)
	require.NoError(t, err)
	require.NoError(t, commands.NewAssignCommandsToTourCommandHandler(w.uow, w.planner).Handle(t.Context(), cmd))
}
