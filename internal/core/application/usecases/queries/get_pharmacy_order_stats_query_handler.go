package queries

import (
	"context"
	"log/slog"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tariff"
	"pharmadelivery/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// GetPharmacyOrderStatsQueryHandler reads the report straight from the
// database. Distances come from one BatchDistances call; when the gateway
// fails every command without a manual tariff is reported as undefined.
//
// Example:
//
//	handler := NewGetPharmacyOrderStatsQueryHandler(db, tariffRepo, gateway, logger)
//	stats, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	for _, s := range stats {
//	    fmt.Printf("%s: %d orders, %.2f EUR\n", s.Name, s.OrderCount, s.TotalPrice)
//	}
// GetPharmacyOrderStatsQueryHandler reads the report straight from the
// database. Distances come from one BatchDistances call; when the gateway
// fails every command without a manual tariff is reported as undefined.
type GetPharmacyOrderStatsQueryHandler struct {
	db      *gorm.DB
	tariffs ports.TariffRepository
	gateway ports.RoutingGateway
	logger  *slog.Logger
}

// NewGetPharmacyOrderStatsQueryHandler creates the report handler.
// db is read outside any unit of work; tariffs and gateway price the rows.
func NewGetPharmacyOrderStatsQueryHandler(
	db *gorm.DB,
	tariffs ports.TariffRepository,
	gateway ports.RoutingGateway,
	logger *slog.Logger,
) GetPharmacyOrderStatsQueryHandler {
	return GetPharmacyOrderStatsQueryHandler{
		db:      db,
		tariffs: tariffs,
		gateway: gateway,
		logger:  logger.With("component", "GetPharmacyOrderStatsQueryHandler"),
	}
}

type statsRow struct {
	pharmacyID   uuid.UUID
	name         string
	lat, lon     *float64
	manualTariff *float64
	packages     int
}

// Handle returns one entry per pharmacy, sorted by pharmacy name.
// An account without tours in the range gets an empty slice. Only database
// and tariff lookup failures are returned; routing failures leave prices
// undefined.
// Handle returns one entry per pharmacy, sorted by pharmacy name.
func (h GetPharmacyOrderStatsQueryHandler) Handle(
	ctx context.Context,
	query GetPharmacyOrderStatsQuery,
) ([]PharmacyOrderStats, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.loadRows(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []PharmacyOrderStats{}, nil
	}

	bands, err := h.tariffs.List(ctx, query.AccountID())
	if err != nil {
		return nil, err
	}

	distances := h.distances(ctx, rows)

	stats := make([]PharmacyOrderStats, 0)
	index := make(map[uuid.UUID]int)
	distanceSum := make(map[uuid.UUID]float64)
	distanceCount := make(map[uuid.UUID]int)

	for _, row := range rows {
		i, ok := index[row.pharmacyID]
		if !ok {
			id, idErr := kernel.UUIDFromBytes(row.pharmacyID[:])
			if idErr != nil {
				return nil, idErr
			}
			stats = append(stats, PharmacyOrderStats{PharmacyID: id, Name: row.name})
			i = len(stats) - 1
			index[row.pharmacyID] = i
		}

		entry := &stats[i]
		entry.OrderCount++
		entry.PackageCount += row.packages

		distance, known := distances[row.pharmacyID.String()]
		if known {
			distanceSum[row.pharmacyID] += distance
			distanceCount[row.pharmacyID]++
		}

		price, priced := estimate(row.manualTariff, bands, distance, known)
		if priced {
			entry.TotalPrice += price
		} else {
			entry.UndefinedPriceCount++
		}
	}

	for i := range stats {
		raw := stats[i].PharmacyID.Bytes()
		if n := distanceCount[raw]; n > 0 {
			avg := distanceSum[raw] / float64(n)
			stats[i].AverageDistanceKm = &avg
		}
	}

	return stats, nil
}

// estimate prices a command. Without a known distance only a manual tariff
// can price it.
func estimate(manual *float64, bands []tariff.Band, distance float64, known bool) (float64, bool) {
	if !known && manual == nil {
		return 0, false
	}
	return tariff.Estimate(manual, bands, distance)
}

func (h GetPharmacyOrderStatsQueryHandler) loadRows(
	ctx context.Context,
	query GetPharmacyOrderStatsQuery,
) ([]statsRow, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.name,
			p.lat,
			p.lon,
			c.manual_tariff,
			COUNT(pk.id)
		FROM commands c
		JOIN tours t ON t.id = c.tour_id
		JOIN pharmacies p ON p.id = c.pharmacy_id
		LEFT JOIN packages pk ON pk.command_id = c.id
		WHERE t.account_id = ?
			AND t.delivery_date BETWEEN ? AND ?
		GROUP BY c.id, p.id
		ORDER BY p.name, p.id, c.id
	`, query.AccountID().Bytes(), query.From().Format(dateLayout), query.To().Format(dateLayout)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]statsRow, 0)
	for rows.Next() {
		var row statsRow
		if err = rows.Scan(&row.pharmacyID, &row.name, &row.lat, &row.lon, &row.manualTariff, &row.packages); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// distances asks the gateway for every pharmacy with a location at once.
func (h GetPharmacyOrderStatsQueryHandler) distances(ctx context.Context, rows []statsRow) map[string]float64 {
	seen := make(map[uuid.UUID]struct{})
	waypoints := make([]ports.Waypoint, 0)
	for _, row := range rows {
		if _, ok := seen[row.pharmacyID]; ok {
			continue
		}
		seen[row.pharmacyID] = struct{}{}

		location, err := kernel.OptionalGeoPoint(row.lat, row.lon)
		if err != nil || location == nil {
			continue
		}
		waypoints = append(waypoints, ports.Waypoint{ID: row.pharmacyID.String(), Point: *location})
	}
	if len(waypoints) == 0 {
		return map[string]float64{}
	}

	distances, err := h.gateway.BatchDistances(ctx, waypoints)
	if err != nil {
		h.logger.WarnContext(ctx, "distance lookup failed, prices left undefined",
			"waypoints", len(waypoints), "error", err)
		return map[string]float64{}
	}
	return distances
}
