package queries

import (
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
)

var ErrGetPharmacyOrderStatsQueryIsNotConstructed = errors.New(
	"GetPharmacyOrderStatsQuery must be created via NewGetPharmacyOrderStatsQuery constructor",
)

// GetPharmacyOrderStatsQuery aggregates the commands of an account's tours
// delivering between From and To (both days included) per destination
// pharmacy.
//
// Example:
//
//	query, err := NewGetPharmacyOrderStatsQuery(accountID, monday, friday)
//	if err != nil {
//	    return err
//	}
//	stats, err := handler.Handle(ctx, query)
type GetPharmacyOrderStatsQuery struct { //nolint:recvcheck //using for validation
	accountID kernel.UUID
	from      time.Time
	to        time.Time

	guard guard.ConstructorGuard
}

// NewGetPharmacyOrderStatsQuery creates a report request for [from, to].
// Returns errs.ErrValueIsRequired when a bound is zero and
// errs.ErrValueIsOutOfRange when to is before from.
func NewGetPharmacyOrderStatsQuery(accountID kernel.UUID, from, to time.Time) (GetPharmacyOrderStatsQuery, error) {
	var errRange error
	if from.IsZero() || to.IsZero() {
		errRange = errs.NewValueIsRequiredError("dateRange")
	} else if to.Before(from) {
		errRange = errs.NewValueIsOutOfRangeError("to", to, from, "any later day")
	}
	if err := errors.Join(accountID.Validate(), errRange); err != nil {
		return GetPharmacyOrderStatsQuery{}, err
	}

	return GetPharmacyOrderStatsQuery{
		accountID: accountID,
		from:      from,
		to:        to,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPharmacyOrderStatsQueryIsNotConstructed if validation fails.
func (q GetPharmacyOrderStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetPharmacyOrderStatsQueryIsNotConstructed)
}

// AccountID returns the account whose tours are reported.
func (q GetPharmacyOrderStatsQuery) AccountID() kernel.UUID {
	return q.accountID
}

// From returns the first delivery day included.
func (q GetPharmacyOrderStatsQuery) From() time.Time {
	return q.from
}

// To returns the last delivery day included.
func (q GetPharmacyOrderStatsQuery) To() time.Time {
	return q.to
}

// PharmacyOrderStats is one row of the report. Commands whose price cannot be
// estimated are left out of TotalPrice and counted in UndefinedPriceCount.
// AverageDistanceKm is nil when no distance could be computed.
type PharmacyOrderStats struct {
	PharmacyID          kernel.UUID
	Name                string
	OrderCount          int
	PackageCount        int
	TotalPrice          float64
	UndefinedPriceCount int
	AverageDistanceKm   *float64
}
