// Package tariff holds the distance-banded price lookup.
package tariff

import (
	"errors"
	"math"

	"pharmadelivery/internal/pkg/errs"
)

// Band prices every delivery up to KmMax kilometres.
type Band struct {
	kmMax float64
	price float64
}

// NewBand creates a price band covering distances up to kmMax.
// Returns errs.ErrValueIsOutOfRange for a non-positive kmMax or a negative
// price, joined when both are wrong.
//
// Example:
//
//	bands := make([]tariff.Band, 0, 2)
//	for _, row := range [][2]float64{{10, 8.5}, {25, 12}} {
//	    b, err := tariff.NewBand(row[0], row[1])
//	    if err != nil {
//	        return err
//	    }
//	    bands = append(bands, b)
//	}
//	price, ok := tariff.Estimate(nil, bands, 14.2) // 12, true
func NewBand(kmMax, price float64) (Band, error) {
	var errKm error
	if kmMax <= 0 || math.IsNaN(kmMax) {
		errKm = errs.NewValueIsOutOfRangeError("kmMax", kmMax, 0, math.MaxFloat64)
	}
	var errPrice error
	if price < 0 || math.IsNaN(price) {
		errPrice = errs.NewValueIsOutOfRangeError("price", price, 0, math.MaxFloat64)
	}
	if err := errors.Join(errKm, errPrice); err != nil {
		return Band{}, err
	}
	return Band{kmMax: kmMax, price: price}, nil
}

// KmMax returns the largest distance the band covers, in kilometres.
func (b Band) KmMax() float64 {
	return b.kmMax
}

// Price returns the delivery price in the account currency.
func (b Band) Price() float64 {
	return b.price
}

// Estimate prices one delivery. A manual tariff wins unchanged. Otherwise the
// band with the smallest KmMax still covering distanceKm applies. ok is false
// when no band covers the distance; such deliveries are reported as undefined
// rather than priced.
//
// bands do not need to be sorted.
func Estimate(manual *float64, bands []Band, distanceKm float64) (price float64, ok bool) {
	if manual != nil {
		return *manual, true
	}

	best := -1
	for i, b := range bands {
		if b.kmMax < distanceKm {
			continue
		}
		if best < 0 || b.kmMax < bands[best].kmMax {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return bands[best].price, true
}
