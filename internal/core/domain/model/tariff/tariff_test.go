package tariff_test

import (
	"testing"

	"pharmadelivery/internal/core/domain/model/tariff"
	"pharmadelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func band(t *testing.T, kmMax, price float64) tariff.Band {
	t.Helper()
	b, err := tariff.NewBand(kmMax, price)
	require.NoError(t, err)
	return b
}

func TestEstimate(t *testing.T) {
	bands := []tariff.Band{band(t, 20, 15), band(t, 5, 6), band(t, 10, 9)}

	tests := []struct {
		name      string
		manual    *float64
		distance  float64
		wantPrice float64
		wantOK    bool
	}{
		{name: "nearest band above", distance: 7.2, wantPrice: 9, wantOK: true},
		{name: "exact threshold", distance: 5, wantPrice: 6, wantOK: true},
		{name: "short trip", distance: 0.4, wantPrice: 6, wantOK: true},
		{name: "widest band", distance: 19.9, wantPrice: 15, wantOK: true},
		{name: "beyond every band", distance: 20.1, wantOK: false},
		{name: "manual override", manual: ptr(42.5), distance: 100, wantPrice: 42.5, wantOK: true},
		{name: "manual zero override", manual: ptr(0), distance: 3, wantPrice: 0, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, ok := tariff.Estimate(tt.manual, bands, tt.distance)

			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.wantPrice, price, 1e-9)
		})
	}

	t.Run("no bands means undefined", func(t *testing.T) {
		_, ok := tariff.Estimate(nil, nil, 1)
		assert.False(t, ok)
	})
}

func TestNewBand(t *testing.T) {
	_, err := tariff.NewBand(0, -1)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func ptr(v float64) *float64 {
	return &v
}
