package pharmacy_test

import (
	"testing"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/pharmacy"
	"pharmadelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPharmacy_BarcodePrefix(t *testing.T) {
	t.Run("should use numeric postal code", func(t *testing.T) {
		p, err := pharmacy.RestorePharmacy(kernel.NewUUID(), "Centrale", "75011", nil)
		require.NoError(t, err)

		prefix, err := p.BarcodePrefix()

		require.NoError(t, err)
		assert.Equal(t, "75011", prefix)
	})

	t.Run("should reject letters", func(t *testing.T) {
		p, err := pharmacy.RestorePharmacy(kernel.NewUUID(), "Ajaccio", "2A004", nil)
		require.NoError(t, err)

		_, err = p.BarcodePrefix()

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), pharmacy.ErrPostalCodeIsNotNumeric.Error())
	})

	t.Run("should require postal code", func(t *testing.T) {
		p, err := pharmacy.RestorePharmacy(kernel.NewUUID(), "Nowhere", "", nil)
		require.NoError(t, err)

		_, err = p.BarcodePrefix()

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
