package smoke

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	for _, in := range []string{"basic", "Vendor", " dated "} {
		_, err := ParseVariant(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseVariant("full")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown variant")
}

func TestVariant_Payload(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.FixedZone("MSK", 3*3600))

	basic := VariantBasic.Payload(keyFirst, now)
	assert.Equal(t, "Ноутбук", basic.Name)
	assert.Equal(t, 1567.89, basic.Price)
	assert.Empty(t, basic.Vendor)
	assert.Nil(t, basic.Date)
	assert.Zero(t, basic.ID)

	vendor := VariantVendor.Payload(keyUpdated, now)
	assert.Equal(t, "Lenovo", vendor.Vendor)
	assert.Nil(t, vendor.Date)

	dated := VariantDated.Payload(keySecond, now)
	assert.Equal(t, "ACER", dated.Vendor)
	require.NotNil(t, dated.Date)
	assert.Equal(t, time.UTC, dated.Date.Location())
	assert.Equal(t, now.UnixMilli(), dated.Timestamp)
}
