package shocks

import (
	"math"
	"testing"

	"github.com/elys-network/liquidity-bridge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagateShocks(t *testing.T) {
	base := []float64{100, 100}
	shocks := []float64{1.05, 0.95}

	shocked, err := PropagateShocks(base, shocks)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{105, 95}, shocked, 1e-9)

	again, err := PropagateShocks(base, shocks)
	require.NoError(t, err)
	assert.Equal(t, shocked, again)
	assert.Equal(t, []float64{100, 100}, base, "inputs are not modified")
}

func TestPropagateShocks_DimensionMismatch(t *testing.T) {
	_, err := PropagateShocks([]float64{100}, []float64{1, 1})
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}

func TestMapToPoolParams(t *testing.T) {
	assert.Equal(t, []types.PoolParameterAdjustment{{Step: 0, FeeBps: 0}}, MapToPoolParams([]float64{-1.5}, 30))

	adjustments := MapToPoolParams([]float64{0, 0.5, -0.5}, 30)
	require.Len(t, adjustments, 3)
	for i, a := range adjustments {
		assert.Equal(t, i, a.Step)
		assert.GreaterOrEqual(t, a.FeeBps, 0.0)
	}
	assert.Equal(t, 30.0, adjustments[0].FeeBps)
	assert.Equal(t, 45.0, adjustments[1].FeeBps)
	assert.Equal(t, 15.0, adjustments[2].FeeBps)

	assert.Empty(t, MapToPoolParams(nil, 30))
}

func TestMapToPoolParams_NaNShock(t *testing.T) {
	adjustments := MapToPoolParams([]float64{math.NaN(), 0.1}, 30)
	require.Len(t, adjustments, 2)
	assert.Equal(t, 0.0, adjustments[0].FeeBps)
	assert.InDelta(t, 33.0, adjustments[1].FeeBps, 1e-9)
}

func TestMagnitudes(t *testing.T) {
	multipliers := []float64{1.05, 0.95, 1}
	assert.InDeltaSlice(t, []float64{0.05, -0.05, 0}, Magnitudes(multipliers), 1e-12)
	assert.Equal(t, []float64{1.05, 0.95, 1}, multipliers)
	assert.Empty(t, Magnitudes(nil))
}

func TestTargetPrice(t *testing.T) {
	price, err := TargetPrice(types.ShockedPriceSeries{105, 95, 98})
	require.NoError(t, err)
	assert.Equal(t, 98.0, price)

	_, err = TargetPrice(nil)
	assert.ErrorIs(t, err, types.ErrValidation)
}
