package allocator

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/elys-network/liquidity-bridge/internal/types"
	"github.com/elys-network/liquidity-bridge/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateLiquidity(t *testing.T) {
	instructions, err := AllocateLiquidity([]float64{100, 200}, []float64{10, 0})
	require.NoError(t, err)

	assert.Equal(t, []types.LiquidityInstruction{
		{Timestamp: 0, AmountToken0: 10.0, AmountToken1: 100},
		{Timestamp: 1, AmountToken0: 0.0, AmountToken1: 200},
	}, instructions)
}

func TestAllocateLiquidity_Empty(t *testing.T) {
	instructions, err := AllocateLiquidity(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, instructions)
}

func TestAllocateLiquidity_DimensionMismatch(t *testing.T) {
	_, err := AllocateLiquidity([]float64{1, 2, 3}, []float64{1, 2})
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}

func TestToBaseUnits(t *testing.T) {
	instructions := []types.LiquidityInstruction{
		{Timestamp: 0, AmountToken0: 2.5, AmountToken1: 100},
		{Timestamp: 1, AmountToken0: 0, AmountToken1: 0.25},
	}

	units, err := ToBaseUnits(instructions, 6, 2)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.True(t, units[0].Amount0.Equal(sdkmath.NewInt(2_500_000)))
	assert.True(t, units[0].Amount1.Equal(sdkmath.NewInt(10_000)))
	assert.True(t, units[1].Amount0.IsZero())
	assert.True(t, units[1].Amount1.Equal(sdkmath.NewInt(25)))
	assert.Equal(t, 1, units[1].Timestamp)

	total0, total1 := TotalBaseUnits(units)
	assert.True(t, total0.Equal(sdkmath.NewInt(2_500_000)))
	assert.True(t, total1.Equal(sdkmath.NewInt(10_025)))
}

func TestToBaseUnits_NegativeCashflow(t *testing.T) {
	_, err := ToBaseUnits([]types.LiquidityInstruction{{AmountToken0: -1, AmountToken1: -10}}, 6, 6)
	assert.ErrorIs(t, err, utils.ErrAmountNegative)
}
