// Package shocks applies scenario multipliers to deterministic price paths and derives
// pool fee adjustments from shock magnitude.
package shocks

import (
	"fmt"
	"math"

	"github.com/elys-network/liquidity-bridge/internal/types"
	"gonum.org/v1/gonum/floats"
)

// PropagateShocks multiplies each base price by the shock of the same period.
func PropagateShocks(basePrices, shocks []float64) (types.ShockedPriceSeries, error) {
	if len(basePrices) != len(shocks) {
		return nil, fmt.Errorf("%w: %d base prices vs %d shocks", types.ErrDimensionMismatch, len(basePrices), len(shocks))
	}

	shocked := make([]float64, len(basePrices))
	floats.MulTo(shocked, basePrices, shocks)
	return shocked, nil
}

// MapToPoolParams scales the base fee by (1 + shock) for every step, floored at zero.
// A NaN shock yields a zero fee.
func MapToPoolParams(shockSeries []float64, baseFeeBps float64) []types.PoolParameterAdjustment {
	adjustments := make([]types.PoolParameterAdjustment, len(shockSeries))
	for step, shock := range shockSeries {
		fee := baseFeeBps * (1 + shock)
		if math.IsNaN(fee) || fee < 0 {
			fee = 0
		}
		adjustments[step] = types.PoolParameterAdjustment{Step: step, FeeBps: fee}
	}
	return adjustments
}

// Magnitudes converts multiplicative shocks (1.05 = +5%) into the signed magnitudes
// (0.05) expected by MapToPoolParams.
func Magnitudes(multipliers []float64) []float64 {
	magnitudes := make([]float64, len(multipliers))
	copy(magnitudes, multipliers)
	floats.AddConst(-1, magnitudes)
	return magnitudes
}

// TargetPrice is the terminal price of a shocked path, the price the liquidity range is centred on.
func TargetPrice(series types.ShockedPriceSeries) (float64, error) {
	if len(series) == 0 {
		return 0, fmt.Errorf("%w: empty shocked price series", types.ErrValidation)
	}
	return series[len(series)-1], nil
}
