package analyzer

import (
	"fmt"
	"math"

	"github.com/elys-network/liquidity-bridge/internal/types"
	"gonum.org/v1/gonum/stat"
)

// DefaultArbitrageThreshold is the relative divergence below which no signal fires.
const DefaultArbitrageThreshold = 0.01

// DetectSimpleArbitrage compares a pool price with a reference price.
// It returns a nil signal and a nil error when |relative delta| is strictly below threshold.
// A zero reference price is an error, not a missing signal.
func DetectSimpleArbitrage(poolPrice, referencePrice, threshold float64) (*types.ArbitrageSignal, error) {
	if referencePrice == 0 {
		return nil, fmt.Errorf("%w: reference price is zero", types.ErrArithmeticDomain)
	}

	priceDelta := poolPrice - referencePrice
	relativeDelta := priceDelta / referencePrice
	if math.Abs(relativeDelta) < threshold {
		return nil, nil
	}

	direction := types.SellPoolBuyReference
	if relativeDelta < 0 {
		direction = types.BuyPoolSellReference
	}

	return &types.ArbitrageSignal{
		PriceDelta:    priceDelta,
		RelativeDelta: relativeDelta,
		Direction:     direction,
	}, nil
}

// MeanReversionScore divides the latest deviation by the sample standard deviation
// (n-1 denominator) of the whole history. A zero or undefined deviation scores 0.
func MeanReversionScore(deviations []float64) (float64, error) {
	if len(deviations) == 0 {
		return 0, fmt.Errorf("%w: mean reversion score needs at least one deviation", types.ErrValidation)
	}

	std := stat.StdDev(deviations, nil)
	if std == 0 || math.IsNaN(std) {
		return 0, nil
	}
	return deviations[len(deviations)-1] / std, nil
}

// RelativeDeviations returns (pool - reference) / reference for each observation.
func RelativeDeviations(poolPrices, referencePrices []float64) ([]float64, error) {
	if len(poolPrices) != len(referencePrices) {
		return nil, fmt.Errorf("%w: %d pool prices vs %d reference prices",
			types.ErrDimensionMismatch, len(poolPrices), len(referencePrices))
	}

	deviations := make([]float64, len(poolPrices))
	for i := range poolPrices {
		if referencePrices[i] == 0 {
			return nil, fmt.Errorf("%w: reference price is zero at observation %d", types.ErrArithmeticDomain, i)
		}
		deviations[i] = (poolPrices[i] - referencePrices[i]) / referencePrices[i]
	}
	return deviations, nil
}
