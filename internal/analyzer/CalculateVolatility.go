package analyzer

import (
	"fmt"
	"math"

	"github.com/elys-network/liquidity-bridge/internal/types"
	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData indicates that not enough positive prices were provided
// to calculate volatility (need at least 2 log returns for a sample deviation).
var ErrInsufficientData = fmt.Errorf("%w: insufficient data points to calculate volatility", types.ErrValidation)

// PriceVolatility calculates the per-period volatility of a price path.
// It uses logarithmic returns and the sample standard deviation. The path is taken in
// the given order; pairs with a non-positive price are skipped.
func PriceVolatility(prices []float64) (float64, error) {
	if len(prices) < 3 {
		return 0, ErrInsufficientData
	}

	// --- Calculate Logarithmic Returns ---
	logReturns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		current, previous := prices[i], prices[i-1]
		// math.Log is undefined here
		if previous <= 0 || current <= 0 {
			continue
		}
		logReturns = append(logReturns, math.Log(current/previous))
	}

	if len(logReturns) < 2 {
		return 0, ErrInsufficientData
	}

	return stat.StdDev(logReturns, nil), nil
}
