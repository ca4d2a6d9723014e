// Package feedback folds market-observed spreads back into the deterministic discount curve.
package feedback

import (
	"fmt"

	"github.com/elys-network/liquidity-bridge/internal/types"
	"gonum.org/v1/gonum/floats"
)

// DefaultDecay is the default weight carried from one period to the next in FeedbackScore.
const DefaultDecay = 0.9

// UpdateDiscountRate adds the observed spread to the base curve tenor by tenor.
func UpdateDiscountRate(baseCurve types.DiscountCurve, marketSpread []float64) (types.DiscountCurve, error) {
	if len(baseCurve) != len(marketSpread) {
		return nil, fmt.Errorf("%w: %d curve tenors vs %d spreads", types.ErrDimensionMismatch, len(baseCurve), len(marketSpread))
	}

	adjusted := make(types.DiscountCurve, len(baseCurve))
	floats.AddTo(adjusted, baseCurve, marketSpread)
	return adjusted, nil
}

// FeedbackScore runs score = decay*score + deviation over the deviations in order.
// decay must lie in (0, 1].
func FeedbackScore(deviations []float64, decay float64) (float64, error) {
	if !(decay > 0 && decay <= 1) {
		return 0, fmt.Errorf("%w: decay must lie in (0, 1], got %v", types.ErrValidation, decay)
	}

	var score float64
	for _, d := range deviations {
		score = decay*score + d
	}
	return score, nil
}
