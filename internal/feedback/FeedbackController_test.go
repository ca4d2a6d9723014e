package feedback

import (
	"math"
	"testing"

	"github.com/elys-network/liquidity-bridge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateDiscountRate(t *testing.T) {
	base := types.DiscountCurve{0.03, 0.035, 0.04}
	spread := []float64{0.001, -0.002, 0}

	curve, err := UpdateDiscountRate(base, spread)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.031, 0.033, 0.04}, curve, 1e-12)

	again, err := UpdateDiscountRate(base, spread)
	require.NoError(t, err)
	assert.Equal(t, curve, again)
	assert.Equal(t, types.DiscountCurve{0.03, 0.035, 0.04}, base)
}

func TestUpdateDiscountRate_DimensionMismatch(t *testing.T) {
	_, err := UpdateDiscountRate(types.DiscountCurve{0.03}, []float64{0.001, 0.002})
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}

func TestFeedbackScore(t *testing.T) {
	score, err := FeedbackScore([]float64{1, 2, 3}, 0.5)
	require.NoError(t, err)
	// ((0*0.5+1)*0.5+2)*0.5+3
	assert.Equal(t, 4.25, score)

	score, err = FeedbackScore(nil, DefaultDecay)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	// decay 1 is a plain sum
	score, err = FeedbackScore([]float64{1, 2, 3}, 1)
	require.NoError(t, err)
	assert.Equal(t, 6.0, score)
}

func TestFeedbackScore_OrderSensitive(t *testing.T) {
	forward, err := FeedbackScore([]float64{1, 2, 3}, DefaultDecay)
	require.NoError(t, err)
	reversed, err := FeedbackScore([]float64{3, 2, 1}, DefaultDecay)
	require.NoError(t, err)

	assert.InDelta(t, 5.61, forward, 1e-12)
	assert.InDelta(t, 5.23, reversed, 1e-12)
	assert.NotEqual(t, forward, reversed)
}

func TestFeedbackScore_InvalidDecay(t *testing.T) {
	for _, decay := range []float64{0, -0.1, 1.0001, math.NaN()} {
		_, err := FeedbackScore([]float64{1}, decay)
		assert.ErrorIs(t, err, types.ErrValidation, "decay %v", decay)
	}
}
