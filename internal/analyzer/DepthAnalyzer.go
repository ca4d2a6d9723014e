package analyzer

import (
	"fmt"

	"github.com/elys-network/liquidity-bridge/internal/types"
)

// CumulativeDepth returns the running sum of quantities in the order the levels are given.
// Quantities must be non-negative, so the result is non-decreasing and its last element
// is the total quantity of the book.
func CumulativeDepth(levels []types.PriceLevel) ([]float64, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: cumulative depth needs at least one price level", types.ErrValidation)
	}

	depth := make([]float64, len(levels))
	var running float64
	for i, level := range levels {
		if level.Quantity < 0 {
			return nil, fmt.Errorf("%w: negative quantity %f at level %d", types.ErrValidation, level.Quantity, i)
		}
		running += level.Quantity
		depth[i] = running
	}
	return depth, nil
}

// DepthRatio divides near-mid depth by far depth.
func DepthRatio(depthNear, depthFar float64) (float64, error) {
	if depthFar == 0 {
		return 0, fmt.Errorf("%w: depth ratio with zero far depth", types.ErrArithmeticDomain)
	}
	return depthNear / depthFar, nil
}

// NearFarDepth splits a book into the depth of its first nearCount levels and the depth of
// the whole book. nearCount larger than the book is capped at the book size.
func NearFarDepth(levels []types.PriceLevel, nearCount int) (near, far float64, err error) {
	if nearCount <= 0 {
		return 0, 0, fmt.Errorf("%w: near level count must be positive, got %d", types.ErrValidation, nearCount)
	}
	depth, err := CumulativeDepth(levels)
	if err != nil {
		return 0, 0, err
	}
	if nearCount > len(depth) {
		nearCount = len(depth)
	}
	return depth[nearCount-1], depth[len(depth)-1], nil
}
