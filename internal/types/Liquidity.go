/*

This file contains the types for order-book levels and the liquidity instructions
sent to the pool configuration layer.

*/

package types

import (
	sdkmath "cosmossdk.io/math"
)

// PriceLevel is one order-book level, ordered by distance from mid.
type PriceLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"` // non-negative
}

// LiquidityInstruction is the per-period allocation derived from a cashflow.
type LiquidityInstruction struct {
	Timestamp    int     `json:"timestamp"` // period index
	AmountToken0 float64 `json:"amount_token0"`
	AmountToken1 float64 `json:"amount_token1"`
}

// BaseUnitInstruction is a LiquidityInstruction expressed in integer base units of each token.
type BaseUnitInstruction struct {
	Timestamp int         `json:"timestamp"`
	Amount0   sdkmath.Int `json:"amount0"`
	Amount1   sdkmath.Int `json:"amount1"`
}

// PoolParameterAdjustment is the fee to apply at a scenario step.
type PoolParameterAdjustment struct {
	Step   int     `json:"step"`
	FeeBps float64 `json:"fee_bps"`
}

// ShockedPriceSeries is a deterministic price path multiplied by scenario shocks.
type ShockedPriceSeries []float64

// DiscountCurve holds rates indexed by tenor position.
type DiscountCurve []float64
