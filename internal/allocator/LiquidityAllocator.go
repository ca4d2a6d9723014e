package allocator

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/elys-network/liquidity-bridge/internal/types"
	"github.com/elys-network/liquidity-bridge/internal/utils"
)

// AllocateLiquidity turns a cashflow series and a price series of the same length into one
// instruction per period. token1 receives the cashflow; token0 receives cashflow / price, or
// zero when the price is zero (no market for that period).
func AllocateLiquidity(cfads, prices []float64) ([]types.LiquidityInstruction, error) {
	if len(cfads) != len(prices) {
		return nil, fmt.Errorf("%w: %d cashflows vs %d prices", types.ErrDimensionMismatch, len(cfads), len(prices))
	}

	instructions := make([]types.LiquidityInstruction, len(cfads))
	for i, cashflow := range cfads {
		var amount0 float64
		if prices[i] != 0 {
			amount0 = cashflow / prices[i]
		}
		instructions[i] = types.LiquidityInstruction{
			Timestamp:    i,
			AmountToken0: amount0,
			AmountToken1: cashflow,
		}
	}
	return instructions, nil
}

// ToBaseUnits converts instructions into integer base units of each token.
// Negative amounts cannot be deposited and are rejected.
func ToBaseUnits(instructions []types.LiquidityInstruction, precision0, precision1 int) ([]types.BaseUnitInstruction, error) {
	out := make([]types.BaseUnitInstruction, len(instructions))
	for i, instr := range instructions {
		amount0, err := utils.Float64ToSDKInt(instr.AmountToken0, precision0)
		if err != nil {
			return nil, fmt.Errorf("instruction %d token0: %w", instr.Timestamp, err)
		}
		amount1, err := utils.Float64ToSDKInt(instr.AmountToken1, precision1)
		if err != nil {
			return nil, fmt.Errorf("instruction %d token1: %w", instr.Timestamp, err)
		}
		out[i] = types.BaseUnitInstruction{Timestamp: instr.Timestamp, Amount0: amount0, Amount1: amount1}
	}
	return out, nil
}

// TotalBaseUnits sums the base-unit amounts of every instruction.
func TotalBaseUnits(instructions []types.BaseUnitInstruction) (amount0, amount1 sdkmath.Int) {
	amount0, amount1 = sdkmath.ZeroInt(), sdkmath.ZeroInt()
	for _, instr := range instructions {
		amount0 = amount0.Add(instr.Amount0)
		amount1 = amount1.Add(instr.Amount1)
	}
	return amount0, amount1
}
