/*
This file contains the conversion of float token amounts into integer base units
using SDK decimal arithmetic, so liquidity instructions can be handed to the pool
configuration layer without float rounding drift.
*/

package utils

import (
	"errors"
	"fmt"
	"math"

	sdkmath "cosmossdk.io/math"
)

// MaxPrecision is the largest number of decimals an SDK decimal can represent.
const MaxPrecision = 18

// Error definitions for zero-tolerance error handling
var (
	ErrInvalidPrecision = errors.New("precision is invalid")
	ErrAmountNegative   = errors.New("amount is negative")
	ErrNotFinite        = errors.New("value is not finite")
	ErrConversionFailed = errors.New("conversion failed")
)

// Float64ToSDKInt converts a token amount to base units, rounded to the nearest base unit.
func Float64ToSDKInt(amount float64, precision int) (sdkmath.Int, error) {
	if precision < 0 || precision > MaxPrecision {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidPrecision, precision, MaxPrecision)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: amount is %f", ErrNotFinite, amount)
	}
	if amount < 0 {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %f", ErrAmountNegative, amount)
	}
	if amount == 0 {
		return sdkmath.ZeroInt(), nil
	}

	// Use string conversion to avoid floating point precision issues
	amountStr := fmt.Sprintf("%.*f", precision, amount)

	decAmount, err := sdkmath.LegacyNewDecFromStr(amountStr)
	if err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: failed to create decimal from string: %w", ErrConversionFailed, err)
	}

	return decAmount.Mul(precisionFactor(precision)).TruncateInt(), nil
}

// SDKIntToFloat64 converts base units back to a token amount.
func SDKIntToFloat64(amount sdkmath.Int, precision int) (float64, error) {
	if precision < 0 || precision > MaxPrecision {
		return 0, fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidPrecision, precision, MaxPrecision)
	}
	if amount.IsNil() {
		return 0, fmt.Errorf("%w: amount is nil", ErrConversionFailed)
	}

	result, err := sdkmath.LegacyNewDecFromInt(amount).Quo(precisionFactor(precision)).Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	return result, nil
}

// precisionFactor returns 10^precision as a decimal.
func precisionFactor(precision int) sdkmath.LegacyDec {
	return sdkmath.LegacyNewDec(10).Power(uint64(precision))
}
