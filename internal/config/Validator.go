/*

This file guards pool configuration, tick ranges and bridge parameters before they reach
the analytics. Every check fails with types.ErrValidation.

*/

package config

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/elys-network/liquidity-bridge/internal/types"
)

// ValidatePoolConfig checks a raw pool configuration mapping and returns its typed form.
// Missing keys are reported together, sorted, through *types.MissingKeysError.
func ValidatePoolConfig(raw map[string]any) (types.PoolConfig, error) {
	var missing []string
	for _, key := range types.RequiredPoolKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return types.PoolConfig{}, &types.MissingKeysError{Keys: missing}
	}

	var cfg types.PoolConfig
	var err error
	if cfg.Token0, err = stringField(raw, types.PoolKeyToken0); err != nil {
		return types.PoolConfig{}, err
	}
	if cfg.Token1, err = stringField(raw, types.PoolKeyToken1); err != nil {
		return types.PoolConfig{}, err
	}
	if cfg.FeeBps, err = numberField(raw, types.PoolKeyFeeBps); err != nil {
		return types.PoolConfig{}, err
	}
	if cfg.InitialReserve0, err = numberField(raw, types.PoolKeyInitialReserve0); err != nil {
		return types.PoolConfig{}, err
	}
	if cfg.InitialReserve1, err = numberField(raw, types.PoolKeyInitialReserve1); err != nil {
		return types.PoolConfig{}, err
	}

	if err := CheckPool(cfg); err != nil {
		return types.PoolConfig{}, err
	}
	return cfg, nil
}

// CheckPool enforces the invariants of an already typed pool configuration.
func CheckPool(cfg types.PoolConfig) error {
	if cfg.Token0 == "" || cfg.Token1 == "" {
		return fmt.Errorf("%w: pool tokens must be set", types.ErrValidation)
	}
	if !(cfg.InitialReserve0 > 0) || !(cfg.InitialReserve1 > 0) {
		return fmt.Errorf("%w: reserves must be positive, got %v and %v",
			types.ErrValidation, cfg.InitialReserve0, cfg.InitialReserve1)
	}
	if !(cfg.FeeBps >= 0) {
		return fmt.Errorf("%w: fee_bps must be non-negative, got %v", types.ErrValidation, cfg.FeeBps)
	}
	return nil
}

// ValidateRange requires lowerTick < upperTick.
func ValidateRange(lowerTick, upperTick int) error {
	if lowerTick >= upperTick {
		return fmt.Errorf("%w: lower tick %d must be below upper tick %d", types.ErrValidation, lowerTick, upperTick)
	}
	return nil
}

// ValidateParameters checks the bridge tunables.
func ValidateParameters(p types.BridgeParameters) error {
	switch {
	case !(p.ArbitrageThreshold >= 0):
		return fmt.Errorf("%w: arbitrage threshold must be non-negative, got %v", types.ErrValidation, p.ArbitrageThreshold)
	case !(p.FeedbackDecay > 0 && p.FeedbackDecay <= 1):
		return fmt.Errorf("%w: feedback decay must lie in (0, 1], got %v", types.ErrValidation, p.FeedbackDecay)
	case !(p.BaseWidthHint > 0):
		return fmt.Errorf("%w: base width hint must be positive, got %v", types.ErrValidation, p.BaseWidthHint)
	case p.VolatilityWidthMultiplier < 0:
		return fmt.Errorf("%w: volatility width multiplier must be non-negative, got %v", types.ErrValidation, p.VolatilityWidthMultiplier)
	case p.OptimizerRetries < 0:
		return fmt.Errorf("%w: optimizer retries must be non-negative, got %d", types.ErrValidation, p.OptimizerRetries)
	case !(p.WidthGrowthFactor >= 1):
		return fmt.Errorf("%w: width growth factor must be at least 1, got %v", types.ErrValidation, p.WidthGrowthFactor)
	case p.OptimizerTimeout <= 0:
		return fmt.Errorf("%w: optimizer timeout must be positive, got %s", types.ErrValidation, p.OptimizerTimeout)
	case p.NearDepthLevels <= 0:
		return fmt.Errorf("%w: near depth levels must be positive, got %d", types.ErrValidation, p.NearDepthLevels)
	case p.Token0Precision < 0 || p.Token0Precision > 18 || p.Token1Precision < 0 || p.Token1Precision > 18:
		return fmt.Errorf("%w: token precisions must be between 0 and 18, got %d and %d",
			types.ErrValidation, p.Token0Precision, p.Token1Precision)
	}
	return nil
}

func stringField(raw map[string]any, key string) (string, error) {
	s, ok := raw[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string, got %v", types.ErrValidation, key, raw[key])
	}
	return s, nil
}

func numberField(raw map[string]any, key string) (float64, error) {
	var f float64
	switch v := raw[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not a number: %v", types.ErrValidation, key, err)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: %s must be numeric, got %T", types.ErrValidation, key, raw[key])
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s must be finite, got %v", types.ErrValidation, key, f)
	}
	return f, nil
}
