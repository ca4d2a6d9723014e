/*

This file contains the tunable parameters of the bridge orchestrator.

*/

package types

import "time"

// BridgeParameters holds every threshold and coefficient used when a scenario path
// is translated into pool actions and feedback signals.
type BridgeParameters struct {
	// --- Arbitrage & Feedback ---
	ArbitrageThreshold float64 `json:"arbitrage_threshold"` // Minimum |relative delta| that fires a signal (e.g., 0.01 for 1%).
	FeedbackDecay      float64 `json:"feedback_decay"`      // Decay of the feedback filter, in (0, 1].

	// --- Range Optimizer ---
	BaseWidthHint             float64       `json:"base_width_hint"`             // Preferred range width in ticks.
	VolatilityWidthMultiplier float64       `json:"volatility_width_multiplier"` // Width in per-period log-volatility units added on volatile paths.
	OptimizerRetries          int           `json:"optimizer_retries"`           // Extra solves attempted after a failed one.
	WidthGrowthFactor         float64       `json:"width_growth_factor"`         // Width hint multiplier between retries.
	OptimizerTimeout          time.Duration `json:"optimizer_timeout"`           // Wall-clock bound for a single solve.

	// --- Depth ---
	NearDepthLevels int `json:"near_depth_levels"` // Number of levels counted as near the mid.

	// --- Token Precision ---
	Token0Precision int `json:"token0_precision"` // Decimals of token0 base units.
	Token1Precision int `json:"token1_precision"` // Decimals of token1 base units.
}
