/*

This file contains the default parameters for the bridge.

Each value is used when no override is supplied through the environment.

*/

package config

import (
	"time"

	"github.com/elys-network/liquidity-bridge/internal/types"
)

// DefaultBridgeParameters provides the baseline tunables for translating scenario paths into pool actions.
var DefaultBridgeParameters = types.BridgeParameters{
	// --- Arbitrage & Feedback ---
	ArbitrageThreshold: 0.01, // Fire a signal at a 1% divergence from the reference.
	// Rationale: below 1% the divergence is usually inside the pool fee plus gas and cannot be closed profitably.

	FeedbackDecay: 0.9, // Each older deviation counts 10% less.
	// Rationale: roughly a ten-period memory, long enough to separate persistent spreads from noise.

	// --- Range Optimizer ---
	BaseWidthHint: 1000, // ~10% price band around the target.
	// Rationale: 1000 ticks is ln(1.0001)*1000 ≈ 0.1 in log-price, a band that rarely needs re-ranging on calm paths.

	VolatilityWidthMultiplier: 4.0, // Widen to four per-period standard deviations on volatile paths.
	// Rationale: keeps the shocked path inside the range for most periods without diluting fees on calm paths.

	OptimizerRetries: 2, // Two extra solves after a failed one.

	WidthGrowthFactor: 2.0, // Double the width hint between retries.
	// Rationale: a wider range flattens the objective and is the usual cure for a stalled solve.

	OptimizerTimeout: 2 * time.Second, // Wall-clock bound for a single solve.

	// --- Depth ---
	NearDepthLevels: 5, // The five levels closest to mid count as near depth.

	// --- Token Precision ---
	Token0Precision: 6,
	Token1Precision: 6,
}
