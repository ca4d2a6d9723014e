/*

This file contains the input and output records of the scenario pipeline.

*/

package types

import "time"

// ScenarioPath bundles the arrays produced for one stress / Monte Carlo path
// by the valuation engine, the scenario engine and the market observation layer.
// Observation fields are optional; the stages that need them are skipped when empty.
type ScenarioPath struct {
	ID         string    `json:"id"`
	CFADS      []float64 `json:"cfads"`       // deterministic cash flow available for debt service per period
	BasePrices []float64 `json:"base_prices"` // deterministic price path
	Shocks     []float64 `json:"shocks"`      // multiplicative scenario shocks, one per period

	PoolPrices      []float64    `json:"pool_prices,omitempty"`      // observed pool prices
	ReferencePrices []float64    `json:"reference_prices,omitempty"` // observed reference prices
	Levels          []PriceLevel `json:"levels,omitempty"`           // observed order-book levels

	BaseCurve    DiscountCurve `json:"base_curve,omitempty"`
	MarketSpread []float64     `json:"market_spread,omitempty"`
}

// PathResult holds everything derived from one ScenarioPath.
type PathResult struct {
	PathID string `json:"path_id"`

	ShockedPrices  ShockedPriceSeries        `json:"shocked_prices"`
	FeeAdjustments []PoolParameterAdjustment `json:"fee_adjustments"`
	Instructions   []LiquidityInstruction    `json:"instructions"`
	BaseUnits      []BaseUnitInstruction     `json:"base_units"`

	TargetPrice float64                 `json:"target_price"`
	WidthHint   float64                 `json:"width_hint"`
	Range       RangeOptimizationResult `json:"range"`
	Attempts    int                     `json:"attempts"`

	Signal             *ArbitrageSignal `json:"signal,omitempty"`
	MeanReversionScore float64          `json:"mean_reversion_score"`
	FeedbackScore      float64          `json:"feedback_score"`

	CumulativeDepth []float64 `json:"cumulative_depth,omitempty"`
	DepthRatio      float64   `json:"depth_ratio,omitempty"`

	AdjustedCurve DiscountCurve `json:"adjusted_curve,omitempty"`
}

// BatchRun is the aggregated output of every path in a batch, in input order.
type BatchRun struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Pool       PoolConfig       `json:"pool"`
	Parameters BridgeParameters `json:"parameters"`
	Results    []PathResult     `json:"results"`
}

// PathIDs returns the ids of every path in the run.
func (b BatchRun) PathIDs() []string {
	ids := make([]string, len(b.Results))
	for i, r := range b.Results {
		ids[i] = r.PathID
	}
	return ids
}
