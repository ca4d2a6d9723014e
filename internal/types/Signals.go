/*

This file contains the result types of the arbitrage detector and the range optimizer.

*/

package types

// Direction is the trade that closes a price divergence.
type Direction string

const (
	// BuyPoolSellReference means the pool is cheap relative to the reference.
	BuyPoolSellReference Direction = "buy_pool_sell_reference"
	// SellPoolBuyReference means the pool is rich relative to the reference.
	SellPoolBuyReference Direction = "sell_pool_buy_reference"
)

// ArbitrageSignal is produced only when a divergence crosses the threshold.
type ArbitrageSignal struct {
	PriceDelta    float64   `json:"price_delta"`
	RelativeDelta float64   `json:"relative_delta"`
	Direction     Direction `json:"direction"`
}

// RangeOptimizationResult carries the tick range chosen by the optimizer.
// When Success is false the ticks must not be used; Message holds the diagnostic.
type RangeOptimizationResult struct {
	LowerTick int    `json:"lower_tick"`
	UpperTick int    `json:"upper_tick"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}

// Range returns the ticks only for a successful result.
func (r RangeOptimizationResult) Range() (lower, upper int, ok bool) {
	if !r.Success {
		return 0, 0, false
	}
	return r.LowerTick, r.UpperTick, true
}
