package optimizer

import "math"

const (
	// MinTick and MaxTick bound the concentrated-liquidity tick domain.
	MinTick = -887272
	MaxTick = 887272

	// TickBase is the price ratio between adjacent ticks.
	TickBase = 1.0001
)

var logTickBase = math.Log(TickBase)

// PriceToTick returns the fractional tick index of a positive price.
func PriceToTick(price float64) float64 {
	return math.Log(price) / logTickBase
}

// TickToPrice returns 1.0001^tick.
func TickToPrice(tick float64) float64 {
	return math.Pow(TickBase, tick)
}

// LogTickBase returns ln(1.0001), the width of one tick in log-price space.
func LogTickBase() float64 {
	return logTickBase
}

// ClampTick bounds a fractional tick to [MinTick, MaxTick].
func ClampTick(tick float64) float64 {
	return math.Max(MinTick, math.Min(MaxTick, tick))
}
