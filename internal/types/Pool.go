/*

This is a custom type for the pool configuration consumed by the bridge.

*/

package types

// Keys expected in a raw pool configuration mapping.
const (
	PoolKeyToken0          = "token0"
	PoolKeyToken1          = "token1"
	PoolKeyFeeBps          = "fee_bps"
	PoolKeyInitialReserve0 = "initial_reserve0"
	PoolKeyInitialReserve1 = "initial_reserve1"
)

// RequiredPoolKeys lists every key a pool configuration must carry.
var RequiredPoolKeys = []string{
	PoolKeyToken0,
	PoolKeyToken1,
	PoolKeyFeeBps,
	PoolKeyInitialReserve0,
	PoolKeyInitialReserve1,
}

// PoolConfig is the validated form of a pool configuration mapping.
// Reserves are strictly positive and FeeBps is non-negative.
type PoolConfig struct {
	Token0          string  `json:"token0"`           // e.g., "uatom"
	Token1          string  `json:"token1"`           // e.g., "uusdc"
	FeeBps          float64 `json:"fee_bps"`          // trading fee in basis points
	InitialReserve0 float64 `json:"initial_reserve0"` // reserve of Token0
	InitialReserve1 float64 `json:"initial_reserve1"` // reserve of Token1
}
