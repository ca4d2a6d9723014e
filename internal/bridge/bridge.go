package bridge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/elys-network/liquidity-bridge/internal/allocator"
	"github.com/elys-network/liquidity-bridge/internal/analyzer"
	"github.com/elys-network/liquidity-bridge/internal/config"
	"github.com/elys-network/liquidity-bridge/internal/feedback"
	"github.com/elys-network/liquidity-bridge/internal/logger"
	"github.com/elys-network/liquidity-bridge/internal/optimizer"
	"github.com/elys-network/liquidity-bridge/internal/shocks"
	"github.com/elys-network/liquidity-bridge/internal/types"
	"github.com/elys-network/liquidity-bridge/internal/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Bridge evaluates scenario paths against a single pool configuration.
// It holds no state between calls and is safe for concurrent use.
type Bridge struct {
	logger  zerolog.Logger
	params  types.BridgeParameters
	pool    types.PoolConfig
	workers int

	solve rangeSolver
}

// rangeSolver matches optimizer.OptimizeTicks.
type rangeSolver func(targetPrice, widthHint float64) (types.RangeOptimizationResult, error)

// Config holds the configuration for creating a new Bridge instance
type Config struct {
	Params  types.BridgeParameters
	Pool    types.PoolConfig
	Workers int // paths evaluated in parallel by EvaluateBatch
}

// NewBridge creates a new Bridge after validating its parameters and pool.
func NewBridge(cfg Config) (*Bridge, error) {
	if err := validateBridgeConfig(cfg); err != nil {
		return nil, fmt.Errorf("bridge configuration validation failed: %w", err)
	}

	b := &Bridge{
		logger:  logger.GetForComponent("bridge"),
		params:  cfg.Params,
		pool:    cfg.Pool,
		workers: cfg.Workers,
		solve:   optimizer.OptimizeTicks,
	}

	b.logger.Info().
		Str("token0", b.pool.Token0).
		Str("token1", b.pool.Token1).
		Float64("fee_bps", b.pool.FeeBps).
		Int("workers", b.workers).
		Msg("Bridge instance created")

	return b, nil
}

func validateBridgeConfig(cfg Config) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", types.ErrValidation, cfg.Workers)
	}
	if err := config.ValidateParameters(cfg.Params); err != nil {
		return err
	}
	return config.CheckPool(cfg.Pool)
}

// Parameters returns the tunables the bridge was built with.
func (b *Bridge) Parameters() types.BridgeParameters {
	return b.params
}

// Pool returns the pool configuration the bridge was built with.
func (b *Bridge) Pool() types.PoolConfig {
	return b.pool
}

// EvaluateBatch evaluates every path on a bounded worker pool and returns the results in
// input order. Paths are independent; the first failing path cancels the others and its
// error is returned.
func (b *Bridge) EvaluateBatch(ctx context.Context, paths []types.ScenarioPath) (types.BatchRun, error) {
	if len(paths) == 0 {
		return types.BatchRun{}, fmt.Errorf("%w: batch contains no scenario paths", types.ErrValidation)
	}

	run := types.BatchRun{
		RunID:      uuid.New().String(),
		StartedAt:  time.Now().UTC(),
		Pool:       b.pool,
		Parameters: b.params,
	}
	batchLogger := b.logger.With().Str("run_id", run.RunID).Logger()
	batchLogger.Info().Int("paths", len(paths)).Msg("Evaluating scenario batch")

	results := make([]types.PathResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range paths {
		path := paths[i]
		if path.ID == "" {
			path.ID = fmt.Sprintf("path-%d", i)
		}
		g.Go(func() error {
			result, err := b.EvaluatePath(gctx, path)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		batchLogger.Error().Err(err).Msg("Scenario batch failed")
		return types.BatchRun{}, err
	}

	run.Results = results
	run.FinishedAt = time.Now().UTC()

	unusable := 0
	for _, r := range results {
		if !r.Range.Success {
			unusable++
		}
	}
	batchLogger.Info().
		Int("paths", len(results)).
		Int("unusable_ranges", unusable).
		Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
		Msg("Scenario batch evaluated")

	return run, nil
}

// EvaluatePath runs one scenario path through shock propagation, fee mapping, liquidity
// allocation and range placement, then scores whatever market observations it carries.
func (b *Bridge) EvaluatePath(ctx context.Context, path types.ScenarioPath) (types.PathResult, error) {
	if err := ctx.Err(); err != nil {
		return types.PathResult{}, err
	}
	result, err := b.evaluatePath(ctx, path)
	if err != nil {
		return types.PathResult{}, fmt.Errorf("path %s: %w", path.ID, err)
	}
	return result, nil
}

func (b *Bridge) evaluatePath(ctx context.Context, path types.ScenarioPath) (types.PathResult, error) {
	pathLogger := b.logger.With().Str("path_id", path.ID).Logger()
	result := types.PathResult{PathID: path.ID}

	// --- Deterministic → pool ---
	if err := checkFinite("base price", path.BasePrices); err != nil {
		return result, err
	}
	if err := checkFinite("shock", path.Shocks); err != nil {
		return result, err
	}
	shocked, err := shocks.PropagateShocks(path.BasePrices, path.Shocks)
	if err != nil {
		return result, err
	}
	result.ShockedPrices = shocked
	result.FeeAdjustments = shocks.MapToPoolParams(shocks.Magnitudes(path.Shocks), b.pool.FeeBps)

	if result.Instructions, err = allocator.AllocateLiquidity(path.CFADS, shocked); err != nil {
		return result, err
	}
	if result.BaseUnits, err = allocator.ToBaseUnits(result.Instructions, b.params.Token0Precision, b.params.Token1Precision); err != nil {
		return result, err
	}

	if result.TargetPrice, err = shocks.TargetPrice(shocked); err != nil {
		return result, err
	}
	result.WidthHint = b.widthHint(shocked)
	if result.Range, result.Attempts, err = b.placeRange(ctx, pathLogger, result.TargetPrice, result.WidthHint); err != nil {
		return result, err
	}

	// --- Pool → deterministic ---
	if len(path.PoolPrices) > 0 || len(path.ReferencePrices) > 0 {
		if err := b.scoreObservations(path, &result); err != nil {
			return result, err
		}
	}

	if len(path.Levels) > 0 {
		if result.CumulativeDepth, err = analyzer.CumulativeDepth(path.Levels); err != nil {
			return result, err
		}
		near, far, err := analyzer.NearFarDepth(path.Levels, b.params.NearDepthLevels)
		if err != nil {
			return result, err
		}
		if result.DepthRatio, err = analyzer.DepthRatio(near, far); err != nil {
			return result, err
		}
	}

	if len(path.BaseCurve) > 0 || len(path.MarketSpread) > 0 {
		if result.AdjustedCurve, err = feedback.UpdateDiscountRate(path.BaseCurve, path.MarketSpread); err != nil {
			return result, err
		}
	}

	deployed0, deployed1, deployedErr := deployedAmounts(result.BaseUnits, b.params.Token0Precision, b.params.Token1Precision)
	pathLogger.Debug().
		Float64("target_price", result.TargetPrice).
		Int("lower_tick", result.Range.LowerTick).
		Int("upper_tick", result.Range.UpperTick).
		Bool("range_ok", result.Range.Success).
		Float64("deployed_token0", deployed0).
		Float64("deployed_token1", deployed1).
		Err(deployedErr).
		Bool("arbitrage", result.Signal != nil).
		Msg("Scenario path evaluated")

	return result, nil
}

// checkFinite rejects NaN and infinite entries of a scenario series.
func checkFinite(name string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s %d is not finite (%v)", types.ErrValidation, name, i, v)
		}
	}
	return nil
}

// deployedAmounts sums the base units of a path back into token amounts.
func deployedAmounts(units []types.BaseUnitInstruction, precision0, precision1 int) (float64, float64, error) {
	total0, total1 := allocator.TotalBaseUnits(units)
	amount0, err0 := utils.SDKIntToFloat64(total0, precision0)
	amount1, err1 := utils.SDKIntToFloat64(total1, precision1)
	return amount0, amount1, errors.Join(err0, err1)
}

func (b *Bridge) scoreObservations(path types.ScenarioPath, result *types.PathResult) error {
	deviations, err := analyzer.RelativeDeviations(path.PoolPrices, path.ReferencePrices)
	if err != nil {
		return err
	}
	last := len(path.PoolPrices) - 1
	if result.Signal, err = analyzer.DetectSimpleArbitrage(path.PoolPrices[last], path.ReferencePrices[last], b.params.ArbitrageThreshold); err != nil {
		return err
	}
	if result.MeanReversionScore, err = analyzer.MeanReversionScore(deviations); err != nil {
		return err
	}
	if result.FeedbackScore, err = feedback.FeedbackScore(deviations, b.params.FeedbackDecay); err != nil {
		return err
	}
	return nil
}

// widthHint widens the base hint to cover the per-period volatility of the shocked path.
func (b *Bridge) widthHint(shocked types.ShockedPriceSeries) float64 {
	vol, err := analyzer.PriceVolatility(shocked)
	if err != nil {
		return b.params.BaseWidthHint
	}
	return math.Max(b.params.BaseWidthHint, b.params.VolatilityWidthMultiplier*vol/optimizer.LogTickBase())
}

// placeRange solves for a tick range, retrying with a wider hint while the solve fails.
// It returns the last result and the number of solves attempted.
func (b *Bridge) placeRange(ctx context.Context, pathLogger zerolog.Logger, target, width float64) (types.RangeOptimizationResult, int, error) {
	var result types.RangeOptimizationResult
	attempts := 0
	for attempts <= b.params.OptimizerRetries {
		attempts++
		var err error
		result, err = b.solveWithTimeout(ctx, target, width)
		if err != nil {
			return result, attempts, err
		}
		if result.Success {
			return result, attempts, nil
		}
		pathLogger.Warn().
			Int("attempt", attempts).
			Float64("width_hint", width).
			Str("message", result.Message).
			Msg("Range optimization did not converge")
		width *= b.params.WidthGrowthFactor
	}
	return result, attempts, nil
}

const optimizerTimeoutMessage = "optimizer timed out"

// solveWithTimeout bounds a single solve by OptimizerTimeout. A timeout is reported as an
// unusable range; cancellation of the caller's context is returned as an error.
func (b *Bridge) solveWithTimeout(ctx context.Context, target, width float64) (types.RangeOptimizationResult, error) {
	solveCtx, cancel := context.WithTimeout(ctx, b.params.OptimizerTimeout)
	defer cancel()

	type outcome struct {
		result types.RangeOptimizationResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := b.solve(target, width)
		done <- outcome{result: result, err: err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-solveCtx.Done():
		if err := ctx.Err(); err != nil {
			return types.RangeOptimizationResult{}, err
		}
		return types.RangeOptimizationResult{Success: false, Message: optimizerTimeoutMessage}, nil
	}
}
