/*

This file contains the tick range optimizer. It places a liquidity range centred on a
target price by solving a bounded two-variable program over (lower tick, upper tick).

*/

package optimizer

import (
	"fmt"
	"math"

	"github.com/elys-network/liquidity-bridge/internal/config"
	"github.com/elys-network/liquidity-bridge/internal/types"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

const (
	// DefaultWidthHint is the preferred range width in ticks.
	DefaultWidthHint = 1000

	// MaxIterations caps the quasi-Newton solve.
	MaxIterations = 100

	// GradientTolerance is the gradient norm at which the solve counts as converged.
	// Objective values near the optimum are around 1e-6, so central differences are
	// noisy well above gonum's default of 1e-12.
	GradientTolerance = 1e-9

	inversionPenalty = 1e9
	widthWeight      = 1e-6
)

// converged lists the solver statuses that mean the returned location can be trusted.
var converged = map[optimize.Status]bool{
	optimize.Success:             true,
	optimize.FunctionThreshold:   true,
	optimize.FunctionConvergence: true,
	optimize.GradientThreshold:   true,
	optimize.StepConvergence:     true,
	optimize.MethodConverge:      true,
}

// OptimizeTicks picks a (lower, upper) tick range around targetPrice whose width is close
// to widthHint. Only invalid arguments return an error; a solve that does not converge, or
// that rounds to an unusable range, comes back with Success=false and a diagnostic message.
func OptimizeTicks(targetPrice, widthHint float64) (types.RangeOptimizationResult, error) {
	if !(targetPrice > 0) || math.IsInf(targetPrice, 0) {
		return types.RangeOptimizationResult{}, fmt.Errorf("%w: target price must be positive and finite, got %v", types.ErrValidation, targetPrice)
	}
	if !(widthHint > 0) || math.IsInf(widthHint, 0) {
		return types.RangeOptimizationResult{}, fmt.Errorf("%w: width hint must be positive and finite, got %v", types.ErrValidation, widthHint)
	}

	targetTick := PriceToTick(targetPrice)
	objective := rangeObjective(math.Log(targetPrice), widthHint)

	initial := []float64{
		ClampTick(targetTick - widthHint/2),
		ClampTick(targetTick + widthHint/2),
	}
	solution, ok, message := solveRange(objective, initial)

	out := types.RangeOptimizationResult{
		LowerTick: int(math.Floor(ClampTick(solution[0]))),
		UpperTick: int(math.Ceil(ClampTick(solution[1]))),
		Success:   ok,
		Message:   message,
	}

	// The penalty only discourages inversion, so the rounded range is checked again.
	if out.Success {
		if err := config.ValidateRange(out.LowerTick, out.UpperTick); err != nil {
			out.Success = false
			out.Message = err.Error()
		}
	}
	return out, nil
}

// solveRange minimises objective from initial with LBFGS over central-difference gradients.
// It returns the location, whether it can be trusted, and the solver's status or error text.
// A linesearch that stalls at a stationary point still counts as converged.
func solveRange(objective func(x []float64) float64, initial []float64) ([]float64, bool, string) {
	gradient := func(grad, x []float64) {
		fd.Gradient(grad, objective, x, &fd.Settings{Formula: fd.Central})
	}
	problem := optimize.Problem{Func: objective, Grad: gradient}
	settings := &optimize.Settings{
		MajorIterations:   MaxIterations,
		GradientThreshold: GradientTolerance,
	}

	result, err := optimize.Minimize(problem, initial, settings, &optimize.LBFGS{})
	if result == nil || len(result.X) != len(initial) {
		if err != nil {
			return initial, false, err.Error()
		}
		return initial, false, "solver returned no result"
	}
	if err != nil {
		grad := make([]float64, len(result.X))
		gradient(grad, result.X)
		if floats.Norm(grad, math.Inf(1)) <= GradientTolerance {
			return result.X, true, optimize.GradientThreshold.String()
		}
		return result.X, false, err.Error()
	}
	return result.X, converged[result.Status], result.Status.String()
}

// rangeObjective builds the function minimised over x = (lower, upper).
// The iterate is projected onto the tick domain so the solver never leaves it.
func rangeObjective(logTarget, widthHint float64) func(x []float64) float64 {
	return func(x []float64) float64 {
		lower, upper := ClampTick(x[0]), ClampTick(x[1])
		if lower >= upper {
			gap := lower - upper + 1
			return inversionPenalty + gap*gap
		}

		midpoint := (lower + upper) / 2
		// ln(target) - ln(1.0001^midpoint)
		centre := logTarget - midpoint*logTickBase
		penaltyMid := centre * centre

		width := upper - lower
		penaltyWidth := (width - widthHint) * (width - widthHint) / math.Max(widthHint, 1)

		return penaltyMid + widthWeight*penaltyWidth
	}
}
