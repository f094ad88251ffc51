/*
Package equilibrium solves the coupled mass-action equilibrium system a
set of annealing reactions settle into within one PCR cycle.

Like package duplex, the solver is an external, swappable collaborator:
kinetics hands it a closed system of reactions and total concentrations
and only needs back a per-reaction product concentration plus a scalar
measure of how well that solution satisfies the system, so callers with
access to a real nonlinear equilibrium solver can substitute their own.
*/
package equilibrium

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/koppari-bio/primerscope/kinetics"
)

// Solution is an alias of kinetics.Solution so that a GonumSolver (or any
// other Solver implementation living outside package kinetics) can
// satisfy kinetics.Solver without a wrapper type.
type Solution = kinetics.Solution

// Solver is an alias of kinetics.Solver; kept as a name in this package
// so callers configuring a simulation can spell out equilibrium.Solver
// without reaching into package kinetics for the interface.
type Solver = kinetics.Solver

// ReactionKey returns a stable identifier for a reaction, used both as
// the Solution.ProductConcentration map key and, by kinetics, to track a
// reaction across cycles.
func ReactionKey(r kinetics.Reaction) uint64 {
	return kinetics.ReactionKey(r)
}

// GonumSolver poses the mass-action system
//
//	K_i = [product_i] / ([reactantA_i] - [product_i]) / ([reactantB_i] - [product_i])
//
// for every reaction i, subject to [product_i] staying within
// [0, min(totalA_i, totalB_i)], as a sum-of-squared-residuals objective
// and minimizes it with a derivative-free Nelder-Mead simplex — the
// systems kinetics builds are small (one reaction per primer/template
// footprint pair within a single hit), so avoiding a hand-derived
// Jacobian of the mass-action system is worth more than the faster
// convergence a gradient method would give.
type GonumSolver struct{}

// Solve finds product concentrations satisfying every reaction's
// mass-action equilibrium as closely as possible given the available
// totals, returning the minimizer's residual as ObjectiveValue.
func (GonumSolver) Solve(reactions []kinetics.Reaction, totals map[string]float64) (kinetics.Solution, error) {
	n := len(reactions)
	if n == 0 {
		return kinetics.Solution{ProductConcentration: map[uint64]float64{}}, nil
	}

	caps := make([]float64, n)
	keys := make([]uint64, n)
	for i, r := range reactions {
		a := totals[r.ReactantA]
		b := totals[r.ReactantB]
		caps[i] = math.Min(a, b)
		keys[i] = ReactionKey(r)
	}

	residual := func(x []float64) float64 {
		var sum float64
		for i, r := range reactions {
			p := clamp(x[i], 0, caps[i])
			a := totals[r.ReactantA] - p
			b := totals[r.ReactantB] - p
			denom := a * b
			var lhs float64
			if denom > 0 {
				lhs = p / denom
			} else {
				lhs = math.Inf(1)
			}
			d := lhs - r.K
			sum += d * d
		}
		return sum
	}

	x0 := make([]float64, n)
	for i := range x0 {
		x0[i] = caps[i] / 2
	}

	problem := optimize.Problem{Func: residual}
	result, err := optimize.Minimize(problem, x0, &optimize.Settings{
		MajorIterations: 500,
	}, &optimize.NelderMead{})
	if err != nil && result == nil {
		return kinetics.Solution{}, fmt.Errorf("equilibrium: solving reaction system: %w", err)
	}

	out := make(map[uint64]float64, n)
	for i := range reactions {
		out[keys[i]] = clamp(result.X[i], 0, caps[i])
	}
	return kinetics.Solution{ProductConcentration: out, ObjectiveValue: result.F}, nil
}

func clamp(x, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
