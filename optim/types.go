// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Sense, Status, Variable, Expr, Constraint, Objective, Solution, Solver.

package optim

import (
	"context"
	"math"
)

// Inf is a convenience alias for an unbounded side of a bound pair.
var Inf = math.Inf(1)

// Sense is the optimisation direction of an Objective.
type Sense int

const (
	// Minimize is the zero value.
	Minimize Sense = iota
	// Maximize flips the objective.
	Maximize
)

// String implements fmt.Stringer.
func (s Sense) String() string {
	if s == Maximize {
		return "max"
	}
	return "min"
}

// Status reports how a solve terminated.
type Status int

const (
	// StatusUndefined is the zero value: no solve happened.
	StatusUndefined Status = iota
	// StatusOptimal means an optimal solution was found within tolerance.
	StatusOptimal
	// StatusInfeasible means the constraints admit no solution.
	StatusInfeasible
	// StatusUnbounded means the objective improves without limit.
	StatusUnbounded
	// StatusIterationLimit means an iterative backend stopped before converging.
	StatusIterationLimit
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusIterationLimit:
		return "iteration_limit"
	default:
		return "undefined"
	}
}

// Variable is a decision variable owned by a Problem.
type Variable struct {
	name         string
	lower, upper float64
	index        int
	owner        *Problem
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Bounds returns the [lower, upper] bounds (±Inf allowed).
func (v *Variable) Bounds() (lower, upper float64) { return v.lower, v.upper }

// Lower returns the lower bound.
func (v *Variable) Lower() float64 { return v.lower }

// Upper returns the upper bound.
func (v *Variable) Upper() float64 { return v.upper }

// SetBounds replaces the bounds. Returns ErrBadBounds for lower > upper or NaN.
func (v *Variable) SetBounds(lower, upper float64) error {
	if err := validateBounds(lower, upper); err != nil {
		return err
	}
	v.lower, v.upper = lower, upper
	return nil
}

// SetLower replaces the lower bound only.
func (v *Variable) SetLower(lower float64) error { return v.SetBounds(lower, v.upper) }

// Expr is a linear expression Σ coef·var.
type Expr map[*Variable]float64

// Add accumulates coef·v into e and returns e for chaining.
func (e Expr) Add(v *Variable, coef float64) Expr {
	e[v] += coef
	return e
}

// Constraint is lower ≤ expr ≤ upper.
type Constraint struct {
	name         string
	expr         Expr
	lower, upper float64
}

// Name returns the constraint name.
func (c *Constraint) Name() string { return c.name }

// Bounds returns the [lower, upper] bounds.
func (c *Constraint) Bounds() (lower, upper float64) { return c.lower, c.upper }

// Expr returns a copy of the constraint expression.
func (c *Constraint) Expr() Expr {
	out := make(Expr, len(c.expr))
	for v, a := range c.expr {
		out[v] = a
	}
	return out
}

// Objective is Σ c_j x_j + Σ q_j x_j², optimised in the given sense.
// Quadratic holds diagonal terms only.
type Objective struct {
	Sense     Sense
	Linear    Expr
	Quadratic Expr
}

// IsQuadratic reports whether any non-zero quadratic term is present.
func (o Objective) IsQuadratic() bool {
	for _, q := range o.Quadratic {
		if q != 0 {
			return true
		}
	}
	return false
}

// Solution is the outcome of a solve.
type Solution struct {
	// Status is how the solve ended; Primal and ObjectiveValue are only
	// meaningful for StatusOptimal (and best-effort for StatusIterationLimit).
	Status Status

	// ObjectiveValue is expressed in the problem's own sense.
	ObjectiveValue float64

	// Primal maps variable name to value.
	Primal map[string]float64

	// Iterations counts backend iterations when the backend reports them.
	Iterations int

	// Backend names the solver that produced the solution.
	Backend string
}

// Value returns the primal value of the named variable (0 if absent).
func (s *Solution) Value(name string) float64 { return s.Primal[name] }

// Optimal is shorthand for Status == StatusOptimal.
func (s *Solution) Optimal() bool { return s != nil && s.Status == StatusOptimal }

// Solver is a pluggable optimisation backend.
//
// Solve must not mutate p. Infeasible or unbounded problems are reported via
// Solution.Status with a nil error.
type Solver interface {
	Name() string
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// Approximate is implemented by backends whose optimal points carry a
// residual error, such as first-order methods.
type Approximate interface {
	// Accuracy is the absolute error a reported primal value may carry.
	Accuracy() float64
}

// Accuracy returns the absolute error bound of s's primal values, or 0 when
// s does not implement Approximate.
func Accuracy(s Solver) float64 {
	if a, ok := s.(Approximate); ok {
		return a.Accuracy()
	}
	return 0
}

// validateBounds rejects NaN and lower > upper.
func validateBounds(lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) || lower > upper {
		return ErrBadBounds
	}
	return nil
}
