// SPDX-License-Identifier: MIT
package optim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflux/optim"
)

// TestProblemValidation covers naming, bounds and coefficient checks.
func TestProblemValidation(t *testing.T) {
	p := optim.NewProblem("p")
	require.Equal(t, "p", p.Name())

	_, err := p.AddVariable("", 0, 1)
	require.ErrorIs(t, err, optim.ErrEmptyName)

	x, err := p.AddVariable("x", 0, 1)
	require.NoError(t, err)
	_, err = p.AddVariable("x", 0, 1)
	require.ErrorIs(t, err, optim.ErrDuplicateName)

	_, err = p.AddVariable("bad", 2, 1)
	require.ErrorIs(t, err, optim.ErrBadBounds)
	_, err = p.AddVariable("nan", math.NaN(), 1)
	require.ErrorIs(t, err, optim.ErrBadBounds)

	_, err = p.AddConstraint("c", optim.Expr{x: math.Inf(1)}, 0, 1)
	require.ErrorIs(t, err, optim.ErrBadCoefficient)

	other := optim.NewProblem("other")
	y, _ := other.AddVariable("y", 0, 1)
	_, err = p.AddConstraint("c", optim.Expr{y: 1}, 0, 1)
	require.ErrorIs(t, err, optim.ErrForeignVariable)
	require.ErrorIs(t, p.SetObjective(optim.Minimize, optim.Expr{y: 1}, nil), optim.ErrForeignVariable)

	require.ErrorIs(t, x.SetBounds(3, 2), optim.ErrBadBounds)
	require.NoError(t, x.SetLower(-1))
	lo, hi := x.Bounds()
	require.Equal(t, -1.0, lo)
	require.Equal(t, 1.0, hi)
}

// TestProblemConstraints covers lookup, zero-term dropping and removal.
func TestProblemConstraints(t *testing.T) {
	p := optim.NewProblem("p")
	x, _ := p.AddVariable("x", 0, 1)
	y, _ := p.AddVariable("y", 0, 1)

	c, err := p.AddConstraint("c", optim.Expr{x: 1, y: 0}, 0, 1)
	require.NoError(t, err)
	require.Len(t, c.Expr(), 1, "zero coefficients are dropped")

	_, err = p.AddConstraint("c", optim.Expr{x: 1}, 0, 1)
	require.ErrorIs(t, err, optim.ErrDuplicateName)

	got, err := p.Constraint("c")
	require.NoError(t, err)
	require.Same(t, c, got)

	require.NoError(t, p.RemoveConstraint("c"))
	require.Zero(t, p.NumConstraints())
	require.ErrorIs(t, p.RemoveConstraint("c"), optim.ErrUnknownConstraint)
	_, err = p.Constraint("c")
	require.ErrorIs(t, err, optim.ErrUnknownConstraint)

	_, err = p.Variable("z")
	require.ErrorIs(t, err, optim.ErrUnknownVariable)
	v, err := p.Variable("y")
	require.NoError(t, err)
	require.Same(t, y, v)
	require.Equal(t, []*optim.Variable{x, y}, p.Variables())
}

// TestProblemEvaluateAndClone checks objective evaluation and deep copy.
func TestProblemEvaluateAndClone(t *testing.T) {
	p := optim.NewProblem("p")
	x, _ := p.AddVariable("x", 0, 5)
	y, _ := p.AddVariable("y", 0, 5)
	_, _ = p.AddConstraint("sum", optim.Expr{x: 1, y: 1}, -optim.Inf, 4)
	require.NoError(t, p.SetObjective(optim.Minimize, optim.Expr{x: 2}, optim.Expr{y: 3}))
	require.True(t, p.Objective().IsQuadratic())
	require.Equal(t, 2*1.0+3*4.0, p.Evaluate(map[string]float64{"x": 1, "y": 2}))

	cp := p.Clone()
	require.Equal(t, p.NumVariables(), cp.NumVariables())
	require.Equal(t, p.NumConstraints(), cp.NumConstraints())
	require.Equal(t, p.Evaluate(map[string]float64{"x": 1, "y": 2}), cp.Evaluate(map[string]float64{"x": 1, "y": 2}))

	cx, err := cp.Variable("x")
	require.NoError(t, err)
	require.NotSame(t, x, cx)
	require.NoError(t, cx.SetBounds(1, 1))
	lo, _ := x.Bounds()
	require.Zero(t, lo, "clone bounds are independent")

	require.NoError(t, cp.RemoveConstraint("sum"))
	require.Equal(t, 1, p.NumConstraints())
}

// TestStatusStrings pins the labels used in logs and metrics.
func TestStatusStrings(t *testing.T) {
	require.Equal(t, "optimal", optim.StatusOptimal.String())
	require.Equal(t, "infeasible", optim.StatusInfeasible.String())
	require.Equal(t, "unbounded", optim.StatusUnbounded.String())
	require.Equal(t, "iteration_limit", optim.StatusIterationLimit.String())
	require.Equal(t, "undefined", optim.StatusUndefined.String())
	require.Equal(t, "max", optim.Maximize.String())
	require.Equal(t, "min", optim.Minimize.String())
}
