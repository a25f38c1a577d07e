// SPDX-License-Identifier: MIT
package optim_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflux/optim"
)

// TestInstrumentedCountsByStatus solves one optimal and one infeasible LP.
func TestInstrumentedCountsByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := optim.NewMetrics(reg)
	require.NoError(t, err)

	s, err := optim.NewSolver("simplex", m)
	require.NoError(t, err)
	require.Equal(t, "simplex", s.Name())

	ok := lpCases()[0].build(require.New(t))
	_, err = s.Solve(context.Background(), ok)
	require.NoError(t, err)

	bad := optim.NewProblem("bad")
	x, _ := bad.AddVariable("x", 0, 1)
	_, _ = bad.AddConstraint("need", optim.Expr{x: 1}, 2, optim.Inf)
	_, err = s.Solve(context.Background(), bad)
	require.NoError(t, err)

	expected := `
# HELP lvflux_solver_solves_total Total number of optimisation solves by backend and termination status.
# TYPE lvflux_solver_solves_total counter
lvflux_solver_solves_total{backend="simplex",status="infeasible"} 1
lvflux_solver_solves_total{backend="simplex",status="optimal"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "lvflux_solver_solves_total"))

	n, err := testutil.GatherAndCount(reg, "lvflux_solver_solve_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

// TestInstrumentedCountsErrors labels Go errors as "error".
func TestInstrumentedCountsErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := optim.NewMetrics(reg)
	require.NoError(t, err)
	s := optim.Instrument(optim.NewSimplexSolver(), m)

	p := optim.NewProblem("qp")
	x, _ := p.AddVariable("x", 0, 1)
	require.NoError(t, p.SetObjective(optim.Minimize, nil, optim.Expr{x: 1}))
	_, err = s.Solve(context.Background(), p)
	require.ErrorIs(t, err, optim.ErrQuadraticObjective)

	expected := `
# HELP lvflux_solver_solves_total Total number of optimisation solves by backend and termination status.
# TYPE lvflux_solver_solves_total counter
lvflux_solver_solves_total{backend="simplex",status="error"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "lvflux_solver_solves_total"))
}

// TestNewMetricsDuplicate rejects a second registration on the same registry.
func TestNewMetricsDuplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := optim.NewMetrics(reg)
	require.NoError(t, err)
	_, err = optim.NewMetrics(reg)
	require.Error(t, err)

	plain := optim.NewSimplexSolver()
	require.Same(t, plain, optim.Instrument(plain, nil))
}
