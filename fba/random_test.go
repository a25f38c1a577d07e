package fba_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflux/builder"
	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/fba"
	"github.com/katalvlaran/lvflux/optim"
)

// randomNetwork builds a seeded random network over n metabolites with r
// reactions, fed through exchanges on m0_c and m1_c.
func randomNetwork(t testing.TB, seed int64, n, r int) *core.Model {
	t.Helper()
	m, err := builder.BuildModel(fmt.Sprintf("rnd%d", seed), nil,
		[]builder.BuilderOption{builder.WithSeed(seed)},
		builder.RandomNetwork(n, r, 0.3),
		builder.Exchange(0),
		builder.Exchange(1),
	)
	require.NoError(t, err)
	return m
}

// requireSteadyState checks that sol respects every bound of m and balances
// every metabolite once the sink SK_<met> is accounted for.
func requireSteadyState(t *testing.T, m *core.Model, met string, sol *fba.Solution) {
	t.Helper()
	const tol = 1e-6
	balance := make(map[string]float64)
	for _, r := range m.Reactions() {
		v := sol.Flux(r.ID)
		require.GreaterOrEqual(t, v, r.LowerBound-tol, r.ID)
		require.LessOrEqual(t, v, r.UpperBound+tol, r.ID)
		for id, c := range r.Stoichiometry {
			balance[id] += c * v
		}
	}
	balance[met] -= sol.Flux(core.BoundaryID(core.Sink, met))
	for id, b := range balance {
		require.InDelta(t, 0.0, b, tol, "mass balance of %s", id)
	}
}

func TestFindBlockedMets_RandomNetworks(t *testing.T) {
	ctx := context.Background()
	for seed := int64(1); seed <= 15; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			m := randomNetwork(t, seed, 15, 30)

			res, err := fba.FindBlockedMets(ctx, m, fba.WithWorkers(4))
			require.NoError(t, err)
			require.Len(t, res.Tests, 15)
			assert.Empty(t, res.Unsolved)
			assert.False(t, res.IsBlocked(builder.MetaboliteID(0)), "fed by its exchange")
			assert.False(t, res.IsBlocked(builder.MetaboliteID(1)), "fed by its exchange")

			for _, mt := range res.Tests {
				got, sol, err := fba.CheckMetabolite(ctx, m, mt.Metabolite)
				require.NoError(t, err)
				assert.Equal(t, mt.Outcome, got.Outcome, mt.Metabolite)
				assert.InDelta(t, mt.Objective, got.Objective, 1e-6, mt.Metabolite)
				requireSteadyState(t, m, mt.Metabolite, sol)
			}
		})
	}
}

func TestAnalyses_RandomNetworks(t *testing.T) {
	ctx := context.Background()
	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			m := randomNetwork(t, seed, 30, 60)

			blocked, err := fba.FindBlockedMets(ctx, m)
			require.NoError(t, err)
			conns, err := fba.FindMetsToConnect(ctx, m, blocked.Blocked)
			require.NoError(t, err)
			total := 0
			for _, c := range conns {
				total += c.Count
			}
			assert.Equal(t, len(blocked.Blocked), total, "every blocked metabolite is credited once")

			_, err = fba.FindDeadEnds(ctx, m)
			require.NoError(t, err)
			_, err = fba.FindLeaks(ctx, m)
			require.NoError(t, err)
		})
	}
}

// TestBackendsAgree_RandomNetworks solves the same random models with the
// exact and the first-order backend.
func TestBackendsAgree_RandomNetworks(t *testing.T) {
	ctx := context.Background()
	admm := fba.WithSolver(optim.NewADMMSolver())
	for seed := int64(1); seed <= 4; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			m := randomNetwork(t, seed, 10, 18)
			drain, err := m.AddBoundary(builder.MetaboliteID(5), core.Demand)
			require.NoError(t, err)
			require.NoError(t, m.SetObjective(map[string]float64{drain: 1}))

			exact, err := fba.Optimize(ctx, m)
			require.NoError(t, err)
			approx, err := fba.Optimize(ctx, m, admm)
			require.NoError(t, err)
			require.Equal(t, optim.StatusOptimal, exact.Status)
			require.Equal(t, optim.StatusOptimal, approx.Status)
			assert.InDelta(t, exact.ObjectiveValue, approx.ObjectiveValue, 1e-3*math.Max(1, math.Abs(exact.ObjectiveValue)))

			want, err := fba.FindBlockedMets(ctx, m)
			require.NoError(t, err)
			got, err := fba.FindBlockedMets(ctx, m, admm)
			require.NoError(t, err)
			assert.Empty(t, got.Unsolved)
			assert.Equal(t, want.Blocked, got.Blocked)
		})
	}
}
