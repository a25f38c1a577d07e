package fba_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflux/fba"
	"github.com/katalvlaran/lvflux/optim"
)

func TestFindLeaks(t *testing.T) {
	ctx := context.Background()

	leaks, err := fba.FindLeaks(ctx, leakyModel(t))
	require.NoError(t, err)
	require.Len(t, leaks, 1)
	assert.Equal(t, "c_c", leaks[0].Metabolite)
	assert.InDelta(t, 10.0, leaks[0].Flux, 1e-9)

	leaks, err = fba.FindLeaks(ctx, screenModel(t))
	require.NoError(t, err)
	assert.Empty(t, leaks, "boundary reactions are not leaks")

	_, err = fba.FindLeaks(ctx, nil)
	require.ErrorIs(t, err, fba.ErrNilModel)
}

func TestFindLeaks_NotOptimal(t *testing.T) {
	m := leakyModel(t)
	// With both halves of the cycle uncapped the drain on c_c grows without limit.
	require.NoError(t, m.SetBounds("LK", 0, optim.Inf))
	require.NoError(t, m.SetBounds("RA", 0, optim.Inf))

	_, err := fba.FindLeaks(context.Background(), m)
	require.ErrorIs(t, err, fba.ErrNotOptimal)
}

func TestFindLeakModes(t *testing.T) {
	ctx := context.Background()
	m := leakyModel(t)

	cases := []struct {
		name string
		opts []fba.Option
		obj  float64
	}{
		{name: "l2", obj: 2},
		{name: "l1", opts: []fba.Option{fba.WithNorm(fba.NormL1)}, obj: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			modes, err := fba.FindLeakModes(ctx, m, []string{"c_c"}, tc.opts...)
			require.NoError(t, err)
			require.Len(t, modes, 1)

			lm := modes[0]
			assert.Equal(t, "c_c", lm.Metabolite)
			require.Equal(t, optim.StatusOptimal, lm.Status)
			assert.InDelta(t, tc.obj, lm.Objective, 1e-3)
			require.Len(t, lm.Reactions, 2)
			assert.Equal(t, "LK", lm.Reactions[0].ID)
			assert.Equal(t, "RA", lm.Reactions[1].ID)
			assert.InDelta(t, 1.0, lm.Reactions[0].Flux, 1e-3)
			assert.InDelta(t, 1.0, lm.Reactions[1].Flux, 1e-3)
		})
	}
}

// TestFindLeakModes_IdleLoop adds a reversible loop d_c → e_c → f_c → d_c
// linked to c_c; it can carry flux but plays no part in the leak.
func TestFindLeakModes_IdleLoop(t *testing.T) {
	m := leakyModel(t)
	addMets(t, m, "d_c", "e_c", "f_c")
	addRxn(t, m, "CX", map[string]float64{"c_c": -1, "d_c": 1}, -1000, 1000)
	addRxn(t, m, "DE", map[string]float64{"d_c": -1, "e_c": 1}, -1000, 1000)
	addRxn(t, m, "EF", map[string]float64{"e_c": -1, "f_c": 1}, -1000, 1000)
	addRxn(t, m, "FD", map[string]float64{"f_c": -1, "d_c": 1}, -1000, 1000)

	for _, norm := range []fba.Norm{fba.NormL2, fba.NormL1} {
		t.Run(norm.String(), func(t *testing.T) {
			modes, err := fba.FindLeakModes(context.Background(), m, []string{"c_c"}, fba.WithNorm(norm))
			require.NoError(t, err)
			require.Len(t, modes, 1)
			require.Equal(t, optim.StatusOptimal, modes[0].Status)

			ids := make([]string, len(modes[0].Reactions))
			for i, r := range modes[0].Reactions {
				ids[i] = r.ID
			}
			assert.Equal(t, []string{"LK", "RA"}, ids)
		})
	}
}

func TestFindLeakModes_Edges(t *testing.T) {
	ctx := context.Background()
	m := leakyModel(t)

	modes, err := fba.FindLeakModes(ctx, m, nil)
	require.NoError(t, err)
	assert.Nil(t, modes)

	// a_c cannot be drained on its own: every unit of a_c spent by LK comes back via RA.
	modes, err = fba.FindLeakModes(ctx, m, []string{"a_c", "c_c"}, fba.WithNorm(fba.NormL1), fba.WithWorkers(2))
	require.NoError(t, err)
	require.Len(t, modes, 2)
	assert.Equal(t, "a_c", modes[0].Metabolite)
	assert.Equal(t, optim.StatusInfeasible, modes[0].Status)
	assert.Nil(t, modes[0].Reactions)
	assert.Equal(t, optim.StatusOptimal, modes[1].Status)

	_, err = fba.FindLeakModes(ctx, m, []string{"nope"})
	require.ErrorIs(t, err, fba.ErrMetaboliteNotFound)

	// The LP backend refuses the quadratic objective.
	_, err = fba.FindLeakModes(ctx, m, []string{"c_c"}, fba.WithQPSolver(optim.NewSimplexSolver()))
	require.ErrorIs(t, err, optim.ErrQuadraticObjective)
}
