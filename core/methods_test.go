// SPDX-License-Identifier: MIT
// Package core_test verifies core.Model method-level contracts.
//
// Purpose:
//   - Lock in deterministic ordering of enumeration surfaces.
//   - Validate admission rules (IDs, bounds, coefficients, unknown metabolites).
//   - Ensure the metabolite→reaction index follows every mutation.

package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflux/core"
)

// newToyModel builds A_e <-> A_c -> B_c -> (biomass), with an uptake exchange.
func newToyModel(t *testing.T) *core.Model {
	t.Helper()
	m := core.NewModel("toy", core.WithName("Toy"))
	for _, met := range []core.Metabolite{
		{ID: "A_e", Compartment: "e"},
		{ID: "A_c", Compartment: "c"},
		{ID: "B_c", Compartment: "c"},
	} {
		require.NoError(t, m.AddMetabolite(met))
	}
	require.NoError(t, m.AddReaction(core.Reaction{
		ID: "TA", Stoichiometry: map[string]float64{"A_e": -1, "A_c": 1},
		LowerBound: -1000, UpperBound: 1000,
	}))
	require.NoError(t, m.AddReaction(core.Reaction{
		ID: "R1", Stoichiometry: map[string]float64{"A_c": -1, "B_c": 1},
		LowerBound: 0, UpperBound: 1000,
	}))
	require.NoError(t, m.AddReaction(core.Reaction{
		ID: "BIOMASS_Toy", Stoichiometry: map[string]float64{"B_c": -1},
		LowerBound: 0, UpperBound: 1000, ObjectiveCoefficient: 1,
	}))
	_, err := m.AddBoundary("A_e", core.Exchange, core.WithBoundaryBounds(-10, 1000))
	require.NoError(t, err)

	return m
}

// TestModel_AddMetabolite covers empty and duplicate IDs.
func TestModel_AddMetabolite(t *testing.T) {
	m := core.NewModel("m")
	require.ErrorIs(t, m.AddMetabolite(core.Metabolite{}), core.ErrEmptyID)
	require.NoError(t, m.AddMetabolite(core.Metabolite{ID: "x"}))
	require.ErrorIs(t, m.AddMetabolite(core.Metabolite{ID: "x"}), core.ErrDuplicateMetabolite)
	require.True(t, m.HasMetabolite("x"))
	require.False(t, m.HasMetabolite(""))
	require.Equal(t, 1, m.MetaboliteCount())
}

// TestModel_AddReactionValidation covers every admission sentinel.
func TestModel_AddReactionValidation(t *testing.T) {
	m := core.NewModel("m")
	require.NoError(t, m.AddMetabolite(core.Metabolite{ID: "x"}))

	cases := []struct {
		name string
		r    core.Reaction
		want error
	}{
		{"empty id", core.Reaction{Stoichiometry: map[string]float64{"x": 1}}, core.ErrEmptyID},
		{"no metabolites", core.Reaction{ID: "r"}, core.ErrEmptyReaction},
		{"zero coef", core.Reaction{ID: "r", Stoichiometry: map[string]float64{"x": 0}}, core.ErrBadCoefficient},
		{"nan coef", core.Reaction{ID: "r", Stoichiometry: map[string]float64{"x": math.NaN()}}, core.ErrBadCoefficient},
		{"bad bounds", core.Reaction{ID: "r", Stoichiometry: map[string]float64{"x": 1}, LowerBound: 1, UpperBound: 0}, core.ErrBadBounds},
		{"unknown met", core.Reaction{ID: "r", Stoichiometry: map[string]float64{"y": 1}}, core.ErrMetaboliteNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, m.AddReaction(tc.r), tc.want)
		})
	}

	require.NoError(t, m.AddReaction(core.Reaction{ID: "r", Stoichiometry: map[string]float64{"x": 1}}))
	require.ErrorIs(t, m.AddReaction(core.Reaction{ID: "r", Stoichiometry: map[string]float64{"x": 1}}), core.ErrDuplicateReaction)
}

// TestModel_DeterministicOrder anchors the sorted enumeration contract.
func TestModel_DeterministicOrder(t *testing.T) {
	m := newToyModel(t)

	require.Equal(t, []string{"A_c", "A_e", "B_c"}, m.MetaboliteIDs())
	require.Equal(t, []string{"BIOMASS_Toy", "EX_A_e", "R1", "TA"}, m.ReactionIDs())
	require.Equal(t, []string{"BIOMASS_Toy", "EX_A_e"}, m.BoundaryReactions())

	rx, err := m.MetaboliteReactions("A_c")
	require.NoError(t, err)
	require.Equal(t, []string{"R1", "TA"}, rx)

	_, err = m.MetaboliteReactions("nope")
	require.ErrorIs(t, err, core.ErrMetaboliteNotFound)
}

// TestModel_RemoveKeepsIndex checks the inverted index after removals.
func TestModel_RemoveKeepsIndex(t *testing.T) {
	m := newToyModel(t)

	require.NoError(t, m.RemoveReaction("R1"))
	require.ErrorIs(t, m.RemoveReaction("R1"), core.ErrReactionNotFound)
	rx, err := m.MetaboliteReactions("B_c")
	require.NoError(t, err)
	require.Equal(t, []string{"BIOMASS_Toy"}, rx)

	require.NoError(t, m.RemoveMetabolite("A_e"))
	ta, err := m.Reaction("TA")
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"A_c": 1}, ta.Stoichiometry)
	require.True(t, ta.IsBoundary())
}

// TestModel_BoundsAndObjective covers SetBounds and SetObjective semantics.
func TestModel_BoundsAndObjective(t *testing.T) {
	m := newToyModel(t)

	require.NoError(t, m.SetBounds("R1", -5, 5))
	r, err := m.Reaction("R1")
	require.NoError(t, err)
	require.Equal(t, -5.0, r.LowerBound)
	require.True(t, r.Reversible())
	require.ErrorIs(t, m.SetBounds("R1", 5, -5), core.ErrBadBounds)
	require.ErrorIs(t, m.SetBounds("zz", 0, 1), core.ErrReactionNotFound)

	require.Equal(t, map[string]float64{"BIOMASS_Toy": 1}, m.Objective())
	require.NoError(t, m.SetObjective(map[string]float64{"R1": 2}))
	require.Equal(t, map[string]float64{"R1": 2}, m.Objective())
	require.ErrorIs(t, m.SetObjective(map[string]float64{"zz": 1}), core.ErrReactionNotFound)
	require.Equal(t, map[string]float64{"R1": 2}, m.Objective(), "failed SetObjective must not mutate")
}

// TestModel_AddBoundary covers prefixes and default bounds.
func TestModel_AddBoundary(t *testing.T) {
	m := newToyModel(t)

	id, err := m.AddBoundary("B_c", core.Demand)
	require.NoError(t, err)
	require.Equal(t, "DM_B_c", id)
	r, _ := m.Reaction(id)
	require.Equal(t, 0.0, r.LowerBound)
	require.Equal(t, core.DefaultBound, r.UpperBound)
	require.Equal(t, -1.0, r.Stoichiometry["B_c"])

	id, err = m.AddBoundary("B_c", core.Sink)
	require.NoError(t, err)
	require.Equal(t, "SK_B_c", id)
	r, _ = m.Reaction(id)
	require.Equal(t, -core.DefaultBound, r.LowerBound)

	_, err = m.AddBoundary("B_c", core.Sink)
	require.ErrorIs(t, err, core.ErrDuplicateReaction)
	_, err = m.AddBoundary("nope", core.Sink)
	require.ErrorIs(t, err, core.ErrMetaboliteNotFound)
	require.Equal(t, "EX_q", core.BoundaryID(core.Exchange, "q"))
}

// TestModel_CloneIsDeep ensures mutations on the clone never leak back.
func TestModel_CloneIsDeep(t *testing.T) {
	m := newToyModel(t)
	c := m.Clone()

	require.Equal(t, m.Name(), c.Name())
	require.Equal(t, m.Tolerance(), c.Tolerance())
	require.NoError(t, c.SetBounds("R1", 0, 1))
	_, err := c.AddBoundary("B_c", core.Sink)
	require.NoError(t, err)

	r, _ := m.Reaction("R1")
	require.Equal(t, 1000.0, r.UpperBound)
	require.False(t, m.HasReaction("SK_B_c"))

	// mutate a returned copy: the model must not change
	r.Stoichiometry["A_c"] = -7
	again, _ := m.Reaction("R1")
	require.Equal(t, -1.0, again.Stoichiometry["A_c"])
}

// TestModel_Options covers construction options.
func TestModel_Options(t *testing.T) {
	m := core.NewModel("id", core.WithTolerance(1e-6), core.WithDirection(core.Minimize))
	require.Equal(t, "id", m.Name())
	require.Equal(t, 1e-6, m.Tolerance())
	require.Equal(t, core.Minimize, m.Direction())
	require.Equal(t, "min", m.Direction().String())

	m = core.NewModel("id", core.WithTolerance(-1))
	require.Equal(t, core.DefaultTolerance, m.Tolerance())
}
