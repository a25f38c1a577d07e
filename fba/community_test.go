package fba_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflux/fba"
	"github.com/katalvlaran/lvflux/optim"
)

func TestBuildAggregateModel(t *testing.T) {
	m := organism(t, "A", 10)

	agg, err := fba.BuildAggregateModel(m, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, agg.Members())
	assert.Equal(t, 2.0, agg.Abundance("A"))

	p := agg.Problem()
	for _, name := range []string{"growth_A", "glc_e", "glc_c"} {
		_, err := p.Constraint(name)
		assert.NoError(t, err, name)
	}
	_, err = p.Variable("A__BIOMASS_A")
	assert.NoError(t, err)

	res, err := agg.Solve(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, optim.StatusOptimal, res.Status)
	assert.InDelta(t, 10.0, res.GrowthRate, 1e-9)
	assert.InDelta(t, -10.0, res.Fluxes["A"]["EX_glc_e"], 1e-9)
}

func TestBuildCommunity_CrossFeeding(t *testing.T) {
	members := []fba.Member{
		{Name: "A", Model: organism(t, "A", 10), Abundance: 3},
		{Name: "B", Model: organism(t, "B", 2), Abundance: 1},
	}
	agg, err := fba.BuildCommunity(members)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, agg.Abundance("A"), 1e-12)
	assert.InDelta(t, 0.25, agg.Abundance("B"), 1e-12)

	p := agg.Problem()
	_, err = p.Constraint("glc_e")
	assert.NoError(t, err, "extracellular glucose is pooled")
	_, err = p.Constraint("A__glc_c")
	assert.NoError(t, err, "cytosol stays private")
	_, err = p.Constraint("B__glc_c")
	assert.NoError(t, err)

	for _, s := range []optim.Solver{optim.NewSimplexSolver(), optim.NewADMMSolver()} {
		t.Run(s.Name(), func(t *testing.T) {
			res, err := agg.Solve(context.Background(), s)
			require.NoError(t, err)
			require.Equal(t, optim.StatusOptimal, res.Status)

			// 0.75·10 + 0.25·2 units of glucose shared at a common rate.
			assert.InDelta(t, 8.0, res.GrowthRate, 1e-4)
			assert.InDelta(t, 8.0, res.Fluxes["A"]["BIOMASS_A"], 1e-4)
			assert.InDelta(t, 8.0, res.Fluxes["B"]["BIOMASS_B"], 1e-4)
			assert.InDelta(t, -10.0, res.Fluxes["A"]["EX_glc_e"], 1e-4)
			assert.InDelta(t, -2.0, res.Fluxes["B"]["EX_glc_e"], 1e-4)
			assert.Equal(t, map[string]float64{"A": 0.75, "B": 0.25}, res.Abundance)
		})
	}
}

func TestBuildCommunity_ZeroAbundanceMember(t *testing.T) {
	agg, err := fba.BuildCommunity([]fba.Member{
		{Model: organism(t, "A", 10), Abundance: 1},
		{Model: organism(t, "B", 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, agg.Members(), "names default to the model ID")

	_, err = agg.Problem().Constraint("growth_B")
	assert.Error(t, err, "absent members do not grow")

	res, err := agg.Solve(context.Background(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, res.GrowthRate, 1e-9)
	assert.NotContains(t, res.Fluxes, "B")
}

func TestBuildCommunity_SharedCompartment(t *testing.T) {
	agg, err := fba.BuildCommunity([]fba.Member{
		{Name: "A", Model: organism(t, "A", 10), Abundance: 1},
		{Name: "B", Model: organism(t, "B", 2), Abundance: 1},
	}, fba.WithSharedCompartment("p"))
	require.NoError(t, err)

	// Nothing is pooled, so each member is limited by its own uptake.
	_, err = agg.Problem().Constraint("A__glc_e")
	require.NoError(t, err)
	res, err := agg.Solve(context.Background(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.GrowthRate, 1e-9)
}

func TestBuildCommunity_Errors(t *testing.T) {
	a := organism(t, "A", 10)

	_, err := fba.BuildCommunity(nil)
	require.ErrorIs(t, err, fba.ErrNoMembers)

	_, err = fba.BuildCommunity([]fba.Member{{Model: a, Abundance: -1}})
	require.ErrorIs(t, err, fba.ErrBadAbundance)

	_, err = fba.BuildCommunity([]fba.Member{{Model: a}})
	require.ErrorIs(t, err, fba.ErrBadAbundance)

	_, err = fba.BuildCommunity([]fba.Member{{Model: a, Abundance: 1}, {Model: a, Abundance: 1}})
	require.ErrorIs(t, err, fba.ErrDuplicateMember)

	_, err = fba.BuildCommunity([]fba.Member{{Name: "X", Model: a, Abundance: 1}})
	require.ErrorIs(t, err, fba.ErrBiomassNotFound)

	_, err = fba.BuildCommunity([]fba.Member{{Name: "X", Model: a, Abundance: 1, Biomass: "BIOMASS_A"}})
	require.NoError(t, err)

	_, err = fba.BuildCommunity([]fba.Member{{Name: "X", Abundance: 1}})
	require.ErrorIs(t, err, fba.ErrNilModel)

	_, err = fba.BuildAggregateModel(a, 0)
	require.ErrorIs(t, err, fba.ErrBadAbundance)

	_, err = fba.BuildAggregateModel(nil, 1)
	require.ErrorIs(t, err, fba.ErrNilModel)
}
