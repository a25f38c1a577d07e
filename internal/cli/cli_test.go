package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toyModel = "../../modelio/testdata/toy.json"

// run executes the command tree quietly and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), append([]string{"--log-level", "error"}, args...), &stdout, &stderr)
	return stdout.String(), err
}

func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := run(t, append([]string{"-o", "json"}, args...)...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func TestOptimize(t *testing.T) {
	var res optimizeOut
	runJSON(t, &res, "optimize", toyModel)

	assert.Equal(t, "toy", res.Model)
	assert.Equal(t, "optimal", res.Status)
	assert.Equal(t, "simplex", res.Backend)
	require.NotNil(t, res.Objective)
	assert.InDelta(t, 20.0, *res.Objective, 1e-6)

	fluxes := make(map[string]float64)
	for _, f := range res.Fluxes {
		fluxes[f.Reaction] = f.Flux
	}
	assert.InDelta(t, -10.0, fluxes["EX_glc__D_e"], 1e-6)
	assert.InDelta(t, 10.0, fluxes["GLY"], 1e-6)
	assert.InDelta(t, 20.0, fluxes["BIOMASS_toy"], 1e-6)
	assert.NotContains(t, fluxes, "LDH_D")
}

func TestOptimize_TextAndADMM(t *testing.T) {
	out, err := run(t, "--backend", "admm", "optimize", toyModel)
	require.NoError(t, err)
	assert.Contains(t, out, "status")
	assert.Contains(t, out, "optimal")
	assert.Contains(t, out, "BIOMASS_toy")
}

func TestBlocked(t *testing.T) {
	var tests []testOut
	runJSON(t, &tests, "--carbon", "glc__D_e", "blocked", toyModel)

	require.Len(t, tests, 4)
	for _, tc := range tests {
		assert.Equal(t, "available", tc.Outcome, tc.Metabolite)
		assert.Equal(t, "optimal", tc.Status, tc.Metabolite)
		require.NotNil(t, tc.CarbonFlux, tc.Metabolite)
		assert.Less(t, *tc.CarbonFlux, 0.0, tc.Metabolite)
	}
}

func TestBlocked_DemandsAndMode(t *testing.T) {
	var tests []testOut
	runJSON(t, &tests, "blocked", "--mode", "can_consume", "--demand", "lac__D_c,glc__D_e", toyModel)

	require.Len(t, tests, 2)
	assert.Equal(t, "lac__D_c", tests[0].Metabolite)
	assert.Equal(t, "available", tests[0].Outcome, "lactate can be turned back into pyruvate")
	assert.Equal(t, "glc__D_e", tests[1].Metabolite)

	_, err := run(t, "blocked", "--mode", "sideways", toyModel)
	require.Error(t, err)
}

func TestConnectDeadEndsLeaks(t *testing.T) {
	var conns []connectionOut
	runJSON(t, &conns, "connect", toyModel)
	assert.Empty(t, conns)

	var dead []string
	runJSON(t, &dead, "dead-ends", toyModel)
	assert.Empty(t, dead)

	var leaks []leakOut
	runJSON(t, &leaks, "leaks", toyModel)
	assert.Empty(t, leaks)

	var modes []leakModeOut
	runJSON(t, &modes, "leak-modes", toyModel)
	assert.Empty(t, modes)
}

func TestLeakModes_ExplicitLeak(t *testing.T) {
	var modes []leakModeOut
	runJSON(t, &modes, "leak-modes", "--norm", "l1", "--leak", "lac__D_c", toyModel)

	require.Len(t, modes, 1)
	assert.Equal(t, "lac__D_c", modes[0].Metabolite)
	assert.Equal(t, "infeasible", modes[0].Status, "a closed toy network cannot leak lactate")
	assert.Nil(t, modes[0].Objective)
}

func TestCommunity(t *testing.T) {
	var res communityOut
	runJSON(t, &res, "community", toyModel)

	assert.Equal(t, "optimal", res.Status)
	require.NotNil(t, res.GrowthRate)
	assert.InDelta(t, 20.0, *res.GrowthRate, 1e-6)
	require.Len(t, res.Members, 1)
	assert.Equal(t, "toy", res.Members[0].Name)
	assert.InDelta(t, 1.0, res.Members[0].Abundance, 1e-12)

	_, err := run(t, "community", "--abundance", "1,2", toyModel)
	require.ErrorContains(t, err, "2 abundances for 1 models")

	_, err = run(t, "community", toyModel, toyModel)
	require.Error(t, err, "two members share the model ID")
}

func TestScope(t *testing.T) {
	var res scopeOut
	runJSON(t, &res, "scope", "--seed", "glc__D_e", toyModel)

	depth := make(map[string]scopeEntry)
	for _, e := range res.Metabolites {
		depth[e.Metabolite] = e
	}
	require.Contains(t, depth, "lac__D_c")
	assert.Equal(t, 0, depth["glc__D_e"].Depth)
	assert.Equal(t, 3, depth["lac__D_c"].Depth)
	assert.Equal(t, []string{"GLCpts", "GLY", "LDH_D"}, depth["lac__D_c"].Path)

	var shallow scopeOut
	runJSON(t, &shallow, "scope", "--seed", "glc__D_e", "--max-depth", "1", toyModel)
	for _, e := range shallow.Metabolites {
		assert.NotEqual(t, "lac__D_c", e.Metabolite)
	}

	var unseeded scopeOut
	runJSON(t, &unseeded, "scope", toyModel)
	depth = make(map[string]scopeEntry)
	for _, e := range unseeded.Metabolites {
		depth[e.Metabolite] = e
	}
	assert.Equal(t, 1, depth["glc__D_e"].Depth, "glucose enters through its exchange")
	assert.Equal(t, []string{"EX_glc__D_e", "GLCpts", "GLY", "LDH_D"}, depth["lac__D_c"].Path)

	_, err := run(t, "scope", "--seed", "atp_c", toyModel)
	require.Error(t, err)
}

func TestStats(t *testing.T) {
	var res statsOut
	runJSON(t, &res, "stats", toyModel)

	assert.Equal(t, "toy", res.Model)
	assert.Equal(t, "Toy glycolysis", res.Name)
	assert.Equal(t, 4, res.Metabolites)
	assert.Equal(t, 5, res.Reactions)
	assert.Equal(t, 2, res.BoundaryReactions)
	assert.Equal(t, []string{"c", "e"}, res.Compartments)
	assert.Equal(t, 4, res.Rank)
	assert.Equal(t, 3, res.InternalRank)
	assert.Equal(t, []string{"lac__D_c"}, res.SingleReactionMets)
	assert.Equal(t, []string{"BIOMASS_toy"}, res.Objective)
	assert.Equal(t, "max", res.Direction)
}

func TestMetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lvflux.prom")
	_, err := run(t, "--metrics-textfile", path, "optimize", toyModel)
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "lvflux_solver_solves_total")
	assert.Contains(t, string(body), `backend="simplex"`)
}

func TestErrors(t *testing.T) {
	_, err := run(t, "-o", "xml", "stats", toyModel)
	require.ErrorContains(t, err, "output format")

	_, err = run(t, "--backend", "glpk", "stats", toyModel)
	require.Error(t, err)

	_, err = run(t, "optimize")
	require.Error(t, err)

	_, err = run(t, "optimize", filepath.Join(t.TempDir(), "model.xml"))
	require.Error(t, err)

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "stats", toyModel)
	require.Error(t, err)
}
