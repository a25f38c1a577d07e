package topology_test

import (
	"fmt"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/topology"
)

// ExampleScope expands a linear pathway fed by glucose uptake and prints the
// expansion layers.
func ExampleScope() {
	m := core.NewModel("glycolysis-lite")
	for _, id := range []string{"glc", "g6p", "f6p", "atp", "adp"} {
		_ = m.AddMetabolite(core.Metabolite{ID: id})
	}
	_, _ = m.AddBoundary("glc", core.Exchange)
	_, _ = m.AddBoundary("atp", core.Exchange)
	_ = m.AddReaction(core.Reaction{ID: "HEX1", Stoichiometry: map[string]float64{"glc": -1, "atp": -1, "g6p": 1, "adp": 1}, UpperBound: 1000})
	_ = m.AddReaction(core.Reaction{ID: "PGI", Stoichiometry: map[string]float64{"g6p": -1, "f6p": 1}, LowerBound: -1000, UpperBound: 1000})

	res, err := topology.Scope(m, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, id := range res.Order {
		fmt.Printf("%s depth=%d via %s\n", id, res.Depth[id], res.FiredBy[id])
	}
	// Output:
	// atp depth=1 via EX_atp
	// glc depth=1 via EX_glc
	// adp depth=2 via HEX1
	// g6p depth=2 via HEX1
	// f6p depth=3 via PGI
}
