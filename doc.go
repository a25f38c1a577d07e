// Package lvflux is an in-memory toolkit for constraint-based analysis of
// genome-scale metabolic network models.
//
// What is inside?
//
//	core/      - Model, Metabolite, Reaction and boundary reactions, thread-safe
//	matrix/    - stoichiometric matrix views and numerical rank
//	optim/     - LP/QP problems, a simplex and an ADMM backend, solver metrics
//	topology/  - network expansion (scope) and single-reaction metabolites
//	fba/       - flux balance analysis, community growth, blocked metabolites,
//	             sinks to connect, dead ends, leaks and leak modes
//	modelio/   - COBRA JSON and YAML model files
//	cmd/lvflux - command-line front end
//
// Quick example:
//
//	m, _ := modelio.LoadFile("e_coli_core.json")
//	sol, _ := fba.Optimize(ctx, m)
//	fmt.Println(sol.Status, sol.ObjectiveValue)
//
// Every analysis takes a context first and functional options after the
// model; see the fba package for the option set.
//
//	go install github.com/katalvlaran/lvflux/cmd/lvflux@latest
package lvflux
