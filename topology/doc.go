// Package topology provides structural analyses over a core.Model that need
// no flux optimisation: network-expansion scope and single-reaction
// metabolites.
//
// What
//
//   - Scope: starting from seed metabolites, repeatedly fire every reaction
//     whose substrates (for a direction its bounds allow) are all reachable,
//     adding its products. Returns a ScopeResult containing:
//   - Order: visit sequence
//   - Depth: metabolite → number of expansion rounds from the seeds
//   - FiredBy: metabolite → reaction that first produced it
//   - Reactions: reactions that fired, in order
//   - SingleReactionMetabolites: metabolites touched by exactly one reaction,
//     the structural candidates for dead ends.
//
// Why
//
//   - Scope is the topological counterpart of "can this be produced": a
//     metabolite outside the scope of the medium can never carry flux.
//   - It is cheap (no LP) and gives a production route via PathTo.
//
// Determinism
//
//	Seeds, reaction IDs and products are processed in sorted order, and
//	core.Model.MetaboliteReactions returns sorted IDs, so Order and FiredBy
//	are fully reproducible.
//
// Complexity (M = |Metabolites|, R = |Reactions|, S = stoichiometry entries)
//
//   - Time:   O(M + R + S·k), k = reactions per metabolite
//   - Memory: O(M + R)
//
// Usage
//
//	res, err := topology.Scope(m, []string{"glc__D_e", "o2_e"},
//	    topology.WithContext(ctx),
//	    topology.WithMaxDepth(10),
//	    topology.WithReactionFilter(func(r core.Reaction) bool { return !r.IsBoundary() }),
//	)
//
// Errors
//
//   - ErrModelNil         if the model pointer is nil.
//   - ErrSeedNotFound     if a seed metabolite does not exist.
//   - ErrOptionViolation  for an invalid Option (e.g. negative MaxDepth).
//   - Wrapped hook errors from OnVisit and context errors.
package topology
