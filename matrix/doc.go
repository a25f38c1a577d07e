// Package matrix offers the stoichiometric-matrix view of a core.Model.
//
// The stoichiometric matrix S (metabolites × reactions) is the incidence
// structure of a metabolic network: column j lists what reaction j consumes
// (negative entries) and produces (positive entries). Steady-state flux
// balance is S·v = 0.
//
// The matrix package provides:
//
//   - NewStoichiometric: deterministic dense build (rows and columns sorted by ID)
//     backed by gonum's mat.Dense, with options to drop boundary reactions or
//     filter columns.
//   - Index lookups (MetaboliteIndex, ReactionIndex), row/column copies,
//     sparsity queries (Nonzeros) and numerical Rank.
//
// Dense storage costs O(M·R) memory; that is fine for genome-scale models
// (a few thousand rows and columns).
package matrix
