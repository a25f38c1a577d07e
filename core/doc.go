// Package core provides a thread-safe in-memory container for genome-scale
// metabolic network models.
//
// A Model M = (Metabolites, Reactions) stores:
//
//   - Metabolites: chemical species with an ID, name, compartment and formula.
//   - Reactions: stoichiometry (metabolite ID → coefficient), flux bounds
//     [LowerBound, UpperBound] and an objective coefficient.
//   - An inverted index metabolite → reactions, kept consistent on every mutation.
//
// Conventions:
//
//   - Negative coefficients are consumed, positive coefficients produced,
//     when the reaction runs forward.
//   - A reaction touching exactly one metabolite is a boundary reaction.
//     AddBoundary creates them with the usual prefixes:
//     EX_ (exchange), DM_ (demand), SK_ (sink).
//   - "Unconstrained" bounds use ±DefaultBound (1000).
//
// Core Methods:
//
//	// Metabolites
//	AddMetabolite(met Metabolite) error
//	HasMetabolite(id string) bool
//	Metabolite(id string) (Metabolite, error)
//	RemoveMetabolite(id string) error
//	Metabolites() []Metabolite            // sorted by ID
//	MetaboliteReactions(id string) ([]string, error)
//
//	// Reactions
//	AddReaction(r Reaction) error
//	HasReaction(id string) bool
//	Reaction(id string) (Reaction, error)
//	RemoveReaction(id string) error
//	Reactions() []Reaction                // sorted by ID
//	BoundaryReactions() []string
//	SetBounds(id string, lb, ub float64) error
//	SetObjective(map[string]float64) error
//	AddBoundary(metID string, kind BoundaryKind, opts ...BoundaryOption) (string, error)
//
//	// Copies
//	Clone() *Model
//
// Every getter returns copies; mutate a model only through its methods.
//
// Errors:
//
//	ErrEmptyID             – zero-length metabolite or reaction ID
//	ErrMetaboliteNotFound  – missing metabolite
//	ErrReactionNotFound    – missing reaction
//	ErrDuplicateMetabolite – metabolite ID already present
//	ErrDuplicateReaction   – reaction ID already present
//	ErrBadBounds           – lower > upper, or NaN bound
//	ErrBadCoefficient      – zero / NaN / Inf stoichiometric coefficient
//	ErrEmptyReaction       – reaction without metabolites
package core
