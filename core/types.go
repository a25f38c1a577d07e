// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Metabolite, Reaction, Model, ModelOption, sentinel errors, NewModel.
//
// Concurrency:
//   - A single sync.RWMutex guards both catalogs (metabolites, reactions) and the
//     metabolite→reaction index, so every mutation keeps the three in step.
//
// Determinism:
//   - Every enumeration surface (Metabolites, Reactions, MetaboliteReactions,
//     BoundaryReactions) returns results sorted by ID ascending.

package core

import (
	"errors"
	"math"
	"sync"
)

// Sentinel errors for model operations.
var (
	// ErrEmptyID indicates that a metabolite or reaction was given an empty ID.
	ErrEmptyID = errors.New("core: empty ID")

	// ErrMetaboliteNotFound indicates an operation referenced a missing metabolite.
	ErrMetaboliteNotFound = errors.New("core: metabolite not found")

	// ErrReactionNotFound indicates an operation referenced a missing reaction.
	ErrReactionNotFound = errors.New("core: reaction not found")

	// ErrDuplicateMetabolite indicates a metabolite ID is already registered.
	ErrDuplicateMetabolite = errors.New("core: duplicate metabolite")

	// ErrDuplicateReaction indicates a reaction ID is already registered.
	ErrDuplicateReaction = errors.New("core: duplicate reaction")

	// ErrBadBounds indicates lower > upper or a NaN bound.
	ErrBadBounds = errors.New("core: invalid flux bounds")

	// ErrBadCoefficient indicates a zero, NaN or infinite stoichiometric coefficient.
	ErrBadCoefficient = errors.New("core: invalid stoichiometric coefficient")

	// ErrEmptyReaction indicates a reaction without any metabolite.
	ErrEmptyReaction = errors.New("core: reaction has no metabolites")
)

// Defaults shared by the container and the analyses built on top of it.
const (
	// DefaultTolerance is the solver feasibility tolerance assumed for a model.
	DefaultTolerance = 1e-7

	// DefaultBound is the magnitude used for "unconstrained" flux bounds.
	DefaultBound = 1000.0
)

// Direction is the optimisation sense of a model objective.
type Direction int

const (
	// Maximize is the default objective sense.
	Maximize Direction = iota
	// Minimize flips the objective sense.
	Minimize
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == Minimize {
		return "min"
	}
	return "max"
}

// Metabolite is a chemical species tracked by a Model.
type Metabolite struct {
	// ID uniquely identifies the metabolite within its Model.
	ID string

	// Name is a human-readable label.
	Name string

	// Compartment names the compartment the species lives in ("c", "e", ...).
	Compartment string

	// Formula is the elemental formula, if known.
	Formula string
}

// Reaction is a flux-carrying transformation between metabolites.
//
// Stoichiometry maps metabolite ID to its coefficient: negative values are
// consumed and positive values produced when the reaction runs forward.
// Flux is bounded by [LowerBound, UpperBound]; a negative lower bound makes the
// reaction reversible.
type Reaction struct {
	ID                   string
	Name                 string
	Subsystem            string
	Stoichiometry        map[string]float64
	LowerBound           float64
	UpperBound           float64
	ObjectiveCoefficient float64
}

// IsBoundary reports whether r touches exactly one metabolite (exchange,
// demand or sink pseudo-reactions).
func (r Reaction) IsBoundary() bool { return len(r.Stoichiometry) == 1 }

// Reversible reports whether r may carry negative flux.
func (r Reaction) Reversible() bool { return r.LowerBound < 0 }

// clone returns a deep copy of r (the stoichiometry map is duplicated).
func (r Reaction) clone() Reaction {
	st := make(map[string]float64, len(r.Stoichiometry))
	for id, c := range r.Stoichiometry {
		st[id] = c
	}
	r.Stoichiometry = st
	return r
}

// ModelOption configures a Model at construction time.
type ModelOption func(m *Model)

// WithName sets the human-readable model name.
func WithName(name string) ModelOption {
	return func(m *Model) { m.name = name }
}

// WithTolerance sets the solver tolerance attached to the model.
// Non-positive or NaN values are ignored.
func WithTolerance(tol float64) ModelOption {
	return func(m *Model) {
		if tol > 0 && !math.IsNaN(tol) {
			m.tolerance = tol
		}
	}
}

// WithDirection sets the objective sense used by Optimize.
func WithDirection(d Direction) ModelOption {
	return func(m *Model) { m.direction = d }
}

// Model is an in-memory, thread-safe genome-scale metabolic network.
//
// mu protects every field below it. metaboliteRxns is the inverted index
// metabolite ID → set of reaction IDs that reference it.
type Model struct {
	mu sync.RWMutex

	id        string
	name      string
	tolerance float64
	direction Direction

	metabolites    map[string]*Metabolite
	reactions      map[string]*Reaction
	metaboliteRxns map[string]map[string]struct{}
}

// NewModel creates an empty Model.
// By default the tolerance is DefaultTolerance and the direction Maximize.
// Complexity: O(len(opts)).
func NewModel(id string, opts ...ModelOption) *Model {
	m := &Model{
		id:             id,
		tolerance:      DefaultTolerance,
		direction:      Maximize,
		metabolites:    make(map[string]*Metabolite),
		reactions:      make(map[string]*Reaction),
		metaboliteRxns: make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// ID returns the model identifier.
func (m *Model) ID() string { return m.id }

// Name returns the model name, falling back to the ID when no name was set.
func (m *Model) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.name == "" {
		return m.id
	}
	return m.name
}

// Tolerance returns the solver tolerance attached to the model.
func (m *Model) Tolerance() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tolerance
}

// Direction returns the objective sense.
func (m *Model) Direction() Direction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.direction
}

// SetDirection changes the objective sense.
func (m *Model) SetDirection(d Direction) {
	m.mu.Lock()
	m.direction = d
	m.mu.Unlock()
}
