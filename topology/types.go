// Package topology provides tunable options and error definitions
// for structural analyses over a core.Model.
package topology

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/lvflux/core"
)

// Sentinel errors for topology analyses.
var (
	// ErrModelNil is returned if a nil model pointer is passed.
	ErrModelNil = errors.New("topology: model is nil")

	// ErrSeedNotFound is returned when a seed metabolite is absent.
	ErrSeedNotFound = errors.New("topology: seed metabolite not found")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("topology: invalid option supplied")
)

// Option configures Scope via functional arguments.
// An invalid Option is recorded internally and surfaced as
// ErrOptionViolation when Scope is invoked.
type Option func(*ScopeOptions)

// ScopeOptions holds parameters and callbacks to customise network expansion.
type ScopeOptions struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// OnVisit is called when a metabolite enters the visit order. If it
	// returns an error, expansion aborts and propagates that error.
	OnVisit func(metID string, depth int) error

	// MaxDepth, if > 0, stops adding metabolites beyond this depth.
	// Zero disables the limit.
	MaxDepth int

	// ReactionFilter can exclude reactions from firing by returning false.
	ReactionFilter func(r core.Reaction) bool

	err error
}

// DefaultOptions returns ScopeOptions with a background context, no depth
// limit, no filtering and a no-op OnVisit.
func DefaultOptions() ScopeOptions {
	return ScopeOptions{
		Ctx:            context.Background(),
		OnVisit:        func(string, int) error { return nil },
		ReactionFilter: func(core.Reaction) bool { return true },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *ScopeOptions) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit registers a callback run for every metabolite added to scope.
func WithOnVisit(fn func(metID string, depth int) error) Option {
	return func(o *ScopeOptions) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth limits expansion depth.
//
//	d > 0: limit to depth d
//	d == 0: explicit no depth limit
//	d < 0: invalid option → ErrOptionViolation
func WithMaxDepth(d int) Option {
	return func(o *ScopeOptions) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithReactionFilter skips reactions for which fn returns false.
func WithReactionFilter(fn func(r core.Reaction) bool) Option {
	return func(o *ScopeOptions) {
		if fn != nil {
			o.ReactionFilter = fn
		}
	}
}

// ScopeResult holds the outcome of a network expansion:
//   - Order: metabolites in the order they were visited.
//   - Depth: number of expansion rounds needed to reach each metabolite.
//   - FiredBy: reaction that first produced each non-seed metabolite.
//   - Reactions: reactions that fired, in firing order.
type ScopeResult struct {
	Order     []string
	Depth     map[string]int
	FiredBy   map[string]string
	Reactions []string
}

// Contains reports whether metID is in the scope.
func (r *ScopeResult) Contains(metID string) bool {
	_, ok := r.Depth[metID]
	return ok
}

// PathTo reconstructs one production route to metID as a list of reaction IDs,
// following FiredBy back through the first substrate of each reaction that
// was itself produced. Seeds have an empty route.
func (r *ScopeResult) PathTo(m *core.Model, metID string) ([]string, error) {
	if !r.Contains(metID) {
		return nil, fmt.Errorf("topology: %q is outside the scope", metID)
	}
	var path []string
	seen := make(map[string]bool)
	for cur := metID; ; {
		rxnID, ok := r.FiredBy[cur]
		if !ok || seen[rxnID] {
			break
		}
		seen[rxnID] = true
		path = append(path, rxnID)

		rxn, err := m.Reaction(rxnID)
		if err != nil {
			return nil, err
		}
		// Step back to the deepest substrate on the producing side.
		sign := rxn.Stoichiometry[cur]
		next, best := "", -1
		for _, id := range sortedIDs(rxn.Stoichiometry) {
			if rxn.Stoichiometry[id]*sign < 0 && r.Depth[id] > best {
				next, best = id, r.Depth[id]
			}
		}
		if next == "" {
			break
		}
		cur = next
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}
