// File: boundary.go
// Role: Exchange / demand / sink pseudo-reactions.

package core

import "fmt"

// BoundaryKind selects the flavour of pseudo-reaction added by AddBoundary.
type BoundaryKind int

const (
	// Exchange connects a metabolite with the environment (EX_ prefix).
	Exchange BoundaryKind = iota
	// Demand irreversibly drains a metabolite (DM_ prefix).
	Demand
	// Sink reversibly drains or supplies a metabolite (SK_ prefix).
	Sink
)

// Prefix returns the reaction-ID prefix used for the kind.
func (k BoundaryKind) Prefix() string {
	switch k {
	case Demand:
		return "DM_"
	case Sink:
		return "SK_"
	default:
		return "EX_"
	}
}

// String implements fmt.Stringer.
func (k BoundaryKind) String() string {
	switch k {
	case Demand:
		return "demand"
	case Sink:
		return "sink"
	default:
		return "exchange"
	}
}

// defaultBounds returns the flux bounds a freshly added boundary gets.
func (k BoundaryKind) defaultBounds() (lower, upper float64) {
	if k == Demand {
		return 0, DefaultBound
	}
	return -DefaultBound, DefaultBound
}

// BoundaryID returns the reaction ID AddBoundary would use.
func BoundaryID(kind BoundaryKind, metID string) string {
	return kind.Prefix() + metID
}

// BoundaryOption customises AddBoundary.
type BoundaryOption func(r *Reaction)

// WithBoundaryBounds overrides the default flux bounds of the new reaction.
func WithBoundaryBounds(lower, upper float64) BoundaryOption {
	return func(r *Reaction) {
		r.LowerBound, r.UpperBound = lower, upper
	}
}

// AddBoundary adds a boundary pseudo-reaction "<prefix><metID>" that consumes
// one unit of metID in the forward direction.
//
// Defaults:
//   - Exchange: [-1000, 1000]
//   - Demand:   [0, 1000]
//   - Sink:     [-1000, 1000]
//
// Errors:
//   - ErrMetaboliteNotFound, ErrDuplicateReaction, ErrBadBounds.
//
// Complexity: O(1).
func (m *Model) AddBoundary(metID string, kind BoundaryKind, opts ...BoundaryOption) (string, error) {
	if !m.HasMetabolite(metID) {
		return "", fmt.Errorf("%w: %q", ErrMetaboliteNotFound, metID)
	}
	lb, ub := kind.defaultBounds()
	r := Reaction{
		ID:            BoundaryID(kind, metID),
		Name:          fmt.Sprintf("%s %s", metID, kind),
		Stoichiometry: map[string]float64{metID: -1},
		LowerBound:    lb,
		UpperBound:    ub,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if err := m.AddReaction(r); err != nil {
		return "", err
	}

	return r.ID, nil
}
