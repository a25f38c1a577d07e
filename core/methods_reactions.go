// File: methods_reactions.go
// Role: Reaction lifecycle, bounds and objective.
//
// Determinism:
//   - Reactions(), ReactionIDs() and BoundaryReactions() are sorted by ID.
//
// Concurrency:
//   - All mutations run under the model write lock; readers receive copies.

package core

import (
	"fmt"
	"math"
	"sort"
)

// AddReaction registers a reaction.
//
// Implementation:
//   - Stage 1: Validate ID, bounds and stoichiometry outside the lock.
//   - Stage 2: Under the write lock reject duplicates and unknown metabolites.
//   - Stage 3: Store a deep copy and update the metabolite→reaction index.
//
// Errors:
//   - ErrEmptyID, ErrEmptyReaction, ErrBadCoefficient, ErrBadBounds,
//     ErrDuplicateReaction, ErrMetaboliteNotFound.
//
// Complexity: O(k) for k metabolites in the reaction.
func (m *Model) AddReaction(r Reaction) error {
	if r.ID == "" {
		return ErrEmptyID
	}
	if err := validateBounds(r.LowerBound, r.UpperBound); err != nil {
		return fmt.Errorf("reaction %q: %w", r.ID, err)
	}
	if len(r.Stoichiometry) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyReaction, r.ID)
	}
	for mid, c := range r.Stoichiometry {
		if c == 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: %q in %q = %g", ErrBadCoefficient, mid, r.ID, c)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.reactions[r.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateReaction, r.ID)
	}
	for mid := range r.Stoichiometry {
		if _, ok := m.metabolites[mid]; !ok {
			return fmt.Errorf("reaction %q: %w: %q", r.ID, ErrMetaboliteNotFound, mid)
		}
	}

	cp := r.clone()
	m.reactions[r.ID] = &cp
	for mid := range cp.Stoichiometry {
		m.metaboliteRxns[mid][r.ID] = struct{}{}
	}

	return nil
}

// HasReaction reports whether the reaction exists (empty ID ⇒ false).
func (m *Model) HasReaction(id string) bool {
	if id == "" {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.reactions[id]

	return ok
}

// Reaction returns a deep copy of the reaction with the given ID.
func (m *Model) Reaction(id string) (Reaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reactions[id]
	if !ok {
		return Reaction{}, fmt.Errorf("%w: %q", ErrReactionNotFound, id)
	}

	return r.clone(), nil
}

// RemoveReaction deletes a reaction and its index entries. Metabolites are
// kept even if they no longer take part in any reaction.
// Complexity: O(k).
func (m *Model) RemoveReaction(id string) error {
	if id == "" {
		return ErrEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reactions[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrReactionNotFound, id)
	}
	for mid := range r.Stoichiometry {
		delete(m.metaboliteRxns[mid], id)
	}
	delete(m.reactions, id)

	return nil
}

// Reactions returns deep copies of all reactions sorted by ID.
// Complexity: O(R log R + nnz).
func (m *Model) Reactions() []Reaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Reaction, 0, len(m.reactions))
	for _, r := range m.reactions {
		out = append(out, r.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// ReactionIDs returns all reaction IDs sorted ascending.
func (m *Model) ReactionIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return sortedKeys(m.reactions)
}

// ReactionCount returns the number of reactions.
func (m *Model) ReactionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reactions)
}

// BoundaryReactions returns the sorted IDs of all boundary reactions.
func (m *Model) BoundaryReactions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0)
	for id, r := range m.reactions {
		if r.IsBoundary() {
			out = append(out, id)
		}
	}
	sort.Strings(out)

	return out
}

// SetBounds replaces the flux bounds of a reaction.
//
// Errors:
//   - ErrBadBounds, ErrReactionNotFound.
func (m *Model) SetBounds(id string, lower, upper float64) error {
	if err := validateBounds(lower, upper); err != nil {
		return fmt.Errorf("reaction %q: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reactions[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrReactionNotFound, id)
	}
	r.LowerBound, r.UpperBound = lower, upper

	return nil
}

// SetObjective replaces the objective: every reaction's coefficient is reset
// to zero and then the given coefficients are applied.
//
// Errors:
//   - ErrReactionNotFound if any key is unknown; the model is left unchanged.
func (m *Model) SetObjective(coefs map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range coefs {
		if _, ok := m.reactions[id]; !ok {
			return fmt.Errorf("%w: %q", ErrReactionNotFound, id)
		}
	}
	for _, r := range m.reactions {
		r.ObjectiveCoefficient = 0
	}
	for id, c := range coefs {
		m.reactions[id].ObjectiveCoefficient = c
	}

	return nil
}

// Objective returns the non-zero objective coefficients keyed by reaction ID.
func (m *Model) Objective() map[string]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]float64)
	for id, r := range m.reactions {
		if r.ObjectiveCoefficient != 0 {
			out[id] = r.ObjectiveCoefficient
		}
	}

	return out
}

// validateBounds rejects NaN bounds and lower > upper.
func validateBounds(lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) || lower > upper {
		return fmt.Errorf("%w: [%g, %g]", ErrBadBounds, lower, upper)
	}
	return nil
}
