// File: methods_metabolites.go
// Role: Metabolite lifecycle & queries.
//
// Determinism:
//   - Metabolites() and MetaboliteReactions() return results sorted by ID.

package core

import (
	"fmt"
	"sort"
)

// AddMetabolite registers a metabolite.
//
// Implementation:
//   - Stage 1: Validate non-empty ID (ErrEmptyID).
//   - Stage 2: Under the write lock reject duplicates, store a copy and
//     bootstrap the reaction index bucket.
//
// Errors:
//   - ErrEmptyID, ErrDuplicateMetabolite.
//
// Complexity: O(1).
func (m *Model) AddMetabolite(met Metabolite) error {
	if met.ID == "" {
		return ErrEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.metabolites[met.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateMetabolite, met.ID)
	}
	cp := met
	m.metabolites[met.ID] = &cp
	m.metaboliteRxns[met.ID] = make(map[string]struct{})

	return nil
}

// HasMetabolite reports whether the metabolite exists (empty ID ⇒ false).
func (m *Model) HasMetabolite(id string) bool {
	if id == "" {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.metabolites[id]

	return ok
}

// Metabolite returns a copy of the metabolite with the given ID.
func (m *Model) Metabolite(id string) (Metabolite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	met, ok := m.metabolites[id]
	if !ok {
		return Metabolite{}, fmt.Errorf("%w: %q", ErrMetaboliteNotFound, id)
	}

	return *met, nil
}

// RemoveMetabolite deletes a metabolite and strips it from every reaction
// that references it. Reactions left without metabolites are kept; they
// simply stop contributing to any mass balance.
//
// Complexity: O(deg(met)).
func (m *Model) RemoveMetabolite(id string) error {
	if id == "" {
		return ErrEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.metabolites[id]; !ok {
		return fmt.Errorf("%w: %q", ErrMetaboliteNotFound, id)
	}
	for rid := range m.metaboliteRxns[id] {
		delete(m.reactions[rid].Stoichiometry, id)
	}
	delete(m.metaboliteRxns, id)
	delete(m.metabolites, id)

	return nil
}

// Metabolites returns copies of all metabolites sorted by ID.
// Complexity: O(M log M).
func (m *Model) Metabolites() []Metabolite {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Metabolite, 0, len(m.metabolites))
	for _, met := range m.metabolites {
		out = append(out, *met)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// MetaboliteIDs returns all metabolite IDs sorted ascending.
func (m *Model) MetaboliteIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return sortedKeys(m.metabolites)
}

// MetaboliteCount returns the number of metabolites.
func (m *Model) MetaboliteCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.metabolites)
}

// MetaboliteReactions returns the sorted IDs of reactions referencing the
// metabolite.
//
// Errors:
//   - ErrMetaboliteNotFound if id is unknown.
func (m *Model) MetaboliteReactions(id string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.metaboliteRxns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMetaboliteNotFound, id)
	}

	return sortedKeys(set), nil
}

// sortedKeys returns the keys of a string-keyed map in ascending order.
func sortedKeys[V any](in map[string]V) []string {
	out := make([]string, 0, len(in))
	for k := range in {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
