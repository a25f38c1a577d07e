// File: methods_clone.go
// Role: Cloning models.
// Concurrency:
//   - Read lock for snapshotting; the source model is never mutated.

package core

// Clone returns a deep copy of the model: configuration, metabolites,
// reactions (including stoichiometry maps) and the reaction index.
//
// Analyses clone before mutating so the caller's model is never changed and
// so that each worker goroutine owns an independent copy.
//
// Complexity: O(M + R + nnz).
func (m *Model) Clone() *Model {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clone := NewModel(m.id, WithName(m.name), WithTolerance(m.tolerance), WithDirection(m.direction))
	for id, met := range m.metabolites {
		cp := *met
		clone.metabolites[id] = &cp
		clone.metaboliteRxns[id] = make(map[string]struct{}, len(m.metaboliteRxns[id]))
	}
	for id, r := range m.reactions {
		cp := r.clone()
		clone.reactions[id] = &cp
		for mid := range cp.Stoichiometry {
			clone.metaboliteRxns[mid][id] = struct{}{}
		}
	}

	return clone
}
