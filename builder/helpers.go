// SPDX-License-Identifier: MIT
// Package: lvflux/builder
//
// helpers.go - shared mutation helpers for constructors.

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvflux/core"
)

// ensureMetabolites adds the metabolites with indices 0..n-1 that are not yet
// in m and returns their IDs in index order.
// Complexity: O(n).
func ensureMetabolites(m *core.Model, cfg builderConfig, method string, n int) ([]string, error) {
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		id, err := ensureMetabolite(m, cfg, method, i)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	return ids, nil
}

// ensureMetabolite adds metabolite index i unless present and returns its ID.
func ensureMetabolite(m *core.Model, cfg builderConfig, method string, i int) (string, error) {
	id := cfg.metID(i)
	if m.HasMetabolite(id) {
		return id, nil
	}
	err := m.AddMetabolite(core.Metabolite{ID: id, Name: cfg.idFn(i), Compartment: cfg.compartment})
	if err != nil {
		return "", fmt.Errorf("%s: AddMetabolite(%s): %w: %w", method, id, ErrConstructFailed, err)
	}

	return id, nil
}

// addReaction inserts r, wrapping model errors with the method context.
func addReaction(m *core.Model, method string, r core.Reaction) error {
	if err := m.AddReaction(r); err != nil {
		return fmt.Errorf("%s: AddReaction(%s): %w: %w", method, r.ID, ErrConstructFailed, err)
	}

	return nil
}

// addUptake attaches an exchange on metID bounded by the configured uptake.
func addUptake(m *core.Model, cfg builderConfig, method, metID string) error {
	_, err := m.AddBoundary(metID, core.Exchange, core.WithBoundaryBounds(-cfg.uptake, cfg.bound))
	if err != nil {
		return fmt.Errorf("%s: AddBoundary(%s): %w: %w", method, metID, ErrConstructFailed, err)
	}

	return nil
}

// productCoef draws a positive product coefficient.
func productCoef(cfg builderConfig, method string) (float64, error) {
	c := cfg.coefFn(cfg.rng)
	if !(c > 0) {
		return 0, fmt.Errorf("%s: coefficient %g is not positive: %w", method, c, ErrConstructFailed)
	}

	return c, nil
}
