// SPDX-License-Identifier: MIT
// Package: lvflux/builder
//
// impl_leak.go - implementation of Leak(i, j) constructor.
//
// Contract:
//   - i, j ≥ 0 and i ≠ j (else ErrTooFewMetabolites).
//   - LK<i>_<j>: m(i) → 2 m(j) and LR<i>_<j>: m(j) → m(i), both irreversible.
//
// Running both at flux v leaves a net v units of m(j) with no input, so m(j)
// leaks in any closed network containing the pair.

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvflux/core"
)

const methodLeak = "Leak"

// Leak returns a Constructor that adds an unbalanced reaction pair producing
// metabolite j from nothing.
func Leak(i, j int) Constructor {
	return func(m *core.Model, cfg builderConfig) error {
		if i < 0 || j < 0 || i == j {
			return fmt.Errorf("%s: need distinct non-negative indices, got %d and %d: %w", methodLeak, i, j, ErrTooFewMetabolites)
		}
		src, err := ensureMetabolite(m, cfg, methodLeak, i)
		if err != nil {
			return err
		}
		dst, err := ensureMetabolite(m, cfg, methodLeak, j)
		if err != nil {
			return err
		}
		forward := core.Reaction{
			ID:            fmt.Sprintf("LK%d_%d", i, j),
			Stoichiometry: map[string]float64{src: -1, dst: 2},
			UpperBound:    cfg.bound,
		}
		if err = addReaction(m, methodLeak, forward); err != nil {
			return err
		}

		return addReaction(m, methodLeak, core.Reaction{
			ID:            fmt.Sprintf("LR%d_%d", i, j),
			Stoichiometry: map[string]float64{dst: -1, src: 1},
			UpperBound:    cfg.bound,
		})
	}
}
