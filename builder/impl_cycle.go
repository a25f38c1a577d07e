// SPDX-License-Identifier: MIT
// Package: lvflux/builder
//
// impl_cycle.go - implementation of Cycle(n) constructor.
//
// Contract:
//   - n ≥ 2 (else ErrTooFewMetabolites).
//   - Reactions CY<i>: m(i) → m((i+1) mod n), irreversible, in increasing i.
//   - No boundary reactions: the loop carries flux but produces nothing.
//
// Complexity: O(n).

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvflux/core"
)

const (
	methodCycle   = "Cycle"
	minCycleNodes = 2
)

// Cycle returns a Constructor that builds a closed internal loop.
func Cycle(n int) Constructor {
	return func(m *core.Model, cfg builderConfig) error {
		if n < minCycleNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodCycle, n, minCycleNodes, ErrTooFewMetabolites)
		}
		ids, err := ensureMetabolites(m, cfg, methodCycle, n)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			r := core.Reaction{
				ID:            fmt.Sprintf("CY%d", i),
				Stoichiometry: map[string]float64{ids[i]: -1, ids[(i+1)%n]: 1},
				UpperBound:    cfg.bound,
			}
			if err = addReaction(m, methodCycle, r); err != nil {
				return err
			}
		}

		return nil
	}
}
