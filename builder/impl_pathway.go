// SPDX-License-Identifier: MIT
// Package: lvflux/builder
//
// impl_pathway.go - implementation of Pathway(n) constructor.
//
// Contract:
//   - n ≥ 2 (else ErrTooFewMetabolites).
//   - Metabolites 0..n-1; exchange EX_<m0> in [-uptake, bound].
//   - Reactions PW<i>: m(i-1) → coef·m(i), irreversible, for i=1..n-1.
//   - BIOMASS_<model id>: m(n-1) → , objective coefficient 1.
//
// With the default unit coefficients the optimal biomass flux equals the
// configured uptake.
//
// Complexity: O(n).

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvflux/core"
)

const (
	methodPathway   = "Pathway"
	minPathwayNodes = 2
)

// Pathway returns a Constructor that builds a linear pathway from an uptake
// to a biomass drain.
func Pathway(n int) Constructor {
	return func(m *core.Model, cfg builderConfig) error {
		if n < minPathwayNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodPathway, n, minPathwayNodes, ErrTooFewMetabolites)
		}
		ids, err := ensureMetabolites(m, cfg, methodPathway, n)
		if err != nil {
			return err
		}
		if err = addUptake(m, cfg, methodPathway, ids[0]); err != nil {
			return err
		}

		for i := 1; i < n; i++ {
			c, err := productCoef(cfg, methodPathway)
			if err != nil {
				return err
			}
			r := core.Reaction{
				ID:            fmt.Sprintf("PW%d", i),
				Stoichiometry: map[string]float64{ids[i-1]: -1, ids[i]: c},
				UpperBound:    cfg.bound,
			}
			if err = addReaction(m, methodPathway, r); err != nil {
				return err
			}
		}

		return addReaction(m, methodPathway, core.Reaction{
			ID:                   BiomassID(m.ID()),
			Stoichiometry:        map[string]float64{ids[n-1]: -1},
			UpperBound:           cfg.bound,
			ObjectiveCoefficient: 1,
		})
	}
}
