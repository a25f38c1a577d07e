// SPDX-License-Identifier: MIT
// Package: lvflux/builder
//
// impl_star.go - implementation of Star(k) and Exchange(i) constructors.
//
// Star contract:
//   - k ≥ 1 (else ErrTooFewMetabolites).
//   - Hub is metabolite 0 with exchange EX_<hub>; leaves are 1..k.
//   - Reactions ST<i>: hub → coef·leaf(i), irreversible. Leaves have no
//     consumer, so each is a single-reaction metabolite.
//
// Exchange contract:
//   - i ≥ 0; adds metabolite i if missing and EX_<m(i)> in [-uptake, bound].

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvflux/core"
)

const (
	methodStar     = "Star"
	methodExchange = "Exchange"
	minStarLeaves  = 1
)

// Star returns a Constructor that fans a fed hub out into k leaves.
func Star(k int) Constructor {
	return func(m *core.Model, cfg builderConfig) error {
		if k < minStarLeaves {
			return fmt.Errorf("%s: k=%d < min=%d: %w", methodStar, k, minStarLeaves, ErrTooFewMetabolites)
		}
		ids, err := ensureMetabolites(m, cfg, methodStar, k+1)
		if err != nil {
			return err
		}
		if err = addUptake(m, cfg, methodStar, ids[0]); err != nil {
			return err
		}
		for i := 1; i <= k; i++ {
			c, err := productCoef(cfg, methodStar)
			if err != nil {
				return err
			}
			r := core.Reaction{
				ID:            fmt.Sprintf("ST%d", i),
				Stoichiometry: map[string]float64{ids[0]: -1, ids[i]: c},
				UpperBound:    cfg.bound,
			}
			if err = addReaction(m, methodStar, r); err != nil {
				return err
			}
		}

		return nil
	}
}

// Exchange returns a Constructor that opens metabolite i to the environment.
func Exchange(i int) Constructor {
	return func(m *core.Model, cfg builderConfig) error {
		if i < 0 {
			return fmt.Errorf("%s: i=%d < 0: %w", methodExchange, i, ErrTooFewMetabolites)
		}
		id, err := ensureMetabolite(m, cfg, methodExchange, i)
		if err != nil {
			return err
		}

		return addUptake(m, cfg, methodExchange, id)
	}
}
