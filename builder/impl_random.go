// SPDX-License-Identifier: MIT
// Package: lvflux/builder
//
// impl_random.go - implementation of RandomNetwork(n, r, p) constructor.
//
// Contract:
//   - n ≥ 2 metabolites and r ≥ 1 reactions (else ErrTooFewMetabolites).
//   - 0 ≤ p ≤ 1 (else ErrInvalidProbability); p is the reversibility odds.
//   - cfg.rng must be non-nil (else ErrNeedRandSource).
//   - Reaction RN<k> converts one random metabolite into a distinct one with
//     a coefficient from cfg.coefFn.
//
// Determinism:
//   - Trials run in k order and draw substrate, product, coefficient and
//     reversibility in that order, so a fixed seed fixes the model.
//
// Complexity: O(n + r).

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvflux/core"
)

const (
	methodRandomNetwork = "RandomNetwork"
	minRandomMets       = 2
	minRandomReactions  = 1
	probMin             = 0.0
	probMax             = 1.0
)

// RandomNetwork returns a Constructor that samples r single-substrate,
// single-product reactions over n metabolites.
func RandomNetwork(n, r int, p float64) Constructor {
	return func(m *core.Model, cfg builderConfig) error {
		if n < minRandomMets {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodRandomNetwork, n, minRandomMets, ErrTooFewMetabolites)
		}
		if r < minRandomReactions {
			return fmt.Errorf("%s: r=%d < min=%d: %w", methodRandomNetwork, r, minRandomReactions, ErrTooFewMetabolites)
		}
		if !(p >= probMin && p <= probMax) {
			return fmt.Errorf("%s: p=%.6f not in [%.1f,%.1f]: %w", methodRandomNetwork, p, probMin, probMax, ErrInvalidProbability)
		}
		if cfg.rng == nil {
			return fmt.Errorf("%s: %w", methodRandomNetwork, ErrNeedRandSource)
		}

		ids, err := ensureMetabolites(m, cfg, methodRandomNetwork, n)
		if err != nil {
			return err
		}
		for k := 0; k < r; k++ {
			s := cfg.rng.Intn(n)
			t := cfg.rng.Intn(n - 1)
			if t >= s {
				t++
			}
			c, err := productCoef(cfg, methodRandomNetwork)
			if err != nil {
				return err
			}
			rxn := core.Reaction{
				ID:            fmt.Sprintf("RN%d", k),
				Stoichiometry: map[string]float64{ids[s]: -1, ids[t]: c},
				UpperBound:    cfg.bound,
			}
			if cfg.rng.Float64() < p {
				rxn.LowerBound = -cfg.bound
			}
			if err = addReaction(m, methodRandomNetwork, rxn); err != nil {
				return err
			}
		}

		return nil
	}
}
