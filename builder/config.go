// SPDX-License-Identifier: MIT
// Package: lvflux/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • idFn        = letterID           ("m0","m1",...)
//   • compartment = "c"
//   • rng         = nil                (pure unless seeded)
//   • bound       = core.DefaultBound  (1000)
//   • uptake      = 10
//   • coefFn      = constant 1

package builder

import (
	"math/rand"
	"strconv"

	"github.com/katalvlaran/lvflux/core"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	// Metabolite ID strategy: index -> base ID, suffixed with the compartment.
	idFn        func(int) string
	compartment string
	// RNG for stochastic choices; nil means no randomness.
	rng *rand.Rand
	// Flux capacity of generated reactions.
	bound float64
	// Maximum uptake through generated exchange reactions.
	uptake float64
	// Stoichiometric coefficient generator for product sides.
	coefFn func(*rand.Rand) float64
}

const (
	defaultCompartment = "c"
	defaultUptake      = 10.0
	defaultCoefficient = 1.0
	biomassPrefix      = "BIOMASS_"
)

// newBuilderConfig constructs a config with deterministic defaults and applies
// all options in order; the last option wins.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		idFn:        letterID,
		compartment: defaultCompartment,
		bound:       core.DefaultBound,
		uptake:      defaultUptake,
		coefFn:      func(*rand.Rand) float64 { return defaultCoefficient },
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// metID renders metabolite index i as "<base>_<compartment>".
func (c builderConfig) metID(i int) string {
	return c.idFn(i) + "_" + c.compartment
}

// letterID renders an index as "m<i>".
func letterID(i int) string {
	return "m" + strconv.Itoa(i)
}
