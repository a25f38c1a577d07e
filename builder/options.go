// SPDX-License-Identifier: MIT
// Package: lvflux/builder
//
// options.go - functional options for the builder package.
//
// Contract:
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves never panic.
//   • Seeding is explicit: WithSeed or WithRand.

package builder

import (
	"math"
	"math/rand"
)

// BuilderOption customises a builderConfig before construction begins.
type BuilderOption func(*builderConfig)

// WithIDScheme sets the metabolite base-ID generator: idx -> string.
// Panics on nil.
func WithIDScheme(fn func(int) string) BuilderOption {
	if fn == nil {
		panic("builder: WithIDScheme(nil)")
	}
	return func(c *builderConfig) {
		c.idFn = fn
	}
}

// WithCompartment sets the compartment of generated metabolites.
// Panics on an empty code.
func WithCompartment(code string) BuilderOption {
	if code == "" {
		panic("builder: WithCompartment(\"\")")
	}
	return func(c *builderConfig) {
		c.compartment = code
	}
}

// WithRand provides an explicit RNG for stochastic builders. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithBound sets the flux capacity of generated reactions.
// Panics unless 0 < b < +Inf.
func WithBound(b float64) BuilderOption {
	if !(b > 0) || math.IsInf(b, 1) {
		panic("builder: WithBound requires a finite positive bound")
	}
	return func(c *builderConfig) {
		c.bound = b
	}
}

// WithUptake sets the maximum uptake through generated exchanges.
// Panics on a negative or non-finite value.
func WithUptake(u float64) BuilderOption {
	if u < 0 || math.IsNaN(u) || math.IsInf(u, 0) {
		panic("builder: WithUptake requires a finite non-negative value")
	}
	return func(c *builderConfig) {
		c.uptake = u
	}
}

// WithCoefficientFn overrides the product-side coefficient generator. The
// function receives the (possibly nil) RNG and must return a positive value.
// Panics on nil.
func WithCoefficientFn(fn func(*rand.Rand) float64) BuilderOption {
	if fn == nil {
		panic("builder: WithCoefficientFn(nil)")
	}
	return func(c *builderConfig) {
		c.coefFn = fn
	}
}
