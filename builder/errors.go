// SPDX-License-Identifier: MIT
// Package: lvflux/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Implementations attach context with %w.
//   • Validation order: size, then probability, then RNG presence, then
//     construction failures.

package builder

import "errors"

// ErrTooFewMetabolites indicates that a size parameter is below the minimum
// of the requested constructor.
var ErrTooFewMetabolites = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates a probability outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates that a stochastic constructor ran without an
// RNG (set WithSeed or WithRand).
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates that a constructor could not complete, either
// because the model rejected a mutation or a nil constructor was supplied.
var ErrConstructFailed = errors.New("builder: construction failed")
