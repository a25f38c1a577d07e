// SPDX-License-Identifier: MIT
// Package fba: sentinel error set.
// Non-optimal solver outcomes of individual metabolite tests are data
// (Outcome Unsolved), not errors. Errors cover invalid input and analyses
// whose single optimisation must succeed to mean anything.

package fba

import "errors"

var (
	// ErrNilModel indicates a nil *core.Model.
	ErrNilModel = errors.New("fba: model is nil")

	// ErrCutoffBelowTolerance indicates a zero cutoff smaller than the model tolerance.
	ErrCutoffBelowTolerance = errors.New("fba: cutoff is below the model tolerance")

	// ErrOptionViolation indicates an invalid Option value.
	ErrOptionViolation = errors.New("fba: invalid option supplied")

	// ErrMetaboliteNotFound indicates a demand or leak metabolite missing from the model.
	ErrMetaboliteNotFound = errors.New("fba: metabolite not found")

	// ErrCarbonSourceNotFound indicates EX_<carbon source> is not a reaction of the model.
	ErrCarbonSourceNotFound = errors.New("fba: carbon source exchange not found")

	// ErrBiomassNotFound indicates a community member lacks its biomass reaction.
	ErrBiomassNotFound = errors.New("fba: biomass reaction not found")

	// ErrBadAbundance indicates a negative, NaN or all-zero abundance.
	ErrBadAbundance = errors.New("fba: invalid abundance")

	// ErrNoMembers indicates a community without members.
	ErrNoMembers = errors.New("fba: community has no members")

	// ErrDuplicateMember indicates two community members share a name.
	ErrDuplicateMember = errors.New("fba: duplicate community member")

	// ErrNotOptimal indicates an analysis whose optimisation did not reach optimality.
	ErrNotOptimal = errors.New("fba: solver did not reach optimality")
)
