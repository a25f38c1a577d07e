// SPDX-License-Identifier: MIT

package fba

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/optim"
)

// NormalizeCutoff resolves the zero cutoff used to decide whether a flux or
// objective value counts as zero.
//
// A cutoff ≤ 0 means "unset" and resolves to the model tolerance. A cutoff
// below the tolerance cannot be honoured by the solver and is rejected with
// ErrCutoffBelowTolerance.
func NormalizeCutoff(m *core.Model, cutoff float64) (float64, error) {
	if m == nil {
		return 0, ErrNilModel
	}
	tol := m.Tolerance()
	if cutoff <= 0 {
		return tol, nil
	}
	if cutoff < tol {
		return 0, fmt.Errorf("%w: %g < %g", ErrCutoffBelowTolerance, cutoff, tol)
	}
	return cutoff, nil
}

// solverCutoff raises cutoff to the accuracy of s, so residual noise of an
// approximate backend is not read as flux.
func solverCutoff(cutoff float64, s optim.Solver) float64 {
	return math.Max(cutoff, optim.Accuracy(s))
}
