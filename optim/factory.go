// SPDX-License-Identifier: MIT

package optim

import (
	"fmt"
	"strings"
)

// Backend names accepted by NewSolver.
const (
	BackendSimplex = "simplex"
	BackendADMM    = "admm"
)

// NewSolver returns a default-configured backend by name (case-insensitive).
// When m is non-nil the backend is wrapped with Instrument.
func NewSolver(backend string, m *Metrics) (Solver, error) {
	var s Solver
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendSimplex, "":
		s = NewSimplexSolver()
	case BackendADMM:
		s = NewADMMSolver()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	return Instrument(s, m), nil
}
