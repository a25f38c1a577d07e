// SPDX-License-Identifier: MIT

package fba

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/optim"
)

// Solution is the outcome of a flux balance analysis.
type Solution struct {
	Status         optim.Status
	ObjectiveValue float64
	Fluxes         map[string]float64
	Backend        string
}

// Flux returns the flux of reaction id (0 if absent).
func (s *Solution) Flux(id string) float64 { return s.Fluxes[id] }

// Optimize runs plain flux balance analysis on m:
//
//	optimise   Σ c_r v_r        (model direction)
//	subject to S·v = 0,  lb ≤ v ≤ ub
//
// An empty objective yields a feasibility check. Infeasible or unbounded
// models are reported through Solution.Status.
func Optimize(ctx context.Context, m *core.Model, opts ...Option) (*Solution, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}

	fp, err := newFluxProblem(m, "fba_"+m.ID())
	if err != nil {
		return nil, err
	}
	if err := fp.addMassBalance(nil); err != nil {
		return nil, err
	}
	if err := fp.p.SetObjective(sense(m.Direction()), fp.modelObjective(m), nil); err != nil {
		return nil, err
	}

	sol, err := o.Solver.Solve(ctx, fp.p)
	if err != nil {
		return nil, fmt.Errorf("optimize %s: %w", m.ID(), err)
	}
	o.Logger.Debug("fba solved",
		zap.String("model", m.ID()),
		zap.Stringer("status", sol.Status),
		zap.Float64("objective", sol.ObjectiveValue),
	)

	return &Solution{
		Status:         sol.Status,
		ObjectiveValue: sol.ObjectiveValue,
		Fluxes:         fp.fluxes(sol),
		Backend:        sol.Backend,
	}, nil
}
