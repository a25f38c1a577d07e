// SPDX-License-Identifier: MIT
//
// File: leakmode.go
// Role: Minimal flux explanation of each leak.
//
// For a leak ℓ, the drain is forced to at least one unit (y_ℓ ≥ 1) and the
// smallest flux distribution producing it is searched for:
//   - NormL2: minimise Σ v² (quadratic program, QPSolver).
//   - NormL1: minimise Σ t with t ≥ v and t ≥ −v (linear program, Solver).
//
// Reactions with |v| ≥ CutoffMult · cutoff form the leak mode. The threshold
// never drops below the accuracy of the backend that solved the mode.
//
// Concurrency:
//   - Leaks are explained in parallel (bounded by Workers); each solve works
//     on its own clone of the shared base problem.

package fba

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/optim"
)

// absPrefix prefixes the |v| auxiliaries of the L1 formulation.
const absPrefix = "abs_"

// ReactionFlux is one reaction of a leak mode.
type ReactionFlux struct {
	ID   string
	Flux float64
}

// LeakMode explains one leak.
type LeakMode struct {
	Metabolite string
	Status     optim.Status
	// Objective is the minimised norm (Σv² or Σ|v|).
	Objective float64
	// Reactions lists the reactions above the report threshold, by ID
	// (nil unless the solve was optimal).
	Reactions []ReactionFlux
}

// FindLeakModes explains every leak in leaks (typically the output of
// FindLeaks). Results follow the order of leaks.
//
// Errors: ErrNilModel, ErrMetaboliteNotFound, ErrCutoffBelowTolerance,
// option violations, solver errors and ctx errors. Non-optimal solves are
// reported through LeakMode.Status.
func FindLeakModes(ctx context.Context, m *core.Model, leaks []string, opts ...Option) ([]LeakMode, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}
	cutoff, err := NormalizeCutoff(m, o.Cutoff)
	if err != nil {
		return nil, err
	}
	for _, id := range leaks {
		if !m.HasMetabolite(id) {
			return nil, fmt.Errorf("%w: %q", ErrMetaboliteNotFound, id)
		}
	}
	if len(leaks) == 0 {
		return nil, nil
	}

	base, solver, err := leakModeBase(m, o.Norm, &o)
	if err != nil {
		return nil, err
	}
	threshold := solverCutoff(o.CutoffMult*cutoff, solver)

	workers := o.Workers
	if workers > len(leaks) {
		workers = len(leaks)
	}
	start := time.Now()
	log := o.Logger.With(zap.String("model", m.ID()), zap.Stringer("norm", o.Norm))
	log.Info("explaining leaks", zap.Int("leaks", len(leaks)), zap.Int("workers", workers))

	out := make([]LeakMode, len(leaks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, met := range leaks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := base.p.Clone()
			y, err := p.Variable(auxPrefix + met)
			if err != nil {
				return err
			}
			if err := y.SetLower(1); err != nil {
				return err
			}
			sol, err := solver.Solve(gctx, p)
			if err != nil {
				return fmt.Errorf("leak mode %q: %w", met, err)
			}

			res := LeakMode{Metabolite: met, Status: sol.Status}
			if sol.Optimal() {
				res.Objective = sol.ObjectiveValue
				for _, rid := range base.rxns {
					if v := sol.Value(rid); math.Abs(v) >= threshold {
						res.Reactions = append(res.Reactions, ReactionFlux{ID: rid, Flux: v})
					}
				}
			}
			out[i] = res
			log.Debug("leak explained",
				zap.String("metabolite", met),
				zap.Stringer("status", sol.Status),
				zap.Int("reactions", len(res.Reactions)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("leak modes done", zap.Duration("elapsed", time.Since(start)))

	return out, nil
}

// leakModeBase builds the shared closed-network problem with the norm
// objective and returns the backend that can solve it.
func leakModeBase(m *core.Model, norm Norm, o *Options) (*leakProblem, optim.Solver, error) {
	lp, err := newLeakProblem(m, "leak_modes_"+m.ID())
	if err != nil {
		return nil, nil, err
	}

	if norm == NormL2 {
		quad := optim.Expr{}
		for _, rid := range lp.rxns {
			quad.Add(lp.flux[rid], 1)
		}
		if err := lp.p.SetObjective(optim.Minimize, nil, quad); err != nil {
			return nil, nil, err
		}
		return lp, o.QPSolver, nil
	}

	lin := optim.Expr{}
	for _, rid := range lp.rxns {
		v := lp.flux[rid]
		t, err := lp.p.AddVariable(absPrefix+rid, 0, optim.Inf)
		if err != nil {
			return nil, nil, fmt.Errorf("reaction %q: %w", rid, err)
		}
		if _, err := lp.p.AddConstraint(absPrefix+"pos_"+rid, optim.Expr{t: 1, v: -1}, 0, optim.Inf); err != nil {
			return nil, nil, err
		}
		if _, err := lp.p.AddConstraint(absPrefix+"neg_"+rid, optim.Expr{t: 1, v: 1}, 0, optim.Inf); err != nil {
			return nil, nil, err
		}
		lin.Add(t, 1)
	}
	if err := lp.p.SetObjective(optim.Minimize, lin, nil); err != nil {
		return nil, nil, err
	}
	return lp, o.Solver, nil
}
