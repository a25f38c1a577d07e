// SPDX-License-Identifier: MIT
//
// File: blocked.go
// Role: Blocked-metabolite screening.
//
// A metabolite is tested by attaching a sink SK_<met> and optimising it:
//   - CanProduce: sink bounds [0, 1000], maximise the sink flux.
//   - CanConsume: sink bounds [-1000, 0], minimise the sink flux (i.e. push
//     as much of the metabolite into the network as possible).
//
// |objective| < cutoff → Blocked. Otherwise, when a carbon source is set, the
// uptake flux EX_<carbon> decides between Available (|flux| > cutoff) and
// ProducedFromNothing. Without a carbon source every non-blocked metabolite is
// Available. Tests whose solve is not optimal are Unsolved, and so are
// screened tests whose backend breaks down numerically.
//
// Concurrency:
//   - FindBlockedMets runs tests on a bounded errgroup; each in-flight test
//     owns a private model clone taken from a pool of Workers clones, so the
//     caller's model is never mutated.
//
// Determinism:
//   - Result slices follow the demand order regardless of completion order.

package fba

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/optim"
)

// Outcome classifies a metabolite test.
type Outcome int

const (
	// Blocked: the sink cannot carry flux above the cutoff.
	Blocked Outcome = iota
	// Available: the sink carries flux and the carbon source is taken up.
	Available
	// ProducedFromNothing: the sink carries flux without carbon uptake.
	ProducedFromNothing
	// Unsolved: the optimisation did not reach optimality.
	Unsolved
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Available:
		return "available"
	case ProducedFromNothing:
		return "produced_from_nothing"
	case Unsolved:
		return "unsolved"
	default:
		return "blocked"
	}
}

// MetaboliteTest is the result of testing one metabolite.
type MetaboliteTest struct {
	Metabolite string
	Outcome    Outcome
	Status     optim.Status
	// Objective is the optimal sink flux.
	Objective float64
	// CarbonFlux is the flux through EX_<carbon source> (0 without one).
	CarbonFlux float64
}

// BlockedResult groups metabolite tests by outcome.
type BlockedResult struct {
	Blocked             []string
	Available           []MetaboliteTest
	ProducedFromNothing []MetaboliteTest
	Unsolved            []MetaboliteTest
	// Tests holds every test in demand order.
	Tests []MetaboliteTest
}

// IsBlocked reports whether id was classified Blocked.
func (r *BlockedResult) IsBlocked(id string) bool {
	for _, b := range r.Blocked {
		if b == id {
			return true
		}
	}
	return false
}

// sinkWindow returns the sink bounds of a test mode.
func sinkWindow(mode Mode) (lower, upper float64) {
	if mode == CanConsume {
		return -core.DefaultBound, 0
	}
	return 0, core.DefaultBound
}

// carbonReaction returns EX_<carbon> or "" when no carbon source is set.
func carbonReaction(m *core.Model, carbon string) (string, error) {
	if carbon == "" {
		return "", nil
	}
	id := core.BoundaryID(core.Exchange, carbon)
	if !m.HasReaction(id) {
		return "", fmt.Errorf("%w: %q", ErrCarbonSourceNotFound, id)
	}
	return id, nil
}

// CheckMetabolite tests a single metabolite on a private copy of m.
// It returns the classification and the underlying flux solution.
//
// Errors: ErrNilModel, ErrMetaboliteNotFound, ErrCarbonSourceNotFound,
// ErrCutoffBelowTolerance, option violations and solver errors.
func CheckMetabolite(ctx context.Context, m *core.Model, metID string, opts ...Option) (MetaboliteTest, *Solution, error) {
	if m == nil {
		return MetaboliteTest{}, nil, ErrNilModel
	}
	o, err := gatherOptions(opts...)
	if err != nil {
		return MetaboliteTest{}, nil, err
	}
	cutoff, err := NormalizeCutoff(m, o.Cutoff)
	if err != nil {
		return MetaboliteTest{}, nil, err
	}
	if !m.HasMetabolite(metID) {
		return MetaboliteTest{}, nil, fmt.Errorf("%w: %q", ErrMetaboliteNotFound, metID)
	}
	carbon, err := carbonReaction(m, o.CarbonSource)
	if err != nil {
		return MetaboliteTest{}, nil, err
	}

	return checkOn(ctx, m.Clone(), metID, carbon, solverCutoff(cutoff, o.Solver), &o)
}

// checkOn tests metID on work and restores work before returning.
//
// Stage 1: attach (or re-bound) the sink SK_<met>.
// Stage 2: build S·v = 0 with the sink as the sole objective and solve.
// Stage 3: classify using the cutoff and the carbon uptake flux.
func checkOn(ctx context.Context, work *core.Model, metID, carbon string, cutoff float64, o *Options) (MetaboliteTest, *Solution, error) {
	res := MetaboliteTest{Metabolite: metID}
	lb, ub := sinkWindow(o.Mode)

	// Stage 1
	sinkID := core.BoundaryID(core.Sink, metID)
	if existing, err := work.Reaction(sinkID); err == nil {
		if err := work.SetBounds(sinkID, lb, ub); err != nil {
			return res, nil, err
		}
		defer func() { _ = work.SetBounds(sinkID, existing.LowerBound, existing.UpperBound) }()
	} else {
		if _, err := work.AddBoundary(metID, core.Sink, core.WithBoundaryBounds(lb, ub)); err != nil {
			return res, nil, err
		}
		defer func() { _ = work.RemoveReaction(sinkID) }()
	}

	// Stage 2
	fp, err := newFluxProblem(work, "test_"+metID)
	if err != nil {
		return res, nil, err
	}
	if err := fp.addMassBalance(nil); err != nil {
		return res, nil, err
	}
	dir := optim.Maximize
	if o.Mode == CanConsume {
		dir = optim.Minimize
	}
	if err := fp.p.SetObjective(dir, optim.Expr{fp.flux[sinkID]: 1}, nil); err != nil {
		return res, nil, err
	}
	sol, err := o.Solver.Solve(ctx, fp.p)
	if err != nil {
		return res, nil, fmt.Errorf("test %q: %w", metID, err)
	}
	out := &Solution{Status: sol.Status, ObjectiveValue: sol.ObjectiveValue, Fluxes: fp.fluxes(sol), Backend: sol.Backend}

	// Stage 3
	res.Status = sol.Status
	if !sol.Optimal() {
		res.Outcome = Unsolved
		return res, out, nil
	}
	res.Objective = sol.ObjectiveValue
	if math.Abs(res.Objective) < cutoff {
		res.Outcome = Blocked
		return res, out, nil
	}
	if carbon == "" {
		res.Outcome = Available
		return res, out, nil
	}
	res.CarbonFlux = out.Flux(carbon)
	if math.Abs(res.CarbonFlux) <= cutoff {
		res.Outcome = ProducedFromNothing
	} else {
		res.Outcome = Available
	}

	return res, out, nil
}

// FindBlockedMets tests every demand (default: all metabolites) in the
// configured Mode.
//
// Implementation:
//   - Stage 1: resolve options, cutoff, carbon source and demands.
//   - Stage 2: fan out over an errgroup limited to Workers; each test borrows
//     a model clone from a pool and returns it afterwards.
//   - Stage 3: group results in demand order.
//
// A test failing with optim.ErrNumerical is reported as Unsolved instead of
// aborting the screen.
//
// Errors: ErrNilModel, ErrMetaboliteNotFound, ErrCarbonSourceNotFound,
// ErrCutoffBelowTolerance, option violations, solver errors, ctx errors.
func FindBlockedMets(ctx context.Context, m *core.Model, opts ...Option) (*BlockedResult, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}
	return findBlocked(ctx, m, &o)
}

// findBlocked is FindBlockedMets on resolved options.
func findBlocked(ctx context.Context, m *core.Model, o *Options) (*BlockedResult, error) {
	// Stage 1
	cutoff, err := NormalizeCutoff(m, o.Cutoff)
	if err != nil {
		return nil, err
	}
	cutoff = solverCutoff(cutoff, o.Solver)
	carbon, err := carbonReaction(m, o.CarbonSource)
	if err != nil {
		return nil, err
	}
	demands := o.Demands
	if len(demands) == 0 {
		demands = m.MetaboliteIDs()
	}
	for _, id := range demands {
		if !m.HasMetabolite(id) {
			return nil, fmt.Errorf("%w: %q", ErrMetaboliteNotFound, id)
		}
	}

	// Stage 2
	workers := o.Workers
	if workers > len(demands) {
		workers = len(demands)
	}
	if workers < 1 {
		workers = 1
	}
	start := time.Now()
	log := o.Logger.With(zap.String("model", m.ID()), zap.Stringer("mode", o.Mode))
	log.Info("screening metabolites", zap.Int("metabolites", len(demands)), zap.Int("workers", workers))

	pool := make(chan *core.Model, workers)
	for i := 0; i < workers; i++ {
		pool <- m.Clone()
	}
	tests := make([]MetaboliteTest, len(demands))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range demands {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			work := <-pool
			defer func() { pool <- work }()

			res, _, err := checkOn(gctx, work, id, carbon, cutoff, o)
			if errors.Is(err, optim.ErrNumerical) {
				log.Warn("metabolite test failed numerically", zap.String("metabolite", id), zap.Error(err))
				res, err = MetaboliteTest{Metabolite: id, Outcome: Unsolved}, nil
			}
			if err != nil {
				return err
			}
			tests[i] = res
			log.Debug("metabolite tested",
				zap.String("metabolite", id),
				zap.Stringer("outcome", res.Outcome),
				zap.Stringer("status", res.Status),
				zap.Float64("objective", res.Objective),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Stage 3
	out := &BlockedResult{Tests: tests}
	for _, t := range tests {
		switch t.Outcome {
		case Blocked:
			out.Blocked = append(out.Blocked, t.Metabolite)
		case Available:
			out.Available = append(out.Available, t)
		case ProducedFromNothing:
			out.ProducedFromNothing = append(out.ProducedFromNothing, t)
		case Unsolved:
			out.Unsolved = append(out.Unsolved, t)
		}
	}
	log.Info("screening done",
		zap.Int("blocked", len(out.Blocked)),
		zap.Int("available", len(out.Available)),
		zap.Int("produced_from_nothing", len(out.ProducedFromNothing)),
		zap.Int("unsolved", len(out.Unsolved)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return out, nil
}
