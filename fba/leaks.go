// SPDX-License-Identifier: MIT
//
// File: leaks.go
// Role: Leak detection on the closed network.
//
// With every boundary reaction removed, a consistent network cannot create
// mass. Each metabolite gets a slack y_m ≥ 0 ("aux_<met>") that drains it:
//
//	maximise   Σ y_m
//	subject to S_int · v − y = 0,  lb ≤ v ≤ ub,  y ≥ 0
//
// Σ y is the L1 surrogate of the number of leaking metabolites. Metabolites
// with y_m above the cutoff leak.

package fba

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/matrix"
	"github.com/katalvlaran/lvflux/optim"
)

// auxPrefix prefixes the per-metabolite drain variables.
const auxPrefix = "aux_"

// Leak is a metabolite the closed network can produce from nothing.
type Leak struct {
	Metabolite string
	// Flux is the drain y_m found by the leak search.
	Flux float64
}

// leakProblem is the closed network with one drain per metabolite.
type leakProblem struct {
	*fluxProblem
	aux map[string]*optim.Variable
}

// newLeakProblem builds S_int·v − y = 0 without an objective.
func newLeakProblem(m *core.Model, name string) (*leakProblem, error) {
	fp, err := newFluxProblem(m, name, matrix.WithoutBoundary())
	if err != nil {
		return nil, err
	}
	lp := &leakProblem{fluxProblem: fp, aux: make(map[string]*optim.Variable, len(fp.mets))}
	for _, met := range fp.mets {
		v, err := fp.p.AddVariable(auxPrefix+met, 0, optim.Inf)
		if err != nil {
			return nil, fmt.Errorf("drain %q: %w", met, err)
		}
		lp.aux[met] = v
	}
	if err := fp.addMassBalance(func(met string) optim.Expr {
		return optim.Expr{lp.aux[met]: -1}
	}); err != nil {
		return nil, err
	}
	return lp, nil
}

// FindLeaks returns the metabolites the network produces without any
// boundary reaction, sorted by ID.
//
// Errors: ErrNilModel, ErrCutoffBelowTolerance, ErrNotOptimal (wrapping the
// status), option violations and solver errors.
func FindLeaks(ctx context.Context, m *core.Model, opts ...Option) ([]Leak, error) {
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
	cutoff = solverCutoff(cutoff, o.Solver)

	lp, err := newLeakProblem(m, "leaks_"+m.ID())
	if err != nil {
		return nil, err
	}
	obj := optim.Expr{}
	for _, v := range lp.aux {
		obj.Add(v, 1)
	}
	if err := lp.p.SetObjective(optim.Maximize, obj, nil); err != nil {
		return nil, err
	}

	sol, err := o.Solver.Solve(ctx, lp.p)
	if err != nil {
		return nil, fmt.Errorf("find leaks %s: %w", m.ID(), err)
	}
	if !sol.Optimal() {
		return nil, fmt.Errorf("%w: find leaks %s: %s", ErrNotOptimal, m.ID(), sol.Status)
	}

	var out []Leak
	for met, v := range lp.aux {
		if y := sol.Value(v.Name()); y > cutoff {
			out = append(out, Leak{Metabolite: met, Flux: y})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metabolite < out[j].Metabolite })
	o.Logger.Info("leak search done",
		zap.String("model", m.ID()),
		zap.Int("leaks", len(out)),
		zap.Float64("total_drain", sol.ObjectiveValue),
	)

	return out, nil
}
