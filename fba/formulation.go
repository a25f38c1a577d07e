// SPDX-License-Identifier: MIT
//
// File: formulation.go
// Role: Shared translation of a core.Model into optim variables and
//       steady-state mass-balance rows.
//
// Layout:
//   - One variable per selected reaction, named by reaction ID, with the
//     reaction's [lower, upper] flux bounds (net flux, sign = direction).
//   - One equality row per metabolite, named by metabolite ID:
//     Σ_r S[met][r]·v_r + extra(met) = 0. Rows that end up empty are skipped.

package fba

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/matrix"
	"github.com/katalvlaran/lvflux/optim"
)

// fluxProblem couples an optim.Problem with the reaction variables it owns.
type fluxProblem struct {
	p    *optim.Problem
	st   *matrix.Stoichiometric // nil when no reaction was selected
	mets []string
	rxns []string
	flux map[string]*optim.Variable
}

// newFluxProblem creates the flux variables of the reactions selected by mopts.
// Mass balance is added separately so callers can register auxiliary
// variables first.
func newFluxProblem(m *core.Model, name string, mopts ...matrix.Option) (*fluxProblem, error) {
	st, err := matrix.NewStoichiometric(m, mopts...)
	switch {
	case errors.Is(err, matrix.ErrEmpty):
		st = nil
	case err != nil:
		return nil, err
	}

	fp := &fluxProblem{
		p:    optim.NewProblem(name),
		st:   st,
		mets: m.MetaboliteIDs(),
		flux: make(map[string]*optim.Variable),
	}
	if st == nil {
		return fp, nil
	}
	for j, id := range st.Reactions {
		v, err := fp.p.AddVariable(id, st.Bounds[j][0], st.Bounds[j][1])
		if err != nil {
			return nil, fmt.Errorf("reaction %q: %w", id, err)
		}
		fp.flux[id] = v
		fp.rxns = append(fp.rxns, id)
	}

	return fp, nil
}

// addMassBalance adds S·v + extra = 0 for every metabolite. extra may be nil.
func (fp *fluxProblem) addMassBalance(extra func(metID string) optim.Expr) error {
	for i, met := range fp.mets {
		expr := optim.Expr{}
		if fp.st != nil {
			nz, err := fp.st.Nonzeros(i)
			if err != nil {
				return err
			}
			for _, j := range nz {
				expr.Add(fp.flux[fp.st.Reactions[j]], fp.st.Mat.At(i, j))
			}
		}
		if extra != nil {
			for v, c := range extra(met) {
				expr.Add(v, c)
			}
		}
		if len(expr) == 0 {
			continue
		}
		if _, err := fp.p.AddConstraint(met, expr, 0, 0); err != nil {
			return fmt.Errorf("mass balance %q: %w", met, err)
		}
	}
	return nil
}

// modelObjective converts the model's objective coefficients into an Expr.
func (fp *fluxProblem) modelObjective(m *core.Model) optim.Expr {
	obj := optim.Expr{}
	for id, c := range m.Objective() {
		if v, ok := fp.flux[id]; ok {
			obj.Add(v, c)
		}
	}
	return obj
}

// fluxes extracts the reaction fluxes of a solution.
func (fp *fluxProblem) fluxes(sol *optim.Solution) map[string]float64 {
	out := make(map[string]float64, len(fp.rxns))
	for _, id := range fp.rxns {
		out[id] = sol.Value(id)
	}
	return out
}

// sense maps the model direction onto the optimisation sense.
func sense(d core.Direction) optim.Sense {
	if d == core.Minimize {
		return optim.Minimize
	}
	return optim.Maximize
}
