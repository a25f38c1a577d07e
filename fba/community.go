// SPDX-License-Identifier: MIT
//
// File: community.go
// Role: Abundance-weighted community growth.
//
// Formulation (abundance a_k fixed per member k, common growth rate μ):
//
//	maximise   μ
//	subject to Σ_k a_k · S_k · v_k = 0          (one row per pooled metabolite)
//	           a_k · v_k[biomass] − a_k · μ = 0  (row growth_<member>)
//	           lb ≤ v_k ≤ ub,  μ ≥ 0
//
// Naming:
//   - Flux variables are "<member>__<reaction>"; μ is "growth_rate".
//   - Metabolites in the shared compartment form one row named by their ID;
//     every other metabolite gets a private row "<member>__<metabolite>".
//
// Members with zero abundance do not take part in the community.

package fba

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/optim"
)

// GrowthVariable names the common growth-rate variable.
const GrowthVariable = "growth_rate"

// memberSep joins member names with reaction and metabolite IDs.
const memberSep = "__"

// Member is one organism of a community.
type Member struct {
	// Name identifies the member; empty means Model.ID().
	Name  string
	Model *core.Model
	// Abundance is the relative abundance (≥ 0).
	Abundance float64
	// Biomass is the biomass reaction ID; empty means "BIOMASS_<Name>".
	Biomass string
}

// Aggregate is a built community growth problem.
type Aggregate struct {
	p         *optim.Problem
	solver    optim.Solver
	logger    *zap.Logger
	members   []string
	abundance map[string]float64
	// flux maps member → reaction ID → variable name.
	flux map[string]map[string]string
}

// CommunityGrowth is the solved community.
type CommunityGrowth struct {
	Status     optim.Status
	GrowthRate float64
	// Fluxes maps member → reaction ID → flux (nil unless optimal).
	Fluxes    map[string]map[string]float64
	Abundance map[string]float64
	Backend   string
}

// BuildAggregateModel wraps a single organism into the community formulation
// with a fixed positive abundance. All metabolites keep their own rows.
//
// Errors: ErrNilModel, ErrBadAbundance, ErrBiomassNotFound, option violations.
func BuildAggregateModel(m *core.Model, abundance float64, opts ...Option) (*Aggregate, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if !(abundance > 0) || math.IsInf(abundance, 0) {
		return nil, fmt.Errorf("%w: %g", ErrBadAbundance, abundance)
	}
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}
	members := []Member{{Name: m.ID(), Model: m, Abundance: abundance}}
	return buildAggregate("aggregate_"+m.ID(), members, func(string, core.Metabolite) string { return "" }, &o)
}

// BuildCommunity builds the community of members. Abundances are normalised to
// sum to one and metabolites in the shared compartment are pooled.
//
// Errors: ErrNoMembers, ErrNilModel, ErrDuplicateMember, ErrBadAbundance,
// ErrBiomassNotFound, option violations.
func BuildCommunity(members []Member, opts ...Option) (*Aggregate, error) {
	if len(members) == 0 {
		return nil, ErrNoMembers
	}
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, mb := range members {
		if math.IsNaN(mb.Abundance) || math.IsInf(mb.Abundance, 0) || mb.Abundance < 0 {
			return nil, fmt.Errorf("%w: member %q has abundance %g", ErrBadAbundance, mb.Name, mb.Abundance)
		}
		total += mb.Abundance
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: abundances sum to %g", ErrBadAbundance, total)
	}
	norm := make([]Member, len(members))
	for i, mb := range members {
		mb.Abundance /= total
		norm[i] = mb
	}

	shared := o.SharedCompartment
	scope := func(member string, met core.Metabolite) string {
		if met.Compartment == shared {
			return ""
		}
		return member
	}
	return buildAggregate("community", norm, scope, &o)
}

// buildAggregate assembles the problem. scope returns the row prefix of a
// metabolite for a member ("" for a pooled row).
func buildAggregate(name string, members []Member, scope func(member string, met core.Metabolite) string, o *Options) (*Aggregate, error) {
	agg := &Aggregate{
		p:         optim.NewProblem(name),
		solver:    o.Solver,
		logger:    o.Logger,
		abundance: make(map[string]float64, len(members)),
		flux:      make(map[string]map[string]string, len(members)),
	}
	mu, err := agg.p.AddVariable(GrowthVariable, 0, optim.Inf)
	if err != nil {
		return nil, err
	}

	// Validate names and biomass reactions before touching the problem.
	resolved := make([]Member, 0, len(members))
	for _, mb := range members {
		if mb.Model == nil {
			return nil, fmt.Errorf("%w: member %q", ErrNilModel, mb.Name)
		}
		if mb.Name == "" {
			mb.Name = mb.Model.ID()
		}
		if _, dup := agg.abundance[mb.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateMember, mb.Name)
		}
		if mb.Biomass == "" {
			mb.Biomass = "BIOMASS_" + mb.Name
		}
		if !mb.Model.HasReaction(mb.Biomass) {
			return nil, fmt.Errorf("%w: member %q has no %q", ErrBiomassNotFound, mb.Name, mb.Biomass)
		}
		agg.abundance[mb.Name] = mb.Abundance
		agg.members = append(agg.members, mb.Name)
		resolved = append(resolved, mb)
	}

	rows := make(map[string]optim.Expr)
	var rowOrder []string
	for _, mb := range resolved {
		a := mb.Abundance
		if a == 0 {
			agg.logger.Debug("member skipped", zap.String("member", mb.Name))
			continue
		}
		vars := make(map[string]*optim.Variable)
		names := make(map[string]string)
		for _, r := range mb.Model.Reactions() {
			vname := mb.Name + memberSep + r.ID
			v, err := agg.p.AddVariable(vname, r.LowerBound, r.UpperBound)
			if err != nil {
				return nil, fmt.Errorf("member %q reaction %q: %w", mb.Name, r.ID, err)
			}
			vars[r.ID] = v
			names[r.ID] = vname
		}
		agg.flux[mb.Name] = names

		for _, met := range mb.Model.Metabolites() {
			row := met.ID
			if prefix := scope(mb.Name, met); prefix != "" {
				row = prefix + memberSep + met.ID
			}
			rxns, err := mb.Model.MetaboliteReactions(met.ID)
			if err != nil {
				return nil, err
			}
			for _, rid := range rxns {
				r, err := mb.Model.Reaction(rid)
				if err != nil {
					return nil, err
				}
				expr, ok := rows[row]
				if !ok {
					expr = optim.Expr{}
					rows[row] = expr
					rowOrder = append(rowOrder, row)
				}
				expr.Add(vars[rid], a*r.Stoichiometry[met.ID])
			}
		}

		growth := optim.Expr{vars[mb.Biomass]: a, mu: -a}
		if _, err := agg.p.AddConstraint("growth_"+mb.Name, growth, 0, 0); err != nil {
			return nil, err
		}
	}

	sort.Strings(rowOrder)
	for _, row := range rowOrder {
		if _, err := agg.p.AddConstraint(row, rows[row], 0, 0); err != nil {
			return nil, fmt.Errorf("mass balance %q: %w", row, err)
		}
	}
	if err := agg.p.SetObjective(optim.Maximize, optim.Expr{mu: 1}, nil); err != nil {
		return nil, err
	}
	agg.logger.Debug("community built",
		zap.String("problem", name),
		zap.Int("members", len(agg.members)),
		zap.Int("variables", agg.p.NumVariables()),
		zap.Int("constraints", agg.p.NumConstraints()),
	)

	return agg, nil
}

// Problem exposes the underlying optimisation problem (read-only use).
func (a *Aggregate) Problem() *optim.Problem { return a.p }

// Members returns member names in input order.
func (a *Aggregate) Members() []string { return append([]string(nil), a.members...) }

// Abundance returns the (normalised) abundance of a member.
func (a *Aggregate) Abundance(member string) float64 { return a.abundance[member] }

// Solve maximises the common growth rate. A nil solver selects the one the
// aggregate was built with.
func (a *Aggregate) Solve(ctx context.Context, solver optim.Solver) (*CommunityGrowth, error) {
	if solver == nil {
		solver = a.solver
	}
	sol, err := solver.Solve(ctx, a.p)
	if err != nil {
		return nil, fmt.Errorf("community %s: %w", a.p.Name(), err)
	}
	out := &CommunityGrowth{
		Status:    sol.Status,
		Abundance: make(map[string]float64, len(a.abundance)),
		Backend:   sol.Backend,
	}
	for k, v := range a.abundance {
		out.Abundance[k] = v
	}
	a.logger.Debug("community solved",
		zap.String("problem", a.p.Name()),
		zap.Stringer("status", sol.Status),
		zap.Float64("growth_rate", sol.Value(GrowthVariable)),
	)
	if !sol.Optimal() {
		return out, nil
	}
	out.GrowthRate = sol.Value(GrowthVariable)
	out.Fluxes = make(map[string]map[string]float64, len(a.flux))
	for member, names := range a.flux {
		fl := make(map[string]float64, len(names))
		for rid, vname := range names {
			fl[rid] = sol.Value(vname)
		}
		out.Fluxes[member] = fl
	}

	return out, nil
}
