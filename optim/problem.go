// SPDX-License-Identifier: MIT
//
// File: problem.go
// Role: Problem construction, lookup and compilation into index form.
//
// Concurrency:
//   - A Problem is not safe for concurrent mutation. Solvers only read it, so
//     several goroutines may Solve the same Problem once it is fully built.
//
// Determinism:
//   - Variables and constraints keep insertion order; compiled rows list their
//     column indices in ascending order.

package optim

import (
	"fmt"
	"math"
	"sort"
)

// Problem is a linear or convex-quadratic program:
//
//	optimise   Σ c_j x_j + Σ q_j x_j²
//	subject to lower_i ≤ Σ a_ij x_j ≤ upper_i
//	           l_j ≤ x_j ≤ u_j
type Problem struct {
	name       string
	vars       []*Variable
	varByName  map[string]*Variable
	cons       []*Constraint
	consByName map[string]*Constraint
	objective  Objective
}

// NewProblem creates an empty minimisation problem.
func NewProblem(name string) *Problem {
	return &Problem{
		name:       name,
		varByName:  make(map[string]*Variable),
		consByName: make(map[string]*Constraint),
		objective:  Objective{Sense: Minimize, Linear: Expr{}, Quadratic: Expr{}},
	}
}

// Name returns the problem name.
func (p *Problem) Name() string { return p.name }

// AddVariable registers a variable with bounds [lower, upper] (±Inf allowed).
//
// Errors: ErrEmptyName, ErrDuplicateName, ErrBadBounds.
func (p *Problem) AddVariable(name string, lower, upper float64) (*Variable, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, dup := p.varByName[name]; dup {
		return nil, fmt.Errorf("%w: variable %q", ErrDuplicateName, name)
	}
	if err := validateBounds(lower, upper); err != nil {
		return nil, fmt.Errorf("variable %q [%g, %g]: %w", name, lower, upper, err)
	}
	v := &Variable{name: name, lower: lower, upper: upper, index: len(p.vars), owner: p}
	p.vars = append(p.vars, v)
	p.varByName[name] = v

	return v, nil
}

// Variable looks a variable up by name.
func (p *Problem) Variable(name string) (*Variable, error) {
	v, ok := p.varByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	return v, nil
}

// Variables returns the variables in insertion order.
func (p *Problem) Variables() []*Variable {
	out := make([]*Variable, len(p.vars))
	copy(out, p.vars)
	return out
}

// NumVariables returns the number of variables.
func (p *Problem) NumVariables() int { return len(p.vars) }

// AddConstraint registers lower ≤ expr ≤ upper. Zero coefficients are dropped.
//
// Errors: ErrEmptyName, ErrDuplicateName, ErrBadBounds, ErrBadCoefficient,
// ErrForeignVariable.
func (p *Problem) AddConstraint(name string, expr Expr, lower, upper float64) (*Constraint, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, dup := p.consByName[name]; dup {
		return nil, fmt.Errorf("%w: constraint %q", ErrDuplicateName, name)
	}
	if err := validateBounds(lower, upper); err != nil {
		return nil, fmt.Errorf("constraint %q [%g, %g]: %w", name, lower, upper, err)
	}
	clean, err := p.cleanExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("constraint %q: %w", name, err)
	}
	c := &Constraint{name: name, expr: clean, lower: lower, upper: upper}
	p.cons = append(p.cons, c)
	p.consByName[name] = c

	return c, nil
}

// Constraint looks a constraint up by name.
func (p *Problem) Constraint(name string) (*Constraint, error) {
	c, ok := p.consByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConstraint, name)
	}
	return c, nil
}

// Constraints returns the constraints in insertion order.
func (p *Problem) Constraints() []*Constraint {
	out := make([]*Constraint, len(p.cons))
	copy(out, p.cons)
	return out
}

// NumConstraints returns the number of constraints.
func (p *Problem) NumConstraints() int { return len(p.cons) }

// RemoveConstraint deletes a constraint by name. Complexity: O(#constraints).
func (p *Problem) RemoveConstraint(name string) error {
	c, ok := p.consByName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownConstraint, name)
	}
	delete(p.consByName, name)
	for i, cc := range p.cons {
		if cc == c {
			p.cons = append(p.cons[:i], p.cons[i+1:]...)
			break
		}
	}
	return nil
}

// SetObjective replaces the objective. quadratic may be nil.
func (p *Problem) SetObjective(sense Sense, linear, quadratic Expr) error {
	lin, err := p.cleanExpr(linear)
	if err != nil {
		return fmt.Errorf("objective: %w", err)
	}
	quad, err := p.cleanExpr(quadratic)
	if err != nil {
		return fmt.Errorf("objective: %w", err)
	}
	p.objective = Objective{Sense: sense, Linear: lin, Quadratic: quad}
	return nil
}

// Objective returns the current objective.
func (p *Problem) Objective() Objective { return p.objective }

// Evaluate computes the objective at the given primal point (by variable name).
func (p *Problem) Evaluate(primal map[string]float64) float64 {
	var f float64
	for v, c := range p.objective.Linear {
		f += c * primal[v.name]
	}
	for v, q := range p.objective.Quadratic {
		x := primal[v.name]
		f += q * x * x
	}
	return f
}

// Clone returns an independent deep copy of the problem.
func (p *Problem) Clone() *Problem {
	cp := NewProblem(p.name)
	remap := make(map[*Variable]*Variable, len(p.vars))
	for _, v := range p.vars {
		nv, _ := cp.AddVariable(v.name, v.lower, v.upper)
		remap[v] = nv
	}
	remapExpr := func(e Expr) Expr {
		out := make(Expr, len(e))
		for v, a := range e {
			out[remap[v]] = a
		}
		return out
	}
	for _, c := range p.cons {
		_, _ = cp.AddConstraint(c.name, remapExpr(c.expr), c.lower, c.upper)
	}
	cp.objective = Objective{
		Sense:     p.objective.Sense,
		Linear:    remapExpr(p.objective.Linear),
		Quadratic: remapExpr(p.objective.Quadratic),
	}
	return cp
}

// cleanExpr copies e, drops zero terms and validates ownership and values.
func (p *Problem) cleanExpr(e Expr) (Expr, error) {
	out := make(Expr, len(e))
	for v, a := range e {
		if v == nil || v.owner != p {
			return nil, ErrForeignVariable
		}
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, fmt.Errorf("%w: %q=%g", ErrBadCoefficient, v.name, a)
		}
		if a != 0 {
			out[v] = a
		}
	}
	return out, nil
}

// sparseRow is a compiled constraint in index form.
type sparseRow struct {
	idx          []int
	val          []float64
	lower, upper float64
}

// compiled is the index-form snapshot every backend consumes. cost and quad
// are always in minimisation form; sign converts back to the problem sense.
type compiled struct {
	names        []string
	lower, upper []float64
	rows         []sparseRow
	cost         []float64
	quad         []float64
	sign         float64
}

// compile snapshots p into index form.
// Complexity: O(n + nnz·log k) where k is the widest row.
func (p *Problem) compile() *compiled {
	n := len(p.vars)
	c := &compiled{
		names: make([]string, n),
		lower: make([]float64, n),
		upper: make([]float64, n),
		rows:  make([]sparseRow, 0, len(p.cons)),
		cost:  make([]float64, n),
		quad:  make([]float64, n),
		sign:  1,
	}
	if p.objective.Sense == Maximize {
		c.sign = -1
	}
	for j, v := range p.vars {
		c.names[j] = v.name
		c.lower[j], c.upper[j] = v.lower, v.upper
	}
	for v, a := range p.objective.Linear {
		c.cost[v.index] += c.sign * a
	}
	for v, q := range p.objective.Quadratic {
		c.quad[v.index] += c.sign * q
	}
	for _, con := range p.cons {
		row := sparseRow{lower: con.lower, upper: con.upper}
		for v := range con.expr {
			row.idx = append(row.idx, v.index)
		}
		sort.Ints(row.idx)
		row.val = make([]float64, len(row.idx))
		for k, j := range row.idx {
			row.val[k] = con.expr[p.vars[j]]
		}
		c.rows = append(c.rows, row)
	}
	return c
}

// solution assembles a Solution from an index-form primal vector.
func (c *compiled) solution(backend string, status Status, x []float64, iters int) *Solution {
	sol := &Solution{Status: status, Backend: backend, Iterations: iters, Primal: make(map[string]float64, len(c.names))}
	if x == nil {
		sol.ObjectiveValue = math.NaN()
		if status == StatusUnbounded {
			sol.ObjectiveValue = -c.sign * math.Inf(1)
		}
		return sol
	}
	var f float64
	for j, name := range c.names {
		sol.Primal[name] = x[j]
		f += c.cost[j]*x[j] + c.quad[j]*x[j]*x[j]
	}
	sol.ObjectiveValue = c.sign * f
	return sol
}
