// SPDX-License-Identifier: MIT
//
// File: simplex.go
// Role: Exact LP backend on top of gonum's dense simplex.
//
// Contract:
//   - Linear objectives only; a quadratic term yields ErrQuadraticObjective.
//   - Infeasible/unbounded problems come back as Status with a nil error.
//   - Numeric breakdowns inside gonum are wrapped in ErrNumerical.
//
// Phases:
//  1. Rows are sign-flipped to b ≥ 0 and one artificial column per row is
//     appended, so the identity is a feasible and perfectly conditioned start.
//     gonum minimises the sum of artificials from that basis; a positive
//     optimum proves infeasibility.
//  2. The phase-1 support is completed to a basis of A's own columns, and
//     gonum's simplex runs on the real costs from that feasible basis.
//  3. The optimal support is re-solved against the exact right-hand side.
//
// Complexity:
//   - Conversion O(m·n) dense; presolve O(m²·n); simplex iterations are
//     bounded by gonum (Bland's rule on cycling).

package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// DefaultSimplexTol is the pivot tolerance handed to gonum's simplex.
	DefaultSimplexTol = 1e-10

	// squareNegTol is how far below zero a square-system component may sit
	// before the point is declared infeasible.
	squareNegTol = 1e-9

	// phase1Tol is the relative sum of artificials under which phase 1
	// counts as feasible.
	phase1Tol = 1e-9

	// basisTol is the relative residual a column must keep after projection
	// on the chosen columns to join the starting basis.
	basisTol = 1e-6

	// liftFactor scales the condition-number estimate of the starting basis
	// into the margin kept above zero.
	liftFactor = 100

	epsilon = 0x1p-52
)

// SimplexSolver solves linear programs exactly.
type SimplexSolver struct {
	// Tol is the simplex pivot tolerance; zero selects DefaultSimplexTol.
	Tol float64
}

// NewSimplexSolver returns a SimplexSolver with default settings.
func NewSimplexSolver() *SimplexSolver { return &SimplexSolver{Tol: DefaultSimplexTol} }

// Name implements Solver.
func (s *SimplexSolver) Name() string { return "simplex" }

// Solve implements Solver.
func (s *SimplexSolver) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.objective.IsQuadratic() {
		return nil, ErrQuadraticObjective
	}
	tol := s.Tol
	if tol <= 0 {
		tol = DefaultSimplexTol
	}

	cp := p.compile()
	sf, outcome := toStandard(cp)
	switch outcome {
	case presolveInfeasible:
		return cp.solution(s.Name(), StatusInfeasible, nil, 0), nil
	case presolveUnbounded:
		return cp.solution(s.Name(), StatusUnbounded, nil, 0), nil
	}

	// Everything was fixed by presolve: the offsets are the solution.
	if sf.a == nil || len(sf.keptCols) == 0 {
		return cp.solution(s.Name(), StatusOptimal, sf.recover(nil), 0), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// A square reduced system has a single feasible point; solve it directly
	// so round-off below zero is not mistaken for infeasibility.
	if rows, cols := sf.a.Dims(); rows == cols {
		return s.solveSquare(cp, sf)
	}

	basis, rhs, feasible, err := feasibleBasis(sf, tol)
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: phase 1 on %dx%d: %v", ErrNumerical, len(sf.b), len(sf.c), err)
	case !feasible:
		return cp.solution(s.Name(), StatusInfeasible, nil, 0), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	xr, err := simplexFrom(sf.c, sf.a, rhs, tol, basis)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return cp.solution(s.Name(), StatusInfeasible, nil, 0), nil
	case errors.Is(err, lp.ErrUnbounded):
		return cp.solution(s.Name(), StatusUnbounded, nil, 0), nil
	case err != nil:
		return nil, fmt.Errorf("%w: simplex on %dx%d: %v", ErrNumerical, len(sf.b), len(sf.c), err)
	}

	return cp.solution(s.Name(), StatusOptimal, sf.recover(refine(sf, xr)), 0), nil
}

// simplexFrom runs gonum's simplex and turns its panics on a rejected
// starting basis into errors.
func simplexFrom(c []float64, a mat.Matrix, b []float64, tol float64, basis []int) (x []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			x, err = nil, fmt.Errorf("simplex: %v", r)
		}
	}()
	_, x, err = lp.Simplex(c, a, b, tol, basis)
	return x, err
}

// feasibleBasis solves the phase-1 problem and returns m column indices of
// sf.a forming a feasible basis, plus a right-hand side reproduced from that
// basis whose basic values sit safely above zero. feasible is false when the
// artificials cannot be driven to zero.
func feasibleBasis(sf *standardForm, tol float64) (basis []int, rhs []float64, feasible bool, err error) {
	m, n := sf.a.Dims()

	// Stage 1: [±A | I] with b ≥ 0; the artificials are the starting basis.
	aug := mat.NewDense(m, n+m, nil)
	b := make([]float64, m)
	cost := make([]float64, n+m)
	start := make([]int, m)
	for i := 0; i < m; i++ {
		sign := 1.0
		if sf.b[i] < 0 {
			sign = -1
		}
		b[i] = sign * sf.b[i]
		for j := 0; j < n; j++ {
			if v := sf.a.At(i, j); v != 0 {
				aug.Set(i, j, sign*v)
			}
		}
		aug.Set(i, n+i, 1)
		cost[n+i] = 1
		start[i] = n + i
	}
	x1, err := simplexFrom(cost, aug, b, tol, start)
	if err != nil {
		return nil, nil, false, err
	}
	var art float64
	for i := 0; i < m; i++ {
		art += x1[n+i]
	}
	scale := math.Max(1, floats.Norm(sf.b, math.Inf(1)))
	if art > phase1Tol*scale {
		return nil, nil, false, nil
	}

	// Stage 2: a basis of A's own columns around the phase-1 support.
	cols := columns(sf.a)
	basis, err = completeBasis(cols, m, x1[:n])
	if err != nil {
		return nil, nil, false, err
	}

	// Stage 3: basic solution on the original rows. gonum re-derives it from
	// the right-hand side and rejects any value below −1e-13, so degenerate
	// components are lifted clear of the round-off the re-solve introduces.
	ab, xb, err := basicSolution(cols, basis, sf.b)
	if err != nil {
		return nil, nil, false, err
	}
	lift := liftFactor * mat.Cond(ab, 1) * epsilon * math.Max(1, floats.Norm(xb.RawVector().Data, math.Inf(1)))
	if math.IsNaN(lift) || lift > phase1Tol*scale {
		return nil, nil, false, fmt.Errorf("starting basis too ill-conditioned (lift %g)", lift)
	}
	for k := 0; k < m; k++ {
		v := xb.AtVec(k)
		if v < -phase1Tol*scale {
			return nil, nil, false, fmt.Errorf("starting basis infeasible at column %d (%g)", basis[k], v)
		}
		if v < lift {
			xb.SetVec(k, lift)
		}
	}
	var bv mat.VecDense
	bv.MulVec(ab, xb)
	return basis, bv.RawVector().Data, true, nil
}

// refine re-solves the basis around the support of x against the exact
// right-hand side, undoing the lift applied to the starting point. It
// returns x unchanged when the refined point is not feasible.
func refine(sf *standardForm, x []float64) []float64 {
	m, _ := sf.a.Dims()
	cols := columns(sf.a)
	basis, err := completeBasis(cols, m, x)
	if err != nil {
		return x
	}
	_, xb, err := basicSolution(cols, basis, sf.b)
	if err != nil {
		return x
	}
	scale := math.Max(1, floats.Norm(sf.b, math.Inf(1)))
	out := make([]float64, len(x))
	for k, j := range basis {
		v := xb.AtVec(k)
		switch {
		case math.IsNaN(v) || v < -phase1Tol*scale:
			return x
		case v < 0:
			v = 0
		}
		out[j] = v
	}
	return out
}

// columns returns the columns of a as separate slices.
func columns(a *mat.Dense) [][]float64 {
	_, n := a.Dims()
	cols := make([][]float64, n)
	for j := range cols {
		cols[j] = mat.Col(nil, j, a)
	}
	return cols
}

// completeBasis picks m linearly independent columns: first those where
// support is non-zero, then the rest from the right, where slacks sit.
func completeBasis(cols [][]float64, m int, support []float64) ([]int, error) {
	var (
		q     [][]float64
		basis []int
	)
	used := make([]bool, len(cols))
	try := func(j int, minRes float64) {
		res := orthogonalize(cols[j], q)
		nr := floats.Norm(res, 2)
		if nr <= minRes*math.Max(1, floats.Norm(cols[j], 2)) {
			return
		}
		floats.Scale(1/nr, res)
		q = append(q, res)
		basis = append(basis, j)
		used[j] = true
	}
	for j := 0; j < len(cols) && len(basis) < m; j++ {
		if support[j] != 0 {
			try(j, rankTol)
		}
	}
	for j := len(cols) - 1; j >= 0 && len(basis) < m; j-- {
		if !used[j] {
			try(j, basisTol)
		}
	}
	if len(basis) < m {
		return nil, fmt.Errorf("basis completion found %d of %d columns", len(basis), m)
	}
	return basis, nil
}

// basicSolution solves B·x_B = b for the basis columns.
func basicSolution(cols [][]float64, basis []int, b []float64) (*mat.Dense, *mat.VecDense, error) {
	m := len(b)
	ab := mat.NewDense(m, m, nil)
	for k, j := range basis {
		ab.SetCol(k, cols[j])
	}
	xb := mat.NewVecDense(m, nil)
	if err := xb.SolveVec(ab, mat.NewVecDense(m, b)); err != nil {
		return nil, nil, err
	}
	return ab, xb, nil
}

// solveSquare handles a reduced system with as many rows as columns.
func (s *SimplexSolver) solveSquare(cp *compiled, sf *standardForm) (*Solution, error) {
	n := len(sf.c)
	xr := make([]float64, n)
	xv := mat.NewVecDense(n, xr)
	if err := xv.SolveVec(sf.a, mat.NewVecDense(n, sf.b)); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: square solve: %v", ErrNumerical, err)
		}
	}
	for k, v := range xr {
		switch {
		case math.IsNaN(v):
			return nil, fmt.Errorf("%w: square solve produced NaN", ErrNumerical)
		case v < -squareNegTol:
			return cp.solution(s.Name(), StatusInfeasible, nil, 0), nil
		case v < 0:
			xr[k] = 0
		}
	}
	return cp.solution(s.Name(), StatusOptimal, sf.recover(xr), 0), nil
}
