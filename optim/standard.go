// SPDX-License-Identifier: MIT
//
// File: standard.go
// Role: Bounded LP → standard form (min cᵀx, Ax = b, x ≥ 0) plus presolve.
//
// Variable mapping (x_j original, p ≥ 0 standard columns):
//   - l = u            x = l                (no column)
//   - l finite         x = l + p            (+ row p + s = u − l when u finite)
//   - l = −Inf, u fin. x = u − p
//   - free             x = p⁺ − p⁻
//
// Constraint mapping (k = contribution of the variable offsets):
//   - L = U            a·p = L − k
//   - L, U finite      a·p − s = L − k ;  s + t = U − L
//   - only L finite    a·p − s = L − k
//   - only U finite    a·p + s = U − k
//   - both infinite    dropped
//
// Presolve (in this order, each stage keeps the invariants gonum's simplex
// requires: no zero rows, full row rank, no zero columns):
//  1. zero rows: inconsistent → infeasible, otherwise dropped;
//  2. linearly dependent rows (modified Gram–Schmidt on [A | b]): inconsistent →
//     infeasible, otherwise dropped;
//  3. zero columns: negative cost → unbounded, otherwise fixed at 0.

package optim

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// rankTol is the relative residual under which a row is considered
	// a combination of the rows already kept.
	rankTol = 1e-9
	// zeroTol classifies a right-hand side or cost as zero.
	zeroTol = 1e-12
)

// colRef maps an original variable onto one standard-form column.
type colRef struct {
	col  int
	sign float64
}

// stdEntry is one non-zero of the standard-form matrix.
type stdEntry struct {
	row, col int
	val      float64
}

// presolveOutcome classifies what presolve already proved.
type presolveOutcome int

const (
	presolveOK presolveOutcome = iota
	presolveInfeasible
	presolveUnbounded
)

// standardForm is the reduced problem handed to the simplex plus the data
// needed to map its solution back.
type standardForm struct {
	a    *mat.Dense
	b, c []float64

	// keptCols[k] is the full-width column index of reduced column k.
	keptCols []int
	width    int

	offset []float64
	refs   [][]colRef
}

// toStandard converts and presolves a compiled LP.
func toStandard(cp *compiled) (*standardForm, presolveOutcome) {
	n := len(cp.names)
	sf := &standardForm{offset: make([]float64, n), refs: make([][]colRef, n)}

	var (
		entries []stdEntry
		rhs     []float64
		cost    []float64
		ncol    int
	)
	newCol := func(c float64) int {
		cost = append(cost, c)
		ncol++
		return ncol - 1
	}
	newRow := func(b float64) int {
		rhs = append(rhs, b)
		return len(rhs) - 1
	}

	// Stage 1: variables.
	type ubRow struct {
		col   int
		width float64
	}
	var upperRows []ubRow
	for j := 0; j < n; j++ {
		l, u, cj := cp.lower[j], cp.upper[j], cp.cost[j]
		switch {
		case !math.IsInf(l, 0) && l == u:
			sf.offset[j] = l
		case !math.IsInf(l, 0):
			sf.offset[j] = l
			col := newCol(cj)
			sf.refs[j] = []colRef{{col, 1}}
			if !math.IsInf(u, 0) {
				upperRows = append(upperRows, ubRow{col, u - l})
			}
		case !math.IsInf(u, 0):
			sf.offset[j] = u
			sf.refs[j] = []colRef{{newCol(-cj), -1}}
		default:
			pos := newCol(cj)
			neg := newCol(-cj)
			sf.refs[j] = []colRef{{pos, 1}, {neg, -1}}
		}
	}

	// Stage 2: constraints.
	for _, row := range cp.rows {
		acc := make(map[int]float64)
		var k float64
		for t, j := range row.idx {
			a := row.val[t]
			k += a * sf.offset[j]
			for _, ref := range sf.refs[j] {
				acc[ref.col] += a * ref.sign
			}
		}
		lo, hi := row.lower-k, row.upper-k
		finLo, finHi := !math.IsInf(lo, 0), !math.IsInf(hi, 0)
		if !finLo && !finHi {
			continue
		}
		var r int
		switch {
		case finLo && finHi && lo == hi:
			r = newRow(lo)
		case finLo && finHi:
			r = newRow(lo)
			s := newCol(0)
			entries = append(entries, stdEntry{r, s, -1})
			r2 := newRow(hi - lo)
			entries = append(entries, stdEntry{r2, s, 1}, stdEntry{r2, newCol(0), 1})
		case finLo:
			r = newRow(lo)
			entries = append(entries, stdEntry{r, newCol(0), -1})
		default:
			r = newRow(hi)
			entries = append(entries, stdEntry{r, newCol(0), 1})
		}
		for col, a := range acc {
			if a != 0 {
				entries = append(entries, stdEntry{r, col, a})
			}
		}
	}

	// Stage 3: finite variable ranges.
	for _, ub := range upperRows {
		r := newRow(ub.width)
		entries = append(entries, stdEntry{r, ub.col, 1}, stdEntry{r, newCol(0), 1})
	}

	sf.width = ncol
	rows := make([][]float64, len(rhs))
	for i := range rows {
		rows[i] = make([]float64, ncol)
	}
	for _, e := range entries {
		rows[e.row][e.col] += e.val
	}

	// Stage 4: presolve.
	rows, rhs, outcome := dropZeroRows(rows, rhs)
	if outcome != presolveOK {
		return nil, outcome
	}
	rows, rhs, outcome = dropDependentRows(rows, rhs)
	if outcome != presolveOK {
		return nil, outcome
	}
	for col := 0; col < ncol; col++ {
		zero := true
		for _, row := range rows {
			if row[col] != 0 {
				zero = false
				break
			}
		}
		if !zero {
			sf.keptCols = append(sf.keptCols, col)
			continue
		}
		if cost[col] < -zeroTol {
			return nil, presolveUnbounded
		}
	}

	sf.b = rhs
	sf.c = make([]float64, len(sf.keptCols))
	for k, col := range sf.keptCols {
		sf.c[k] = cost[col]
	}
	if len(rows) > 0 {
		sf.a = mat.NewDense(len(rows), len(sf.keptCols), nil)
		for i, row := range rows {
			for k, col := range sf.keptCols {
				sf.a.Set(i, k, row[col])
			}
		}
	}

	return sf, presolveOK
}

// recover maps a reduced standard-form solution back to original variables.
func (sf *standardForm) recover(xr []float64) []float64 {
	full := make([]float64, sf.width)
	for k, col := range sf.keptCols {
		if k < len(xr) {
			full[col] = xr[k]
		}
	}
	x := make([]float64, len(sf.offset))
	for j := range x {
		x[j] = sf.offset[j]
		for _, ref := range sf.refs[j] {
			x[j] += ref.sign * full[ref.col]
		}
	}
	return x
}

// dropZeroRows removes all-zero rows, failing on a non-zero right-hand side.
func dropZeroRows(rows [][]float64, rhs []float64) ([][]float64, []float64, presolveOutcome) {
	outRows := rows[:0]
	outRHS := rhs[:0]
	for i, row := range rows {
		if floats.Norm(row, math.Inf(1)) == 0 {
			if math.Abs(rhs[i]) > zeroTol {
				return nil, nil, presolveInfeasible
			}
			continue
		}
		outRows = append(outRows, row)
		outRHS = append(outRHS, rhs[i])
	}
	return outRows, outRHS, presolveOK
}

// dropDependentRows keeps a maximal linearly independent subset of rows.
// A dropped row must also be a combination of the kept rows once its
// right-hand side is appended; otherwise the system is inconsistent.
func dropDependentRows(rows [][]float64, rhs []float64) ([][]float64, []float64, presolveOutcome) {
	var (
		basis    [][]float64
		augBasis [][]float64
		outRows  [][]float64
		outRHS   []float64
	)
	for i, row := range rows {
		res := orthogonalize(row, basis)
		if floats.Norm(res, 2) > rankTol*math.Max(1, floats.Norm(row, 2)) {
			floats.Scale(1/floats.Norm(res, 2), res)
			basis = append(basis, res)

			aug := append(append(make([]float64, 0, len(row)+1), row...), rhs[i])
			augRes := orthogonalize(aug, augBasis)
			floats.Scale(1/floats.Norm(augRes, 2), augRes)
			augBasis = append(augBasis, augRes)

			outRows = append(outRows, row)
			outRHS = append(outRHS, rhs[i])
			continue
		}
		aug := append(append(make([]float64, 0, len(row)+1), row...), rhs[i])
		augRes := orthogonalize(aug, augBasis)
		if floats.Norm(augRes, 2) > rankTol*math.Max(1, floats.Norm(aug, 2)) {
			return nil, nil, presolveInfeasible
		}
	}
	return outRows, outRHS, presolveOK
}

// orthogonalize returns v minus its projection on the orthonormal basis
// (modified Gram–Schmidt, applied twice for stability).
func orthogonalize(v []float64, basis [][]float64) []float64 {
	res := make([]float64, len(v))
	copy(res, v)
	for pass := 0; pass < 2; pass++ {
		for _, q := range basis {
			floats.AddScaled(res, -floats.Dot(q, res), q)
		}
	}
	return res
}
