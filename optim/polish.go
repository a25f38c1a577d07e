// SPDX-License-Identifier: MIT
//
// File: polish.go
// Role: Active-set refinement of an ADMM solution.
//
// Given the converged (x, z, y), a row is taken as active at its lower bound
// when z − l < −y, at its upper bound when u − z < y, and always when it is an
// equality row. The reduced KKT system
//
//	[ P + δI   Aᵀ_act ] [x]   [ −q    ]
//	[ A_act    −δI    ] [y] = [ b_act ]
//
// is solved by LU with a few steps of iterative refinement against the
// unregularised matrix. The polished point replaces x only when it is feasible
// and its objective is not worse.

package optim

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	polishDelta       = 1e-6
	polishRefineSteps = 3
)

// polish returns the refined primal point and whether it was accepted.
func polish(d *qpData, st *admmState, set *ADMMSolver) ([]float64, bool) {
	type active struct {
		row int
		rhs float64
	}
	var act []active
	for i := 0; i < d.m; i++ {
		switch {
		case d.isEquality(i):
			act = append(act, active{i, d.l[i]})
		case st.z[i]-d.l[i] < -st.y[i]:
			act = append(act, active{i, d.l[i]})
		case d.u[i]-st.z[i] < st.y[i]:
			act = append(act, active{i, d.u[i]})
		}
	}

	n, k := d.n, len(act)
	size := n + k
	reg := mat.NewDense(size, size, nil)
	exact := mat.NewDense(size, size, nil)
	rhs := make([]float64, size)
	for j := 0; j < n; j++ {
		reg.Set(j, j, d.p[j]+polishDelta)
		exact.Set(j, j, d.p[j])
		rhs[j] = -d.q[j]
	}
	for r, a := range act {
		for j := 0; j < n; j++ {
			v := d.a.At(a.row, j)
			if v == 0 {
				continue
			}
			reg.Set(j, n+r, v)
			reg.Set(n+r, j, v)
			exact.Set(j, n+r, v)
			exact.Set(n+r, j, v)
		}
		reg.Set(n+r, n+r, -polishDelta)
		rhs[n+r] = a.rhs
	}

	var lu mat.LU
	lu.Factorize(reg)
	solve := func(b []float64) ([]float64, bool) {
		dst := mat.NewVecDense(size, nil)
		if err := lu.SolveVecTo(dst, false, mat.NewVecDense(size, b)); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) {
				return nil, false
			}
		}
		return dst.RawVector().Data, true
	}

	sol, ok := solve(rhs)
	if !ok {
		return nil, false
	}
	for it := 0; it < polishRefineSteps; it++ {
		var ks mat.VecDense
		ks.MulVec(exact, mat.NewVecDense(size, sol))
		res := make([]float64, size)
		for i := range res {
			res[i] = rhs[i] - ks.AtVec(i)
		}
		delta, ok := solve(res)
		if !ok {
			return nil, false
		}
		for i := range sol {
			sol[i] += delta[i]
		}
	}

	x := make([]float64, n)
	copy(x, sol[:n])
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
	}

	feasTol := math.Max(set.EpsAbs, 1e-9)
	ax := d.mulA(x)
	for i, v := range ax {
		scale := 1 + math.Abs(v)
		if v < d.l[i]-feasTol*scale || v > d.u[i]+feasTol*scale {
			return nil, false
		}
	}
	fx, fp := d.objective(st.x), d.objective(x)
	if fp > fx+10*math.Max(set.EpsAbs, set.EpsRel*math.Abs(fx)) {
		return nil, false
	}
	return x, true
}
