// SPDX-License-Identifier: MIT
//
// File: admm.go
// Role: Operator-splitting (ADMM) backend for convex QPs with diagonal Hessian.
//
// Model:
//
//	minimise   ½ xᵀPx + qᵀx
//	subject to l ≤ Ax ≤ u
//
// where P = diag(2·quad), A stacks the problem constraints followed by one
// identity row per variable with at least one finite bound.
//
// Iteration (k → k+1), with ρ a per-row step and σ a small proximal weight:
//
//	(P + σI + AᵀRA) x̃ = σx − q + Aᵀ(Rz − y)
//	z̃ = A x̃
//	x ← αx̃ + (1−α)x,   ẑ = αz̃ + (1−α)z
//	z ← Π[l,u](ẑ + y/ρ)
//	y ← y + ρ(ẑ − z)
//
// Termination is checked every CheckEvery iterations:
//   - optimal when ‖Ax − z‖∞ and ‖Px + q + Aᵀy‖∞ are below the mixed
//     absolute/relative thresholds;
//   - infeasible when δy certifies primal infeasibility;
//   - unbounded when δx certifies dual infeasibility.
//
// Equality rows use a 1e3 larger ρ. With AdaptiveRho the step is rebalanced
// from the residual ratio and K refactored.
//
// Complexity: O(n³) per factorisation, O(m·n) per iteration (dense).

package optim

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Defaults for ADMMSolver.
const (
	DefaultADMMMaxIter    = 20000
	DefaultADMMEpsAbs     = 1e-6
	DefaultADMMEpsRel     = 1e-6
	DefaultADMMEpsInf     = 1e-5
	DefaultADMMRho        = 0.1
	DefaultADMMSigma      = 1e-6
	DefaultADMMAlpha      = 1.6
	DefaultADMMCheckEvery = 25

	rhoEqualityScale = 1e3
	rhoMin           = 1e-6
	rhoMax           = 1e6
	adaptTrigger     = 5.0

	// accuracyMult turns the stopping tolerances into a bound on the
	// per-component error of a converged point.
	accuracyMult = 100
)

// ADMMSolver solves LPs and convex QPs approximately, optionally polishing the
// result into a high-accuracy active-set solution.
type ADMMSolver struct {
	MaxIter     int
	EpsAbs      float64
	EpsRel      float64
	EpsPrimInf  float64
	EpsDualInf  float64
	Rho         float64
	Sigma       float64
	Alpha       float64
	CheckEvery  int
	Polish      bool
	AdaptiveRho bool
}

// NewADMMSolver returns an ADMMSolver with default settings, polishing and
// adaptive step enabled.
func NewADMMSolver() *ADMMSolver {
	return &ADMMSolver{
		MaxIter:     DefaultADMMMaxIter,
		EpsAbs:      DefaultADMMEpsAbs,
		EpsRel:      DefaultADMMEpsRel,
		EpsPrimInf:  DefaultADMMEpsInf,
		EpsDualInf:  DefaultADMMEpsInf,
		Rho:         DefaultADMMRho,
		Sigma:       DefaultADMMSigma,
		Alpha:       DefaultADMMAlpha,
		CheckEvery:  DefaultADMMCheckEvery,
		Polish:      true,
		AdaptiveRho: true,
	}
}

// Name implements Solver.
func (s *ADMMSolver) Name() string { return "admm" }

// Accuracy implements Approximate. Values below it are indistinguishable from
// zero even after polishing.
func (s *ADMMSolver) Accuracy() float64 {
	set := s.withDefaults()
	return accuracyMult * math.Max(set.EpsAbs, set.EpsRel)
}

// withDefaults fills zero fields.
func (s *ADMMSolver) withDefaults() ADMMSolver {
	set := *s
	if set.MaxIter <= 0 {
		set.MaxIter = DefaultADMMMaxIter
	}
	if set.EpsAbs <= 0 {
		set.EpsAbs = DefaultADMMEpsAbs
	}
	if set.EpsRel < 0 {
		set.EpsRel = DefaultADMMEpsRel
	}
	if set.EpsPrimInf <= 0 {
		set.EpsPrimInf = DefaultADMMEpsInf
	}
	if set.EpsDualInf <= 0 {
		set.EpsDualInf = DefaultADMMEpsInf
	}
	if set.Rho <= 0 {
		set.Rho = DefaultADMMRho
	}
	if set.Sigma <= 0 {
		set.Sigma = DefaultADMMSigma
	}
	if set.Alpha <= 0 || set.Alpha >= 2 {
		set.Alpha = DefaultADMMAlpha
	}
	if set.CheckEvery <= 0 {
		set.CheckEvery = DefaultADMMCheckEvery
	}
	return set
}

// qpData is the index-form QP the iteration works on.
type qpData struct {
	n, m int
	p    []float64  // diagonal of P
	q    []float64  // linear cost (minimisation form)
	a    *mat.Dense // m×n, nil when m == 0
	l, u []float64
}

// newQPData stacks the problem rows and the finite variable bounds.
func newQPData(cp *compiled) *qpData {
	n := len(cp.names)
	d := &qpData{n: n, p: make([]float64, n), q: make([]float64, n)}
	for j := 0; j < n; j++ {
		d.p[j] = 2 * cp.quad[j]
		d.q[j] = cp.cost[j]
	}

	var rows [][]float64
	for _, r := range cp.rows {
		if math.IsInf(r.lower, -1) && math.IsInf(r.upper, 1) {
			continue
		}
		dense := make([]float64, n)
		for t, j := range r.idx {
			dense[j] = r.val[t]
		}
		rows = append(rows, dense)
		d.l = append(d.l, r.lower)
		d.u = append(d.u, r.upper)
	}
	for j := 0; j < n; j++ {
		if math.IsInf(cp.lower[j], -1) && math.IsInf(cp.upper[j], 1) {
			continue
		}
		dense := make([]float64, n)
		dense[j] = 1
		rows = append(rows, dense)
		d.l = append(d.l, cp.lower[j])
		d.u = append(d.u, cp.upper[j])
	}

	d.m = len(rows)
	if d.m > 0 {
		d.a = mat.NewDense(d.m, n, nil)
		for i, row := range rows {
			d.a.SetRow(i, row)
		}
	}
	return d
}

// mulA returns A·x.
func (d *qpData) mulA(x []float64) []float64 {
	out := make([]float64, d.m)
	if d.m == 0 {
		return out
	}
	mat.NewVecDense(d.m, out).MulVec(d.a, mat.NewVecDense(d.n, x))
	return out
}

// mulAT returns Aᵀ·y.
func (d *qpData) mulAT(y []float64) []float64 {
	out := make([]float64, d.n)
	if d.m == 0 {
		return out
	}
	mat.NewVecDense(d.n, out).MulVec(d.a.T(), mat.NewVecDense(d.m, y))
	return out
}

// objective evaluates ½xᵀPx + qᵀx.
func (d *qpData) objective(x []float64) float64 {
	var f float64
	for j := range x {
		f += 0.5*d.p[j]*x[j]*x[j] + d.q[j]*x[j]
	}
	return f
}

// isEquality reports whether row i is an equality row.
func (d *qpData) isEquality(i int) bool { return d.l[i] == d.u[i] }

// rhoVector returns the per-row step for base step rho.
func (d *qpData) rhoVector(rho float64) []float64 {
	out := make([]float64, d.m)
	for i := range out {
		out[i] = rho
		if d.isEquality(i) {
			out[i] = rho * rhoEqualityScale
		}
	}
	return out
}

// factor computes the Cholesky factor of P + σI + AᵀRA.
func (d *qpData) factor(rho []float64, sigma float64) (*mat.Cholesky, error) {
	k := mat.NewSymDense(d.n, nil)
	if d.m > 0 {
		scaled := mat.DenseCopyOf(d.a)
		for i := 0; i < d.m; i++ {
			for j := 0; j < d.n; j++ {
				scaled.Set(i, j, scaled.At(i, j)*rho[i])
			}
		}
		var ata mat.Dense
		ata.Mul(d.a.T(), scaled)
		for i := 0; i < d.n; i++ {
			for j := i; j < d.n; j++ {
				k.SetSym(i, j, ata.At(i, j))
			}
		}
	}
	for j := 0; j < d.n; j++ {
		k.SetSym(j, j, k.At(j, j)+d.p[j]+sigma)
	}
	var ch mat.Cholesky
	if ok := ch.Factorize(k); !ok {
		return nil, fmt.Errorf("%w: KKT matrix not positive definite", ErrNumerical)
	}
	return &ch, nil
}

// admmState is the running iterate.
type admmState struct {
	x, z, y []float64
	rho     []float64
	chol    *mat.Cholesky
}

// Solve implements Solver.
func (s *ADMMSolver) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	set := s.withDefaults()
	cp := p.compile()
	for j, q := range cp.quad {
		if q < 0 {
			return nil, fmt.Errorf("%w: variable %q", ErrNonConvex, cp.names[j])
		}
	}
	if len(cp.names) == 0 {
		return cp.solution(s.Name(), StatusOptimal, []float64{}, 0), nil
	}

	d := newQPData(cp)
	st := &admmState{
		x:   make([]float64, d.n),
		z:   make([]float64, d.m),
		y:   make([]float64, d.m),
		rho: d.rhoVector(set.Rho),
	}
	for i := range st.z {
		st.z[i] = clamp(0, d.l[i], d.u[i])
	}
	chol, err := d.factor(st.rho, set.Sigma)
	if err != nil {
		return nil, err
	}
	st.chol = chol
	baseRho := set.Rho

	xPrev := make([]float64, d.n)
	yPrev := make([]float64, d.m)
	status := StatusIterationLimit
	iter := 0
	for iter = 1; iter <= set.MaxIter; iter++ {
		copy(xPrev, st.x)
		copy(yPrev, st.y)
		if err := s.step(d, st, &set); err != nil {
			return nil, err
		}
		if iter%set.CheckEvery != 0 && iter != set.MaxIter {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ax := d.mulA(st.x)
		aty := d.mulAT(st.y)
		rPrim, rDual, epsPrim, epsDual := residuals(d, st, ax, aty, &set)
		if rPrim <= epsPrim && rDual <= epsDual {
			status = StatusOptimal
			break
		}
		if primalInfeasible(d, st.y, yPrev, set.EpsPrimInf) {
			return cp.solution(s.Name(), StatusInfeasible, nil, iter), nil
		}
		if dualInfeasible(d, st.x, xPrev, set.EpsDualInf) {
			return cp.solution(s.Name(), StatusUnbounded, nil, iter), nil
		}

		if set.AdaptiveRho && d.m > 0 {
			ratio := adaptRatio(d, st, ax, aty, rPrim, rDual)
			if ratio > adaptTrigger || ratio < 1/adaptTrigger {
				baseRho = math.Min(rhoMax, math.Max(rhoMin, baseRho*ratio))
				st.rho = d.rhoVector(baseRho)
				if st.chol, err = d.factor(st.rho, set.Sigma); err != nil {
					return nil, err
				}
			}
		}
	}
	if iter > set.MaxIter {
		iter = set.MaxIter
	}

	x := st.x
	if status == StatusOptimal && set.Polish {
		if xp, ok := polish(d, st, &set); ok {
			x = xp
		}
	}
	return cp.solution(s.Name(), status, x, iter), nil
}

// step performs one relaxed ADMM iteration in place.
func (s *ADMMSolver) step(d *qpData, st *admmState, set *ADMMSolver) error {
	w := make([]float64, d.m)
	for i := range w {
		w[i] = st.rho[i]*st.z[i] - st.y[i]
	}
	rhs := d.mulAT(w)
	for j := range rhs {
		rhs[j] += set.Sigma*st.x[j] - d.q[j]
	}
	xt := mat.NewVecDense(d.n, nil)
	if err := st.chol.SolveVecTo(xt, mat.NewVecDense(d.n, rhs)); err != nil {
		return fmt.Errorf("%w: %v", ErrNumerical, err)
	}
	xtRaw := xt.RawVector().Data
	zt := d.mulA(xtRaw)

	a := set.Alpha
	for j := range st.x {
		st.x[j] = a*xtRaw[j] + (1-a)*st.x[j]
	}
	for i := range st.z {
		zr := a*zt[i] + (1-a)*st.z[i]
		zn := clamp(zr+st.y[i]/st.rho[i], d.l[i], d.u[i])
		st.y[i] += st.rho[i] * (zr - zn)
		st.z[i] = zn
	}
	return nil
}

// residuals returns the primal/dual residuals and their tolerances.
func residuals(d *qpData, st *admmState, ax, aty []float64, set *ADMMSolver) (rPrim, rDual, epsPrim, epsDual float64) {
	for i := range ax {
		rPrim = math.Max(rPrim, math.Abs(ax[i]-st.z[i]))
	}
	var px, q float64
	for j := range st.x {
		pxj := d.p[j] * st.x[j]
		rDual = math.Max(rDual, math.Abs(pxj+d.q[j]+aty[j]))
		px = math.Max(px, math.Abs(pxj))
		q = math.Max(q, math.Abs(d.q[j]))
	}
	epsPrim = set.EpsAbs + set.EpsRel*math.Max(infNorm(ax), infNorm(st.z))
	epsDual = set.EpsAbs + set.EpsRel*math.Max(px, math.Max(infNorm(aty), q))
	return rPrim, rDual, epsPrim, epsDual
}

// adaptRatio is the rebalancing factor for ρ.
func adaptRatio(d *qpData, st *admmState, ax, aty []float64, rPrim, rDual float64) float64 {
	const tiny = 1e-30
	var px float64
	for j := range st.x {
		px = math.Max(px, math.Abs(d.p[j]*st.x[j]))
	}
	primScale := math.Max(tiny, math.Max(infNorm(ax), infNorm(st.z)))
	dualScale := math.Max(tiny, math.Max(px, math.Max(infNorm(aty), infNorm(d.q))))
	num := rPrim / primScale
	den := rDual / dualScale
	if den < tiny || num < tiny {
		return 1
	}
	return math.Sqrt(num / den)
}

// primalInfeasible checks the δy certificate:
// ‖Aᵀδy‖ ≤ ε‖δy‖ and uᵀδy⁺ + lᵀδy⁻ < −ε‖δy‖.
func primalInfeasible(d *qpData, y, yPrev []float64, eps float64) bool {
	if d.m == 0 {
		return false
	}
	dy := make([]float64, d.m)
	floats.SubTo(dy, y, yPrev)
	norm := infNorm(dy)
	if norm < eps {
		return false
	}
	if infNorm(d.mulAT(dy)) > eps*norm {
		return false
	}
	var support float64
	for i, v := range dy {
		switch {
		case v > 0:
			if math.IsInf(d.u[i], 1) {
				return false
			}
			support += d.u[i] * v
		case v < 0:
			if math.IsInf(d.l[i], -1) {
				return false
			}
			support += d.l[i] * v
		}
	}
	return support < -eps*norm
}

// dualInfeasible checks the δx certificate:
// ‖Pδx‖ ≤ ε‖δx‖, qᵀδx < −ε‖δx‖ and Aδx in the recession cone of [l, u].
func dualInfeasible(d *qpData, x, xPrev []float64, eps float64) bool {
	dx := make([]float64, d.n)
	floats.SubTo(dx, x, xPrev)
	norm := infNorm(dx)
	if norm < eps {
		return false
	}
	for j, v := range dx {
		if math.Abs(d.p[j]*v) > eps*norm {
			return false
		}
	}
	if floats.Dot(d.q, dx) >= -eps*norm {
		return false
	}
	adx := d.mulA(dx)
	for i, v := range adx {
		lowInf, upInf := math.IsInf(d.l[i], -1), math.IsInf(d.u[i], 1)
		switch {
		case lowInf && upInf:
		case upInf:
			if v < -eps*norm {
				return false
			}
		case lowInf:
			if v > eps*norm {
				return false
			}
		default:
			if math.Abs(v) > eps*norm {
				return false
			}
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func infNorm(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, math.Inf(1))
}
