// Package optim is a small modelling layer for linear and convex quadratic
// programs, plus pluggable solver backends.
//
// A Problem holds named variables with bounds, ranged linear constraints and
// an objective with linear and diagonal quadratic terms:
//
//	optimise   Σ c_j x_j + Σ q_j x_j²
//	subject to lower_i ≤ Σ a_ij x_j ≤ upper_i,   l_j ≤ x_j ≤ u_j
//
// Infinite bounds are written with optim.Inf / -optim.Inf.
//
// # Backends
//
//   - SimplexSolver – exact LP. The problem is converted to standard form,
//     presolved (zero rows, dependent rows, zero columns) and handed to
//     gonum's optimize/convex/lp.Simplex. Quadratic objectives are rejected.
//   - ADMMSolver – operator splitting for LPs and convex QPs with per-row step
//     sizes, over-relaxation, infeasibility certificates and an active-set
//     polish that restores high accuracy when the active set is identified.
//   - Instrumented – decorator counting solves and timing them in Prometheus.
//
// NewSolver builds a backend by name ("simplex", "admm").
//
// # Status vs. error
//
// Infeasible and unbounded problems are answers, not failures: they are
// reported through Solution.Status with a nil error. Errors signal malformed
// input, an unsupported objective, numerical breakdown or cancellation.
//
// Example:
//
//	p := optim.NewProblem("diet")
//	x, _ := p.AddVariable("x", 0, 4)
//	y, _ := p.AddVariable("y", 0, optim.Inf)
//	_, _ = p.AddConstraint("cap", optim.Expr{x: 1, y: 1}, -optim.Inf, 5)
//	_ = p.SetObjective(optim.Maximize, optim.Expr{x: 3, y: 2}, nil)
//	sol, err := optim.NewSimplexSolver().Solve(ctx, p)
//
// Errors:
//
//	ErrEmptyName, ErrDuplicateName         – naming
//	ErrUnknownVariable, ErrUnknownConstraint – lookups
//	ErrForeignVariable                     – expression mixes problems
//	ErrBadBounds, ErrBadCoefficient         – invalid numbers
//	ErrQuadraticObjective, ErrNonConvex     – objective shape
//	ErrNumerical                           – backend breakdown
//	ErrUnknownBackend                      – NewSolver name
package optim
