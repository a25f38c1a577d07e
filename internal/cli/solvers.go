package cli

import (
	"github.com/katalvlaran/lvflux/internal/config"
	"github.com/katalvlaran/lvflux/optim"
)

// buildSolvers returns the configured LP backend and the ADMM backend used for
// quadratic objectives, both instrumented with m.
func buildSolvers(cfg config.SolverConfig, m *optim.Metrics) (lp, qp optim.Solver, err error) {
	admm := optim.NewADMMSolver()
	admm.MaxIter = cfg.ADMM.MaxIter
	admm.EpsAbs = cfg.ADMM.EpsAbs
	admm.EpsRel = cfg.ADMM.EpsRel
	admm.Rho = cfg.ADMM.Rho
	admm.Alpha = cfg.ADMM.Alpha
	admm.Polish = cfg.ADMM.Polish
	admm.AdaptiveRho = cfg.ADMM.AdaptiveRho

	base, err := optim.NewSolver(cfg.Backend, nil)
	if err != nil {
		return nil, nil, err
	}
	switch s := base.(type) {
	case *optim.SimplexSolver:
		s.Tol = cfg.Tolerance
	case *optim.ADMMSolver:
		base = admm
	}
	return optim.Instrument(base, m), optim.Instrument(admm, m), nil
}
