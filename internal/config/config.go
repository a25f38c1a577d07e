// Package config provides configuration loading, defaults and validation for
// the lvflux command line.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration.
type Config struct {
	Solver   SolverConfig   `mapstructure:"solver"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// SolverConfig selects and tunes the optimisation backend.
type SolverConfig struct {
	// Backend is "simplex" or "admm".
	Backend string `mapstructure:"backend"`
	// Tolerance is the simplex pivot tolerance.
	Tolerance float64    `mapstructure:"tolerance"`
	ADMM      ADMMConfig `mapstructure:"admm"`
}

// ADMMConfig mirrors the tunables of optim.ADMMSolver.
type ADMMConfig struct {
	MaxIter     int     `mapstructure:"max_iter"`
	EpsAbs      float64 `mapstructure:"eps_abs"`
	EpsRel      float64 `mapstructure:"eps_rel"`
	Rho         float64 `mapstructure:"rho"`
	Alpha       float64 `mapstructure:"alpha"`
	Polish      bool    `mapstructure:"polish"`
	AdaptiveRho bool    `mapstructure:"adaptive_rho"`
}

// AnalysisConfig holds the defaults shared by the fba analyses.
type AnalysisConfig struct {
	// Workers bounds concurrent solves; 0 means GOMAXPROCS.
	Workers      int    `mapstructure:"workers"`
	CarbonSource string `mapstructure:"carbon_source"`
	// Cutoff is the zero cutoff; 0 means the model tolerance.
	Cutoff            float64 `mapstructure:"cutoff"`
	CutoffMult        float64 `mapstructure:"cutoff_mult"`
	Norm              string  `mapstructure:"norm"`
	SharedCompartment string  `mapstructure:"shared_compartment"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig configures solver metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition at exit.
	Textfile string `mapstructure:"textfile"`
}

// Validate checks every field and returns the first violation found.
func (c *Config) Validate() error {
	// Solver
	switch strings.ToLower(c.Solver.Backend) {
	case "simplex", "admm":
	default:
		return fmt.Errorf("config: solver.backend %q is invalid; expected simplex|admm", c.Solver.Backend)
	}
	if !(c.Solver.Tolerance > 0) {
		return fmt.Errorf("config: solver.tolerance must be > 0, got %g", c.Solver.Tolerance)
	}
	a := c.Solver.ADMM
	if a.MaxIter < 1 {
		return fmt.Errorf("config: solver.admm.max_iter must be ≥ 1, got %d", a.MaxIter)
	}
	if !(a.EpsAbs > 0) || !(a.EpsRel >= 0) {
		return fmt.Errorf("config: solver.admm eps_abs must be > 0 and eps_rel ≥ 0, got %g / %g", a.EpsAbs, a.EpsRel)
	}
	if !(a.Rho > 0) {
		return fmt.Errorf("config: solver.admm.rho must be > 0, got %g", a.Rho)
	}
	if !(a.Alpha > 0 && a.Alpha < 2) {
		return fmt.Errorf("config: solver.admm.alpha must lie in (0, 2), got %g", a.Alpha)
	}

	// Analysis
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("config: analysis.workers must be ≥ 0, got %d", c.Analysis.Workers)
	}
	if c.Analysis.Cutoff < 0 {
		return fmt.Errorf("config: analysis.cutoff must be ≥ 0, got %g", c.Analysis.Cutoff)
	}
	if !(c.Analysis.CutoffMult > 0) {
		return fmt.Errorf("config: analysis.cutoff_mult must be > 0, got %g", c.Analysis.CutoffMult)
	}
	switch strings.ToLower(c.Analysis.Norm) {
	case "l1", "l2":
	default:
		return fmt.Errorf("config: analysis.norm %q is invalid; expected l1|l2", c.Analysis.Norm)
	}
	if c.Analysis.SharedCompartment == "" {
		return fmt.Errorf("config: analysis.shared_compartment is required")
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
