package config

import "github.com/spf13/viper"

const (
	DefaultBackend   = "simplex"
	DefaultTolerance = 1e-10

	DefaultADMMMaxIter = 20000
	DefaultADMMEpsAbs  = 1e-6
	DefaultADMMEpsRel  = 1e-6
	DefaultADMMRho     = 0.1
	DefaultADMMAlpha   = 1.6

	DefaultCutoffMult        = 1.0
	DefaultNorm              = "l2"
	DefaultSharedCompartment = "e"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// setDefaults registers every key with viper. Registering them is also what
// lets LVFLUX_* variables override keys absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("solver.backend", DefaultBackend)
	v.SetDefault("solver.tolerance", DefaultTolerance)
	v.SetDefault("solver.admm.max_iter", DefaultADMMMaxIter)
	v.SetDefault("solver.admm.eps_abs", DefaultADMMEpsAbs)
	v.SetDefault("solver.admm.eps_rel", DefaultADMMEpsRel)
	v.SetDefault("solver.admm.rho", DefaultADMMRho)
	v.SetDefault("solver.admm.alpha", DefaultADMMAlpha)
	v.SetDefault("solver.admm.polish", true)
	v.SetDefault("solver.admm.adaptive_rho", true)

	v.SetDefault("analysis.workers", 0)
	v.SetDefault("analysis.carbon_source", "")
	v.SetDefault("analysis.cutoff", 0.0)
	v.SetDefault("analysis.cutoff_mult", DefaultCutoffMult)
	v.SetDefault("analysis.norm", DefaultNorm)
	v.SetDefault("analysis.shared_compartment", DefaultSharedCompartment)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("metrics.textfile", "")
}

// Default returns the configuration used when neither a file nor the
// environment sets anything.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			Backend:   DefaultBackend,
			Tolerance: DefaultTolerance,
			ADMM: ADMMConfig{
				MaxIter:     DefaultADMMMaxIter,
				EpsAbs:      DefaultADMMEpsAbs,
				EpsRel:      DefaultADMMEpsRel,
				Rho:         DefaultADMMRho,
				Alpha:       DefaultADMMAlpha,
				Polish:      true,
				AdaptiveRho: true,
			},
		},
		Analysis: AnalysisConfig{
			CutoffMult:        DefaultCutoffMult,
			Norm:              DefaultNorm,
			SharedCompartment: DefaultSharedCompartment,
		},
		Log: LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}
