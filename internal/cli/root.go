// Package cli implements the lvflux command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/fba"
	"github.com/katalvlaran/lvflux/internal/config"
	"github.com/katalvlaran/lvflux/internal/logging"
	"github.com/katalvlaran/lvflux/modelio"
	"github.com/katalvlaran/lvflux/optim"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath      string
	Backend         string
	Workers         int
	LogLevel        string
	Output          string
	MetricsTextfile string
	CarbonSource    string
	Cutoff          float64
	Timeout         time.Duration
}

// app carries the dependencies initialised by the root command.
type app struct {
	opts    *RootOptions
	cfg     *config.Config
	log     *zap.Logger
	reg     *prometheus.Registry
	lp, qp  optim.Solver
	out     io.Writer
	started time.Time
}

// NewRootCommand creates the root command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	a := &app{opts: opts}

	cmd := &cobra.Command{
		Use:   "lvflux",
		Short: "Constraint-based analysis of metabolic network models",
		Long: `lvflux loads COBRA JSON / YAML models and runs flux balance analysis,
community growth, blocked-metabolite screening, dead-end and leak detection.`,
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&opts.Backend, "backend", "", "LP backend (simplex, admm)")
	pf.IntVarP(&opts.Workers, "workers", "w", 0, "concurrent solves (0: GOMAXPROCS)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.Output, "output", "o", "text", "output format (text, json)")
	pf.StringVar(&opts.MetricsTextfile, "metrics-textfile", "", "write solver metrics to this file at exit")
	pf.StringVar(&opts.CarbonSource, "carbon", "", "carbon source metabolite (uptake via EX_<id>)")
	pf.Float64Var(&opts.Cutoff, "cutoff", 0, "zero cutoff (0: model tolerance)")
	pf.DurationVar(&opts.Timeout, "timeout", 0, "overall time limit (0: none)")

	cmd.AddCommand(
		newOptimizeCmd(a),
		newBlockedCmd(a),
		newConnectCmd(a),
		newDeadEndsCmd(a),
		newLeaksCmd(a),
		newLeakModesCmd(a),
		newCommunityCmd(a),
		newScopeCmd(a),
		newStatsCmd(a),
	)
	return cmd
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

// init loads the configuration, applies flag overrides and builds the logger,
// the metrics registry and the solvers.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Solver.Backend = a.opts.Backend
	}
	if flags.Changed("workers") {
		cfg.Analysis.Workers = a.opts.Workers
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.opts.LogLevel
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.Textfile = a.opts.MetricsTextfile
	}
	if flags.Changed("carbon") {
		cfg.Analysis.CarbonSource = a.opts.CarbonSource
	}
	if flags.Changed("cutoff") {
		cfg.Analysis.Cutoff = a.opts.Cutoff
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if a.opts.Output != "text" && a.opts.Output != "json" {
		return fmt.Errorf("unknown output format %q; expected text|json", a.opts.Output)
	}
	a.cfg = cfg

	if a.log, err = logging.New(cfg.Log); err != nil {
		return err
	}
	a.reg = prometheus.NewRegistry()
	metrics, err := optim.NewMetrics(a.reg)
	if err != nil {
		return err
	}
	if a.lp, a.qp, err = buildSolvers(cfg.Solver, metrics); err != nil {
		return err
	}
	a.out = cmd.OutOrStdout()
	a.started = time.Now()
	a.log.Debug("lvflux started",
		zap.String("command", cmd.Name()),
		zap.String("backend", a.lp.Name()),
		zap.Int("workers", cfg.Analysis.Workers),
	)
	return nil
}

// close flushes the metrics textfile and the logger.
func (a *app) close() error {
	if a.log == nil {
		return nil
	}
	defer func() { _ = a.log.Sync() }()
	a.log.Debug("lvflux finished", zap.Duration("elapsed", time.Since(a.started)))
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := prometheus.WriteToTextfile(path, a.reg); err != nil {
			return fmt.Errorf("write metrics textfile: %w", err)
		}
	}
	return nil
}

// context derives the command context with the optional timeout.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.opts.Timeout > 0 {
		return context.WithTimeout(ctx, a.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// options translates the resolved configuration into analysis options.
func (a *app) options(extra ...fba.Option) ([]fba.Option, error) {
	an := a.cfg.Analysis
	norm, err := fba.ParseNorm(an.Norm)
	if err != nil {
		return nil, err
	}
	opts := []fba.Option{
		fba.WithSolver(a.lp),
		fba.WithQPSolver(a.qp),
		fba.WithLogger(a.log),
		fba.WithWorkers(an.Workers),
		fba.WithCutoff(an.Cutoff),
		fba.WithCutoffMult(an.CutoffMult),
		fba.WithCarbonSource(an.CarbonSource),
		fba.WithNorm(norm),
		fba.WithSharedCompartment(an.SharedCompartment),
	}
	return append(opts, extra...), nil
}

// load reads a model file and logs its size.
func (a *app) load(path string) (*core.Model, error) {
	m, err := modelio.LoadFile(path)
	if err != nil {
		return nil, err
	}
	a.log.Info("model loaded",
		zap.String("path", path),
		zap.String("model", m.ID()),
		zap.Int("metabolites", m.MetaboliteCount()),
		zap.Int("reactions", m.ReactionCount()),
	)
	return m, nil
}
