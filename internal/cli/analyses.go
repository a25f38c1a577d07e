package cli

import (
	"io"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvflux/fba"
	"github.com/katalvlaran/lvflux/optim"
)

type fluxOut struct {
	Reaction string  `json:"reaction"`
	Flux     float64 `json:"flux"`
}

type optimizeOut struct {
	Model     string    `json:"model"`
	Status    string    `json:"status"`
	Backend   string    `json:"backend"`
	Objective *float64  `json:"objective,omitempty"`
	Fluxes    []fluxOut `json:"fluxes,omitempty"`
}

type testOut struct {
	Metabolite string   `json:"metabolite"`
	Outcome    string   `json:"outcome"`
	Status     string   `json:"status"`
	Objective  *float64 `json:"objective,omitempty"`
	CarbonFlux *float64 `json:"carbon_flux,omitempty"`
}

type connectionOut struct {
	Metabolite string   `json:"metabolite"`
	Count      int      `json:"count"`
	Unblocked  []string `json:"unblocked,omitempty"`
}

type leakOut struct {
	Metabolite string  `json:"metabolite"`
	Flux       float64 `json:"flux"`
}

type leakModeOut struct {
	Metabolite string    `json:"metabolite"`
	Status     string    `json:"status"`
	Objective  *float64  `json:"objective,omitempty"`
	Reactions  []fluxOut `json:"reactions,omitempty"`
}

// finite returns &v for finite values and nil otherwise.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// nonzero lists the fluxes whose magnitude reaches cutoff, sorted by reaction.
func nonzero(fluxes map[string]float64, cutoff float64) []fluxOut {
	var out []fluxOut
	for id, v := range fluxes {
		if math.Abs(v) >= cutoff {
			out = append(out, fluxOut{Reaction: id, Flux: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reaction < out[j].Reaction })
	return out
}

func newOptimizeCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "optimize MODEL",
		Short: "Run flux balance analysis on the model objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			m, err := a.load(args[0])
			if err != nil {
				return err
			}
			opts, err := a.options()
			if err != nil {
				return err
			}
			sol, err := fba.Optimize(ctx, m, opts...)
			if err != nil {
				return err
			}
			cutoff, err := fba.NormalizeCutoff(m, a.cfg.Analysis.Cutoff)
			if err != nil {
				return err
			}
			cutoff = math.Max(cutoff, optim.Accuracy(a.lp))
			if all {
				cutoff = 0
			}
			res := optimizeOut{Model: m.ID(), Status: sol.Status.String(), Backend: sol.Backend}
			if sol.Status == optim.StatusOptimal {
				res.Objective = finite(sol.ObjectiveValue)
				res.Fluxes = nonzero(sol.Fluxes, cutoff)
			}
			return a.emit(res, func(w io.Writer) {
				row(w, "model", res.Model)
				row(w, "status", res.Status)
				if res.Objective != nil {
					row(w, "objective", *res.Objective)
				}
				for _, f := range res.Fluxes {
					row(w, f.Reaction, f.Flux)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "print zero fluxes too")
	return cmd
}

// screenFlags are shared by the commands that run metabolite tests.
type screenFlags struct {
	mode    string
	demands []string
}

func (f *screenFlags) register(cmd *cobra.Command, withMode bool) {
	if withMode {
		cmd.Flags().StringVar(&f.mode, "mode", "can_produce", "test direction (can_produce, can_consume)")
	}
	cmd.Flags().StringSliceVar(&f.demands, "demand", nil, "metabolites to test (default: all)")
}

func (f *screenFlags) options() ([]fba.Option, error) {
	mode, err := fba.ParseMode(f.mode)
	if err != nil {
		return nil, err
	}
	return []fba.Option{fba.WithMode(mode), fba.WithDemands(f.demands...)}, nil
}

func toTests(in []fba.MetaboliteTest) []testOut {
	out := make([]testOut, 0, len(in))
	for _, t := range in {
		to := testOut{Metabolite: t.Metabolite, Outcome: t.Outcome.String(), Status: t.Status.String()}
		if t.Outcome != fba.Unsolved {
			to.Objective = finite(t.Objective)
			to.CarbonFlux = finite(t.CarbonFlux)
		}
		out = append(out, to)
	}
	return out
}

func newBlockedCmd(a *app) *cobra.Command {
	var sf screenFlags
	cmd := &cobra.Command{
		Use:   "blocked MODEL",
		Short: "Classify metabolites as blocked, available or produced from nothing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			m, err := a.load(args[0])
			if err != nil {
				return err
			}
			extra, err := sf.options()
			if err != nil {
				return err
			}
			opts, err := a.options(extra...)
			if err != nil {
				return err
			}
			res, err := fba.FindBlockedMets(ctx, m, opts...)
			if err != nil {
				return err
			}
			tests := toTests(res.Tests)
			return a.emit(tests, func(w io.Writer) {
				row(w, "METABOLITE", "OUTCOME", "OBJECTIVE", "CARBON_FLUX")
				for _, t := range tests {
					row(w, t.Metabolite, t.Outcome, cell(t.Objective), cell(t.CarbonFlux))
				}
			})
		},
	}
	sf.register(cmd, true)
	return cmd
}

func newConnectCmd(a *app) *cobra.Command {
	var sf screenFlags
	cmd := &cobra.Command{
		Use:   "connect MODEL",
		Short: "Rank sinks by the number of blocked metabolites they rescue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			m, err := a.load(args[0])
			if err != nil {
				return err
			}
			extra, err := sf.options()
			if err != nil {
				return err
			}
			opts, err := a.options(extra...)
			if err != nil {
				return err
			}
			blocked, err := fba.FindBlockedMets(ctx, m, opts...)
			if err != nil {
				return err
			}
			conns, err := fba.FindMetsToConnect(ctx, m, blocked.Blocked, opts...)
			if err != nil {
				return err
			}
			out := make([]connectionOut, 0, len(conns))
			for _, c := range conns {
				out = append(out, connectionOut{Metabolite: c.Metabolite, Count: c.Count, Unblocked: c.Unblocked})
			}
			return a.emit(out, func(w io.Writer) {
				row(w, "METABOLITE", "COUNT", "UNBLOCKED")
				for _, c := range out {
					row(w, c.Metabolite, c.Count, strings.Join(c.Unblocked, ","))
				}
			})
		},
	}
	sf.register(cmd, false)
	return cmd
}

func newDeadEndsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dead-ends MODEL",
		Short: "List single-reaction metabolites that can be neither produced nor consumed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			m, err := a.load(args[0])
			if err != nil {
				return err
			}
			opts, err := a.options()
			if err != nil {
				return err
			}
			dead, err := fba.FindDeadEnds(ctx, m, opts...)
			if err != nil {
				return err
			}
			if dead == nil {
				dead = []string{}
			}
			return a.emit(dead, func(w io.Writer) {
				for _, id := range dead {
					row(w, id)
				}
			})
		},
	}
}

func newLeaksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "leaks MODEL",
		Short: "List metabolites the closed network produces from nothing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			m, err := a.load(args[0])
			if err != nil {
				return err
			}
			opts, err := a.options()
			if err != nil {
				return err
			}
			leaks, err := fba.FindLeaks(ctx, m, opts...)
			if err != nil {
				return err
			}
			out := make([]leakOut, 0, len(leaks))
			for _, l := range leaks {
				out = append(out, leakOut{Metabolite: l.Metabolite, Flux: l.Flux})
			}
			return a.emit(out, func(w io.Writer) {
				row(w, "METABOLITE", "FLUX")
				for _, l := range out {
					row(w, l.Metabolite, l.Flux)
				}
			})
		},
	}
}

func newLeakModesCmd(a *app) *cobra.Command {
	var (
		leaks      []string
		norm       string
		cutoffMult float64
	)
	cmd := &cobra.Command{
		Use:   "leak-modes MODEL",
		Short: "Explain each leak with a minimal flux distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			m, err := a.load(args[0])
			if err != nil {
				return err
			}
			var extra []fba.Option
			if cmd.Flags().Changed("norm") {
				n, err := fba.ParseNorm(norm)
				if err != nil {
					return err
				}
				extra = append(extra, fba.WithNorm(n))
			}
			if cmd.Flags().Changed("cutoff-mult") {
				extra = append(extra, fba.WithCutoffMult(cutoffMult))
			}
			opts, err := a.options(extra...)
			if err != nil {
				return err
			}
			if len(leaks) == 0 {
				found, err := fba.FindLeaks(ctx, m, opts...)
				if err != nil {
					return err
				}
				for _, l := range found {
					leaks = append(leaks, l.Metabolite)
				}
			}
			modes, err := fba.FindLeakModes(ctx, m, leaks, opts...)
			if err != nil {
				return err
			}
			out := make([]leakModeOut, 0, len(modes))
			for _, lm := range modes {
				o := leakModeOut{Metabolite: lm.Metabolite, Status: lm.Status.String()}
				if lm.Reactions != nil {
					o.Objective = finite(lm.Objective)
				}
				for _, r := range lm.Reactions {
					o.Reactions = append(o.Reactions, fluxOut{Reaction: r.ID, Flux: r.Flux})
				}
				out = append(out, o)
			}
			return a.emit(out, func(w io.Writer) {
				row(w, "LEAK", "STATUS", "REACTION", "FLUX")
				for _, lm := range out {
					if len(lm.Reactions) == 0 {
						row(w, lm.Metabolite, lm.Status, "-", "-")
					}
					for _, r := range lm.Reactions {
						row(w, lm.Metabolite, lm.Status, r.Reaction, r.Flux)
					}
				}
			})
		},
	}
	cmd.Flags().StringSliceVar(&leaks, "leak", nil, "leaks to explain (default: run the leak search)")
	cmd.Flags().StringVar(&norm, "norm", "l2", "flux norm (l1, l2)")
	cmd.Flags().Float64Var(&cutoffMult, "cutoff-mult", 1, "report reactions with |flux| ≥ cutoff-mult · cutoff")
	return cmd
}

// cell renders an optional number, "-" when absent.
func cell(v *float64) any {
	if v == nil {
		return "-"
	}
	return *v
}
