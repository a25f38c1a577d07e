package cli

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/lvflux/fba"
	"github.com/katalvlaran/lvflux/optim"
)

type memberOut struct {
	Name      string    `json:"name"`
	Abundance float64   `json:"abundance"`
	Fluxes    []fluxOut `json:"fluxes,omitempty"`
}

type communityOut struct {
	Status     string      `json:"status"`
	Backend    string      `json:"backend"`
	GrowthRate *float64    `json:"growth_rate,omitempty"`
	Members    []memberOut `json:"members"`
}

func newCommunityCmd(a *app) *cobra.Command {
	var (
		abundance []float64
		biomass   []string
		shared    string
	)
	cmd := &cobra.Command{
		Use:   "community MODEL...",
		Short: "Maximise the common growth rate of a microbial community",
		Long: `community pools the shared-compartment metabolites of every model and
maximises the growth rate all members reach at their relative abundance.
A single model yields its aggregate growth problem.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			if len(abundance) > 0 && len(abundance) != len(args) {
				return fmt.Errorf("%d abundances for %d models", len(abundance), len(args))
			}
			if len(biomass) > 0 && len(biomass) != len(args) {
				return fmt.Errorf("%d biomass reactions for %d models", len(biomass), len(args))
			}
			members := make([]fba.Member, len(args))
			for i, path := range args {
				m, err := a.load(path)
				if err != nil {
					return err
				}
				members[i] = fba.Member{Model: m, Abundance: 1}
				if len(abundance) > 0 {
					members[i].Abundance = abundance[i]
				}
				if len(biomass) > 0 {
					members[i].Biomass = biomass[i]
				}
			}

			var extra []fba.Option
			if cmd.Flags().Changed("shared-compartment") {
				extra = append(extra, fba.WithSharedCompartment(shared))
			}
			opts, err := a.options(extra...)
			if err != nil {
				return err
			}
			var agg *fba.Aggregate
			if len(members) == 1 && members[0].Biomass == "" {
				agg, err = fba.BuildAggregateModel(members[0].Model, members[0].Abundance, opts...)
			} else {
				agg, err = fba.BuildCommunity(members, opts...)
			}
			if err != nil {
				return err
			}
			a.log.Info("community built",
				zap.Strings("members", agg.Members()),
				zap.Int("variables", agg.Problem().NumVariables()),
				zap.Int("constraints", agg.Problem().NumConstraints()),
			)
			growth, err := agg.Solve(ctx, a.lp)
			if err != nil {
				return err
			}

			res := communityOut{Status: growth.Status.String(), Backend: growth.Backend}
			cutoff, err := fba.NormalizeCutoff(members[0].Model, a.cfg.Analysis.Cutoff)
			if err != nil {
				return err
			}
			cutoff = math.Max(cutoff, optim.Accuracy(a.lp))
			if growth.Status == optim.StatusOptimal {
				res.GrowthRate = finite(growth.GrowthRate)
			}
			for _, name := range agg.Members() {
				mo := memberOut{Name: name, Abundance: agg.Abundance(name)}
				if growth.Fluxes != nil {
					mo.Fluxes = nonzero(growth.Fluxes[name], cutoff)
				}
				res.Members = append(res.Members, mo)
			}
			sort.SliceStable(res.Members, func(i, j int) bool { return res.Members[i].Name < res.Members[j].Name })

			return a.emit(res, func(w io.Writer) {
				row(w, "status", res.Status)
				row(w, "growth_rate", cell(res.GrowthRate))
				for _, mo := range res.Members {
					row(w, mo.Name, "abundance", mo.Abundance)
					for _, f := range mo.Fluxes {
						row(w, mo.Name, f.Reaction, f.Flux)
					}
				}
			})
		},
	}
	cmd.Flags().Float64SliceVar(&abundance, "abundance", nil, "relative abundance per model (default: equal)")
	cmd.Flags().StringSliceVar(&biomass, "biomass", nil, "biomass reaction per model (default: BIOMASS_<model id>)")
	cmd.Flags().StringVar(&shared, "shared-compartment", "", "compartment pooled across members")
	return cmd
}
