package cli

import (
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/matrix"
	"github.com/katalvlaran/lvflux/modelio"
	"github.com/katalvlaran/lvflux/topology"
)

type scopeEntry struct {
	Metabolite string   `json:"metabolite"`
	Depth      int      `json:"depth"`
	Path       []string `json:"path,omitempty"`
}

type scopeOut struct {
	Seeds       []string     `json:"seeds"`
	Metabolites []scopeEntry `json:"metabolites"`
	Reactions   []string     `json:"reactions"`
}

func newScopeCmd(a *app) *cobra.Command {
	var (
		seeds    []string
		maxDepth int
	)
	cmd := &cobra.Command{
		Use:   "scope MODEL",
		Short: "Expand the network from seed metabolites and uptake reactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			m, err := a.load(args[0])
			if err != nil {
				return err
			}
			res, err := topology.Scope(m, seeds,
				topology.WithContext(ctx),
				topology.WithMaxDepth(maxDepth),
			)
			if err != nil {
				return err
			}
			out := scopeOut{Seeds: seeds, Reactions: res.Reactions}
			for _, id := range res.Order {
				path, err := res.PathTo(m, id)
				if err != nil {
					return err
				}
				out.Metabolites = append(out.Metabolites, scopeEntry{Metabolite: id, Depth: res.Depth[id], Path: path})
			}
			return a.emit(out, func(w io.Writer) {
				row(w, "METABOLITE", "DEPTH", "PATH")
				for _, e := range out.Metabolites {
					row(w, e.Metabolite, e.Depth, strings.Join(e.Path, " > "))
				}
			})
		},
	}
	cmd.Flags().StringSliceVar(&seeds, "seed", nil, "seed metabolites (default: uptake reactions only)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "stop after this many rounds (0: no limit)")
	return cmd
}

type statsOut struct {
	Model              string   `json:"model"`
	Name               string   `json:"name"`
	Metabolites        int      `json:"metabolites"`
	Reactions          int      `json:"reactions"`
	BoundaryReactions  int      `json:"boundary_reactions"`
	Compartments       []string `json:"compartments"`
	Rank               int      `json:"rank"`
	InternalRank       int      `json:"internal_rank"`
	SingleReactionMets []string `json:"single_reaction_metabolites"`
	Objective          []string `json:"objective"`
	Direction          string   `json:"direction"`
}

// rank returns the numerical rank of the stoichiometric matrix, 0 when no
// reaction survives the options.
func rank(m *core.Model, eps float64, opts ...matrix.Option) (int, error) {
	s, err := matrix.NewStoichiometric(m, opts...)
	if errors.Is(err, matrix.ErrEmpty) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return s.Rank(eps), nil
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats MODEL",
		Short: "Summarise the structure of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			m, err := a.load(args[0])
			if err != nil {
				return err
			}
			out := statsOut{
				Model:             m.ID(),
				Name:              m.Name(),
				Metabolites:       m.MetaboliteCount(),
				Reactions:         m.ReactionCount(),
				BoundaryReactions: len(m.BoundaryReactions()),
				Compartments:      modelio.Compartments(m),
				Direction:         m.Direction().String(),
			}
			if out.Rank, err = rank(m, m.Tolerance()); err != nil {
				return err
			}
			if out.InternalRank, err = rank(m, m.Tolerance(), matrix.WithoutBoundary()); err != nil {
				return err
			}
			if out.SingleReactionMets, err = topology.SingleReactionMetabolites(m, nil); err != nil {
				return err
			}
			for id := range m.Objective() {
				out.Objective = append(out.Objective, id)
			}
			sort.Strings(out.Objective)

			return a.emit(out, func(w io.Writer) {
				row(w, "model", out.Model)
				row(w, "name", out.Name)
				row(w, "metabolites", out.Metabolites)
				row(w, "reactions", out.Reactions)
				row(w, "boundary_reactions", out.BoundaryReactions)
				row(w, "compartments", strings.Join(out.Compartments, ","))
				row(w, "rank", out.Rank)
				row(w, "internal_rank", out.InternalRank)
				row(w, "single_reaction_metabolites", len(out.SingleReactionMets))
				row(w, "objective", out.Direction+" "+strings.Join(out.Objective, "+"))
			})
		},
	}
}
