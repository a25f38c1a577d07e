// SPDX-License-Identifier: MIT

package fba

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/topology"
)

// exchangeMarker excludes extracellular pseudo-metabolites from dead-end search.
const exchangeMarker = "_ex"

// FindDeadEnds returns the metabolites that take part in exactly one reaction
// (IDs containing "_ex" excluded) and can be neither produced nor consumed.
//
// Both screens run through FindBlockedMets with the single-reaction
// metabolites as demands. A metabolite counts as producible (consumable) when
// its test is Available or ProducedFromNothing; Unsolved tests prove nothing.
// The result is sorted by ID.
func FindDeadEnds(ctx context.Context, m *core.Model, opts ...Option) ([]string, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}
	one, err := topology.SingleReactionMetabolites(m, func(id string) bool {
		return strings.Contains(id, exchangeMarker)
	})
	if err != nil {
		return nil, err
	}
	if len(one) == 0 {
		return nil, nil
	}

	active := make(map[string]bool, len(one))
	for _, mode := range []Mode{CanProduce, CanConsume} {
		mo := o.with(WithDemands(one...), WithMode(mode))
		res, err := findBlocked(ctx, m, &mo)
		if err != nil {
			return nil, err
		}
		for _, t := range res.Available {
			active[t.Metabolite] = true
		}
		for _, t := range res.ProducedFromNothing {
			active[t.Metabolite] = true
		}
	}

	var dead []string
	for _, id := range one {
		if !active[id] {
			dead = append(dead, id)
		}
	}
	o.Logger.Info("dead-end search done",
		zap.String("model", m.ID()),
		zap.Int("candidates", len(one)),
		zap.Int("dead_ends", len(dead)),
	)

	return dead, nil
}
