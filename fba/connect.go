// SPDX-License-Identifier: MIT

package fba

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/lvflux/core"
)

// Connection credits a sink on Metabolite with the metabolites it unblocks.
type Connection struct {
	Metabolite string
	// Count is len(Unblocked) + 1 (the metabolite itself).
	Count int
	// Unblocked lists the other blocked metabolites the sink made producible.
	Unblocked []string
}

// FindMetsToConnect ranks blocked metabolites by how much of the blocked set a
// sink on each of them would rescue.
//
// Implementation (greedy, on a private clone of m):
//   - Stage 1: take the next still-blocked metabolite and attach a reversible
//     sink SK_<met> (if absent).
//   - Stage 2: re-screen the remaining blocked metabolites in CanProduce mode.
//   - Stage 3: credit the sink with everything that became unblocked (+1 for
//     itself) and drop those metabolites from the work list.
//
// Unsolved re-tests count as still blocked. The result is sorted by Count
// descending, ties by metabolite ID descending.
func FindMetsToConnect(ctx context.Context, m *core.Model, blocked []string, opts ...Option) ([]Connection, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}
	o.Mode = CanProduce

	remaining := make([]string, 0, len(blocked))
	seen := make(map[string]bool, len(blocked))
	for _, id := range blocked {
		if !m.HasMetabolite(id) {
			return nil, fmt.Errorf("%w: %q", ErrMetaboliteNotFound, id)
		}
		if !seen[id] {
			seen[id] = true
			remaining = append(remaining, id)
		}
	}

	start := time.Now()
	work := m.Clone()
	var out []Connection
	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Stage 1
		met := remaining[0]
		remaining = remaining[1:]
		if !work.HasReaction(core.BoundaryID(core.Sink, met)) {
			if _, err := work.AddBoundary(met, core.Sink); err != nil {
				return nil, err
			}
		}
		conn := Connection{Metabolite: met, Count: 1}
		if len(remaining) == 0 {
			out = append(out, conn)
			break
		}

		// Stage 2
		ro := o.with(WithDemands(remaining...))
		res, err := findBlocked(ctx, work, &ro)
		if err != nil {
			return nil, err
		}

		// Stage 3
		still := make(map[string]bool, len(res.Blocked)+len(res.Unsolved))
		for _, id := range res.Blocked {
			still[id] = true
		}
		for _, t := range res.Unsolved {
			still[t.Metabolite] = true
		}
		next := remaining[:0:0]
		for _, id := range remaining {
			if still[id] {
				next = append(next, id)
			} else {
				conn.Unblocked = append(conn.Unblocked, id)
			}
		}
		conn.Count += len(conn.Unblocked)
		remaining = next
		out = append(out, conn)
		o.Logger.Debug("sink connected",
			zap.String("metabolite", met),
			zap.Int("unblocked", len(conn.Unblocked)),
			zap.Int("remaining", len(remaining)),
		)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Metabolite > out[j].Metabolite
	})
	o.Logger.Info("connection search done",
		zap.String("model", m.ID()),
		zap.Int("connections", len(out)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return out, nil
}
