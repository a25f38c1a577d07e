// Package topology provides structural (flux-free) analyses of a core.Model:
// network-expansion scope and single-reaction metabolites.
//
// Scope explores metabolites in increasing expansion depth from a seed set.
// A reaction fires in a direction its bounds allow once every substrate on
// that side has been visited; its products then join the scope one level
// deeper.
package topology

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/lvflux/core"
)

// direction of a reaction firing.
type direction int8

const (
	forward  direction = 1
	backward direction = -1
)

// queueItem pairs a metabolite with its expansion depth.
type queueItem struct {
	id    string
	depth int
}

// expander encapsulates mutable expansion state.
type expander struct {
	model   *core.Model
	opts    ScopeOptions
	ctx     context.Context
	rxns    map[string]core.Reaction
	queue   []queueItem
	inScope map[string]bool
	visited map[string]bool
	fired   map[string]map[direction]bool
	res     *ScopeResult
}

// Scope runs network expansion on m from the given seed metabolites.
//
// Reactions without substrates on an allowed side (e.g. uptake through an
// exchange) fire unconditionally before the first seed is visited.
//
// Errors: ErrModelNil, ErrSeedNotFound, ErrOptionViolation, context errors,
// or a wrapped OnVisit error.
//
// Complexity: O(Σ|reaction| · k) where k is the number of reactions per
// metabolite; every reaction side is inspected once per visited substrate.
func Scope(m *core.Model, seeds []string, opts ...Option) (*ScopeResult, error) {
	if m == nil {
		return nil, ErrModelNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	for _, s := range seeds {
		if !m.HasMetabolite(s) {
			return nil, fmt.Errorf("%w: %q", ErrSeedNotFound, s)
		}
	}

	n := m.MetaboliteCount()
	e := &expander{
		model:   m,
		opts:    o,
		ctx:     o.Ctx,
		rxns:    make(map[string]core.Reaction),
		queue:   make([]queueItem, 0, n),
		inScope: make(map[string]bool, n),
		visited: make(map[string]bool, n),
		fired:   make(map[string]map[direction]bool),
		res: &ScopeResult{
			Order:   make([]string, 0, n),
			Depth:   make(map[string]int, n),
			FiredBy: make(map[string]string),
		},
	}
	for _, r := range m.Reactions() {
		if o.ReactionFilter(r) {
			e.rxns[r.ID] = r
		}
	}

	// Stage 1: seeds at depth 0.
	uniq := append([]string(nil), seeds...)
	sort.Strings(uniq)
	for _, s := range uniq {
		if !e.inScope[s] {
			e.enqueue(s, 0, "")
		}
	}
	// Stage 2: substrate-free reactions.
	ids := make([]string, 0, len(e.rxns))
	for id := range e.rxns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		e.tryFire(e.rxns[id], 0)
	}
	// Stage 3: expand.
	return e.res, e.loop()
}

// enqueue adds id to the scope at depth d, recording the producing reaction.
func (e *expander) enqueue(id string, d int, rxnID string) {
	e.inScope[id] = true
	e.res.Depth[id] = d
	if rxnID != "" {
		e.res.FiredBy[id] = rxnID
	}
	e.queue = append(e.queue, queueItem{id: id, depth: d})
}

// loop processes the queue until empty, error or cancellation.
func (e *expander) loop() error {
	for len(e.queue) > 0 {
		select {
		case <-e.ctx.Done():
			return e.ctx.Err()
		default:
		}

		item := e.queue[0]
		e.queue = e.queue[1:]
		if err := e.visit(item); err != nil {
			return err
		}
		rxnIDs, err := e.model.MetaboliteReactions(item.id)
		if err != nil {
			return err
		}
		for _, id := range rxnIDs {
			if r, ok := e.rxns[id]; ok {
				e.tryFire(r, item.depth)
			}
		}
	}
	return nil
}

// visit records the metabolite in Order and calls OnVisit.
func (e *expander) visit(item queueItem) error {
	e.visited[item.id] = true
	e.res.Order = append(e.res.Order, item.id)
	if err := e.opts.OnVisit(item.id, item.depth); err != nil {
		return fmt.Errorf("topology: OnVisit error at %q: %w", item.id, err)
	}
	return nil
}

// tryFire fires r in every allowed direction whose substrates are all visited.
func (e *expander) tryFire(r core.Reaction, depth int) {
	if r.UpperBound > 0 {
		e.fire(r, forward, depth)
	}
	if r.LowerBound < 0 {
		e.fire(r, backward, depth)
	}
}

// fire checks the substrate side of r for dir and enqueues unseen products.
func (e *expander) fire(r core.Reaction, dir direction, depth int) {
	if e.fired[r.ID][dir] {
		return
	}
	var products []string
	for metID, coef := range r.Stoichiometry {
		side := coef * float64(dir)
		if side < 0 && !e.visited[metID] {
			return
		}
		if side > 0 {
			products = append(products, metID)
		}
	}
	if e.fired[r.ID] == nil {
		e.fired[r.ID] = make(map[direction]bool, 2)
		e.res.Reactions = append(e.res.Reactions, r.ID)
	}
	e.fired[r.ID][dir] = true

	next := depth + 1
	if e.opts.MaxDepth > 0 && next > e.opts.MaxDepth {
		return
	}
	sort.Strings(products)
	for _, p := range products {
		if !e.inScope[p] {
			e.enqueue(p, next, r.ID)
		}
	}
}

// sortedIDs returns the keys of a stoichiometry map in ascending order.
func sortedIDs(st map[string]float64) []string {
	out := make([]string, 0, len(st))
	for id := range st {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
