// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for model→matrix builders.
//
// Design goals:
//   - Deterministic behavior: rows follow metabolite ID order, columns follow
//     reaction ID order, independent of map iteration.
//   - No dead switches: each option changes which columns are emitted.

package matrix

import "github.com/katalvlaran/lvflux/core"

// DefaultEpsilon is the relative tolerance used by Rank when none is given.
const DefaultEpsilon = 1e-9

// Option configures a builder.
type Option func(*Options)

// Options holds the resolved builder configuration.
type Options struct {
	skipBoundary bool
	keep         func(core.Reaction) bool
}

// WithoutBoundary drops boundary (single-metabolite) reactions from the columns.
func WithoutBoundary() Option {
	return func(o *Options) { o.skipBoundary = true }
}

// WithReactionFilter keeps only reactions for which keep returns true.
// A nil filter is ignored.
func WithReactionFilter(keep func(core.Reaction) bool) Option {
	return func(o *Options) {
		if keep != nil {
			o.keep = keep
		}
	}
}

// gatherOptions applies opts on top of the defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{keep: func(core.Reaction) bool { return true }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// accepts reports whether r becomes a column.
func (o Options) accepts(r core.Reaction) bool {
	if o.skipBoundary && r.IsBoundary() {
		return false
	}
	return o.keep(r)
}
