// SPDX-License-Identifier: MIT

// Package fba: functional configuration shared by every analysis.
//
// Defaults:
//   - Solver: optim.SimplexSolver (exact LP).
//   - QPSolver: optim.ADMMSolver (L2 leak modes).
//   - Logger: zap.NewNop().
//   - Workers: runtime.GOMAXPROCS(0).
//   - Cutoff: model tolerance; CutoffMult: 1.
//   - Mode: CanProduce; Norm: NormL2; SharedCompartment: "e".

package fba

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/katalvlaran/lvflux/optim"
)

// DefaultSharedCompartment is the compartment pooled across community members.
const DefaultSharedCompartment = "e"

// Mode selects the direction a metabolite is tested in.
type Mode int

const (
	// CanProduce tests whether the network can make the metabolite.
	CanProduce Mode = iota
	// CanConsume tests whether the network can use the metabolite up.
	CanConsume
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == CanConsume {
		return "can_consume"
	}
	return "can_produce"
}

// ParseMode converts "can_produce" / "can_consume" (also "produce" / "consume").
func ParseMode(s string) (Mode, error) {
	switch s {
	case "can_produce", "produce", "":
		return CanProduce, nil
	case "can_consume", "consume":
		return CanConsume, nil
	}
	return CanProduce, fmt.Errorf("%w: mode %q", ErrOptionViolation, s)
}

// Norm selects the flux norm minimised by leak-mode search.
type Norm int

const (
	// NormL2 minimises Σv² (quadratic program).
	NormL2 Norm = iota
	// NormL1 minimises Σ|v| (linear program).
	NormL1
)

// String implements fmt.Stringer.
func (n Norm) String() string {
	if n == NormL1 {
		return "l1"
	}
	return "l2"
}

// ParseNorm converts "l1" / "l2".
func ParseNorm(s string) (Norm, error) {
	switch s {
	case "l2", "L2", "":
		return NormL2, nil
	case "l1", "L1":
		return NormL1, nil
	}
	return NormL2, fmt.Errorf("%w: norm %q", ErrOptionViolation, s)
}

// Option configures an analysis.
type Option func(*Options)

// Options is the resolved analysis configuration.
type Options struct {
	Solver            optim.Solver
	QPSolver          optim.Solver
	Logger            *zap.Logger
	Workers           int
	Cutoff            float64
	CutoffMult        float64
	CarbonSource      string
	Demands           []string
	Mode              Mode
	Norm              Norm
	SharedCompartment string

	err error
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Solver:            optim.NewSimplexSolver(),
		QPSolver:          optim.NewADMMSolver(),
		Logger:            zap.NewNop(),
		Workers:           runtime.GOMAXPROCS(0),
		CutoffMult:        1,
		Mode:              CanProduce,
		Norm:              NormL2,
		SharedCompartment: DefaultSharedCompartment,
	}
}

// WithSolver sets the LP backend. A nil solver is ignored.
func WithSolver(s optim.Solver) Option {
	return func(o *Options) {
		if s != nil {
			o.Solver = s
		}
	}
}

// WithQPSolver sets the backend used for quadratic objectives. A nil solver is ignored.
func WithQPSolver(s optim.Solver) Option {
	return func(o *Options) {
		if s != nil {
			o.QPSolver = s
		}
	}
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithWorkers bounds the number of concurrent metabolite tests.
// n == 0 keeps the default; n < 0 is a violation.
func WithWorkers(n int) Option {
	return func(o *Options) {
		switch {
		case n < 0:
			o.err = fmt.Errorf("%w: workers cannot be negative (%d)", ErrOptionViolation, n)
		case n > 0:
			o.Workers = n
		}
	}
}

// WithCutoff sets the zero cutoff; c ≤ 0 selects the model tolerance.
func WithCutoff(c float64) Option {
	return func(o *Options) { o.Cutoff = c }
}

// WithCutoffMult scales the cutoff used to report leak-mode reactions (> 0).
func WithCutoffMult(k float64) Option {
	return func(o *Options) {
		if !(k > 0) {
			o.err = fmt.Errorf("%w: cutoff multiplier must be positive (%g)", ErrOptionViolation, k)
			return
		}
		o.CutoffMult = k
	}
}

// WithCarbonSource names the carbon source metabolite; its uptake reaction is EX_<id>.
func WithCarbonSource(id string) Option {
	return func(o *Options) { o.CarbonSource = id }
}

// WithDemands restricts metabolite tests to the given IDs (order preserved).
func WithDemands(ids ...string) Option {
	return func(o *Options) { o.Demands = append([]string(nil), ids...) }
}

// WithMode selects CanProduce or CanConsume.
func WithMode(m Mode) Option {
	return func(o *Options) {
		if m != CanProduce && m != CanConsume {
			o.err = fmt.Errorf("%w: unknown mode %d", ErrOptionViolation, int(m))
			return
		}
		o.Mode = m
	}
}

// WithNorm selects the leak-mode norm.
func WithNorm(n Norm) Option {
	return func(o *Options) {
		if n != NormL1 && n != NormL2 {
			o.err = fmt.Errorf("%w: unknown norm %d", ErrOptionViolation, int(n))
			return
		}
		o.Norm = n
	}
}

// WithSharedCompartment sets the compartment pooled across community members.
func WithSharedCompartment(c string) Option {
	return func(o *Options) {
		if c != "" {
			o.SharedCompartment = c
		}
	}
}

// gatherOptions applies opts on top of the defaults and surfaces violations.
func gatherOptions(opts ...Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return o, o.err
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o, nil
}

// with returns a copy of o with extra options applied.
func (o Options) with(opts ...Option) Options {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
