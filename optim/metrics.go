// SPDX-License-Identifier: MIT
//
// File: metrics.go
// Role: Prometheus instrumentation for any Solver.
//
// Metrics (prefix lvflux_solver_):
//   - solves_total{backend,status}        counter; status "error" on a non-nil error
//   - solve_duration_seconds{backend}     histogram of wall time per Solve
//
// Concurrency:
//   - Metrics and Instrumented are safe for concurrent use.

package optim

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsPrefix = "lvflux_solver_"

// statusError labels solves that returned a Go error.
const statusError = "error"

// Metrics holds the collectors shared by every instrumented solver.
type Metrics struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the solver collectors and registers them with reg.
// A nil reg selects prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricsPrefix + "solves_total",
			Help: "Total number of optimisation solves by backend and termination status.",
		}, []string{"backend", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricsPrefix + "solve_duration_seconds",
			Help:    "Wall time of a single optimisation solve.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"backend"}),
	}
	for _, c := range []prometheus.Collector{m.solves, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Instrumented decorates a Solver with Metrics.
type Instrumented struct {
	inner   Solver
	metrics *Metrics
}

// Instrument wraps s. A nil m returns s unchanged.
func Instrument(s Solver, m *Metrics) Solver {
	if m == nil {
		return s
	}
	return &Instrumented{inner: s, metrics: m}
}

// Name implements Solver; it reports the wrapped backend's name.
func (i *Instrumented) Name() string { return i.inner.Name() }

// Accuracy implements Approximate for the wrapped backend.
func (i *Instrumented) Accuracy() float64 { return Accuracy(i.inner) }

// Solve implements Solver.
func (i *Instrumented) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	start := time.Now()
	sol, err := i.inner.Solve(ctx, p)
	backend := i.inner.Name()
	i.metrics.duration.WithLabelValues(backend).Observe(time.Since(start).Seconds())

	status := statusError
	if err == nil && sol != nil {
		status = sol.Status.String()
	}
	i.metrics.solves.WithLabelValues(backend, status).Inc()

	return sol, err
}
