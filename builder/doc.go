// Package builder generates synthetic metabolic network models for tests,
// examples and benchmarks. It uses functional options and composable
// constructors.
//
// The package offers:
//
//   - BuildModel(id, mopts, bopts, cons...): the single orchestrator.
//   - Constructors:
//     – Pathway(n):            uptake → m0 → … → m(n-1) → biomass.
//     – Cycle(n):              closed irreversible loop, no boundaries.
//     – Star(k):               fed hub fanning out into k dead-end leaves.
//     – Exchange(i):           opens metabolite i to the environment.
//     – Leak(i, j):            unbalanced pair producing m(j) from nothing.
//     – RandomNetwork(n, r, p): r random conversions over n metabolites.
//   - Options: WithIDScheme, WithCompartment, WithSeed, WithRand, WithBound,
//     WithUptake, WithCoefficientFn.
//
// Constructors address metabolites by index, and an index maps to the same ID
// everywhere, so fixtures compose:
//
//	m, err := builder.BuildModel("demo", nil, nil,
//		builder.Pathway(4),
//		builder.Leak(1, 3),
//	)
//
// Option constructors panic on meaningless values; constructors return
// sentinel errors (ErrTooFewMetabolites, ErrInvalidProbability,
// ErrNeedRandSource, ErrConstructFailed) and never panic.
package builder
