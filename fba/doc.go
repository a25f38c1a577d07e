// Package fba implements constraint-based analyses of a core.Model on top of
// the optim backends.
//
// What
//
//   - Optimize: plain flux balance analysis, S·v = 0 within flux bounds.
//   - BuildAggregateModel / BuildCommunity: abundance-weighted growth of one
//     or several organisms sharing an extracellular pool.
//   - CheckMetabolite / FindBlockedMets: sink-based producibility screening,
//     classifying each metabolite as Blocked, Available, ProducedFromNothing
//     or Unsolved.
//   - FindMetsToConnect: greedy ranking of the sinks that rescue most of the
//     blocked set.
//   - FindDeadEnds: single-reaction metabolites that can be neither produced
//     nor consumed.
//   - FindLeaks / FindLeakModes: mass created by the closed network and the
//     smallest flux distributions that create it.
//
// Options
//
//	Every analysis takes ctx first and a list of Option values (WithSolver,
//	WithQPSolver, WithLogger, WithWorkers, WithCutoff, ...). The caller's
//	model is never mutated: analyses that add sinks work on clones.
//
// Concurrency
//
//	FindBlockedMets and FindLeakModes fan out on an errgroup bounded by
//	Workers. The first error cancels the remaining solves.
//
// Errors
//
//	Invalid input is reported with the sentinels in errors.go. A single
//	metabolite test that does not reach optimality is data (Unsolved), while
//	FindLeaks, whose one solve must succeed, fails with ErrNotOptimal.
//
// SPDX-License-Identifier: MIT
package fba
