// SPDX-License-Identifier: MIT
// Package optim: sentinel error set.
// Infeasible and unbounded problems are NOT errors: solvers report them via
// Solution.Status. Errors below cover malformed problems, unsupported
// objective shapes and numeric breakdown.

package optim

import "errors"

var (
	// ErrEmptyName indicates a variable or constraint without a name.
	ErrEmptyName = errors.New("optim: empty name")

	// ErrDuplicateName indicates a variable or constraint name already in use.
	ErrDuplicateName = errors.New("optim: duplicate name")

	// ErrUnknownVariable indicates a lookup of a missing variable.
	ErrUnknownVariable = errors.New("optim: unknown variable")

	// ErrUnknownConstraint indicates a lookup of a missing constraint.
	ErrUnknownConstraint = errors.New("optim: unknown constraint")

	// ErrForeignVariable indicates an expression references a variable owned by another Problem.
	ErrForeignVariable = errors.New("optim: variable belongs to another problem")

	// ErrBadBounds indicates lower > upper or a NaN bound.
	ErrBadBounds = errors.New("optim: invalid bounds")

	// ErrBadCoefficient indicates a NaN or infinite coefficient.
	ErrBadCoefficient = errors.New("optim: invalid coefficient")

	// ErrQuadraticObjective indicates an LP-only backend received quadratic terms.
	ErrQuadraticObjective = errors.New("optim: quadratic objective not supported by backend")

	// ErrNonConvex indicates a quadratic objective that is not convex in the requested sense.
	ErrNonConvex = errors.New("optim: objective is not convex")

	// ErrNumerical indicates a numeric breakdown inside a backend.
	ErrNumerical = errors.New("optim: numerical failure")

	// ErrUnknownBackend indicates NewSolver was asked for an unregistered backend.
	ErrUnknownBackend = errors.New("optim: unknown solver backend")
)
