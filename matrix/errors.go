// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All builders and accessors return these sentinels (optionally wrapped with
// context via fmt.Errorf("...: %w", ErrX)); tests match them with errors.Is.

package matrix

import "errors"

var (
	// ErrNilModel indicates that a nil *core.Model was passed into a builder.
	ErrNilModel = errors.New("matrix: model is nil")

	// ErrEmpty indicates that the selected model has no metabolites or no reactions.
	ErrEmpty = errors.New("matrix: model has no metabolites or reactions")

	// ErrUnknownMetabolite indicates that a referenced metabolite is not a row.
	ErrUnknownMetabolite = errors.New("matrix: unknown metabolite id")

	// ErrUnknownReaction indicates that a referenced reaction is not a column.
	ErrUnknownReaction = errors.New("matrix: unknown reaction id")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")
)
