// SPDX-License-Identifier: MIT
// Package: lvflux/builder
//
// api.go - public entry-points for the builder package.
//
// Contract:
//   - One orchestrator: BuildModel(id, mopts, bopts, cons...). Creates the
//     model, resolves cfg, runs cons in order.
//   - Constructors share metabolites: a metabolite index maps to the same ID
//     in every constructor, so fixtures compose (Pathway + Leak, Star + Cycle).
//   - Determinism: same inputs, options, seed and constructor order give
//     identical models.

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvflux/core"
)

// Constructor applies a deterministic model mutation using the resolved
// builderConfig. Constructors validate parameters first and return sentinel
// errors; they never panic.
type Constructor func(m *core.Model, cfg builderConfig) error

// BuildModel creates a new core.Model with model options mopts, resolves the
// builder configuration from bopts and applies all constructors in order.
// Any constructor error is wrapped with "BuildModel: %w" and returned
// immediately; the partial model is discarded.
func BuildModel(id string, mopts []core.ModelOption, bopts []BuilderOption, cons ...Constructor) (*core.Model, error) {
	m := core.NewModel(id, mopts...)
	cfg := newBuilderConfig(bopts...)

	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildModel: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(m, cfg); err != nil {
			return nil, fmt.Errorf("BuildModel: %w", err)
		}
	}

	return m, nil
}

// MetaboliteID returns the ID BuildModel assigns to metabolite index i under
// the given options. Tests use it to address generated metabolites.
func MetaboliteID(i int, bopts ...BuilderOption) string {
	return newBuilderConfig(bopts...).metID(i)
}

// BiomassID returns the biomass reaction ID Pathway emits for a model.
func BiomassID(modelID string) string { return biomassPrefix + modelID }
