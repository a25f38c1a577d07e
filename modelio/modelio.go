// SPDX-License-Identifier: MIT
//
// File: modelio.go
// Role: COBRA-style JSON / YAML model files.
//
// Schema (shared by both encodings):
//
//	id, name, compartments{id: name}, version
//	metabolites[]{id, name, compartment, formula}
//	reactions[]{id, name, metabolites{id: coef}, lower_bound, upper_bound,
//	            objective_coefficient, subsystem}
//
// Determinism:
//   - Writers emit metabolites and reactions sorted by ID, so encoding the
//     same model twice yields identical bytes.

package modelio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvflux/core"
)

var (
	// ErrUnsupportedFormat indicates a file extension other than .json, .yaml or .yml.
	ErrUnsupportedFormat = errors.New("modelio: unsupported model format")

	// ErrInvalidModel indicates a document that decodes but does not form a valid model.
	ErrInvalidModel = errors.New("modelio: invalid model document")
)

// schemaVersion is written to every document.
const schemaVersion = "1"

// knownCompartments names the usual BiGG compartment codes.
var knownCompartments = map[string]string{
	"c": "cytosol",
	"e": "extracellular space",
	"p": "periplasm",
	"m": "mitochondria",
	"n": "nucleus",
	"x": "peroxisome",
	"r": "endoplasmic reticulum",
	"g": "golgi apparatus",
	"v": "vacuole",
}

type document struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name,omitempty" yaml:"name,omitempty"`
	Compartments map[string]string `json:"compartments,omitempty" yaml:"compartments,omitempty"`
	Metabolites  []metaboliteDoc   `json:"metabolites" yaml:"metabolites"`
	Reactions    []reactionDoc     `json:"reactions" yaml:"reactions"`
	Version      string            `json:"version,omitempty" yaml:"version,omitempty"`
}

type metaboliteDoc struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Compartment string `json:"compartment,omitempty" yaml:"compartment,omitempty"`
	Formula     string `json:"formula,omitempty" yaml:"formula,omitempty"`
}

type reactionDoc struct {
	ID                   string             `json:"id" yaml:"id"`
	Name                 string             `json:"name,omitempty" yaml:"name,omitempty"`
	Metabolites          map[string]float64 `json:"metabolites" yaml:"metabolites"`
	LowerBound           float64            `json:"lower_bound" yaml:"lower_bound"`
	UpperBound           float64            `json:"upper_bound" yaml:"upper_bound"`
	ObjectiveCoefficient float64            `json:"objective_coefficient,omitempty" yaml:"objective_coefficient,omitempty"`
	Subsystem            string             `json:"subsystem,omitempty" yaml:"subsystem,omitempty"`
}

// toModel validates doc through the core admission rules.
func (doc *document) toModel() (*core.Model, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: missing model id", ErrInvalidModel)
	}
	var mopts []core.ModelOption
	if doc.Name != "" {
		mopts = append(mopts, core.WithName(doc.Name))
	}
	m := core.NewModel(doc.ID, mopts...)
	for _, md := range doc.Metabolites {
		met := core.Metabolite{ID: md.ID, Name: md.Name, Compartment: md.Compartment, Formula: md.Formula}
		if err := m.AddMetabolite(met); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
		}
	}
	for _, rd := range doc.Reactions {
		r := core.Reaction{
			ID:                   rd.ID,
			Name:                 rd.Name,
			Subsystem:            rd.Subsystem,
			Stoichiometry:        rd.Metabolites,
			LowerBound:           rd.LowerBound,
			UpperBound:           rd.UpperBound,
			ObjectiveCoefficient: rd.ObjectiveCoefficient,
		}
		if err := m.AddReaction(r); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
		}
	}
	return m, nil
}

// fromModel snapshots m into a document.
func fromModel(m *core.Model) *document {
	doc := &document{
		ID:           m.ID(),
		Name:         m.Name(),
		Compartments: make(map[string]string),
		Version:      schemaVersion,
	}
	for _, met := range m.Metabolites() {
		doc.Metabolites = append(doc.Metabolites, metaboliteDoc{
			ID: met.ID, Name: met.Name, Compartment: met.Compartment, Formula: met.Formula,
		})
		if met.Compartment == "" {
			continue
		}
		name, ok := knownCompartments[met.Compartment]
		if !ok {
			name = met.Compartment
		}
		doc.Compartments[met.Compartment] = name
	}
	for _, r := range m.Reactions() {
		doc.Reactions = append(doc.Reactions, reactionDoc{
			ID:                   r.ID,
			Name:                 r.Name,
			Metabolites:          r.Stoichiometry,
			LowerBound:           r.LowerBound,
			UpperBound:           r.UpperBound,
			ObjectiveCoefficient: r.ObjectiveCoefficient,
			Subsystem:            r.Subsystem,
		})
	}
	if len(doc.Compartments) == 0 {
		doc.Compartments = nil
	}
	return doc
}

// ReadJSON decodes a COBRA JSON model.
func ReadJSON(r io.Reader) (*core.Model, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("modelio: decode json: %w", err)
	}
	return doc.toModel()
}

// WriteJSON encodes m as indented COBRA JSON.
func WriteJSON(w io.Writer, m *core.Model) error {
	if m == nil {
		return fmt.Errorf("%w: nil model", ErrInvalidModel)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fromModel(m))
}

// ReadYAML decodes the YAML rendering of the COBRA schema.
func ReadYAML(r io.Reader) (*core.Model, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("modelio: decode yaml: %w", err)
	}
	return doc.toModel()
}

// WriteYAML encodes m as YAML.
func WriteYAML(w io.Writer, m *core.Model) error {
	if m == nil {
		return fmt.Errorf("%w: nil model", ErrInvalidModel)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fromModel(m)); err != nil {
		return err
	}
	return enc.Close()
}

// Format is a model file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// LoadFile reads a model, choosing the decoder by extension.
func LoadFile(path string) (*core.Model, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m *core.Model
	if format == FormatJSON {
		m, err = ReadJSON(f)
	} else {
		m, err = ReadYAML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// SaveFile writes m, choosing the encoder by extension.
func SaveFile(path string, m *core.Model) (err error) {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if format == FormatJSON {
		return WriteJSON(f, m)
	}
	return WriteYAML(f, m)
}

// Compartments lists the compartment codes used by m's metabolites.
func Compartments(m *core.Model) []string {
	seen := make(map[string]bool)
	var out []string
	for _, met := range m.Metabolites() {
		if met.Compartment != "" && !seen[met.Compartment] {
			seen[met.Compartment] = true
			out = append(out, met.Compartment)
		}
	}
	sort.Strings(out)
	return out
}
