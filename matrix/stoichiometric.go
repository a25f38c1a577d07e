// SPDX-License-Identifier: MIT
// Package matrix builds the stoichiometric matrix of a core.Model.
//
// Layout:
//   - Rows are metabolites in ascending ID order (every metabolite gets a row,
//     even one no selected reaction touches).
//   - Columns are the selected reactions in ascending ID order.
//   - S[i][j] is the coefficient of metabolite i in reaction j (negative =
//     consumed when the reaction runs forward).
//
// Complexity:
//   - NewStoichiometric: O(M·R) space for the dense backing store, O(M + R + nnz) fill.
//   - Accessors: O(1) except Row/Column/Nonzeros (O(R) or O(M) copies).

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvflux/core"
)

// Stoichiometric is the metabolite × reaction matrix S of a model.
type Stoichiometric struct {
	// Mat is the dense backing store; callers must treat it as read-only.
	Mat *mat.Dense

	// Metabolites lists row IDs, Reactions lists column IDs (both ascending).
	Metabolites []string
	Reactions   []string

	// Bounds holds the [lower, upper] flux bounds of each column.
	Bounds [][2]float64

	metIndex map[string]int
	rxnIndex map[string]int
}

// NewStoichiometric builds the stoichiometric matrix of m.
//
// Stage 1 (Validate): m non-nil.
// Stage 2 (Prepare): snapshot metabolites and the selected reactions.
// Stage 3 (Execute): fill the dense matrix column by column.
//
// Errors: ErrNilModel, ErrEmpty.
func NewStoichiometric(m *core.Model, opts ...Option) (*Stoichiometric, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o := gatherOptions(opts...)

	mets := m.MetaboliteIDs()
	var rxns []core.Reaction
	for _, r := range m.Reactions() {
		if o.accepts(r) {
			rxns = append(rxns, r)
		}
	}
	if len(mets) == 0 || len(rxns) == 0 {
		return nil, fmt.Errorf("NewStoichiometric(%s): %w", m.ID(), ErrEmpty)
	}

	s := &Stoichiometric{
		Mat:         mat.NewDense(len(mets), len(rxns), nil),
		Metabolites: mets,
		Reactions:   make([]string, len(rxns)),
		Bounds:      make([][2]float64, len(rxns)),
		metIndex:    make(map[string]int, len(mets)),
		rxnIndex:    make(map[string]int, len(rxns)),
	}
	for i, id := range mets {
		s.metIndex[id] = i
	}
	for j, r := range rxns {
		s.Reactions[j] = r.ID
		s.rxnIndex[r.ID] = j
		s.Bounds[j] = [2]float64{r.LowerBound, r.UpperBound}
		for mid, c := range r.Stoichiometry {
			s.Mat.Set(s.metIndex[mid], j, c)
		}
	}

	return s, nil
}

// Rows returns the number of metabolites.
func (s *Stoichiometric) Rows() int { return len(s.Metabolites) }

// Cols returns the number of reactions.
func (s *Stoichiometric) Cols() int { return len(s.Reactions) }

// MetaboliteIndex returns the row of a metabolite.
func (s *Stoichiometric) MetaboliteIndex(id string) (int, error) {
	i, ok := s.metIndex[id]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownMetabolite, id)
	}
	return i, nil
}

// ReactionIndex returns the column of a reaction.
func (s *Stoichiometric) ReactionIndex(id string) (int, error) {
	j, ok := s.rxnIndex[id]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownReaction, id)
	}
	return j, nil
}

// At returns S[i][j] with bounds checking.
func (s *Stoichiometric) At(i, j int) (float64, error) {
	if i < 0 || i >= s.Rows() || j < 0 || j >= s.Cols() {
		return 0, fmt.Errorf("At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	return s.Mat.At(i, j), nil
}

// Row returns a copy of the row of metabolite id.
func (s *Stoichiometric) Row(id string) ([]float64, error) {
	i, err := s.MetaboliteIndex(id)
	if err != nil {
		return nil, err
	}
	return mat.Row(nil, i, s.Mat), nil
}

// Column returns a copy of the column of reaction id.
func (s *Stoichiometric) Column(id string) ([]float64, error) {
	j, err := s.ReactionIndex(id)
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, j, s.Mat), nil
}

// Nonzeros returns the ascending column indices with a non-zero entry in row i.
func (s *Stoichiometric) Nonzeros(i int) ([]int, error) {
	if i < 0 || i >= s.Rows() {
		return nil, fmt.Errorf("Nonzeros(%d): %w", i, ErrOutOfRange)
	}
	var out []int
	for j := 0; j < s.Cols(); j++ {
		if s.Mat.At(i, j) != 0 {
			out = append(out, j)
		}
	}
	return out, nil
}

// Rank returns the numerical rank of S: the number of singular values larger
// than eps times the largest one. eps ≤ 0 selects DefaultEpsilon.
func (s *Stoichiometric) Rank(eps float64) int {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	var svd mat.SVD
	if !svd.Factorize(s.Mat, mat.SVDNone) {
		return 0
	}
	vals := svd.Values(nil)
	if len(vals) == 0 || vals[0] == 0 {
		return 0
	}
	rank := 0
	for _, v := range vals {
		if v > eps*vals[0] {
			rank++
		}
	}
	return rank
}
