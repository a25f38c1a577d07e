package modelio_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflux/core"
	"github.com/katalvlaran/lvflux/modelio"
)

func TestLoadFile_Toy(t *testing.T) {
	m, err := modelio.LoadFile(filepath.Join("testdata", "toy.json"))
	require.NoError(t, err)

	assert.Equal(t, "toy", m.ID())
	assert.Equal(t, "Toy glycolysis", m.Name())
	assert.Equal(t, 4, m.MetaboliteCount())
	assert.Equal(t, 5, m.ReactionCount())
	assert.Equal(t, map[string]float64{"BIOMASS_toy": 1}, m.Objective())
	assert.Equal(t, []string{"BIOMASS_toy", "EX_glc__D_e"}, m.BoundaryReactions())
	assert.Equal(t, []string{"c", "e"}, modelio.Compartments(m))

	glc, err := m.Metabolite("glc__D_e")
	require.NoError(t, err)
	assert.Equal(t, "C6H12O6", glc.Formula)

	ldh, err := m.Reaction("LDH_D")
	require.NoError(t, err)
	assert.True(t, ldh.Reversible())
	assert.Equal(t, "Pyruvate metabolism", ldh.Subsystem)
}

func TestRoundTrip(t *testing.T) {
	m, err := modelio.LoadFile(filepath.Join("testdata", "toy.json"))
	require.NoError(t, err)

	codecs := []struct {
		name  string
		write func(*bytes.Buffer, *core.Model) error
		read  func(*bytes.Buffer) (*core.Model, error)
	}{
		{
			name:  "json",
			write: func(b *bytes.Buffer, m *core.Model) error { return modelio.WriteJSON(b, m) },
			read:  func(b *bytes.Buffer) (*core.Model, error) { return modelio.ReadJSON(b) },
		},
		{
			name:  "yaml",
			write: func(b *bytes.Buffer, m *core.Model) error { return modelio.WriteYAML(b, m) },
			read:  func(b *bytes.Buffer) (*core.Model, error) { return modelio.ReadYAML(b) },
		},
	}
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.write(&buf, m))
			first := buf.String()

			got, err := c.read(&buf)
			require.NoError(t, err)
			assert.Equal(t, m.Metabolites(), got.Metabolites())
			assert.Equal(t, m.Reactions(), got.Reactions())

			var again bytes.Buffer
			require.NoError(t, c.write(&again, got))
			assert.Equal(t, first, again.String(), "encoding is deterministic")
		})
	}
}

func TestSaveFile(t *testing.T) {
	m, err := modelio.LoadFile(filepath.Join("testdata", "toy.json"))
	require.NoError(t, err)
	dir := t.TempDir()

	for _, name := range []string{"toy.yml", "toy.yaml", "toy.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, modelio.SaveFile(path, m), name)
		back, err := modelio.LoadFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, m.ReactionIDs(), back.ReactionIDs(), name)
	}

	err = modelio.SaveFile(filepath.Join(dir, "toy.xml"), m)
	require.ErrorIs(t, err, modelio.ErrUnsupportedFormat)
	_, err = modelio.LoadFile(filepath.Join(dir, "toy.sbml"))
	require.ErrorIs(t, err, modelio.ErrUnsupportedFormat)
}

func TestReadErrors(t *testing.T) {
	_, err := modelio.ReadJSON(strings.NewReader(`{"id": `))
	require.Error(t, err)

	_, err = modelio.ReadJSON(strings.NewReader(`{"metabolites": []}`))
	require.ErrorIs(t, err, modelio.ErrInvalidModel)

	_, err = modelio.ReadJSON(strings.NewReader(`{
		"id": "bad",
		"metabolites": [{"id": "a"}],
		"reactions": [{"id": "R", "metabolites": {"b": -1}, "upper_bound": 1}]
	}`))
	require.ErrorIs(t, err, modelio.ErrInvalidModel)
	require.ErrorIs(t, err, core.ErrMetaboliteNotFound)

	_, err = modelio.ReadYAML(strings.NewReader("id: y\nmetabolites:\n  - id: a\n  - id: a\n"))
	require.ErrorIs(t, err, core.ErrDuplicateMetabolite)

	require.ErrorIs(t, modelio.WriteJSON(&bytes.Buffer{}, nil), modelio.ErrInvalidModel)
}

func TestFormatOf(t *testing.T) {
	f, err := modelio.FormatOf("/tmp/Model.YML")
	require.NoError(t, err)
	assert.Equal(t, modelio.FormatYAML, f)

	_, err = modelio.FormatOf("model")
	assert.ErrorIs(t, err, modelio.ErrUnsupportedFormat)
}
