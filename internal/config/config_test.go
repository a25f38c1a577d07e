package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
solver:
  backend: admm
  admm:
    max_iter: 5000
    polish: false
analysis:
  workers: 4
  carbon_source: glc__D_e
  norm: l1
log:
  level: debug
  format: json
metrics:
  textfile: /tmp/lvflux.prom
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lvflux.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "admm", cfg.Solver.Backend)
	assert.Equal(t, 5000, cfg.Solver.ADMM.MaxIter)
	assert.False(t, cfg.Solver.ADMM.Polish)
	assert.True(t, cfg.Solver.ADMM.AdaptiveRho, "unset keys keep their default")
	assert.Equal(t, DefaultADMMRho, cfg.Solver.ADMM.Rho)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, "glc__D_e", cfg.Analysis.CarbonSource)
	assert.Equal(t, "l1", cfg.Analysis.Norm)
	assert.Equal(t, DefaultSharedCompartment, cfg.Analysis.SharedCompartment)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, "/tmp/lvflux.prom", cfg.Metrics.Textfile)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LVFLUX_ANALYSIS_CUTOFF_MULT", "1000")
	t.Setenv("LVFLUX_SOLVER_BACKEND", "admm")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, cfg.Analysis.CutoffMult)
	assert.Equal(t, "admm", cfg.Solver.Backend)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "solver:\n  backend: glpk\n"))
	require.ErrorContains(t, err, "solver.backend")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"tolerance":    func(c *Config) { c.Solver.Tolerance = 0 },
		"max_iter":     func(c *Config) { c.Solver.ADMM.MaxIter = 0 },
		"eps":          func(c *Config) { c.Solver.ADMM.EpsAbs = -1 },
		"rho":          func(c *Config) { c.Solver.ADMM.Rho = 0 },
		"alpha":        func(c *Config) { c.Solver.ADMM.Alpha = 2 },
		"workers":      func(c *Config) { c.Analysis.Workers = -1 },
		"cutoff":       func(c *Config) { c.Analysis.Cutoff = -1e-3 },
		"cutoff_mult":  func(c *Config) { c.Analysis.CutoffMult = 0 },
		"norm":         func(c *Config) { c.Analysis.Norm = "l0" },
		"compartment":  func(c *Config) { c.Analysis.SharedCompartment = "" },
		"log.level":    func(c *Config) { c.Log.Level = "trace" },
		"log.format":   func(c *Config) { c.Log.Format = "xml" },
		"solver.admm2": func(c *Config) { c.Solver.ADMM.EpsRel = -1 },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
	assert.NoError(t, Default().Validate())
}
