package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix of every setting.
const envPrefix = "LVFLUX"

// newViper builds a Viper instance reading YAML, with LVFLUX_ env binding and
// "." → "_" key mapping, so "analysis.cutoff_mult" resolves to
// LVFLUX_ANALYSIS_CUTOFF_MULT.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

// Load reads the YAML file at configPath (skipped when empty), merges LVFLUX_*
// environment overrides on top of the defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
		}
	}
	return unmarshalAndValidate(v)
}

func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}
