package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "disk", cfg.Scenario)
	assert.Positive(t, cfg.Dt)
	assert.Positive(t, cfg.Duration)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -1 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"bad dim", func(c *Config) { c.Dim = 4 }},
		{"bad solver", func(c *Config) { c.Solver = "magic" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := DefaultConfig()
	cfg.Scenario = "cluster"
	cfg.Bodies = 99
	cfg.Constants.Theta = 0.7
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cluster", loaded.Scenario)
	assert.Equal(t, 99, loaded.Bodies)
	assert.Equal(t, 0.7, loaded.Constants.Theta)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenario: ring\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ring", cfg.Scenario)
	assert.Equal(t, DefaultDt, cfg.Dt)
	assert.Equal(t, DefaultBodies, cfg.Bodies)
}

func TestGravityConstantsOverlay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Constants.Theta = 0.9
	cfg.Constants.Density = 5000

	c := cfg.GravityConstants()
	assert.Equal(t, 0.9, c.Theta)
	assert.Equal(t, 5000.0, c.Density)
	// untouched fields keep physical defaults
	assert.Equal(t, 6.6743e-11, c.G)
	assert.Equal(t, 3.0, c.MinTemperature)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("disk", "small")
	require.NotNil(t, cfg)
	assert.Equal(t, 256, cfg.Bodies)

	assert.Nil(t, GetPreset("disk", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "small"))
	assert.NotEmpty(t, ListPresets("disk"))
	assert.Nil(t, ListPresets("nonexistent"))
}

func TestBuildSolver(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Solver = "direct"
	s, err := cfg.BuildSolver()
	require.NoError(t, err)
	assert.NotNil(t, s)

	cfg.Solver = "tree"
	s, err = cfg.BuildSolver()
	require.NoError(t, err)
	assert.NotNil(t, s)

	cfg.Solver = "direct"
	cfg.Workers = 4
	cfg.Pipelined = true
	s, err = cfg.BuildSolver()
	require.NoError(t, err)
	assert.NotNil(t, s)
}
