package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/recom/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Chain.Steps)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
graph:
  path: pa.json
  population_column: TOTPOP
  assignment_column: CD_2011
  columns: [BVAP, VAP]
  regions:
    - column: COUNTYFP
      penalty: 2.5
chain:
  steps: 50
  epsilon: 0.02
  seed: 7
  frozen: [3]
accept:
  kind: annealing
  score: cut_edges
  maximize: false
  cycle: {hot: 10, cooldown: 20, cold: 30, magnitude: 2}
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pa.json", cfg.Graph.Path)
	assert.Equal(t, []string{"BVAP", "VAP"}, cfg.Graph.Columns)
	require.Len(t, cfg.Graph.Regions, 1)
	assert.Equal(t, 2.5, cfg.Graph.Regions[0].Penalty)
	assert.Equal(t, 50, cfg.Chain.Steps)
	assert.Equal(t, int64(7), cfg.Chain.Seed)
	assert.Equal(t, []int{3}, cfg.Chain.Frozen)
	assert.Equal(t, 32, cfg.Chain.BatchSize, "unset keys keep defaults")
	assert.Equal(t, 30, cfg.Accept.Cycle.Cold)
	assert.Equal(t, 2.0, cfg.Accept.Cycle.Magnitude)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RECOM_STEPS", "12")
	t.Setenv("RECOM_SEED", "-4")
	t.Setenv("RECOM_EPSILON", "0.1")
	t.Setenv("RECOM_LOG_FORMAT", "json")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Chain.Steps)
	assert.Equal(t, int64(-4), cfg.Chain.Seed)
	assert.Equal(t, 0.1, cfg.Chain.Epsilon)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("RECOM_BATCH_SIZE", "many")
	_, err := config.Load("")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*config.Config){
		"negative steps":   func(c *config.Config) { c.Chain.Steps = -1 },
		"zero batch":       func(c *config.Config) { c.Chain.BatchSize = 0 },
		"tree method":      func(c *config.Config) { c.Chain.TreeMethod = "boruvka" },
		"unknown accept":   func(c *config.Config) { c.Accept.Kind = "greedy" },
		"metropolis score": func(c *config.Config) { c.Accept.Kind = config.AcceptMetropolis },
		"empty cycle": func(c *config.Config) {
			c.Accept.Kind = config.AcceptAnnealing
			c.Accept.Score = "cut_edges"
		},
		"log format": func(c *config.Config) { c.Log.Format = "xml" },
		"no grid":    func(c *config.Config) { c.Graph.Grid.Rows = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
		})
	}
}
