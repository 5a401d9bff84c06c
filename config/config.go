// SPDX-License-Identifier: MIT

// Package config loads run configuration for the recom command from YAML
// files with RECOM_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/recom/accept"
	"github.com/katalvlaran/recom/chain"
	"github.com/katalvlaran/recom/dualgraph"
	"github.com/katalvlaran/recom/spanning"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Acceptance kinds.
const (
	AcceptAlways     = "always"
	AcceptMetropolis = "metropolis"
	AcceptAnnealing  = "annealing"
)

// Config is the full run configuration.
type Config struct {
	Graph   GraphConfig   `yaml:"graph"`
	Chain   ChainConfig   `yaml:"chain"`
	Accept  AcceptConfig  `yaml:"accept"`
	Bursts  BurstsConfig  `yaml:"bursts"`
	Scores  ScoresConfig  `yaml:"scores"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GraphConfig selects the input graph: a networkx adjacency file, or a
// synthetic grid when Path is empty.
type GraphConfig struct {
	Path             string                 `yaml:"path"`
	PopulationColumn string                 `yaml:"population_column"`
	AssignmentColumn string                 `yaml:"assignment_column"`
	GeoidColumn      string                 `yaml:"geoid_column"`
	Columns          []string               `yaml:"columns"`
	Regions          []dualgraph.RegionSpec `yaml:"regions"`
	Grid             GridConfig             `yaml:"grid"`
}

// GridConfig describes a synthetic grid seeded with vertical strips.
type GridConfig struct {
	Cols      int `yaml:"cols"`
	Rows      int `yaml:"rows"`
	Districts int `yaml:"districts"`
}

// ChainConfig mirrors the chain options.
type ChainConfig struct {
	Steps            int     `yaml:"steps"`
	Epsilon          float64 `yaml:"epsilon"`
	Seed             int64   `yaml:"seed"`
	Parallelism      int     `yaml:"parallelism"`
	BatchSize        int     `yaml:"batch_size"`
	Frozen           []int   `yaml:"frozen"`
	TargetPopulation float64 `yaml:"target_population"`
	TreeMethod       string  `yaml:"tree_method"`
	MaxCutEdgeDraws  int     `yaml:"max_cut_edge_draws"`
}

// AcceptConfig selects the acceptance strategy.
type AcceptConfig struct {
	Kind     string       `yaml:"kind"`
	Score    string       `yaml:"score"`
	Beta     float64      `yaml:"beta"`
	Maximize bool         `yaml:"maximize"`
	Cycle    accept.Cycle `yaml:"cycle"`
}

// BurstsConfig configures short-burst optimization.
type BurstsConfig struct {
	Length   int    `yaml:"length"`
	Count    int    `yaml:"count"`
	Target   string `yaml:"target"`
	Maximize bool   `yaml:"maximize"`
}

// ScoresConfig lists the scores registered on the root plan.
type ScoresConfig struct {
	Tallies  []string `yaml:"tallies"`
	CutEdges bool     `yaml:"cut_edges"`
}

// OutputConfig selects where emitted plans go.
type OutputConfig struct {
	Path     string `yaml:"path"`
	Compress bool   `yaml:"compress"`
	Store    string `yaml:"store"`
	Every    int    `yaml:"every"`
}

// LogConfig configures slog.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Graph: GraphConfig{
			PopulationColumn: "TOTPOP",
			Grid:             GridConfig{Cols: 10, Rows: 10, Districts: 5},
		},
		Chain: ChainConfig{
			Steps:      1000,
			Epsilon:    0.05,
			BatchSize:  chain.DefaultBatchSize,
			TreeMethod: spanning.MethodKruskal,
		},
		Accept: AcceptConfig{Kind: AcceptAlways, Beta: 1, Maximize: true},
		Bursts: BurstsConfig{Length: 10, Count: 100, Target: "cut_edges", Maximize: false},
		Scores: ScoresConfig{CutEdges: true},
		Output: OutputConfig{Every: 1},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds a Config from defaults, the optional file at path and the
// environment, then validates it. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// applyEnv overrides scalar settings from RECOM_* variables.
func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"RECOM_GRAPH_PATH":        &cfg.Graph.Path,
		"RECOM_POPULATION_COLUMN": &cfg.Graph.PopulationColumn,
		"RECOM_ASSIGNMENT_COLUMN": &cfg.Graph.AssignmentColumn,
		"RECOM_TREE_METHOD":       &cfg.Chain.TreeMethod,
		"RECOM_ACCEPT":            &cfg.Accept.Kind,
		"RECOM_ACCEPT_SCORE":      &cfg.Accept.Score,
		"RECOM_OUTPUT":            &cfg.Output.Path,
		"RECOM_STORE":             &cfg.Output.Store,
		"RECOM_LOG_LEVEL":         &cfg.Log.Level,
		"RECOM_LOG_FORMAT":        &cfg.Log.Format,
		"RECOM_METRICS_ADDR":      &cfg.Metrics.Addr,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"RECOM_STEPS":       &cfg.Chain.Steps,
		"RECOM_PARALLELISM": &cfg.Chain.Parallelism,
		"RECOM_BATCH_SIZE":  &cfg.Chain.BatchSize,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(key); ok {
			i, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s=%q: %w", key, v, ErrInvalidConfig)
			}
			*dst = i
		}
	}

	if v, ok := os.LookupEnv("RECOM_SEED"); ok {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("RECOM_SEED=%q: %w", v, ErrInvalidConfig)
		}
		cfg.Chain.Seed = seed
	}
	if v, ok := os.LookupEnv("RECOM_EPSILON"); ok {
		eps, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("RECOM_EPSILON=%q: %w", v, ErrInvalidConfig)
		}
		cfg.Chain.Epsilon = eps
	}

	return nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var problems []string
	if c.Graph.Path == "" && (c.Graph.Grid.Cols < 1 || c.Graph.Grid.Rows < 1 || c.Graph.Grid.Districts < 1) {
		problems = append(problems, "grid needs positive cols, rows and districts when no graph path is set")
	}
	if c.Graph.Path != "" && c.Graph.PopulationColumn == "" {
		problems = append(problems, "graph.population_column is required")
	}
	if c.Chain.Steps < 0 {
		problems = append(problems, "chain.steps must be >= 0")
	}
	if c.Chain.Epsilon < 0 {
		problems = append(problems, "chain.epsilon must be >= 0")
	}
	if c.Chain.BatchSize < 1 {
		problems = append(problems, "chain.batch_size must be >= 1")
	}
	if c.Chain.Parallelism < 0 {
		problems = append(problems, "chain.parallelism must be >= 0")
	}
	if c.Chain.TreeMethod != "" && !spanning.ValidMethod(c.Chain.TreeMethod) {
		problems = append(problems, fmt.Sprintf("chain.tree_method %q is unknown", c.Chain.TreeMethod))
	}
	switch c.Accept.Kind {
	case AcceptAlways:
	case AcceptMetropolis, AcceptAnnealing:
		if c.Accept.Score == "" {
			problems = append(problems, "accept.score is required for "+c.Accept.Kind)
		}
		if c.Accept.Kind == AcceptAnnealing {
			if err := c.Accept.Cycle.Validate(); err != nil {
				problems = append(problems, err.Error())
			}
		}
	default:
		problems = append(problems, fmt.Sprintf("accept.kind %q is unknown", c.Accept.Kind))
	}
	if c.Output.Every < 1 {
		problems = append(problems, "output.every must be >= 1")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is unknown", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(problems, "; "), ErrInvalidConfig)
	}

	return nil
}
