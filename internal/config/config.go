package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"rbfrl/internal/fa"
)

// Config is the root configuration structure
type Config struct {
	RBF     RBFConfig   `yaml:"rbf"`
	Sweep   SweepConfig `yaml:"sweep"`
	Eval    EvalConfig  `yaml:"eval"`
	Logging LogConfig   `yaml:"logging"`
}

// RBFConfig defines the approximator
type RBFConfig struct {
	Dim        int      `yaml:"dim"`
	Resolution int      `yaml:"resolution"`
	NumActions int      `yaml:"num_actions"`
	Beta       float64  `yaml:"beta"`
	MinVal     *float64 `yaml:"min_val"` // nil means fa.DefaultMin
	MaxVal     *float64 `yaml:"max_val"` // nil means fa.DefaultMax
}

// SweepConfig defines the grid of states used when no trace is given
type SweepConfig struct {
	Steps   int  `yaml:"steps"`   // points per dimension
	Actions bool `yaml:"actions"` // evaluate every action for each point
}

// EvalConfig defines evaluation parameters
type EvalConfig struct {
	Workers int `yaml:"workers"` // 0 means runtime.NumCPU()
}

// LogConfig defines logging parameters
type LogConfig struct {
	Level         string `yaml:"level"`
	CSVPath       string `yaml:"csv_path"`
	JSONPath      string `yaml:"json_path"`
	WriteFeatures bool   `yaml:"write_features"` // include full vectors in the JSON lines
}

// Load reads a YAML config file and returns a validated Config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes YAML config data, applies defaults and validates it
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.RBF.Dim == 0 {
		cfg.RBF.Dim = 2
	}
	if cfg.RBF.Resolution == 0 {
		cfg.RBF.Resolution = 5
	}
	if cfg.RBF.NumActions == 0 {
		cfg.RBF.NumActions = 1
	}
	if cfg.RBF.Beta == 0 {
		cfg.RBF.Beta = fa.DefaultBeta
	}
	if cfg.RBF.MinVal == nil {
		v := fa.DefaultMin
		cfg.RBF.MinVal = &v
	}
	if cfg.RBF.MaxVal == nil {
		v := fa.DefaultMax
		cfg.RBF.MaxVal = &v
	}
	if cfg.Sweep.Steps == 0 {
		cfg.Sweep.Steps = cfg.RBF.Resolution
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/features.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/features.jsonl"
	}
}

// Validate reports every constraint the config violates
func (c *Config) Validate() error {
	var problems []string
	addf := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.RBF.Dim < 1 {
		addf("rbf.dim must be at least 1, got %d", c.RBF.Dim)
	}
	if c.RBF.Resolution < 1 {
		addf("rbf.resolution must be at least 1, got %d", c.RBF.Resolution)
	}
	if c.RBF.NumActions < 1 {
		addf("rbf.num_actions must be at least 1, got %d", c.RBF.NumActions)
	}
	if c.RBF.Beta <= 0 {
		addf("rbf.beta must be positive, got %v", c.RBF.Beta)
	}
	if c.RBF.MinVal != nil && c.RBF.MaxVal != nil && !(*c.RBF.MinVal < *c.RBF.MaxVal) {
		addf("rbf.min_val must be smaller than rbf.max_val: %v >= %v", *c.RBF.MinVal, *c.RBF.MaxVal)
	}
	if c.Sweep.Steps < 1 {
		addf("sweep.steps must be at least 1, got %d", c.Sweep.Steps)
	}
	if c.Eval.Workers < 0 {
		addf("eval.workers must not be negative, got %d", c.Eval.Workers)
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.Errorf("invalid config: %s", strings.Join(problems, ", "))
}

// Bounds returns the configured input bounds
func (c *Config) Bounds() (min, max float64) {
	min, max = fa.DefaultMin, fa.DefaultMax
	if c.RBF.MinVal != nil {
		min = *c.RBF.MinVal
	}
	if c.RBF.MaxVal != nil {
		max = *c.RBF.MaxVal
	}
	return min, max
}

// NewRBF builds the approximator described by the rbf section
func (c *Config) NewRBF() *fa.RBF {
	min, max := c.Bounds()
	return fa.NewRBF(c.RBF.Dim, c.RBF.Resolution, c.RBF.NumActions,
		fa.WithBeta(c.RBF.Beta), fa.WithBounds(min, max))
}
