// Package config loads and validates the YAML configuration shared by the
// build, writer and search tools.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantbed/lobwin/pkg/model"
)

// Split names used throughout the pipeline.
const (
	SplitTrain      = "train"
	SplitValidation = "validation"
	SplitTest       = "test"
)

// Config is the application configuration root.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Data    DataConfig    `yaml:"data"`
	Dataset DatasetConfig `yaml:"dataset"`
	Augment AugmentConfig `yaml:"augment"`
	Vector  VectorConfig  `yaml:"vector"`
	DuckDB  DuckDBConfig  `yaml:"duckdb"`
	Milvus  MilvusConfig  `yaml:"milvus"`
	NATS    NATSConfig    `yaml:"nats"`
}

// AppConfig holds application basics.
type AppConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// DataConfig lists the split files. Each entry is one day-batch text file;
// entries must be in chronological order because the test split is
// concatenated column-wise before windowing.
type DataConfig struct {
	TrainFiles      []string `yaml:"train_files"`
	ValidationFiles []string `yaml:"validation_files"`
	TestFiles       []string `yaml:"test_files"`
}

// DatasetConfig holds window-build parameters.
type DatasetConfig struct {
	// WindowLength is the number of consecutive snapshots per window.
	WindowLength int `yaml:"window_length"`
	// HorizonIndex selects the label column in [0, 5). Index 4 is the
	// benchmark's 5th and longest horizon. A pointer so that an explicit
	// 0 (the shortest horizon) is distinguishable from an omitted field.
	HorizonIndex *int `yaml:"horizon_index"`
	// DataVersion versions window IDs for idempotent rebuilds.
	DataVersion int `yaml:"data_version"`
}

// AugmentConfig holds augmentation parameters. The seed is explicit so a
// build is reproducible end to end.
type AugmentConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Seed         int64   `yaml:"seed"`
	NoiseStd     float64 `yaml:"noise_std"`
	LevelDropout float64 `yaml:"level_dropout"`
}

// VectorConfig holds shape-vector parameters.
type VectorConfig struct {
	Dim     int     `yaml:"dim"`      // multiple of 3
	ClipStd float64 `yaml:"clip_std"` // normalization clipping
}

// DuckDBConfig holds the analytics store location.
type DuckDBConfig struct {
	Path string `yaml:"path"`
}

// MilvusConfig holds the vector store connection.
type MilvusConfig struct {
	Address    string `yaml:"address"`
	Collection string `yaml:"collection"`
}

// NATSConfig holds the work-queue connection.
type NATSConfig struct {
	URL    string `yaml:"url"`
	Stream string `yaml:"stream"`
}

// Load reads a configuration file, applies defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration with every default applied, for tests
// and tools that run without a file.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	if c.App.Name == "" {
		c.App.Name = "lobwin"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	if c.Dataset.WindowLength == 0 {
		c.Dataset.WindowLength = 100
	}
	if c.Dataset.HorizonIndex == nil {
		// The reference experiment trains against the longest horizon.
		h := model.HorizonCount - 1
		c.Dataset.HorizonIndex = &h
	}
	if c.Dataset.DataVersion == 0 {
		c.Dataset.DataVersion = 1
	}

	if c.Augment.Seed == 0 {
		c.Augment.Seed = 42
	}
	if c.Augment.NoiseStd == 0 {
		c.Augment.NoiseStd = 0.001
	}
	if c.Augment.LevelDropout == 0 {
		c.Augment.LevelDropout = 0.05
	}

	if c.Vector.Dim == 0 {
		c.Vector.Dim = 96
	}
	if c.Vector.ClipStd == 0 {
		c.Vector.ClipStd = 3.0
	}

	if c.DuckDB.Path == "" {
		c.DuckDB.Path = "lobwin.duckdb"
	}
	if c.Milvus.Address == "" {
		c.Milvus.Address = "localhost:19530"
	}
	if c.Milvus.Collection == "" {
		c.Milvus.Collection = "lob_windows"
	}
	if c.NATS.URL == "" {
		c.NATS.URL = "nats://localhost:4222"
	}
	if c.NATS.Stream == "" {
		c.NATS.Stream = "lobwin"
	}
}

// Validate checks value ranges. File lists may be empty; each tool
// requires only the splits it operates on.
func (c *Config) Validate() error {
	var errs []string

	if c.Dataset.WindowLength <= 0 {
		errs = append(errs, "dataset.window_length: must be positive")
	}
	if h := c.Dataset.Horizon(); h < 0 || h >= model.HorizonCount {
		errs = append(errs, fmt.Sprintf("dataset.horizon_index: must be in [0, %d)", model.HorizonCount))
	}
	if c.Dataset.DataVersion <= 0 {
		errs = append(errs, "dataset.data_version: must be positive")
	}

	if c.Augment.NoiseStd < 0 {
		errs = append(errs, "augment.noise_std: must not be negative")
	}
	if c.Augment.LevelDropout < 0 || c.Augment.LevelDropout > 1 {
		errs = append(errs, "augment.level_dropout: must be in [0, 1]")
	}

	if c.Vector.Dim <= 0 || c.Vector.Dim%3 != 0 {
		errs = append(errs, "vector.dim: must be a positive multiple of 3")
	}
	if c.Vector.ClipStd <= 0 {
		errs = append(errs, "vector.clip_std: must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Horizon returns the configured horizon index.
func (d DatasetConfig) Horizon() int {
	if d.HorizonIndex == nil {
		return model.HorizonCount - 1
	}
	return *d.HorizonIndex
}

// SplitFiles returns the file list for a named split, in configured
// (chronological) order.
func (c *Config) SplitFiles(split string) ([]string, error) {
	var files []string
	switch split {
	case SplitTrain:
		files = c.Data.TrainFiles
	case SplitValidation:
		files = c.Data.ValidationFiles
	case SplitTest:
		files = c.Data.TestFiles
	default:
		return nil, fmt.Errorf("unknown split %q", split)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files configured for split %q", split)
	}
	return files, nil
}
