// Package config loads index configuration from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/smallworld"
	"github.com/hupe1980/smallworld/distance"
	"github.com/hupe1980/smallworld/hnsw"
)

// ErrUnsupportedFormat is returned for file extensions other than .toml,
// .yaml and .yml.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format is a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Config describes an index: graph parameters, capacity, search defaults
// and logging.
type Config struct {
	Dimension int            `toml:"dimension" yaml:"dimension"`
	Graph     GraphConfig    `toml:"graph" yaml:"graph"`
	Capacity  CapacityConfig `toml:"capacity" yaml:"capacity"`
	Search    SearchConfig   `toml:"search" yaml:"search"`
	Log       LogConfig      `toml:"log" yaml:"log"`
}

// GraphConfig mirrors hnsw.Options.
type GraphConfig struct {
	M              int    `toml:"m" yaml:"m"`
	MMax           int    `toml:"mmax" yaml:"mmax"`
	MMax0          int    `toml:"mmax0" yaml:"mmax0"`
	EFConstruction int    `toml:"ef_construction" yaml:"ef_construction"`
	ML             int    `toml:"ml" yaml:"ml"`
	Seed           uint64 `toml:"seed" yaml:"seed"`
	Heuristic      bool   `toml:"heuristic" yaml:"heuristic"`
	Metric         string `toml:"metric" yaml:"metric"`
}

// CapacityConfig selects the bounded profile. Ceilings left at zero take the
// value from hnsw.DefaultBoundedCapacity.
type CapacityConfig struct {
	Bounded       bool `toml:"bounded" yaml:"bounded"`
	MaxNodes      int  `toml:"max_nodes" yaml:"max_nodes"`
	MaxDimension  int  `toml:"max_dimension" yaml:"max_dimension"`
	MaxLayers     int  `toml:"max_layers" yaml:"max_layers"`
	MaxNeighbors  int  `toml:"max_neighbors" yaml:"max_neighbors"`
	MaxCandidates int  `toml:"max_candidates" yaml:"max_candidates"`
}

// SearchConfig holds query-time defaults.
type SearchConfig struct {
	EF          int `toml:"ef" yaml:"ef"`
	Concurrency int `toml:"concurrency" yaml:"concurrency"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`   // debug, info, warn, error
	Format string `toml:"format" yaml:"format"` // text or json
}

// Default returns the configuration matching hnsw.DefaultOptions.
func Default() Config {
	o := hnsw.DefaultOptions

	return Config{
		Graph: GraphConfig{
			M:              o.M,
			MMax:           o.MMax,
			MMax0:          o.MMax0,
			EFConstruction: o.EFConstruction,
			ML:             o.ML,
			Seed:           o.Seed,
			Heuristic:      o.Heuristic,
			Metric:         distance.MetricL2.String(),
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the file at path on top of Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	return Decode(file, format)
}

// Decode reads a configuration in the given format on top of Default.
func Decode(r io.Reader, format Format) (Config, error) {
	cfg := Default()

	switch format {
	case FormatTOML:
		decoder := toml.NewDecoder(r)
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("TOML syntax error in config: %w", err)
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(r)
		decoder.KnownFields(true)

		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("YAML syntax error in config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Encode writes c in the given format.
func (c Config) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(c)
	case FormatYAML:
		var buf bytes.Buffer

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		if err := enc.Encode(c); err != nil {
			return nil, err
		}

		if err := enc.Close(); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Save writes c to path in the format given by its extension.
func (c Config) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := c.Encode(format)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks the settings that hnsw.New does not see. Graph parameters
// are validated when the index is built.
func (c Config) Validate() error {
	if _, err := distance.ParseMetric(c.Graph.Metric); err != nil {
		return fmt.Errorf("%w: %w", hnsw.ErrInvalidParameter, err)
	}

	if _, err := c.Log.level(); err != nil {
		return err
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", hnsw.ErrInvalidParameter, c.Log.Format)
	}

	if c.Search.EF < 0 {
		return fmt.Errorf("%w: search ef must not be negative, got %d", hnsw.ErrInvalidParameter, c.Search.EF)
	}

	return nil
}

// Options returns the graph option function described by c.
func (c Config) Options() func(o *hnsw.Options) {
	return func(o *hnsw.Options) {
		o.M = c.Graph.M
		o.MMax = c.Graph.MMax
		o.MMax0 = c.Graph.MMax0
		o.EFConstruction = c.Graph.EFConstruction
		o.ML = c.Graph.ML
		o.Seed = c.Graph.Seed
		o.Heuristic = c.Graph.Heuristic
		o.Capacity = c.Capacity.capacity()
	}
}

func (c CapacityConfig) capacity() hnsw.Capacity {
	if !c.Bounded {
		return hnsw.Capacity{}
	}

	d := hnsw.DefaultBoundedCapacity

	return hnsw.Capacity{
		MaxNodes:      orDefault(c.MaxNodes, d.MaxNodes),
		MaxDimension:  orDefault(c.MaxDimension, d.MaxDimension),
		MaxLayers:     orDefault(c.MaxLayers, d.MaxLayers),
		MaxNeighbors:  orDefault(c.MaxNeighbors, d.MaxNeighbors),
		MaxCandidates: orDefault(c.MaxCandidates, d.MaxCandidates),
	}
}

func orDefault(v, d int) int {
	if v == 0 {
		return d
	}

	return v
}

// Logger builds the logger described by c.Log.
func (c Config) Logger() (*smallworld.Logger, error) {
	level, err := c.Log.level()
	if err != nil {
		return nil, err
	}

	if c.Log.Format == "json" {
		return smallworld.NewJSONLogger(level), nil
	}

	return smallworld.NewTextLogger(level), nil
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level

	if l.Level == "" {
		return slog.LevelInfo, nil
	}

	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log level: %w", hnsw.ErrInvalidParameter, err)
	}

	return level, nil
}

// IndexOptions returns the smallworld options described by c. Extra options
// are applied last.
func (c Config) IndexOptions(extra ...smallworld.Option) ([]smallworld.Option, error) {
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}

	opts := []smallworld.Option{
		smallworld.WithGraphOptions(c.Options()),
		smallworld.WithLogger(logger),
		smallworld.WithSearchConcurrency(c.Search.Concurrency),
	}

	return append(opts, extra...), nil
}

// NewIndex builds an empty index from c.
func (c Config) NewIndex(extra ...smallworld.Option) (*smallworld.Index, error) {
	opts, err := c.IndexOptions(extra...)
	if err != nil {
		return nil, err
	}

	return smallworld.New(c.Dimension, opts...)
}
