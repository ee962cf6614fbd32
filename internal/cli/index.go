package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/hupe1980/smallworld"
	"github.com/hupe1980/smallworld/config"
	"github.com/hupe1980/smallworld/testutil"
)

// indexFlags describe the random dataset and the graph built over it.
type indexFlags struct {
	n         int
	dim       int
	seed      uint64
	m         int
	mmax      int
	mmax0     int
	efc       int
	ml        int
	graphSeed uint64
	heuristic bool
	bounded   bool
	data      string
	clusters  int
	spread    float32
}

func addIndexFlags(cmd *cobra.Command, f *indexFlags) {
	d := config.Default().Graph

	flags := cmd.Flags()
	flags.IntVarP(&f.n, "size", "n", 10000, "number of random vectors to insert")
	flags.IntVarP(&f.dim, "dim", "d", 4, "vector dimension")
	flags.Uint64Var(&f.seed, "seed", 4711, "seed of the random dataset")
	flags.IntVar(&f.m, "m", d.M, "neighbors linked per new node and layer")
	flags.IntVar(&f.mmax, "mmax", d.MMax, "degree bound on layers >= 1")
	flags.IntVar(&f.mmax0, "mmax0", d.MMax0, "degree bound on layer 0")
	flags.IntVar(&f.efc, "efc", d.EFConstruction, "beam width while inserting")
	flags.IntVar(&f.ml, "ml", d.ML, "highest sampled level")
	flags.Uint64Var(&f.graphSeed, "graph-seed", d.Seed, "seed of the level sampler")
	flags.BoolVar(&f.heuristic, "heuristic", false, "use the diversity heuristic for neighbor selection")
	flags.BoolVar(&f.bounded, "bounded", false, "use the bounded capacity profile")
	flags.StringVar(&f.data, "data", "uniform", "dataset distribution: uniform, signed or clustered")
	flags.IntVar(&f.clusters, "clusters", 16, "number of centroids for --data clustered")
	flags.Float32Var(&f.spread, "spread", 0.05, "standard deviation around each centroid for --data clustered")
}

// generate draws n vectors of dimension dim from the distribution named by
// --data.
func (f *indexFlags) generate(rng *testutil.RNG, n, dim int) ([][]float32, error) {
	switch f.data {
	case "", "uniform":
		return rng.UniformVectors(n, dim), nil
	case "signed":
		return rng.UniformRangeVectors(n, dim), nil
	case "clustered":
		if f.clusters <= 0 {
			return nil, fmt.Errorf("%w: clusters must be positive, got %d", smallworld.ErrInvalidParameter, f.clusters)
		}

		return rng.ClusteredVectors(n, dim, f.clusters, f.spread), nil
	default:
		return nil, fmt.Errorf("%w: unknown data distribution %q", smallworld.ErrInvalidParameter, f.data)
	}
}

// loadConfig reads --config, if set, and applies every flag the user set
// explicitly on top of it.
func loadConfig(cmd *cobra.Command, f *indexFlags) (config.Config, error) {
	cfg := config.Default()

	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()

	if flags.Changed("dim") || cfg.Dimension == 0 {
		cfg.Dimension = f.dim
	}

	for name, apply := range map[string]func(){
		"m":          func() { cfg.Graph.M = f.m },
		"mmax":       func() { cfg.Graph.MMax = f.mmax },
		"mmax0":      func() { cfg.Graph.MMax0 = f.mmax0 },
		"efc":        func() { cfg.Graph.EFConstruction = f.efc },
		"ml":         func() { cfg.Graph.ML = f.ml },
		"graph-seed": func() { cfg.Graph.Seed = f.graphSeed },
		"heuristic":  func() { cfg.Graph.Heuristic = f.heuristic },
		"bounded":    func() { cfg.Capacity.Bounded = f.bounded },
	} {
		if flags.Changed(name) {
			apply()
		}
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	return cfg, cfg.Validate()
}

// dataset is a populated index plus the vectors it holds. queries are drawn
// from the same distribution but are not inserted.
type dataset struct {
	cfg      config.Config
	idx      *smallworld.Index
	vectors  [][]float32
	queries  [][]float32
	logger   *smallworld.Logger
	metrics  *smallworld.BasicMetricsCollector
	duration time.Duration
}

// buildDataset creates the index described by cmd's flags and inserts f.n
// random vectors one at a time. It also draws queries extra vectors that
// stay out of the index. extra options are applied last.
func buildDataset(ctx context.Context, cmd *cobra.Command, f *indexFlags, queries int, extra ...smallworld.Option) (*dataset, error) {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	metrics := &smallworld.BasicMetricsCollector{}

	idx, err := cfg.NewIndex(append([]smallworld.Option{smallworld.WithMetricsCollector(metrics)}, extra...)...)
	if err != nil {
		return nil, err
	}

	if f.n < 0 || queries < 0 {
		return nil, fmt.Errorf("%w: size and queries must not be negative", smallworld.ErrInvalidParameter)
	}

	// One draw keeps the queries on the same centroids as the data.
	all, err := f.generate(testutil.NewRNG(f.seed), f.n+queries, cfg.Dimension)
	if err != nil {
		return nil, err
	}

	vectors := all[:f.n:f.n]

	progress := rate.Sometimes{Interval: time.Second}
	start := time.Now()

	for i, v := range vectors {
		if _, err := idx.Insert(ctx, v); err != nil {
			return nil, fmt.Errorf("insert %d: %w", i, err)
		}

		progress.Do(func() {
			logger.InfoContext(ctx, "inserting", "done", i+1, "total", len(vectors))
		})
	}

	d := &dataset{
		cfg:      cfg,
		idx:      idx,
		vectors:  vectors,
		queries:  all[f.n:],
		logger:   logger,
		metrics:  metrics,
		duration: time.Since(start),
	}

	logger.InfoContext(ctx, "index built", "nodes", idx.Len(), "seconds", d.duration.Seconds())

	return d, nil
}

// searchEF returns the --ef flag when set and the configured default otherwise.
func searchEF(cmd *cobra.Command, flagValue int, cfg config.Config) int {
	if cmd.Flags().Changed("ef") {
		return flagValue
	}

	return cfg.Search.EF
}
