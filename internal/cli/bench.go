package cli

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/smallworld"
	"github.com/hupe1980/smallworld/testutil"
)

var (
	benchIndex       indexFlags
	benchQueries     int
	benchK           int
	benchEF          int
	benchConcurrency int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure build time, latency and recall",
	Long: `Builds an index over random vectors, runs queries drawn from the same
distribution against it and compares every answer with an exact scan. Reports
insert throughput, query latency percentiles, recall@k and the batch search
throughput. Use --data clustered to measure recall on non-uniform data.`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	addIndexFlags(benchCmd, &benchIndex)
	benchCmd.Flags().IntVarP(&benchQueries, "queries", "q", 1000, "number of random queries")
	benchCmd.Flags().IntVarP(&benchK, "k", "k", 1, "neighbors per query")
	benchCmd.Flags().IntVar(&benchEF, "ef", 0, "layer-0 beam width (0 = k, default from config)")
	benchCmd.Flags().IntVar(&benchConcurrency, "concurrency", 0, "goroutines for the batch pass (0 = GOMAXPROCS)")
	rootCmd.AddCommand(benchCmd)
}

// benchReport summarizes one bench run.
type benchReport struct {
	Nodes        int
	Dimension    int
	BuildSeconds float64
	Queries      int
	K            int
	EF           int
	Recall       float64
	Top1         float64
	MeanMicros   float64
	P50Micros    float64
	P99Micros    float64
	BatchQPS     float64
}

func runBench(cmd *cobra.Command, _ []string) error {
	if benchQueries <= 0 {
		return fmt.Errorf("%w: queries must be positive, got %d", smallworld.ErrInvalidParameter, benchQueries)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var extra []smallworld.Option
	if benchConcurrency > 0 {
		extra = append(extra, smallworld.WithSearchConcurrency(benchConcurrency))
	}

	d, err := buildDataset(ctx, cmd, &benchIndex, benchQueries, extra...)
	if err != nil {
		return err
	}

	report, err := bench(ctx, d, searchEF(cmd, benchEF, d.cfg))
	if err != nil {
		return err
	}

	printBenchReport(cmd, report)

	return nil
}

func bench(ctx context.Context, d *dataset, ef int) (benchReport, error) {
	queries := d.queries
	latencies := make([]float64, len(queries))
	withEF := func(o *smallworld.KNNSearchOptions) { o.EF = ef }

	var recall, top1 float64

	for i, q := range queries {
		start := time.Now()

		res, err := d.idx.KNNSearch(ctx, q, benchK, withEF)
		if err != nil {
			return benchReport{}, fmt.Errorf("query %d: %w", i, err)
		}

		latencies[i] = float64(time.Since(start).Microseconds())

		approx := toTestResults(res)
		truth := testutil.BruteForceSearch(d.vectors, q, benchK)

		recall += testutil.ComputeRecall(truth, approx)

		if testutil.SameTop1(truth, approx) {
			top1++
		}
	}

	slices.Sort(latencies)

	start := time.Now()
	if _, err := d.idx.SearchBatch(ctx, queries, benchK, withEF); err != nil {
		return benchReport{}, err
	}

	batch := time.Since(start)

	n := float64(len(queries))

	return benchReport{
		Nodes:        d.idx.Len(),
		Dimension:    d.cfg.Dimension,
		BuildSeconds: d.duration.Seconds(),
		Queries:      len(queries),
		K:            benchK,
		EF:           max(ef, benchK),
		Recall:       recall / n,
		Top1:         top1 / n,
		MeanMicros:   stat.Mean(latencies, nil),
		P50Micros:    stat.Quantile(0.5, stat.Empirical, latencies, nil),
		P99Micros:    stat.Quantile(0.99, stat.Empirical, latencies, nil),
		BatchQPS:     n / batch.Seconds(),
	}, nil
}

func printBenchReport(cmd *cobra.Command, r benchReport) {
	cmd.Println("--- Insert ---")
	cmd.Printf("Dimension: %d\n", r.Dimension)
	cmd.Printf("Size: %d\n", r.Nodes)
	cmd.Printf("Seconds: %.2f\n", r.BuildSeconds)
	cmd.Println()
	cmd.Println("--- KNN ---")
	cmd.Printf("Queries: %d (k=%d, ef=%d)\n", r.Queries, r.K, r.EF)
	cmd.Printf("Recall@%d: %.4f\n", r.K, r.Recall)
	cmd.Printf("Top-1 match: %.4f\n", r.Top1)
	cmd.Printf("Latency (us): mean %.1f, p50 %.1f, p99 %.1f\n", r.MeanMicros, r.P50Micros, r.P99Micros)
	cmd.Printf("Batch QPS: %.0f\n", r.BatchQPS)
}

func toTestResults(res []smallworld.SearchResult) []testutil.SearchResult {
	out := make([]testutil.SearchResult, len(res))
	for i, r := range res {
		out[i] = testutil.SearchResult{ID: r.ID, Distance: r.Distance}
	}

	return out
}
