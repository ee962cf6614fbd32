package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/smallworld"
)

var (
	queryIndex indexFlags
	queryK     int
	queryEF    int
	queryExact bool
)

var queryCmd = &cobra.Command{
	Use:   "query [vector]",
	Short: "Query a random index with one vector",
	Long: `Builds an index over random vectors and prints the nearest neighbors of
the given comma separated vector, e.g. "0.1,0.5,0.9,0.2".`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	addIndexFlags(queryCmd, &queryIndex)
	queryCmd.Flags().IntVarP(&queryK, "k", "k", 10, "neighbors to return")
	queryCmd.Flags().IntVar(&queryEF, "ef", 0, "layer-0 beam width (0 = k, default from config)")
	queryCmd.Flags().BoolVar(&queryExact, "exact", false, "scan all vectors instead of searching the graph")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	query, err := parseVector(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := buildDataset(ctx, cmd, &queryIndex, 0)
	if err != nil {
		return err
	}

	sb := d.idx.Search(query).KNN(queryK).EF(searchEF(cmd, queryEF, d.cfg))
	if queryExact {
		sb = sb.Exact()
	}

	results, err := sb.Execute(ctx)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")

	for i, r := range results {
		cmd.Printf("  [%d] id=%d distance=%.6f\n", i+1, r.ID, r.Distance)
	}

	return nil
}

// parseVector parses a comma separated list of numbers.
func parseVector(s string) ([]float32, error) {
	fields := strings.Split(s, ",")
	v := make([]float32, 0, len(fields))

	for _, field := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: vector component %q: %w", smallworld.ErrInvalidParameter, field, err)
		}

		v = append(v, float32(x))
	}

	return v, nil
}
