package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsIndex indexFlags

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the shape of a random index",
	Long: `Builds an index over random vectors, prints per-layer node and edge
counts and checks the graph invariants.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	addIndexFlags(statsCmd, &statsIndex)
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := buildDataset(ctx, cmd, &statsIndex, 0)
	if err != nil {
		return err
	}

	d.idx.Stats().Print(cmd.OutOrStderr())
	cmd.Println()

	if err := d.idx.Validate(); err != nil {
		return fmt.Errorf("graph invalid: %w", err)
	}

	m := d.metrics.GetStats()
	cmd.Printf("Average insert: %d ns\n", m.InsertAvgNanos)
	cmd.Println("Graph invariants: ok")

	return nil
}
