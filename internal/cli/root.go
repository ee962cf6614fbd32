// Package cli implements the smallworld command line tool.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "smallworld",
	Short: "Build and query HNSW indexes over random data",
	Long: `smallworld builds an in-memory HNSW index over uniformly distributed
random vectors and measures build time, query latency and recall against
an exact scan.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML or YAML index config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
