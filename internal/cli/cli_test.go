package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smallworld"
	"github.com/hupe1980/smallworld/config"
	"github.com/hupe1980/smallworld/hnsw"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append(args, "--log-level", "error"))

	defer func() {
		rootCmd.SetArgs(nil)
		configPath = ""
		logLevel = ""
	}()

	err := rootCmd.Execute()

	return buf.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "bench")
	assert.Contains(t, names, "query")
	assert.Contains(t, names, "stats")
}

func TestBenchCmd(t *testing.T) {
	out, err := execute(t, "bench", "-n", "500", "-d", "4", "-q", "20", "-k", "1", "--ef", "16")
	require.NoError(t, err)

	assert.Contains(t, out, "Size: 500")
	assert.Contains(t, out, "Queries: 20 (k=1, ef=16)")
	assert.Contains(t, out, "Recall@1:")
	assert.Contains(t, out, "Batch QPS:")
}

func TestBenchCmd_InvalidQueries(t *testing.T) {
	_, err := execute(t, "bench", "-n", "10", "-q", "0")
	assert.ErrorIs(t, err, smallworld.ErrInvalidParameter)
}

func TestBenchCmd_Distributions(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, benchCmd.Flags().Set("data", "uniform"))
	})

	for _, data := range []string{"signed", "clustered"} {
		t.Run(data, func(t *testing.T) {
			out, err := execute(t, "bench", "-n", "300", "-d", "3", "-q", "10", "-k", "2", "--data", data)
			require.NoError(t, err)

			assert.Contains(t, out, "Size: 300")
			assert.Contains(t, out, "Queries: 10 (k=2,")
		})
	}

	_, err := execute(t, "bench", "-n", "10", "-q", "1", "--data", "gaussian")
	assert.ErrorIs(t, err, smallworld.ErrInvalidParameter)
}

func TestQueryCmd(t *testing.T) {
	out, err := execute(t, "query", "0.5,0.5", "-n", "100", "-d", "2", "-k", "3", "--exact")
	require.NoError(t, err)

	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[3] id=")
	assert.NotContains(t, out, "[4] id=")
}

func TestQueryCmd_Errors(t *testing.T) {
	_, err := execute(t, "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")

	_, err = execute(t, "query", "0.5", "-n", "10", "-d", "2")

	var dm *smallworld.ErrDimensionMismatch
	assert.ErrorAs(t, err, &dm)

	_, err = execute(t, "query", "a,b", "-n", "10", "-d", "2")
	assert.ErrorIs(t, err, smallworld.ErrInvalidParameter)
}

func TestStatsCmd(t *testing.T) {
	out, err := execute(t, "stats", "-n", "200", "-d", "3", "--m", "6", "--mmax", "6", "--mmax0", "12")
	require.NoError(t, err)

	assert.Contains(t, out, "Number of nodes = 200")
	assert.Contains(t, out, "M = 6")
	assert.Contains(t, out, "Graph invariants: ok")
}

func TestParseVector(t *testing.T) {
	v, err := parseVector("1, 2.5,-3")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2.5, -3}, v)

	_, err = parseVector("1,,2")
	assert.ErrorIs(t, err, smallworld.ErrInvalidParameter)
}

// newIndexCmd returns a command with fresh index flags, so tests do not see
// flags changed by earlier runs of the shared commands.
func newIndexCmd(t *testing.T, cfg string, set map[string]string) (*cobra.Command, *indexFlags) {
	t.Helper()

	cmd := &cobra.Command{Use: "test"}
	f := &indexFlags{}
	addIndexFlags(cmd, f)

	for name, value := range set {
		require.NoError(t, cmd.Flags().Set(name, value))
	}

	if cfg != "" {
		path := filepath.Join(t.TempDir(), "index.toml")
		require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

		configPath = path

		t.Cleanup(func() { configPath = "" })
	}

	return cmd, f
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cmd, f := newIndexCmd(t, "", nil)

		cfg, err := loadConfig(cmd, f)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Dimension)
		assert.Equal(t, hnsw.DefaultM, cfg.Graph.M)
		assert.False(t, cfg.Capacity.Bounded)
	})

	t.Run("FlagsOverrideFile", func(t *testing.T) {
		cmd, f := newIndexCmd(t, "dimension = 3\n[graph]\nm = 4\nmmax = 9\n", map[string]string{
			"m":         "6",
			"heuristic": "true",
		})

		cfg, err := loadConfig(cmd, f)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Dimension)
		assert.Equal(t, 6, cfg.Graph.M)
		assert.Equal(t, 9, cfg.Graph.MMax)
		assert.True(t, cfg.Graph.Heuristic)
	})

	t.Run("BadFile", func(t *testing.T) {
		cmd, f := newIndexCmd(t, "[graph]\nunknown = 1\n", nil)

		_, err := loadConfig(cmd, f)
		assert.Error(t, err)
	})
}

func TestBuildDataset_Bounded(t *testing.T) {
	cmd, f := newIndexCmd(t, "[capacity]\nbounded = true\nmax_nodes = 10\n[log]\nlevel = \"error\"\n", map[string]string{
		"size": "11",
	})

	_, err := buildDataset(context.Background(), cmd, f, 0)
	assert.ErrorIs(t, err, smallworld.ErrCapacityExceeded)

	require.NoError(t, cmd.Flags().Set("size", "10"))

	d, err := buildDataset(context.Background(), cmd, f, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, d.idx.Len())
	assert.Equal(t, int64(10), d.metrics.GetStats().InsertCount)
}

func TestBuildDataset_Queries(t *testing.T) {
	t.Run("Clustered", func(t *testing.T) {
		cmd, f := newIndexCmd(t, "", map[string]string{
			"size":     "120",
			"dim":      "3",
			"data":     "clustered",
			"clusters": "4",
			"spread":   "0.01",
		})

		d, err := buildDataset(context.Background(), cmd, f, 8)
		require.NoError(t, err)

		assert.Len(t, d.vectors, 120)
		assert.Len(t, d.queries, 8)
		assert.Equal(t, 120, d.idx.Len())

		// Every query sits next to one of the four centroids, so its nearest
		// stored vector is close.
		for _, q := range d.queries {
			res, err := d.idx.KNNSearch(context.Background(), q, 1)
			require.NoError(t, err)
			require.Len(t, res, 1)
			assert.Less(t, res[0].Distance, float32(0.1))
		}
	})

	t.Run("Signed", func(t *testing.T) {
		cmd, f := newIndexCmd(t, "", map[string]string{"size": "50", "data": "signed"})

		d, err := buildDataset(context.Background(), cmd, f, 0)
		require.NoError(t, err)
		assert.Empty(t, d.queries)

		negative := false

		for _, v := range d.vectors {
			for _, x := range v {
				assert.GreaterOrEqual(t, x, float32(-1))
				assert.Less(t, x, float32(1))

				negative = negative || x < 0
			}
		}

		assert.True(t, negative)
	})

	t.Run("Invalid", func(t *testing.T) {
		cmd, f := newIndexCmd(t, "", map[string]string{"data": "clustered", "clusters": "0"})

		_, err := buildDataset(context.Background(), cmd, f, 1)
		assert.ErrorIs(t, err, smallworld.ErrInvalidParameter)

		cmd, f = newIndexCmd(t, "", map[string]string{"data": "zipf"})

		_, err = buildDataset(context.Background(), cmd, f, 1)
		assert.ErrorIs(t, err, smallworld.ErrInvalidParameter)
	})
}

func TestSearchEF(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	ef := cmd.Flags().Int("ef", 0, "")

	cfg := config.Default()
	cfg.Search.EF = 40

	assert.Equal(t, 40, searchEF(cmd, *ef, cfg))

	require.NoError(t, cmd.Flags().Set("ef", "8"))
	assert.Equal(t, 8, searchEF(cmd, *ef, cfg))
}
