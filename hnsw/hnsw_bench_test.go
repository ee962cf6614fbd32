package hnsw

import (
	"fmt"
	"testing"

	"github.com/hupe1980/smallworld/testutil"
)

func BenchmarkInsert(b *testing.B) {
	for _, dim := range []int{4, 128} {
		b.Run(fmt.Sprintf("dim=%d", dim), func(b *testing.B) {
			vectors := testutil.NewRNG(1).UniformVectors(b.N, dim)
			g := newTestGraph(b, dim)

			b.ResetTimer()

			for i := range b.N {
				if _, err := g.Insert(vectors[i]); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkKNNSearch(b *testing.B) {
	for _, ef := range []int{0, 64} {
		b.Run(fmt.Sprintf("ef=%d", ef), func(b *testing.B) {
			rng := testutil.NewRNG(2)
			g := newTestGraph(b, 32)
			insertAll(b, g, rng.UniformVectors(5000, 32))

			queries := rng.UniformVectors(100, 32)

			b.ResetTimer()

			for i := range b.N {
				if _, err := g.KNNSearch(queries[i%len(queries)], 10, func(o *SearchOptions) { o.EF = ef }); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
