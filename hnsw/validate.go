package hnsw

import (
	"errors"
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrCorrupt wraps every violation reported by Validate.
var ErrCorrupt = errors.New("graph invariant violated")

// Validate checks the structural invariants that every completed Insert must
// leave behind:
//   - edges are symmetric and never self-loops, with no duplicate neighbors
//   - every neighbor list is within its layer's degree bound
//   - a node on layer l is on every layer below l
//   - the entry point sits on the topmost layer
//
// It returns nil or the joined list of violations.
func (g *Graph) Validate() error {
	var errs []error

	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...))
	}

	for l := 1; l <= g.adj.topLayer(); l++ {
		if extra := roaring.AndNot(g.adj.layers[l], g.adj.layers[l-1]); !extra.IsEmpty() {
			report("layer %d has %d nodes missing from layer %d", l, extra.GetCardinality(), l-1)
		}
	}

	for i := range g.Len() {
		id := uint32(i)

		for l := 0; l <= g.adj.level(id); l++ {
			links := g.adj.neighbors(id, l)

			if bound := g.adj.bound(l); len(links) > bound {
				report("node %d has %d neighbors on layer %d, bound is %d", id, len(links), l, bound)
			}

			for j, n := range links {
				switch {
				case n == id:
					report("node %d links to itself on layer %d", id, l)
				case int(n) >= g.Len() || !g.adj.contains(n, l):
					report("node %d links to %d which is not on layer %d", id, n, l)
				case !slices.Contains(g.adj.neighbors(n, l), id):
					report("edge %d->%d on layer %d has no reverse edge", id, n, l)
				case slices.Contains(links[:j], n):
					report("node %d lists %d twice on layer %d", id, n, l)
				}
			}
		}
	}

	if g.Len() > 0 {
		if g.maxLevel != g.adj.topLayer() {
			report("max level %d differs from top layer %d", g.maxLevel, g.adj.topLayer())
		}

		if !g.adj.contains(g.entryPoint, g.maxLevel) {
			report("entry point %d is not on top layer %d", g.entryPoint, g.maxLevel)
		}
	}

	return errors.Join(errs...)
}
