package hnsw

import (
	"github.com/hupe1980/smallworld/internal/queue"
)

// searchLayer runs a bounded best-first search on one layer and returns up to
// ef nodes ascending by (distance, id). entry must be a member of layer.
//
// The frontier shares the result set's limit. An entry that falls off the far
// end of the frontier is already worse than the farthest result and would end
// the loop when popped, so trimming it does not change the outcome.
func (g *Graph) searchLayer(q []float32, entry uint32, ef, layer int) []queue.Item {
	visited := g.acquireVisited()
	defer g.releaseVisited(visited)

	start := queue.Item{ID: entry, Distance: g.distance(q, entry)}

	candidates := queue.NewOrderedSet(ef)
	results := queue.NewOrderedSet(ef)

	candidates.Push(start)
	results.Push(start)
	visited.Set(uint(entry))

	for candidates.Len() > 0 {
		c, _ := candidates.PopMin()

		if far, ok := results.Max(); ok && queue.Less(far, c) {
			break
		}

		for _, n := range g.adj.neighbors(c.ID, layer) {
			if visited.Test(uint(n)) {
				continue
			}

			visited.Set(uint(n))

			item := queue.Item{ID: n, Distance: g.distance(q, n)}
			if results.Admits(item) {
				candidates.Push(item)
				results.Push(item)
			}
		}
	}

	return results.Items()
}

// greedyDescend walks from entry down to layer stop+1 (inclusive), keeping the
// single nearest node per layer.
func (g *Graph) greedyDescend(q []float32, entry uint32, from, stop int) uint32 {
	for l := from; l > stop; l-- {
		entry = g.searchLayer(q, entry, 1, l)[0].ID
	}

	return entry
}

// KNNSearch returns up to k approximate nearest neighbors of q, ascending by
// distance. k is clamped to the number of nodes; an empty graph yields an
// empty result.
func (g *Graph) KNNSearch(q []float32, k int, optFns ...func(o *SearchOptions)) ([]SearchResult, error) {
	if err := g.checkDimension(q); err != nil {
		return nil, err
	}

	if k <= 0 {
		return nil, ErrInvalidK
	}

	var opts SearchOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.EF < 0 {
		return nil, invalidParameter("EF", opts.EF)
	}

	n := g.Len()
	if n == 0 {
		return []SearchResult{}, nil
	}

	k = min(k, n)
	ef := max(opts.EF, k)

	if c := g.opts.Capacity.MaxCandidates; exceeds(ef, c) {
		return nil, capacityExceeded("beam width", ef, c)
	}

	ep := g.greedyDescend(q, g.entryPoint, g.maxLevel, 0)
	items := g.searchLayer(q, ep, ef, 0)

	return toResults(items, k), nil
}

// BruteSearch performs an exact scan over all nodes. It serves as ground
// truth for recall measurements.
func (g *Graph) BruteSearch(q []float32, k int) ([]SearchResult, error) {
	if err := g.checkDimension(q); err != nil {
		return nil, err
	}

	if k <= 0 {
		return nil, ErrInvalidK
	}

	top := queue.NewOrderedSet(k)
	for id := range g.Len() {
		top.Push(queue.Item{ID: uint32(id), Distance: g.distance(q, uint32(id))})
	}

	return toResults(top.Items(), k), nil
}

func toResults(items []queue.Item, k int) []SearchResult {
	k = min(k, len(items))

	out := make([]SearchResult, k)
	for i := range out {
		out[i] = SearchResult{ID: items[i].ID, Distance: items[i].Distance}
	}

	return out
}
