package hnsw

import (
	"slices"

	"github.com/hupe1980/smallworld/internal/queue"
)

// selectNeighbors picks up to m neighbors from candidates, which must be
// ascending by (distance, id).
func (g *Graph) selectNeighbors(candidates []queue.Item, m int) []queue.Item {
	if g.opts.Heuristic {
		return g.selectNeighborsHeuristic(candidates, m)
	}

	return selectNeighborsSimple(candidates, m)
}

// selectNeighborsSimple keeps the m nearest candidates.
func selectNeighborsSimple(candidates []queue.Item, m int) []queue.Item {
	return candidates[:min(m, len(candidates))]
}

// selectNeighborsHeuristic keeps a candidate only if it is closer to the base
// than to every neighbor kept so far. Free slots are then filled with the
// nearest discarded candidates.
func (g *Graph) selectNeighborsHeuristic(candidates []queue.Item, m int) []queue.Item {
	if len(candidates) <= m {
		return candidates
	}

	selected := make([]queue.Item, 0, m)
	discarded := queue.NewMin(len(candidates))

	for _, c := range candidates {
		if len(selected) >= m {
			break
		}

		vc := g.vectors.get(c.ID)
		keep := true

		for _, s := range selected {
			if g.distanceFunc(g.vectors.get(s.ID), vc) < c.Distance {
				keep = false
				break
			}
		}

		if keep {
			selected = append(selected, c)
		} else {
			discarded.PushItem(c)
		}
	}

	for len(selected) < m && discarded.Len() > 0 {
		selected = append(selected, discarded.PopItem())
	}

	slices.SortFunc(selected, compareItems)

	return selected
}

// reachBudget caps the nodes a reachability check visits before giving up.
const reachBudget = 1024

// shrink restores the degree bound of id on layer. The dropped neighbors lose
// their edge back to id as well, so adjacency stays symmetric.
//
// A dropped neighbor must stay connected to id: either it still reaches id
// without the dropped edge, or it is relinked to a kept neighbor with room,
// or it takes the place of a kept neighbor that still reaches id on its own.
func (g *Graph) shrink(id uint32, layer int) {
	bound := g.adj.bound(layer)

	links := g.adj.neighbors(id, layer)
	if len(links) <= bound {
		return
	}

	base := g.vectors.get(id)

	items := make([]queue.Item, len(links))
	for i, n := range links {
		items[i] = queue.Item{ID: n, Distance: g.distanceFunc(base, g.vectors.get(n))}
	}

	ordered := queue.Nearest(items, len(items))
	kept := slices.Clone(g.selectNeighbors(ordered, bound))

	keep := make(map[uint32]struct{}, len(kept))
	for _, it := range kept {
		keep[it.ID] = struct{}{}
	}

	var dropped []queue.Item

	for _, it := range ordered {
		if _, ok := keep[it.ID]; !ok {
			dropped = append(dropped, it)
		}
	}

	for _, d := range dropped {
		drop := d.ID

		if !g.reachable(d.ID, id, layer) && !g.relink(d.ID, kept, layer) {
			if i := g.replacement(id, d.ID, kept, layer); i >= 0 {
				drop = kept[i].ID
				kept[i] = d
			}
		}

		g.adj.removeHalfEdge(drop, id, layer)
	}

	slices.SortFunc(kept, compareItems)

	ids := make([]uint32, len(kept))
	for i, it := range kept {
		ids[i] = it.ID
	}

	g.adj.setNeighbors(id, layer, ids)
}

// reachable reports whether from reaches target on layer without using the
// direct edge between them. The search gives up after reachBudget nodes.
func (g *Graph) reachable(from, target uint32, layer int) bool {
	visited := g.acquireVisited()
	defer g.releaseVisited(visited)

	visited.Set(uint(from))

	frontier := []uint32{from}
	seen := 1

	for len(frontier) > 0 {
		x := frontier[0]
		frontier = frontier[1:]

		for _, n := range g.adj.neighbors(x, layer) {
			if n == target {
				if x == from {
					continue
				}

				return true
			}

			if visited.Test(uint(n)) {
				continue
			}

			if seen >= reachBudget {
				return false
			}

			visited.Set(uint(n))
			frontier = append(frontier, n)
			seen++
		}
	}

	return false
}

// relink connects d to the kept neighbor nearest to d that is below its
// degree bound. It reports whether such a neighbor existed.
func (g *Graph) relink(d uint32, kept []queue.Item, layer int) bool {
	bound := g.adj.bound(layer)
	vd := g.vectors.get(d)

	best := -1

	var bestDist float32

	for i, k := range kept {
		links := g.adj.neighbors(k.ID, layer)
		if len(links) >= bound || slices.Contains(links, d) {
			continue
		}

		dist := g.distanceFunc(vd, g.vectors.get(k.ID))
		if best < 0 || dist < bestDist || (dist == bestDist && k.ID < kept[best].ID) {
			best, bestDist = i, dist
		}
	}

	if best < 0 {
		return false
	}

	g.adj.addEdge(d, kept[best].ID, layer)

	return true
}

// replacement picks the kept neighbor, farthest first, whose edge to id can
// go in place of d's: one that reaches id without it or, when d has no other
// edge, one that keeps at least one more. It returns -1 if there is none.
func (g *Graph) replacement(id, d uint32, kept []queue.Item, layer int) int {
	for i := len(kept) - 1; i >= 0; i-- {
		if g.reachable(kept[i].ID, id, layer) {
			return i
		}
	}

	if len(g.adj.neighbors(d, layer)) > 1 {
		return -1
	}

	for i := len(kept) - 1; i >= 0; i-- {
		if len(g.adj.neighbors(kept[i].ID, layer)) > 1 {
			return i
		}
	}

	return -1
}

func compareItems(a, b queue.Item) int {
	switch {
	case queue.Less(a, b):
		return -1
	case queue.Less(b, a):
		return 1
	default:
		return 0
	}
}
