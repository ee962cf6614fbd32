package hnsw

// Insert adds a copy of v to the graph and returns its id.
//
// All checks run before the graph is touched: on error the graph, including
// its level sampler, is unchanged.
func (g *Graph) Insert(v []float32) (uint32, error) {
	if err := g.checkDimension(v); err != nil {
		return 0, err
	}

	if c := g.opts.Capacity.MaxNodes; c > 0 && g.Len() >= c {
		return 0, capacityExceeded("node count", g.Len()+1, c)
	}

	level := g.levels.next()

	g.vectors.add(v)
	id := g.adj.addNode(level)
	q := g.vectors.get(id)

	if id == 0 {
		g.entryPoint = id
		g.maxLevel = level

		return id, nil
	}

	top := g.maxLevel
	ep := g.greedyDescend(q, g.entryPoint, top, level)

	for l := min(level, top); l >= 0; l-- {
		candidates := g.searchLayer(q, ep, g.opts.EFConstruction, l)
		selected := g.selectNeighbors(candidates, g.opts.M)

		for _, n := range selected {
			g.adj.addEdge(n.ID, id, l)
		}

		g.shrink(id, l)

		for _, n := range selected {
			g.shrink(n.ID, l)
		}

		ep = selected[0].ID
	}

	// Ties promote the newer node.
	if level >= top {
		g.entryPoint = id
		g.maxLevel = level
	}

	return id, nil
}
