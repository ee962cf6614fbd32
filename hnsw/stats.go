package hnsw

import (
	"fmt"
	"io"
)

// LevelStats describes one layer of the graph.
type LevelStats struct {
	Level          int
	Nodes          int
	Connections    int
	MaxConnections int
	AvgConnections float64
}

// Stats is a snapshot of the graph's shape.
type Stats struct {
	Nodes      int
	Dimension  int
	EntryPoint uint32
	MaxLevel   int
	Options    Options
	Levels     []LevelStats
}

// Stats collects per-layer node and connection counts.
func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:      g.Len(),
		Dimension:  g.dimension,
		EntryPoint: g.entryPoint,
		MaxLevel:   g.maxLevel,
		Options:    g.opts,
		Levels:     make([]LevelStats, g.adj.topLayer()+1),
	}

	for l := range s.Levels {
		ls := LevelStats{Level: l, Nodes: g.adj.layerSize(l)}

		it := g.adj.layers[l].Iterator()
		for it.HasNext() {
			degree := len(g.adj.neighbors(it.Next(), l))
			ls.Connections += degree
			ls.MaxConnections = max(ls.MaxConnections, degree)
		}

		if ls.Nodes > 0 {
			ls.AvgConnections = float64(ls.Connections) / float64(ls.Nodes)
		}

		s.Levels[l] = ls
	}

	return s
}

// Print writes a human readable report of s to w.
func (s Stats) Print(w io.Writer) {
	fmt.Fprintln(w, "Options:")
	fmt.Fprintf(w, "\tM = %d\n", s.Options.M)
	fmt.Fprintf(w, "\tMMax = %d\n", s.Options.MMax)
	fmt.Fprintf(w, "\tMMax0 = %d\n", s.Options.MMax0)
	fmt.Fprintf(w, "\tEFConstruction = %d\n", s.Options.EFConstruction)
	fmt.Fprintf(w, "\tML = %d\n", s.Options.ML)
	fmt.Fprintf(w, "\tHeuristic = %v\n\n", s.Options.Heuristic)

	fmt.Fprintln(w, "Parameters:")
	fmt.Fprintf(w, "\tdimension = %d\n", s.Dimension)
	fmt.Fprintf(w, "\tep = %d\n", s.EntryPoint)
	fmt.Fprintf(w, "\tmaxLevel = %d\n\n", s.MaxLevel)

	fmt.Fprintf(w, "Number of nodes = %d\n\n", s.Nodes)

	fmt.Fprintln(w, "Node Levels:")
	for _, l := range s.Levels {
		fmt.Fprintf(w, "\tLevel %d:\n", l.Level)
		fmt.Fprintf(w, "\t\tNumber of nodes: %d\n", l.Nodes)
		fmt.Fprintf(w, "\t\tNumber of connections: %d\n", l.Connections)
		fmt.Fprintf(w, "\t\tMax connections per node: %d\n", l.MaxConnections)
		fmt.Fprintf(w, "\t\tAverage connections per node: %.2f\n", l.AvgConnections)
	}
}
