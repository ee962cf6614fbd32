package hnsw

import (
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/smallworld/distance"
)

// SearchResult is one hit of a search, ordered ascending by Distance then ID.
type SearchResult struct {
	ID       uint32
	Distance float32
}

// Graph represents the Hierarchical Navigable Small World graph.
type Graph struct {
	dimension int
	opts      Options

	vectors      *vectorStore
	adj          *adjacency
	levels       *levelSampler
	distanceFunc distance.Func

	entryPoint uint32
	maxLevel   int // level of the entry point, -1 while empty

	visitedPool sync.Pool
}

// New creates a new HNSW graph for vectors of the given dimension.
func New(dimension int, optFns ...func(o *Options)) (*Graph, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := opts.validate(dimension); err != nil {
		return nil, err
	}

	g := &Graph{
		dimension:    dimension,
		opts:         opts,
		vectors:      newVectorStore(dimension, opts.Capacity),
		adj:          newAdjacency(opts),
		levels:       newLevelSampler(opts.Seed, opts.ML),
		distanceFunc: distance.SquaredL2,
		maxLevel:     -1,
	}

	visitedLen := uint(1024)
	if n := opts.Capacity.MaxNodes; n > 0 {
		visitedLen = uint(n)
	}

	g.visitedPool.New = func() any {
		return bitset.New(visitedLen)
	}

	return g, nil
}

// Options returns the options the graph was built with.
func (g *Graph) Options() Options { return g.opts }

// Dimension returns the vector width of the graph.
func (g *Graph) Dimension() int { return g.dimension }

// Len returns the number of nodes.
func (g *Graph) Len() int { return g.adj.len() }

// EntryPoint returns the global search root. ok is false for an empty graph.
func (g *Graph) EntryPoint() (id uint32, ok bool) {
	if g.Len() == 0 {
		return 0, false
	}

	return g.entryPoint, true
}

// MaxLevel returns the topmost non-empty layer, or -1 for an empty graph.
func (g *Graph) MaxLevel() int { return g.maxLevel }

// Level returns the sampled level of id.
func (g *Graph) Level(id uint32) (int, bool) {
	if int(id) >= g.Len() {
		return 0, false
	}

	return g.adj.level(id), true
}

// Vector returns a copy of the vector stored for id.
func (g *Graph) Vector(id uint32) ([]float32, bool) {
	if int(id) >= g.Len() {
		return nil, false
	}

	v := g.vectors.get(id)
	out := make([]float32, len(v))
	copy(out, v)

	return out, true
}

// Neighbors returns a copy of the neighbor ids of id on layer. ok is false
// when id is not a member of layer.
func (g *Graph) Neighbors(id uint32, layer int) ([]uint32, bool) {
	if int(id) >= g.Len() || !g.adj.contains(id, layer) {
		return nil, false
	}

	links := g.adj.neighbors(id, layer)
	out := make([]uint32, len(links))
	copy(out, links)

	return out, true
}

// distance returns the distance between a query and a stored node.
func (g *Graph) distance(q []float32, id uint32) float32 {
	return g.distanceFunc(q, g.vectors.get(id))
}

func (g *Graph) checkDimension(v []float32) error {
	if len(v) != g.dimension {
		return &ErrDimensionMismatch{Expected: g.dimension, Actual: len(v)}
	}

	return nil
}

func (g *Graph) acquireVisited() *bitset.BitSet {
	b, _ := g.visitedPool.Get().(*bitset.BitSet)
	return b
}

func (g *Graph) releaseVisited(b *bitset.BitSet) {
	b.ClearAll()
	g.visitedPool.Put(b)
}
