package hnsw

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// node holds the per-layer neighbor lists of one graph node. links[l] exists
// for every layer 0..level, which keeps layer membership a contiguous prefix.
type node struct {
	level int
	links [][]uint32
}

// adjacency is the layered neighbor structure of the graph. Layer membership
// is mirrored into one roaring bitmap per layer.
type adjacency struct {
	nodes    []node
	layers   []*roaring.Bitmap
	capacity Capacity
	mmax     int
	mmax0    int
}

func newAdjacency(opts Options) *adjacency {
	a := &adjacency{
		capacity: opts.Capacity,
		mmax:     opts.MMax,
		mmax0:    opts.MMax0,
	}

	if n := opts.Capacity.MaxNodes; n > 0 {
		a.nodes = make([]node, 0, n)
	}

	if l := opts.Capacity.MaxLayers; l > 0 {
		a.layers = make([]*roaring.Bitmap, 0, l)
	}

	return a
}

// bound returns the degree bound of layer.
func (a *adjacency) bound(layer int) int {
	if layer == 0 {
		return a.mmax0
	}

	return a.mmax
}

// addNode registers the next node id on layers 0..level, creating missing
// layers on the way.
func (a *adjacency) addNode(level int) uint32 {
	id := uint32(len(a.nodes))

	links := make([][]uint32, level+1)
	for l := range links {
		links[l] = make([]uint32, 0, a.capacity.linkCap(a.bound(l)))
	}

	a.nodes = append(a.nodes, node{level: level, links: links})

	for len(a.layers) <= level {
		a.layers = append(a.layers, roaring.New())
	}

	for l := 0; l <= level; l++ {
		a.layers[l].Add(id)
	}

	return id
}

func (a *adjacency) len() int { return len(a.nodes) }

// topLayer returns the highest layer index, or -1 for an empty graph.
func (a *adjacency) topLayer() int { return len(a.layers) - 1 }

func (a *adjacency) level(id uint32) int { return a.nodes[id].level }

// contains reports whether id is a member of layer.
func (a *adjacency) contains(id uint32, layer int) bool {
	if layer < 0 || layer >= len(a.layers) {
		return false
	}

	return a.layers[layer].Contains(id)
}

// neighbors returns the neighbor list of id on layer. Callers must not modify it.
func (a *adjacency) neighbors(id uint32, layer int) []uint32 {
	n := &a.nodes[id]
	if layer > n.level {
		return nil
	}

	return n.links[layer]
}

// addEdge links st and ed on layer in both directions. Self-edges are ignored.
func (a *adjacency) addEdge(st, ed uint32, layer int) {
	if st == ed {
		return
	}

	a.nodes[st].links[layer] = append(a.nodes[st].links[layer], ed)
	a.nodes[ed].links[layer] = append(a.nodes[ed].links[layer], st)
}

// removeHalfEdge removes ed from the neighbor list of st on layer.
func (a *adjacency) removeHalfEdge(st, ed uint32, layer int) {
	links := a.nodes[st].links[layer]
	if i := slices.Index(links, ed); i >= 0 {
		a.nodes[st].links[layer] = slices.Delete(links, i, i+1)
	}
}

// setNeighbors replaces the neighbor list of id on layer, reusing its storage.
func (a *adjacency) setNeighbors(id uint32, layer int, ids []uint32) {
	links := a.nodes[id].links[layer][:0]
	a.nodes[id].links[layer] = append(links, ids...)
}

// layerSize returns the number of nodes on layer.
func (a *adjacency) layerSize(layer int) int {
	return int(a.layers[layer].GetCardinality())
}
