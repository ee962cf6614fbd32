package hnsw

import "math/rand/v2"

// levelSampler draws insertion levels from a generator owned by one graph.
type levelSampler struct {
	rng       *rand.Rand
	ml        int
	threshold float64
}

func newLevelSampler(seed uint64, ml int) *levelSampler {
	return &levelSampler{
		rng:       rand.New(rand.NewPCG(seed, seed)),
		ml:        ml,
		threshold: 1.0 / float64(ml),
	}
}

// next returns a level in [0, ml]: starting at 0, the level goes up while it
// is below ml and a uniform [0,1) draw is >= 1/ml.
func (s *levelSampler) next() int {
	level := 0
	for level < s.ml && s.rng.Float64() >= s.threshold {
		level++
	}

	return level
}
