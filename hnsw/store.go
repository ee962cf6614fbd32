package hnsw

// vectorStore keeps all vectors in one flat slice indexed by node id.
type vectorStore struct {
	dimension int
	data      []float32
}

func newVectorStore(dimension int, c Capacity) *vectorStore {
	s := &vectorStore{dimension: dimension}

	if c.MaxNodes > 0 {
		s.data = make([]float32, 0, c.MaxNodes*dimension)
	}

	return s
}

// add copies v into the store and returns its id.
func (s *vectorStore) add(v []float32) uint32 {
	id := uint32(s.len())
	s.data = append(s.data, v...)

	return id
}

// get returns the stored vector. Callers must not modify it.
func (s *vectorStore) get(id uint32) []float32 {
	off := int(id) * s.dimension
	return s.data[off : off+s.dimension : off+s.dimension]
}

func (s *vectorStore) len() int {
	return len(s.data) / s.dimension
}
