package hnsw

const (
	// DefaultM is the default number of neighbors linked per new node and layer.
	DefaultM = 16

	// DefaultMMax is the default degree bound on layers >= 1.
	DefaultMMax = 2 * DefaultM

	// DefaultEFConstruction is the default beam width used while inserting.
	DefaultEFConstruction = 100

	// DefaultML is the default highest sampled level.
	DefaultML = 2

	// mmax0Multiplier derives the default layer-0 degree bound from MMax.
	mmax0Multiplier = 2
)

// Options represents the options for configuring HNSW.
type Options struct {
	// M specifies the number of neighbors a new node is linked to on every
	// layer it belongs to, before pruning.
	M int

	// MMax is the degree bound on layers >= 1.
	MMax int

	// MMax0 is the degree bound on layer 0.
	MMax0 int

	// EFConstruction is the beam width of the layer search run during Insert.
	// Larger values build a better connected graph at a higher insert cost.
	EFConstruction int

	// ML caps the sampled level of a node. A level is incremented while it is
	// below ML and a uniform draw is >= 1/ML.
	ML int

	// Seed seeds the level sampler. Equal seeds and equal insertion sequences
	// build identical graphs.
	Seed uint64

	// Heuristic enables the diversity heuristic for neighbor selection and
	// pruning. The default keeps the plain nearest-M selection.
	Heuristic bool

	// Capacity fixes hard ceilings. The zero value is the growable profile.
	Capacity Capacity
}

// DefaultOptions contains the default options for HNSW.
var DefaultOptions = Options{
	M:              DefaultM,
	MMax:           DefaultMMax,
	MMax0:          mmax0Multiplier * DefaultMMax,
	EFConstruction: DefaultEFConstruction,
	ML:             DefaultML,
	Seed:           1,
}

// validate checks opts for a graph of the given dimension. It runs before any
// state is allocated.
func (o Options) validate(dimension int) error {
	for _, p := range []struct {
		name  string
		value int
	}{
		{"dimension", dimension},
		{"M", o.M},
		{"MMax", o.MMax},
		{"MMax0", o.MMax0},
		{"EFConstruction", o.EFConstruction},
		{"ML", o.ML},
	} {
		if p.value <= 0 {
			return invalidParameter(p.name, p.value)
		}
	}

	c := o.Capacity
	if err := c.validate(); err != nil {
		return err
	}

	switch {
	case exceeds(dimension, c.MaxDimension):
		return capacityExceeded("dimension", dimension, c.MaxDimension)
	case exceeds(o.ML+1, c.MaxLayers):
		return capacityExceeded("layer count", o.ML+1, c.MaxLayers)
	case exceeds(o.M, c.MaxNeighbors):
		return capacityExceeded("M", o.M, c.MaxNeighbors)
	case exceeds(o.MMax, c.MaxNeighbors):
		return capacityExceeded("MMax", o.MMax, c.MaxNeighbors)
	case exceeds(o.MMax0, c.MaxNeighbors):
		return capacityExceeded("MMax0", o.MMax0, c.MaxNeighbors)
	case exceeds(o.EFConstruction, c.MaxCandidates):
		return capacityExceeded("EFConstruction", o.EFConstruction, c.MaxCandidates)
	}

	return nil
}

// SearchOptions tunes a single KNNSearch call.
type SearchOptions struct {
	// EF widens the layer-0 beam. The effective beam is max(EF, k).
	EF int
}
