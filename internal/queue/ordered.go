package queue

import "github.com/tidwall/btree"

// btreeDegree keeps nodes small; sets here rarely hold more than a few hundred items.
const btreeDegree = 16

// OrderedSet is a set of Items ordered ascending by (Distance, ID).
//
// A positive limit bounds the set: once an insertion grows it past the limit
// the farthest item is evicted. A zero limit means unbounded.
//
// OrderedSet is NOT thread-safe.
type OrderedSet struct {
	tree  *btree.BTreeG[Item]
	limit int
}

// NewOrderedSet returns an empty set holding at most limit items.
func NewOrderedSet(limit int) *OrderedSet {
	return &OrderedSet{
		tree:  btree.NewBTreeGOptions(Less, btree.Options{Degree: btreeDegree, NoLocks: true}),
		limit: limit,
	}
}

// Len returns the number of items in the set.
func (s *OrderedSet) Len() int { return s.tree.Len() }

// Push inserts item. If the set then exceeds its limit, the farthest item is
// removed and returned with evicted=true. The evicted item may be item itself.
func (s *OrderedSet) Push(item Item) (Item, bool) {
	s.tree.Set(item)

	if s.limit > 0 && s.tree.Len() > s.limit {
		return s.tree.PopMax()
	}

	return Item{}, false
}

// Max returns the farthest item.
func (s *OrderedSet) Max() (Item, bool) { return s.tree.Max() }

// PopMin removes and returns the nearest item.
func (s *OrderedSet) PopMin() (Item, bool) { return s.tree.PopMin() }

// Admits reports whether item would survive a Push: the set has room, or item
// sorts before the current farthest member.
func (s *OrderedSet) Admits(item Item) bool {
	if s.limit <= 0 || s.tree.Len() < s.limit {
		return true
	}

	far, _ := s.tree.Max()

	return Less(item, far)
}

// Items returns the members ascending by (Distance, ID).
func (s *OrderedSet) Items() []Item {
	out := make([]Item, 0, s.tree.Len())

	s.tree.Scan(func(item Item) bool {
		out = append(out, item)
		return true
	})

	return out
}
