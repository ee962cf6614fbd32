package queue

// Item is a node id paired with its distance to the current query.
type Item struct {
	ID       uint32
	Distance float32
}

// Less reports whether a sorts before b: nearer first, ties broken by id.
func Less(a, b Item) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}

	return a.ID < b.ID
}
