package queue

import "container/heap"

// Compile time check to ensure PriorityQueue satisfies the heap interface.
var _ heap.Interface = (*PriorityQueue)(nil)

// PriorityQueue is a min-heap of Items that implements heap.Interface.
type PriorityQueue struct {
	Items []Item // Items contains the elements of the priority queue.
}

// NewMin returns an empty min-heap with room for capacity items.
func NewMin(capacity int) *PriorityQueue {
	return &PriorityQueue{Items: make([]Item, 0, capacity)}
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue) Len() int { return len(pq.Items) }

// Less reports whether the element with index i should sort before the element with index j.
func (pq *PriorityQueue) Less(i, j int) bool {
	return Less(pq.Items[i], pq.Items[j])
}

// Swap swaps the elements with indexes i and j.
func (pq *PriorityQueue) Swap(i, j int) {
	pq.Items[i], pq.Items[j] = pq.Items[j], pq.Items[i]
}

// Push adds x to the priority queue. Use heap.Push, or PushItem.
func (pq *PriorityQueue) Push(x any) {
	item, _ := x.(Item)
	pq.Items = append(pq.Items, item)
}

// Pop removes and returns the last element. Use heap.Pop, or PopItem.
func (pq *PriorityQueue) Pop() any {
	old := pq.Items
	n := len(old)
	item := old[n-1]
	pq.Items = old[:n-1]

	return item
}

// PushItem adds item and restores the heap order.
func (pq *PriorityQueue) PushItem(item Item) {
	heap.Push(pq, item)
}

// PopItem removes and returns the top element.
// Panics if the queue is empty - caller should check Len() > 0.
func (pq *PriorityQueue) PopItem() Item {
	item, _ := heap.Pop(pq).(Item)
	return item
}

// Nearest returns the n nearest items of items, ascending by (Distance, ID).
// items is not modified.
func Nearest(items []Item, n int) []Item {
	pq := NewMin(len(items))
	pq.Items = append(pq.Items, items...)
	heap.Init(pq)

	n = min(n, pq.Len())
	out := make([]Item, 0, n)

	for len(out) < n {
		out = append(out, pq.PopItem())
	}

	return out
}
