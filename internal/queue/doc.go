// Package queue provides the ordered containers used by graph traversal.
//
// Every container orders Items by (Distance, ID) so that equal distances still
// produce a total, deterministic order:
//   - OrderedSet: a B-tree backed set with O(log n) min/max access and an
//     optional size limit that evicts from the far end.
//   - PriorityQueue: a container/heap min-heap used for one-shot top-k
//     selection.
package queue
