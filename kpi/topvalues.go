package kpi

import (
	"container/heap"
	"sort"
)

// EntityTotal is one ranked entry: a group label and its summed value.
type EntityTotal struct {
	Name  string
	Total float64
}

type rankedEntry struct {
	EntityTotal
	seq int // first-seen order, breaks ties
}

// ranksAbove reports whether a should appear before b in a descending
// ranking. Equal totals keep first-seen order.
func ranksAbove(a, b rankedEntry) bool {
	if a.Total != b.Total {
		return a.Total > b.Total
	}
	return a.seq < b.seq
}

// entryHeap is a min-heap: the worst-ranked retained entry sits at the root.
type entryHeap struct {
	items []rankedEntry
}

func (h entryHeap) Len() int            { return len(h.items) }
func (h entryHeap) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h entryHeap) Less(i, j int) bool  { return ranksAbove(h.items[j], h.items[i]) }
func (h *entryHeap) Push(x interface{}) { h.items = append(h.items, x.(rankedEntry)) }
func (h *entryHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

// topN retains the best `capacity` entries seen so far.
type topN struct {
	h        *entryHeap
	capacity int
}

func newTopN(capacity int) *topN {
	if capacity <= 0 {
		capacity = 1
	}
	h := &entryHeap{items: make([]rankedEntry, 0, capacity)}
	heap.Init(h)
	return &topN{h: h, capacity: capacity}
}

func (t *topN) Insert(e rankedEntry) {
	if t.h.Len() < t.capacity {
		heap.Push(t.h, e)
		return
	}
	if ranksAbove(e, t.h.items[0]) {
		t.h.items[0] = e
		heap.Fix(t.h, 0)
	}
}

// Values returns the retained entries ranked best-first.
func (t *topN) Values() []EntityTotal {
	ranked := make([]rankedEntry, len(t.h.items))
	copy(ranked, t.h.items)
	sort.Slice(ranked, func(i, j int) bool { return ranksAbove(ranked[i], ranked[j]) })

	out := make([]EntityTotal, len(ranked))
	for i, e := range ranked {
		out[i] = e.EntityTotal
	}
	return out
}
