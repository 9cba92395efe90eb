package server

import (
	"container/heap"
	"sort"
)

// candidate is a scored document in a topkHeap
type candidate struct {
	Key   uint64  // primary key of the document
	Score float32 // distance to the query, smaller is better
	index int     // index in the heap, maintained by heap package
}

// worse reports whether a ranks behind b. Ties on the score are broken by
// the primary key so results are deterministic.
func worse(a, b *candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Key > b.Key
}

// topkHeap keeps the k best candidates seen so far. It combines a max-heap
// (the worst kept candidate sits at the root and is evicted first) with a map
// for key based access, so a key offered twice keeps only its best score.
//
// Not thread-safe, every query owns its heap.
type topkHeap struct {
	k        int
	items    []*candidate          // The actual heap slice
	itemsMap map[uint64]*candidate // Map for O(1) access by key
}

// newTopkHeap creates a heap bounded to k candidates
func newTopkHeap(k int) *topkHeap {
	return &topkHeap{
		k:        k,
		items:    make([]*candidate, 0, k),
		itemsMap: make(map[uint64]*candidate, k),
	}
}

// Len returns the number of kept candidates (part of heap.Interface)
func (h *topkHeap) Len() int { return len(h.items) }

// Less orders the worst candidate first (part of heap.Interface)
func (h *topkHeap) Less(i, j int) bool { return worse(h.items[i], h.items[j]) }

// Swap exchanges items at positions i and j (part of heap.Interface)
func (h *topkHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

// Push adds an item to the heap (part of heap.Interface)
func (h *topkHeap) Push(x any) {
	c := x.(*candidate)
	c.index = len(h.items)
	h.items = append(h.items, c)
	h.itemsMap[c.Key] = c
}

// Pop removes and returns the worst item (part of heap.Interface)
func (h *topkHeap) Pop() any {
	old := h.items
	n := len(old)
	c := old[n-1]
	old[n-1] = nil // Avoid memory leak
	c.index = -1
	h.items = old[:n-1]
	delete(h.itemsMap, c.Key)
	return c
}

// Offer considers a candidate. It is kept when the heap is not full or when
// it beats the current worst candidate.
func (h *topkHeap) Offer(key uint64, score float32) {
	if h.k <= 0 {
		return
	}

	if c, exists := h.itemsMap[key]; exists {
		if score < c.Score {
			c.Score = score
			heap.Fix(h, c.index)
		}
		return
	}

	c := &candidate{Key: key, Score: score}
	if len(h.items) < h.k {
		heap.Push(h, c)
		return
	}
	if worse(h.items[0], c) {
		heap.Pop(h)
		heap.Push(h, c)
	}
}

// Sorted returns the kept candidates, best first
func (h *topkHeap) Sorted() []candidate {
	out := make([]candidate, len(h.items))
	for i, c := range h.items {
		out[i] = *c
	}
	sort.Slice(out, func(i, j int) bool { return worse(&out[j], &out[i]) })
	return out
}
