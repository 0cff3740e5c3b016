// Package queue implements a sequence-ordered min-heap used to reconstruct
// feeder order from out-of-order worker completions.
package queue

// Item pairs a payload with its sequence number.
type Item[T any] struct {
	Seq   uint64
	Value T
}

// Reorder is a min-heap keyed by sequence number.
// Value-based storage, no pointer indirection.
type Reorder[T any] struct {
	items []Item[T]
}

// NewReorder creates a Reorder with the given initial capacity.
func NewReorder[T any](capacity int) *Reorder[T] {
	return &Reorder[T]{items: make([]Item[T], 0, capacity)}
}

// Len returns the number of buffered items.
func (q *Reorder[T]) Len() int { return len(q.items) }

// Push inserts an item while maintaining the heap invariant.
func (q *Reorder[T]) Push(it Item[T]) {
	q.items = append(q.items, it)
	q.siftUp(len(q.items) - 1)
}

// Min returns the smallest buffered sequence number.
func (q *Reorder[T]) Min() (uint64, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	return q.items[0].Seq, true
}

// Pop removes and returns the item with the smallest sequence number.
func (q *Reorder[T]) Pop() (Item[T], bool) {
	n := len(q.items)
	if n == 0 {
		return Item[T]{}, false
	}
	root := q.items[0]
	last := q.items[n-1]
	q.items[n-1] = Item[T]{}
	q.items = q.items[:n-1]
	if n-1 > 0 {
		q.items[0] = last
		q.siftDown(0)
	}
	return root, true
}

func (q *Reorder[T]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if q.items[i].Seq >= q.items[p].Seq {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *Reorder[T]) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && q.items[r].Seq < q.items[l].Seq {
			best = r
		}
		if q.items[best].Seq >= q.items[i].Seq {
			return
		}
		q.items[i], q.items[best] = q.items[best], q.items[i]
		i = best
	}
}
