// Package frontier provides the min-priority queue shared by the searches.
//
// Entries with equal priority come out in insertion order, which keeps every
// search deterministic for identical inputs. Stale entries are never removed
// eagerly: callers push a fresh entry on improvement and discard outdated ones
// when they are popped.
package frontier

import "container/heap"

type entry[T any] struct {
	item     T
	priority float64
	seq      uint64
}

type entries[T any] []entry[T]

func (e entries[T]) Len() int { return len(e) }

func (e entries[T]) Less(i, j int) bool {
	if e[i].priority != e[j].priority {
		return e[i].priority < e[j].priority
	}
	return e[i].seq < e[j].seq
}

func (e entries[T]) Swap(i, j int) { e[i], e[j] = e[j], e[i] }

func (e *entries[T]) Push(x any) { *e = append(*e, x.(entry[T])) }

func (e *entries[T]) Pop() any {
	old := *e
	n := len(old)
	it := old[n-1]
	*e = old[:n-1]
	return it
}

// Queue is a stable min-heap keyed by a float64 priority
type Queue[T any] struct {
	heap entries[T]
	next uint64
}

// New creates an empty queue with room for capacity entries
func New[T any](capacity int) *Queue[T] {
	return &Queue[T]{heap: make(entries[T], 0, capacity)}
}

// Push inserts item with the given priority
func (q *Queue[T]) Push(item T, priority float64) {
	heap.Push(&q.heap, entry[T]{item: item, priority: priority, seq: q.next})
	q.next++
}

// Pop removes the entry with the lowest priority (oldest first on ties).
// ok is false when the queue is empty.
func (q *Queue[T]) Pop() (item T, priority float64, ok bool) {
	if len(q.heap) == 0 {
		return item, 0, false
	}
	e := heap.Pop(&q.heap).(entry[T])
	return e.item, e.priority, true
}

// Len returns the number of entries, stale ones included
func (q *Queue[T]) Len() int { return len(q.heap) }

// Pushed returns how many entries were ever inserted
func (q *Queue[T]) Pushed() int { return int(q.next) }
