package flatmap

import (
	"cmp"
	"slices"
)

// BulkInserter is an open bulk-load session on a [Map].
//
// While a session is open the map's sort invariant is suspended:
// inserts append at whichever end of the buffer has more spare room
// (O(1) amortized, no insertion-point shifting), and the map's
// sorted-order methods panic. [BulkInserter.End] restores the invariant
// with a single sort.
//
// A session must be finished exactly once. Using the inserter after End,
// or opening a second session before End, is a contract violation.
type BulkInserter[K cmp.Ordered, V any] struct {
	m    *Map[K, V]
	done bool
}

// BeginBulk opens a bulk-load session.
//
// Panics if a session is already open. Callers that know the batch size
// should [Map.Reserve] first so the whole load happens without
// reallocation.
func (m *Map[K, V]) BeginBulk() *BulkInserter[K, V] {
	if m.bulk {
		panic("flatmap: BeginBulk while a bulk session is already open")
	}

	m.bulk = true

	return &BulkInserter[K, V]{m: m}
}

// Insert appends an element without regard for sort order.
//
// The element goes to whichever end of the buffer has more spare
// capacity, keeping the two spares balanced so neither end runs out
// early. Equal-key elements loaded in one session have an unspecified
// relative order after [BulkInserter.End].
func (b *BulkInserter[K, V]) Insert(key K, value V) {
	if b.done {
		panic("flatmap: bulk Insert after End")
	}

	m := b.m

	if m.buf.spare() == 0 {
		m.grow()
	}

	if m.buf.frontSpare() > m.buf.backSpare() {
		m.buf.insert(0, Pair[K, V]{Key: key, Value: value})
	} else {
		m.buf.insert(m.buf.size(), Pair[K, V]{Key: key, Value: value})
	}
}

// Len returns the number of elements currently in the map, including
// everything inserted during this session.
func (b *BulkInserter[K, V]) Len() int {
	return b.m.buf.size()
}

// End sorts the live range by key and returns the map to sorted mode.
// The one O(n log n) sort here replaces the per-element shifting a
// normal-mode load would have paid.
//
// Panics if the session has already ended.
func (b *BulkInserter[K, V]) End() {
	if b.done {
		panic("flatmap: bulk End called twice")
	}

	b.done = true

	m := b.m
	slices.SortFunc(m.buf.live(), func(x, y Pair[K, V]) int {
		return cmp.Compare(x.Key, y.Key)
	})

	m.bulk = false
}
