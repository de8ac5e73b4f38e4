package flatmap

import (
	"cmp"
	"fmt"
	"sort"
)

// NotFound is the sentinel index returned by [Map.FindIndex] and
// [Map.FindDuplicate] when no element matches.
const NotFound = -1

// Default growth policy bounds. On growth the map adds
// clamp(capacity/2, minGrow, maxGrow) slots and rebalances the spare
// capacity evenly between the front and back of the buffer.
const (
	DefaultMinGrow = 16
	DefaultMaxGrow = 4096
)

// Map is a sorted-vector key-value container.
//
// Elements live in one contiguous buffer, sorted ascending by key, with
// spare capacity on both ends. Duplicate keys are permitted and always
// adjacent. See the package documentation for the design trade-offs.
//
// The zero value is NOT usable (its growth policy is zero, and growing a
// map with a non-positive effective growth is a contract violation).
// Construct with [New] or [NewWithGrow].
type Map[K cmp.Ordered, V any] struct {
	buf     elemBuffer[K, V]
	minGrow int
	maxGrow int

	// bulk is set while a BulkInserter session is open. Sorted-order
	// methods panic until the session ends. See bulk.go.
	bulk bool
}

// New returns an empty map with the default growth policy.
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return NewWithGrow[K, V](DefaultMinGrow, DefaultMaxGrow)
}

// NewWithGrow returns an empty map with an explicit growth policy.
//
// minGrow must be > 0 and maxGrow >= minGrow, otherwise the first growth
// panics (a zero effective growth would loop forever).
func NewWithGrow[K cmp.Ordered, V any](minGrow, maxGrow int) *Map[K, V] {
	return &Map[K, V]{minGrow: minGrow, maxGrow: maxGrow}
}

// Len returns the number of elements.
func (m *Map[K, V]) Len() int {
	return m.buf.size()
}

// Empty reports whether the map holds no elements.
func (m *Map[K, V]) Empty() bool {
	return m.buf.size() == 0
}

// Capacity returns the number of elements the map can hold before the
// next reallocation.
func (m *Map[K, V]) Capacity() int {
	return m.buf.capacity()
}

// MinGrow returns the lower bound of the growth policy.
func (m *Map[K, V]) MinGrow() int {
	return m.minGrow
}

// MaxGrow returns the upper bound of the growth policy.
func (m *Map[K, V]) MaxGrow() int {
	return m.maxGrow
}

// SetGrow replaces the growth policy. It does not reallocate.
func (m *Map[K, V]) SetGrow(minGrow, maxGrow int) {
	m.minGrow = minGrow
	m.maxGrow = maxGrow
}

// Contains reports whether at least one element with the key exists.
func (m *Map[K, V]) Contains(key K) bool {
	m.mustBeSorted("Contains")

	i := m.lowerBound(key)

	return i < m.buf.size() && m.buf.at(i).Key == key
}

// Get returns the value stored under key.
//
// Get PANICS if the key is absent. This is deliberate: the container
// assumes presence is guaranteed by the caller's logic and skips the
// cost of a found/not-found return on the hot lookup path. Use
// [Map.Contains] or [Map.FindIndex] when absence is a normal outcome.
func (m *Map[K, V]) Get(key K) V {
	return *m.GetRef(key)
}

// GetRef returns a pointer to the value stored under key, allowing
// in-place mutation. Like [Map.Get] it PANICS if the key is absent.
//
// The pointer is invalidated by any subsequent mutation of the map.
func (m *Map[K, V]) GetRef(key K) *V {
	m.mustBeSorted("GetRef")

	i := m.lowerBound(key)
	if i >= m.buf.size() || m.buf.at(i).Key != key {
		panic(fmt.Sprintf("flatmap: lookup of missing key %v", any(key)))
	}

	return &m.buf.at(i).Value
}

// Insert adds an element, keeping the buffer sorted by key.
//
// Duplicate keys are permitted: the new element lands at the lower bound
// of its key, i.e. after all smaller keys and before any existing
// elements with an equal key.
func (m *Map[K, V]) Insert(key K, value V) {
	m.mustBeSorted("Insert")

	if m.buf.spare() == 0 {
		m.grow()
	}

	m.buf.insert(m.lowerBound(key), Pair[K, V]{Key: key, Value: value})
}

// InsertUnique adds an element only if no element with the key exists.
// It returns false, leaving the map's contents unchanged, when the key
// is present. The capacity may still grow on a rejected insert: the
// grow-first step runs before the duplicate check.
func (m *Map[K, V]) InsertUnique(key K, value V) bool {
	m.mustBeSorted("InsertUnique")

	if m.buf.spare() == 0 {
		m.grow()
	}

	i := m.lowerBound(key)
	if i < m.buf.size() && m.buf.at(i).Key == key {
		return false
	}

	m.buf.insert(i, Pair[K, V]{Key: key, Value: value})

	return true
}

// Erase removes ALL elements with the key (duplicates are adjacent, so
// this is a single forward run from the lower bound). Erasing an absent
// key is a no-op.
func (m *Map[K, V]) Erase(key K) {
	m.mustBeSorted("Erase")

	i := m.lowerBound(key)
	for i < m.buf.size() && m.buf.at(i).Key == key {
		m.buf.erase(i)
	}
}

// FindIndex returns the index of the first element with the key, or
// [NotFound].
func (m *Map[K, V]) FindIndex(key K) int {
	m.mustBeSorted("FindIndex")

	i := m.lowerBound(key)
	if i < m.buf.size() && m.buf.at(i).Key == key {
		return i
	}

	return NotFound
}

// FindDuplicate scans forward from startIndex for the first pair of
// adjacent elements with equal keys and returns the index of the first
// of the two, or [NotFound].
//
// This is O(n); it is a diagnostic, not a hot-path operation.
func (m *Map[K, V]) FindDuplicate(startIndex int) int {
	m.mustBeSorted("FindDuplicate")

	if startIndex < 0 {
		panic(fmt.Sprintf("flatmap: FindDuplicate start index %d is negative", startIndex))
	}

	size := m.buf.size()
	for i := startIndex; i < size-1; i++ {
		if m.buf.at(i).Key == m.buf.at(i+1).Key {
			return i
		}
	}

	return NotFound
}

// KeyAt returns the key at index. Bounds are the caller's contract.
func (m *Map[K, V]) KeyAt(index int) K {
	return m.buf.at(index).Key
}

// ValueAt returns a pointer to the value at index, allowing in-place
// mutation. Bounds are the caller's contract; the pointer is invalidated
// by any subsequent mutation of the map.
func (m *Map[K, V]) ValueAt(index int) *V {
	return &m.buf.at(index).Value
}

// EraseAt removes the element at index. Bounds are the caller's contract.
func (m *Map[K, V]) EraseAt(index int) {
	m.buf.erase(index)
}

// Reserve ensures capacity for at least n more elements, reallocating
// with balanced front/back spare if needed.
func (m *Map[K, V]) Reserve(n int) {
	need := m.buf.size() + n
	if need > m.buf.capacity() {
		m.adjustCapacity(need)
	}
}

// Trim shrinks the capacity to exactly the current size. This is a
// reallocation; the next insert will grow again.
func (m *Map[K, V]) Trim() {
	if m.buf.size() < m.buf.capacity() {
		m.adjustCapacity(m.buf.size())
	}
}

// Clear removes all elements but keeps the capacity.
func (m *Map[K, V]) Clear() {
	m.buf.clear()
}

// Clone returns a deep copy with the same growth policy and the capacity
// truncated to the current size. Mutating the clone never affects the
// receiver.
func (m *Map[K, V]) Clone() *Map[K, V] {
	m.mustBeSorted("Clone")

	dst := &Map[K, V]{minGrow: m.minGrow, maxGrow: m.maxGrow}

	if size := m.buf.size(); size > 0 {
		dst.buf.slots = make([]Pair[K, V], size)
		copy(dst.buf.slots, m.buf.live())
		dst.buf.end = size
	}

	return dst
}

// Take transfers ownership of the buffer to a new map and returns it.
//
// The receiver is left valid but empty with a zeroed growth policy, so
// inserting into it again without [Map.SetGrow] is a contract violation
// (the grow step panics). There is no aliasing between the receiver and
// the returned map after Take.
func (m *Map[K, V]) Take() *Map[K, V] {
	m.mustBeSorted("Take")

	dst := &Map[K, V]{buf: m.buf, minGrow: m.minGrow, maxGrow: m.maxGrow}

	m.buf.release()
	m.minGrow = 0
	m.maxGrow = 0

	return dst
}

// lowerBound returns the first live index whose key is not less than key.
func (m *Map[K, V]) lowerBound(key K) int {
	return sort.Search(m.buf.size(), func(i int) bool {
		return m.buf.at(i).Key >= key
	})
}

// grow reallocates by clamp(capacity/2, minGrow, maxGrow) slots and
// rebalances the spare. A non-positive effective growth is a
// configuration contract violation.
func (m *Map[K, V]) grow() {
	capacity := m.buf.capacity()

	growBy := min(max(capacity/2, m.minGrow), m.maxGrow)
	if growBy <= 0 {
		panic(fmt.Sprintf("flatmap: growth policy minGrow=%d maxGrow=%d produced no growth", m.minGrow, m.maxGrow))
	}

	m.adjustCapacity(capacity + growBy)
}

// adjustCapacity reallocates to newCapacity with the spare split evenly
// between front and back (integer division, remainder to the back).
func (m *Map[K, V]) adjustCapacity(newCapacity int) {
	frontSpare := (newCapacity - m.buf.size()) / 2
	m.buf.alloc(newCapacity, frontSpare)
}

func (m *Map[K, V]) mustBeSorted(op string) {
	if m.bulk {
		panic("flatmap: " + op + " called during an open bulk session")
	}
}
