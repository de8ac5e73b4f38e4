package flatmap

import (
	"cmp"
	"fmt"
)

// elemBuffer is a contiguous, double-ended element store.
//
// It owns a single allocation of capacity len(slots) with a live range
// [start, end) somewhere inside it. Unused capacity is split between a
// front spare (slots before start) and a back spare (slots after end):
//
//	frontSpare + size + backSpare == capacity
//
// The buffer only understands indices and raw slots. Whether to grow and
// where an element belongs are the owner's decisions ([Map] makes both).
// All preconditions here are contracts; violations panic immediately.
type elemBuffer[K cmp.Ordered, V any] struct {
	slots []Pair[K, V]
	start int
	end   int
}

func (b *elemBuffer[K, V]) size() int {
	return b.end - b.start
}

func (b *elemBuffer[K, V]) capacity() int {
	return len(b.slots)
}

func (b *elemBuffer[K, V]) frontSpare() int {
	return b.start
}

func (b *elemBuffer[K, V]) backSpare() int {
	return len(b.slots) - b.end
}

func (b *elemBuffer[K, V]) spare() int {
	return b.frontSpare() + b.backSpare()
}

// at returns the i-th live element. Bounds are the caller's contract;
// an out-of-range index faults on the underlying slice.
func (b *elemBuffer[K, V]) at(i int) *Pair[K, V] {
	return &b.slots[b.start+i]
}

// live returns the live range as a slice view.
func (b *elemBuffer[K, V]) live() []Pair[K, V] {
	return b.slots[b.start:b.end]
}

// alloc replaces the current storage with a fresh allocation of the given
// total capacity, carrying any live elements over and positioning the
// live range frontOffset slots from the base.
func (b *elemBuffer[K, V]) alloc(capacity, frontOffset int) {
	if frontOffset < 0 || frontOffset > capacity {
		panic(fmt.Sprintf("flatmap: alloc front offset %d outside capacity %d", frontOffset, capacity))
	}

	size := b.size()
	if frontOffset+size > capacity {
		panic(fmt.Sprintf("flatmap: alloc capacity %d cannot hold %d live elements at offset %d", capacity, size, frontOffset))
	}

	slots := make([]Pair[K, V], capacity)
	copy(slots[frontOffset:], b.live())

	b.slots = slots
	b.start = frontOffset
	b.end = frontOffset + size
}

// insert places p at logical index (0 <= index <= size), shifting
// whichever adjacent span costs fewer element moves. The cheaper side is
// abandoned for the other if it has no spare; if both spares are
// exhausted the caller broke the grow-first contract and insert panics.
func (b *elemBuffer[K, V]) insert(index int, p Pair[K, V]) {
	size := b.size()
	if index < 0 || index > size {
		panic(fmt.Sprintf("flatmap: insert index %d outside [0, %d]", index, size))
	}

	front := b.frontSpare()
	back := b.backSpare()

	if front == 0 && back == 0 {
		panic("flatmap: insert with no spare capacity (caller must grow first)")
	}

	// Shifting the prefix [0, index) toward the front costs index moves;
	// shifting the suffix [index, size) toward the back costs size-index.
	shiftFront := index <= size-index
	if shiftFront && front == 0 {
		shiftFront = false
	} else if !shiftFront && back == 0 {
		shiftFront = true
	}

	if shiftFront {
		copy(b.slots[b.start-1:], b.slots[b.start:b.start+index])
		b.start--
	} else {
		copy(b.slots[b.start+index+1:b.end+1], b.slots[b.start+index:b.end])
		b.end++
	}

	b.slots[b.start+index] = p
}

// erase removes the element at index, closing the gap by shifting the
// shorter adjacent side inward.
func (b *elemBuffer[K, V]) erase(index int) {
	size := b.size()
	if index < 0 || index >= size {
		panic(fmt.Sprintf("flatmap: erase index %d outside [0, %d)", index, size))
	}

	var zero Pair[K, V]

	if index < size-index-1 {
		// Prefix is shorter: shift [0, index) right by one.
		copy(b.slots[b.start+1:], b.slots[b.start:b.start+index])
		b.slots[b.start] = zero
		b.start++
	} else {
		// Suffix is shorter (or equal): shift (index, size) left by one.
		copy(b.slots[b.start+index:], b.slots[b.start+index+1:b.end])
		b.slots[b.end-1] = zero
		b.end--
	}
}

// clear drops all live elements and recenters the empty live range at the
// midpoint so the capacity stays reusable for both insertion directions.
func (b *elemBuffer[K, V]) clear() {
	clear(b.live())

	mid := len(b.slots) / 2
	b.start = mid
	b.end = mid
}

// release drops the storage entirely and resets the range to empty.
func (b *elemBuffer[K, V]) release() {
	b.slots = nil
	b.start = 0
	b.end = 0
}
