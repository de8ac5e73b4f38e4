package flatmap

import "cmp"

// Seq is a single-value iterator over the live range.
//
// It matches the shape of iter.Seq[T] so callers can range over it
// directly or pass it to slices.Collect. The sequence is lazy, finite,
// and restartable; mutating the map mid-iteration is the caller's
// responsibility to avoid.
type Seq[T any] func(yield func(T) bool)

// Seq2 is a key-value iterator over the live range, shaped like
// iter.Seq2[K, V].
type Seq2[K cmp.Ordered, V any] func(yield func(K, V) bool)

// All returns a forward iterator over the elements in key order.
func (m *Map[K, V]) All() Seq2[K, V] {
	m.mustBeSorted("All")

	return func(yield func(K, V) bool) {
		for i := range m.buf.size() {
			p := m.buf.at(i)
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Keys returns a forward iterator over the keys in order. Duplicate keys
// are yielded once per element.
func (m *Map[K, V]) Keys() Seq[K] {
	m.mustBeSorted("Keys")

	return func(yield func(K) bool) {
		for i := range m.buf.size() {
			if !yield(m.buf.at(i).Key) {
				return
			}
		}
	}
}

// Values returns a forward iterator over the values in key order.
func (m *Map[K, V]) Values() Seq[V] {
	m.mustBeSorted("Values")

	return func(yield func(V) bool) {
		for i := range m.buf.size() {
			if !yield(m.buf.at(i).Value) {
				return
			}
		}
	}
}
