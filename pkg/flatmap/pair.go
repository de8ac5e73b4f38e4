package flatmap

import "cmp"

// Pair is one key-value element of a [Map].
//
// Ordering and equality are defined solely by Key; Value never
// participates in comparisons. The Key of a stored pair is immutable
// after insertion; the Value may be mutated in place via [Map.GetRef]
// or [Map.ValueAt].
type Pair[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}
