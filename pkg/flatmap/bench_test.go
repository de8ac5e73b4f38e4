package flatmap_test

import (
	"math/rand/v2"
	"testing"

	"github.com/calvinalkan/flatmap/pkg/flatmap"
)

// The double-ended buffer exists so that ascending and descending
// insertion patterns cost the same. These benchmarks keep both patterns
// around to catch regressions in the shift-side heuristic.

func BenchmarkMapInsertAscending(b *testing.B) {
	const n = 1024

	b.ReportAllocs()

	for range b.N {
		m := flatmap.New[int, int]()
		m.Reserve(n)

		for i := range n {
			m.Insert(i, i)
		}
	}
}

func BenchmarkMapInsertDescending(b *testing.B) {
	const n = 1024

	b.ReportAllocs()

	for range b.N {
		m := flatmap.New[int, int]()
		m.Reserve(n)

		for i := range n {
			m.Insert(n-i, i)
		}
	}
}

func BenchmarkMapInsertRandom(b *testing.B) {
	const n = 1024

	keys := make([]int, n)
	rng := rand.New(rand.NewPCG(1, 1))

	for i := range keys {
		keys[i] = rng.IntN(n * 4)
	}

	b.ReportAllocs()

	for range b.N {
		m := flatmap.New[int, int]()
		m.Reserve(n)

		for i, key := range keys {
			m.Insert(key, i)
		}
	}
}

func BenchmarkMapBulkLoad(b *testing.B) {
	const n = 1024

	keys := make([]int, n)
	rng := rand.New(rand.NewPCG(2, 2))

	for i := range keys {
		keys[i] = rng.IntN(n * 4)
	}

	b.ReportAllocs()

	for range b.N {
		m := flatmap.New[int, int]()
		m.Reserve(n)

		bulk := m.BeginBulk()
		for i, key := range keys {
			bulk.Insert(key, i)
		}
		bulk.End()
	}
}

func BenchmarkMapLookup(b *testing.B) {
	const n = 4096

	m := flatmap.New[int, int]()
	for i := range n {
		m.Insert(i, i)
	}

	rng := rand.New(rand.NewPCG(3, 3))
	keys := make([]int, 256)

	for i := range keys {
		keys[i] = rng.IntN(n)
	}

	b.ReportAllocs()

	for range b.N {
		for _, key := range keys {
			if !m.Contains(key) {
				b.Fatal("missing key")
			}
		}
	}
}
