// Deterministic tests comparing Map against a deliberately simple
// in-memory reference model. Uses seeded PRNG for reproducible operation
// sequences.
//
// Failures mean: the container returned wrong results or broke an
// ordering/capacity invariant.

package flatmap_test

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/flatmap/pkg/flatmap"
)

// mapModel is an auditably simple oracle: a plain sorted slice with
// lower-bound insertion. It favors clarity over performance and mirrors
// only publicly observable behavior.
type mapModel struct {
	pairs []flatmap.Pair[int, string]
}

func (mm *mapModel) lowerBound(key int) int {
	i, _ := slices.BinarySearchFunc(mm.pairs, key, func(p flatmap.Pair[int, string], k int) int {
		return cmp.Compare(p.Key, k)
	})

	return i
}

func (mm *mapModel) insert(key int, value string) {
	mm.pairs = slices.Insert(mm.pairs, mm.lowerBound(key), flatmap.Pair[int, string]{Key: key, Value: value})
}

func (mm *mapModel) insertUnique(key int, value string) bool {
	i := mm.lowerBound(key)
	if i < len(mm.pairs) && mm.pairs[i].Key == key {
		return false
	}

	mm.pairs = slices.Insert(mm.pairs, i, flatmap.Pair[int, string]{Key: key, Value: value})

	return true
}

func (mm *mapModel) erase(key int) {
	mm.pairs = slices.DeleteFunc(mm.pairs, func(p flatmap.Pair[int, string]) bool {
		return p.Key == key
	})
}

func (mm *mapModel) eraseAt(index int) {
	mm.pairs = slices.Delete(mm.pairs, index, index+1)
}

func (mm *mapModel) findIndex(key int) int {
	i := mm.lowerBound(key)
	if i < len(mm.pairs) && mm.pairs[i].Key == key {
		return i
	}

	return flatmap.NotFound
}

// collectPairs preserves the nil vs empty slice distinction so
// gocmp.Diff against a fresh model stays clean without EquateEmpty.
func collectPairs(m *flatmap.Map[int, string]) []flatmap.Pair[int, string] {
	var pairs []flatmap.Pair[int, string]
	for k, v := range m.All() {
		pairs = append(pairs, flatmap.Pair[int, string]{Key: k, Value: v})
	}

	return pairs
}

// compareExact asserts the full observable sequence matches the model,
// including the relative order of duplicate-key values.
func compareExact(t *testing.T, mm *mapModel, m *flatmap.Map[int, string]) {
	t.Helper()

	require.Equal(t, len(mm.pairs), m.Len(), "Len() mismatch")

	if diff := gocmp.Diff(mm.pairs, collectPairs(m)); diff != "" {
		t.Fatalf("map content diverged from model (-model +map):\n%s", diff)
	}
}

func Test_Map_Matches_Model_When_Seeded_Random_Ops_Applied(t *testing.T) {
	t.Parallel()

	seedsCount := 20
	if testing.Short() {
		seedsCount = 4
	}

	opsPerSeed := 2000

	for seedIndex := range seedsCount {
		seed := uint64(seedIndex + 1)

		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			t.Parallel()

			rng := rand.New(rand.NewPCG(seed, seed))

			// Tiny growth bounds and a small key space maximize pressure on
			// the shift/grow machinery and duplicate handling.
			m := flatmap.NewWithGrow[int, string](1, 7)
			mm := &mapModel{}

			for opIndex := range opsPerSeed {
				key := rng.IntN(48)
				value := fmt.Sprintf("v%d", opIndex)

				switch rng.IntN(10) {
				case 0, 1, 2, 3: // bias toward growth
					m.Insert(key, value)
					mm.insert(key, value)
				case 4:
					require.Equal(t, mm.insertUnique(key, value), m.InsertUnique(key, value),
						"InsertUnique disagreement for key %d", key)
				case 5:
					m.Erase(key)
					mm.erase(key)
				case 6:
					if m.Len() > 0 {
						index := rng.IntN(m.Len())
						m.EraseAt(index)
						mm.eraseAt(index)
					}
				case 7:
					require.Equal(t, mm.findIndex(key), m.FindIndex(key))
					require.Equal(t, mm.findIndex(key) != flatmap.NotFound, m.Contains(key))
				case 8:
					m.Reserve(rng.IntN(16))
				case 9:
					if rng.IntN(8) == 0 {
						m.Trim()
					}
				}

				require.GreaterOrEqual(t, m.Capacity(), m.Len(), "capacity can never be below size")

				if opIndex%64 == 0 {
					compareExact(t, mm, m)
				}
			}

			compareExact(t, mm, m)
		})
	}
}

func Test_Map_Matches_Model_When_Bulk_Sessions_Interleaved(t *testing.T) {
	t.Parallel()

	seedsCount := 10
	if testing.Short() {
		seedsCount = 2
	}

	for seedIndex := range seedsCount {
		seed := uint64(1000 + seedIndex + 1)

		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			t.Parallel()

			rng := rand.New(rand.NewPCG(seed, seed))

			m := flatmap.NewWithGrow[int, string](2, 32)
			mm := &mapModel{}

			for round := range 20 {
				// Some normal-mode churn.
				for i := range 50 {
					key := rng.IntN(32)
					value := fmt.Sprintf("r%d-n%d", round, i)

					if rng.IntN(4) == 0 {
						m.Erase(key)
						mm.erase(key)
					} else {
						m.Insert(key, value)
						mm.insert(key, value)
					}
				}

				// One bulk session per round.
				bulk := m.BeginBulk()
				for i := range 100 {
					key := rng.IntN(32)
					value := fmt.Sprintf("r%d-b%d", round, i)

					bulk.Insert(key, value)
					mm.insert(key, value)
				}
				bulk.End()

				// Equal-key order is unspecified after a bulk sort, so the
				// checkpoints compare the sorted multiset instead of the
				// exact sequence.
				byKeyValue := func(a, b flatmap.Pair[int, string]) int {
					if c := cmp.Compare(a.Key, b.Key); c != 0 {
						return c
					}

					return cmp.Compare(a.Value, b.Value)
				}

				got := collectPairs(m)
				slices.SortFunc(got, byKeyValue)

				want := slices.Clone(mm.pairs)
				slices.SortFunc(want, byKeyValue)

				if diff := gocmp.Diff(want, got); diff != "" {
					t.Fatalf("round %d: multiset diverged from model (-model +map):\n%s", round, diff)
				}

				// Duplicate adjacency: every duplicate run reported by
				// FindDuplicate must be a genuine adjacent pair, and keys are
				// globally non-decreasing.
				prev := -1
				for k := range m.Keys() {
					require.GreaterOrEqual(t, k, prev)

					prev = k
				}
			}
		})
	}
}
