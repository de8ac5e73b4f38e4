// Package flatmap provides a sorted-vector key-value map backed by a
// double-ended contiguous buffer.
//
// A [Map] keeps its elements in one allocation, sorted ascending by key,
// with spare capacity on both ends of the live range. Insertions locate
// their position by binary search and shift whichever side of the buffer
// costs fewer element moves, so inserting at the front is as cheap as
// inserting at the back. This trades the O(log n) mutation cost of a
// balanced tree for cache-friendly storage, cheap iteration, and O(n)
// worst-case insertion. It is a good fit for small-to-medium maps with
// cheap-to-copy elements and read-heavy workloads.
//
// # Duplicates
//
// Unlike most map types, a Map permits multiple elements with the same
// key. Equal keys always occupy adjacent indices. [Map.Insert] places a
// new element at the lower bound of its key, i.e. before any existing
// equal-key elements. Use [Map.InsertUnique] to reject duplicates and
// [Map.FindDuplicate] to scan for them.
//
// # Bulk loading
//
// Per-element sorted insertion costs O(n) shifts. For large batches,
// [Map.BeginBulk] opens a [BulkInserter] session that appends at whichever
// end of the buffer has more room and defers sorting to a single
// O(n log n) pass in [BulkInserter.End]. While a session is open the map
// is unordered and its sorted-order methods must not be called.
//
// # Contract violations
//
// The container is deliberately unforgiving: mode misuse (sorted-order
// calls during a bulk session), [Map.Get] on an absent key, and invalid
// growth configuration are programmer errors and panic immediately rather
// than returning an error. Expected absence ([Map.Contains],
// [Map.FindIndex], [Map.InsertUnique], [Map.Erase]) is a normal outcome
// reported through boolean or sentinel-index returns.
//
// # Concurrency
//
// A Map has no internal synchronization. It assumes a single logical
// owner; concurrent mutation is undefined behavior.
package flatmap
