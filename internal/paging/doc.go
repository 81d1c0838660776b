// Package paging implements the page store: a capacity-bounded working set of
// fixed-size pixel chunks ("pages") sliced from one image's interleaved RGBA
// byte stream, with strict least-recently-used eviction.
//
// The store is the single source of truth for "is page P's data available
// right now". An image buffer is partitioned into pages of a configured pixel
// count; each resident page consumes exactly one unit of the working-set
// budget regardless of its actual byte length (the last page of an image may
// be shorter). When admitting a page would exceed the budget, the least
// recently used resident page is evicted first, so the resident-page count
// never exceeds the budget at rest.
//
// # Residency and Faults
//
// Acquire on a resident page is a hit: the page's recency is refreshed and
// its bytes are returned immediately. Acquire on an evicted page is a fault:
// the store evicts down to budget, reconstructs the page's bytes from its
// cold-storage copy, and re-admits the page. Cold storage retains an
// S2-compressed copy of every page's original bytes from rebuild time, so a
// faulted page reloads bit-exact data. An optional configured latency is
// slept once per fault to simulate real page-in cost.
//
// # Determinism
//
// Recency is tracked with a store-local monotonic counter rather than wall
// clock. Eviction selects the resident page with the smallest counter value,
// ties broken by the smallest page ID. Rebuild admits pages in ascending ID
// order, each admission stamping the new page, so under a tight budget the
// lowest-numbered pages are evicted first and the highest-numbered pages end
// the rebuild resident.
//
// # Concurrency
//
// A store is exclusively owned by a single logical image session. Methods are
// not safe for concurrent use; the session serializes access.
package paging
