package paging

// EventKind identifies a residency event emitted by the store.
type EventKind int

const (
	// EventSwappedIn fires when a faulted page has been reconstructed and
	// re-admitted to the working set.
	EventSwappedIn EventKind = iota

	// EventSwappedOut fires when a resident page's bytes are freed by LRU
	// eviction, including evictions performed during a rebuild.
	EventSwappedOut

	// EventStatsUpdated fires after any operation that changed the
	// counters or gauges.
	EventStatsUpdated
)

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventSwappedIn:
		return "swapped-in"
	case EventSwappedOut:
		return "swapped-out"
	case EventStatsUpdated:
		return "stats-updated"
	default:
		return "unknown"
	}
}

// Event is the observable side channel of the store. Swap events carry the
// affected page ID; stats events carry a copy of the counters.
type Event struct {
	Kind EventKind

	// PageID is set for EventSwappedIn and EventSwappedOut.
	PageID int

	// Stats is set for EventStatsUpdated.
	Stats Stats
}

// Listener receives store events synchronously, on the caller's goroutine.
// A listener must not call back into the store.
type Listener func(Event)
