package paging

// Stats holds the store's hit/fault counters and residency gauges.
//
// Hits and Faults are monotonically non-decreasing within one image's
// session; the gauges move with each eviction and reload. All fields reset
// to zero whenever the page set is rebuilt.
type Stats struct {
	// Hits counts Acquire calls that found the page resident.
	Hits uint64 `json:"hits"`

	// Faults counts Acquire calls that had to reconstruct an evicted page.
	Faults uint64 `json:"faults"`

	// ResidentCount is the number of pages currently resident.
	ResidentCount int `json:"resident_count"`

	// EvictedCount is the number of pages currently evicted.
	EvictedCount int `json:"evicted_count"`

	// UsageUnits is the working-set usage in budget units. Each resident
	// page consumes exactly one unit, so this always equals ResidentCount.
	UsageUnits int `json:"usage_units"`
}
