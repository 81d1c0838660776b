package paging

// BytesPerPixel is the stride of the interleaved R,G,B,A byte stream that
// every buffer handled by this package uses.
const BytesPerPixel = 4

// Status describes whether a page's byte data currently occupies the
// working set.
type Status int

const (
	// StatusResident means the page's bytes are held in the working set.
	StatusResident Status = iota

	// StatusEvicted means the page's bytes have been freed; acquiring the
	// page requires reconstruction from cold storage.
	StatusEvicted
)

// String returns "resident" or "evicted".
func (s Status) String() string {
	switch s {
	case StatusResident:
		return "resident"
	case StatusEvicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// page is one fixed-range chunk of an image's pixel byte stream.
//
// The pixel range [startPixel, endPixel) is half-open, contiguous, and
// disjoint from every other page of the same image; the ordered union of all
// pages' ranges exactly covers width*height pixels. A page record outlives
// eviction: only bytes is freed, the bookkeeping stays until the next
// rebuild replaces the whole page set.
type page struct {
	id         int
	startPixel int
	endPixel   int
	status     Status
	// lastAccessed is a store-local monotonic stamp, not wall clock.
	lastAccessed uint64
	// bytes is non-nil iff status == StatusResident.
	bytes []byte
}

// pixelCount returns the number of pixels the page covers.
func (p *page) pixelCount() int {
	return p.endPixel - p.startPixel
}

// byteLen returns the length of the page's byte range.
func (p *page) byteLen() int {
	return p.pixelCount() * BytesPerPixel
}

// PageInfo is a read-only view of one page's bookkeeping, as returned by
// Store.Snapshot. It is for display purposes only and never carries pixel
// data.
type PageInfo struct {
	// ID is the page's stable 0-based index within the current page set.
	ID int `json:"page_id"`

	// Status is the page's current residency state.
	Status Status `json:"status"`

	// LastAccessed is the monotonic recency stamp of the page's most recent
	// admission or touch. Higher means more recently used.
	LastAccessed uint64 `json:"last_accessed"`
}
