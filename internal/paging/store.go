package paging

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidBuffer is returned by Rebuild when the buffer length does not
// match the declared dimensions. The store's state is untouched.
var ErrInvalidBuffer = errors.New("buffer length does not match dimensions")

// ErrInvalidUnit is returned by Rebuild when the page unit pixel count is
// not positive.
var ErrInvalidUnit = errors.New("page unit pixel count must be positive")

// ErrUnknownPage is returned by Acquire when the requested page ID is absent
// from the current page table. It indicates the caller and the store have
// diverged and is fatal to the caller's current operation.
var ErrUnknownPage = errors.New("unknown page")

// Store owns the page table, residency, and eviction policy for one image.
//
// Create a Store with NewStore, populate it with Rebuild, and read page data
// through Acquire. Snapshot and Stats expose read-only bookkeeping for
// display. All mutable state is exclusively owned by a single logical image
// session; methods are not safe for concurrent use.
type Store struct {
	budgetUnits  int
	faultLatency time.Duration
	listener     Listener

	pages      []*page
	cold       *coldStore
	clock      uint64
	width      int
	height     int
	unitPixels int
	stats      Stats
}

// Option configures a Store.
type Option func(*Store)

// WithListener registers a listener for residency events. Events are
// delivered synchronously on the calling goroutine.
func WithListener(l Listener) Option {
	return func(s *Store) { s.listener = l }
}

// WithFaultLatency sets a duration slept once per fault, simulating the cost
// of paging data back in. Zero (the default) disables the sleep.
func WithFaultLatency(d time.Duration) Option {
	return func(s *Store) { s.faultLatency = d }
}

// NewStore creates an empty store with the given working-set budget.
//
// budgetUnits is a page-count ceiling: each resident page consumes exactly
// one unit regardless of its byte length. Values below 1 are clamped to 1,
// since a store that can hold no page at all cannot serve any acquire.
func NewStore(budgetUnits int, opts ...Option) *Store {
	if budgetUnits < 1 {
		budgetUnits = 1
	}
	s := &Store{budgetUnits: budgetUnits}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rebuild discards all existing pages and partitions buffer into pages of
// unitPixelCount pixels each (the last page may be shorter).
//
// The buffer must be width*height interleaved RGBA pixels, i.e. exactly
// width*height*4 bytes; otherwise Rebuild fails with ErrInvalidBuffer before
// any state is mutated. All statistics reset to zero.
//
// Pages are admitted one at a time in ascending ID order, each admission
// marking the new page as the most recently used. Whenever admitting the
// next page would exceed the budget, the current least-recently-used
// resident page is evicted first, emitting one swapped-out event per
// eviction. Under a tight budget this leaves the highest-numbered pages
// resident at the end of the rebuild.
func (s *Store) Rebuild(buffer []byte, width, height, unitPixelCount int) error {
	if unitPixelCount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidUnit, unitPixelCount)
	}
	totalPixels := width * height
	if width <= 0 || height <= 0 || len(buffer) != totalPixels*BytesPerPixel {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidBuffer, len(buffer), width, height)
	}

	pageCount := (totalPixels + unitPixelCount - 1) / unitPixelCount
	s.pages = make([]*page, 0, pageCount)
	s.cold = newColdStore(pageCount)
	s.clock = 0
	s.width = width
	s.height = height
	s.unitPixels = unitPixelCount
	s.stats = Stats{}

	for id := 0; id < pageCount; id++ {
		start := id * unitPixelCount
		end := start + unitPixelCount
		if end > totalPixels {
			end = totalPixels
		}
		raw := buffer[start*BytesPerPixel : end*BytesPerPixel]
		s.cold.put(id, raw)

		s.evictToFit()

		p := &page{
			id:         id,
			startPixel: start,
			endPixel:   end,
			status:     StatusResident,
			bytes:      append([]byte(nil), raw...),
		}
		s.touch(p)
		s.pages = append(s.pages, p)
		s.stats.ResidentCount++
		s.stats.UsageUnits++
	}

	s.emitStats()
	return nil
}

// Acquire returns page pageID's byte slice, refreshing its recency.
//
// A resident page counts a hit and returns immediately. An evicted page
// counts a fault: the store evicts the current LRU resident page if
// admitting this one would exceed the budget, reconstructs the page's bytes
// from cold storage, flips it resident, and emits a swapped-in event. The
// returned slice is the page's live buffer; callers that mutate the data
// must copy it first.
//
// Acquire fails with ErrUnknownPage if pageID is not in the current table,
// and propagates cold-storage failures without retrying.
func (s *Store) Acquire(pageID int) ([]byte, error) {
	if pageID < 0 || pageID >= len(s.pages) {
		return nil, fmt.Errorf("%w: page %d of %d", ErrUnknownPage, pageID, len(s.pages))
	}
	p := s.pages[pageID]

	if p.status == StatusResident {
		s.stats.Hits++
		s.touch(p)
		s.emitStats()
		return p.bytes, nil
	}

	s.stats.Faults++
	if s.faultLatency > 0 {
		// Simulated page-in cost. A scheduling yield, not synchronization.
		time.Sleep(s.faultLatency)
	}

	s.evictToFit()

	raw, err := s.cold.load(pageID)
	if err != nil {
		return nil, err
	}
	if len(raw) != p.byteLen() {
		return nil, fmt.Errorf("cold storage for page %d is corrupt: got %d bytes, want %d",
			pageID, len(raw), p.byteLen())
	}
	p.bytes = raw
	p.status = StatusResident
	s.touch(p)
	s.stats.ResidentCount++
	s.stats.EvictedCount--
	s.stats.UsageUnits++
	s.emit(Event{Kind: EventSwappedIn, PageID: pageID})
	s.emitStats()
	return p.bytes, nil
}

// Snapshot returns the ordered per-page bookkeeping for display purposes.
// It never carries pixel data and must not be used to reconstruct it.
func (s *Store) Snapshot() []PageInfo {
	infos := make([]PageInfo, len(s.pages))
	for i, p := range s.pages {
		infos[i] = PageInfo{ID: p.id, Status: p.status, LastAccessed: p.lastAccessed}
	}
	return infos
}

// Stats returns a read-only copy of the current counters and gauges.
func (s *Store) Stats() Stats {
	return s.stats
}

// Dimensions returns the width and height of the image the current page set
// was built from. Both are zero before the first Rebuild.
func (s *Store) Dimensions() (width, height int) {
	return s.width, s.height
}

// PageSpan returns the half-open pixel range [start, end) covered by page
// pageID within the original flat buffer layout.
func (s *Store) PageSpan(pageID int) (start, end int, err error) {
	if pageID < 0 || pageID >= len(s.pages) {
		return 0, 0, fmt.Errorf("%w: page %d of %d", ErrUnknownPage, pageID, len(s.pages))
	}
	p := s.pages[pageID]
	return p.startPixel, p.endPixel, nil
}

// evictToFit evicts LRU resident pages until one more page fits the budget.
func (s *Store) evictToFit() {
	for s.stats.ResidentCount >= s.budgetUnits {
		if !s.evictLRU() {
			return
		}
	}
}

// evictLRU frees the resident page with the smallest recency stamp, ties
// broken by the smallest page ID. It reports false (a no-op, not an error)
// when no page is resident.
func (s *Store) evictLRU() bool {
	var victim *page
	for _, p := range s.pages {
		if p.status != StatusResident {
			continue
		}
		if victim == nil || p.lastAccessed < victim.lastAccessed {
			victim = p
		}
	}
	if victim == nil {
		return false
	}

	victim.bytes = nil
	victim.status = StatusEvicted
	s.stats.ResidentCount--
	s.stats.EvictedCount++
	s.stats.UsageUnits--
	s.emit(Event{Kind: EventSwappedOut, PageID: victim.id})
	return true
}

// touch stamps p as the most recently used page.
func (s *Store) touch(p *page) {
	s.clock++
	p.lastAccessed = s.clock
}

func (s *Store) emit(ev Event) {
	if s.listener != nil {
		s.listener(ev)
	}
}

func (s *Store) emitStats() {
	s.emit(Event{Kind: EventStatsUpdated, Stats: s.stats})
}
