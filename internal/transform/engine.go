package transform

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ironsheep/image-pager/internal/paging"
)

// ErrTransformInFlight is returned by Run when another run on the same
// engine has not finished yet. Overlapping calls are a usage error; the
// engine exposes at most one outstanding run per session.
var ErrTransformInFlight = errors.New("a transform run is already in flight")

// ErrStoreMismatch is returned by Run when the requested dimensions disagree
// with the image the page store currently holds. Scattering pages under
// mismatched dimensions would write outside the output buffer, so the run is
// refused up front.
var ErrStoreMismatch = errors.New("page store holds a different image than the run describes")

// EventKind identifies a lifecycle event emitted by the engine.
type EventKind int

const (
	// EventStarted fires before page iteration begins.
	EventStarted EventKind = iota

	// EventCompleted fires after the output buffer is finalized.
	EventCompleted

	// EventError fires when a run aborts; no partial buffer is returned.
	EventError
)

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventCompleted:
		return "completed"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is the engine's observable side channel. Started events carry the
// request; completed events carry the output dimensions and the store's
// updated counters; error events carry the failure cause.
type Event struct {
	Kind    EventKind
	Request Request
	Width   int
	Height  int
	Stats   paging.Stats
	Err     error
}

// Listener receives engine events synchronously, on the caller's goroutine.
type Listener func(Event)

// Result is the outcome of one transform run.
type Result struct {
	// Buffer is the freshly allocated output pixel buffer,
	// Width*Height*4 bytes of interleaved RGBA.
	Buffer []byte

	// Width and Height are the output dimensions; they are the source
	// dimensions swapped when the rotation was 90 or 270 degrees.
	Width  int
	Height int

	// Stats is the page store's counters after the run.
	Stats paging.Stats
}

// Engine applies transform requests page-by-page against a page store.
type Engine struct {
	store    *paging.Store
	listener Listener
	running  atomic.Bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithListener registers a listener for lifecycle events.
func WithListener(l Listener) EngineOption {
	return func(e *Engine) { e.listener = l }
}

// NewEngine creates an engine over the given page store. The store must have
// been rebuilt with the same buffer the dimensions passed to Run describe.
func NewEngine(store *paging.Store, opts ...EngineOption) *Engine {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run applies req to the width x height image currently held by the page
// store and returns the transformed output buffer.
//
// Pages are processed in ascending ID order. Each page is acquired from the
// store (faulting and evicting as the budget demands), its bytes are copied
// to a scratch buffer, brightness, contrast, and the selected filter are
// applied in that order, and every transformed pixel is scattered into the
// output at its rotated coordinate.
//
// Structural errors — an invalid request, or dimensions that disagree with
// the store's current page set — are returned synchronously without
// emitting events or touching the store. A store failure mid-run —
// paging.ErrUnknownPage means the engine and store have diverged — aborts
// the run with an error event; no partial buffer is returned.
func (e *Engine) Run(width, height int, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if sw, sh := e.store.Dimensions(); sw != width || sh != height {
		return nil, fmt.Errorf("%w: store %dx%d, run %dx%d", ErrStoreMismatch, sw, sh, width, height)
	}
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrTransformInFlight
	}
	defer e.running.Store(false)

	e.emit(Event{Kind: EventStarted, Request: req, Width: width, Height: height})

	outW, outH := outputDims(width, height, req.Rotation)
	out := make([]byte, outW*outH*paging.BytesPerPixel)

	var scratch []byte
	for _, info := range e.store.Snapshot() {
		pageBytes, err := e.store.Acquire(info.ID)
		if err != nil {
			err = fmt.Errorf("acquire page %d: %w", info.ID, err)
			e.emit(Event{Kind: EventError, Request: req, Err: err})
			return nil, err
		}
		start, _, err := e.store.PageSpan(info.ID)
		if err != nil {
			e.emit(Event{Kind: EventError, Request: req, Err: err})
			return nil, err
		}

		scratch = append(scratch[:0], pageBytes...)
		applyOps(scratch, req)

		for px := 0; px+3 < len(scratch); px += paging.BytesPerPixel {
			flat := start + px/paging.BytesPerPixel
			dst := rotatedIndex(flat, width, height, req.Rotation) * paging.BytesPerPixel
			copy(out[dst:dst+paging.BytesPerPixel], scratch[px:px+paging.BytesPerPixel])
		}
	}

	stats := e.store.Stats()
	e.emit(Event{Kind: EventCompleted, Request: req, Width: outW, Height: outH, Stats: stats})

	return &Result{Buffer: out, Width: outW, Height: outH, Stats: stats}, nil
}

func (e *Engine) emit(ev Event) {
	if e.listener != nil {
		e.listener(ev)
	}
}
