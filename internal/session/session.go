package session

import (
	"errors"
	"fmt"
	"image"

	bildtransform "github.com/anthonynsimon/bild/transform"

	"github.com/ironsheep/image-pager/internal/codec"
	"github.com/ironsheep/image-pager/internal/config"
	"github.com/ironsheep/image-pager/internal/paging"
	"github.com/ironsheep/image-pager/internal/transform"
)

// ErrNoImage is returned by operations that require a stored image when the
// session is empty.
var ErrNoImage = errors.New("no image stored in this session")

// ErrNothingToUndo is returned by Undo when no applied edit remains.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrNothingToRedo is returned by Redo when no undone edit remains.
var ErrNothingToRedo = errors.New("nothing to redo")

// Session manages one image's page store, transform engine, and edit
// timeline. Not safe for concurrent use.
type Session struct {
	cfg     config.Config
	store   *paging.Store
	engine  *transform.Engine
	history *History

	// pristine is the image as last stored (fresh, cropped, or resized);
	// the undo timeline replays from it.
	pristine  []byte
	pristineW int
	pristineH int

	// current is the pristine image with all applied edits folded in.
	current []byte
	width   int
	height  int
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	storeListener  paging.Listener
	engineListener transform.Listener
}

// WithStoreListener forwards page-store residency events.
func WithStoreListener(l paging.Listener) SessionOption {
	return func(o *sessionOptions) { o.storeListener = l }
}

// WithEngineListener forwards transform lifecycle events.
func WithEngineListener(l transform.Listener) SessionOption {
	return func(o *sessionOptions) { o.engineListener = l }
}

// New creates an empty session with the given configuration.
func New(cfg config.Config, opts ...SessionOption) *Session {
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}

	store := paging.NewStore(cfg.BudgetUnits,
		paging.WithListener(o.storeListener),
		paging.WithFaultLatency(cfg.FaultLatency),
	)
	return &Session{
		cfg:     cfg,
		store:   store,
		engine:  transform.NewEngine(store, transform.WithListener(o.engineListener)),
		history: NewHistory(cfg.HistoryDepth),
	}
}

// HasImage reports whether an image is currently stored.
func (s *Session) HasImage() bool {
	return s.current != nil
}

// Size returns the current image dimensions.
func (s *Session) Size() (width, height int) {
	return s.width, s.height
}

// StoreImage stores a decoded pixel buffer as the session's image,
// rebuilding the page set and resetting statistics and the edit timeline.
//
// The buffer must be width*height*4 interleaved RGBA bytes; otherwise
// paging.ErrInvalidBuffer is returned and the session is unchanged. The
// session keeps its own copies of the bytes.
func (s *Session) StoreImage(pix []byte, width, height int) error {
	if err := s.store.Rebuild(pix, width, height, s.cfg.PageUnitPixels); err != nil {
		return err
	}
	s.pristine = append([]byte(nil), pix...)
	s.pristineW, s.pristineH = width, height
	s.current = append([]byte(nil), pix...)
	s.width, s.height = width, height
	s.history.Reset()
	return nil
}

// Transform applies a request to the current image through the paged
// engine. On success the output becomes the session's current image, the
// page set is rebuilt around it, and the request is recorded on the edit
// timeline. An edit that overflows the timeline's capacity becomes
// permanent: the oldest entry is folded into the pristine baseline, so
// undoing all the way back lands on the image with that edit applied.
func (s *Session) Transform(req transform.Request) (*transform.Result, error) {
	if !s.HasImage() {
		return nil, ErrNoImage
	}
	res, err := s.run(req)
	if err != nil {
		return nil, err
	}
	if oldest, dropped := s.history.Push(req); dropped {
		if err := s.foldIntoPristine(oldest); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// foldIntoPristine makes req part of the pristine baseline. Replay starts
// from the baseline, so an edit dropped off the bounded timeline must be
// applied here or its effect would vanish on the next undo.
func (s *Session) foldIntoPristine(req transform.Request) error {
	out, w, h, err := transform.Apply(s.pristine, s.pristineW, s.pristineH, req)
	if err != nil {
		return fmt.Errorf("folding dropped edit into baseline: %w", err)
	}
	s.pristine, s.pristineW, s.pristineH = out, w, h
	return nil
}

// run executes one request against the current buffer and folds the output
// into the session, without touching the timeline.
func (s *Session) run(req transform.Request) (*transform.Result, error) {
	res, err := s.engine.Run(s.width, s.height, req)
	if err != nil {
		return nil, err
	}
	s.current = res.Buffer
	s.width, s.height = res.Width, res.Height
	if err := s.store.Rebuild(s.current, s.width, s.height, s.cfg.PageUnitPixels); err != nil {
		return nil, fmt.Errorf("re-paging transformed image: %w", err)
	}
	return res, nil
}

// Undo steps the edit timeline back one entry and replays the remaining
// prefix from the pristine image.
func (s *Session) Undo() error {
	if !s.HasImage() {
		return ErrNoImage
	}
	if !s.history.Undo() {
		return ErrNothingToUndo
	}
	return s.replay()
}

// Redo re-applies the most recently undone edit.
func (s *Session) Redo() error {
	if !s.HasImage() {
		return ErrNoImage
	}
	if !s.history.Redo() {
		return ErrNothingToRedo
	}
	return s.replay()
}

// replay rebuilds the current image by running every applied request in
// order against the pristine image.
func (s *Session) replay() error {
	s.current = append([]byte(nil), s.pristine...)
	s.width, s.height = s.pristineW, s.pristineH
	if err := s.store.Rebuild(s.current, s.width, s.height, s.cfg.PageUnitPixels); err != nil {
		return fmt.Errorf("re-paging pristine image: %w", err)
	}
	for _, req := range s.history.Applied() {
		if _, err := s.run(req); err != nil {
			return fmt.Errorf("replaying edit: %w", err)
		}
	}
	return nil
}

// Crop replaces the session's image with the rectangular region
// (x1,y1)-(x2,y2), top-left inclusive, bottom-right exclusive. A crop
// resizes the logical image, so the page set is rebuilt and the edit
// timeline resets.
func (s *Session) Crop(x1, y1, x2, y2 int) error {
	if !s.HasImage() {
		return ErrNoImage
	}
	if x1 < 0 || y1 < 0 || x2 > s.width || y2 > s.height {
		return fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			x1, y1, x2, y2, s.width, s.height)
	}
	if x1 >= x2 || y1 >= y2 {
		return fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	img, err := codec.ToImage(s.current, s.width, s.height)
	if err != nil {
		return err
	}
	cropped := bildtransform.Crop(img, image.Rect(x1, y1, x2, y2))
	buf := codec.FromImage(cropped)
	return s.StoreImage(buf.Pix, buf.Width, buf.Height)
}

// Resize replaces the session's image with a width x height rescale
// (bilinear). Like Crop, it rebuilds the page set and resets the timeline.
func (s *Session) Resize(width, height int) error {
	if !s.HasImage() {
		return ErrNoImage
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid resize dimensions %dx%d", width, height)
	}

	img, err := codec.ToImage(s.current, s.width, s.height)
	if err != nil {
		return err
	}
	resized := bildtransform.Resize(img, width, height, bildtransform.Linear)
	buf := codec.FromImage(resized)
	return s.StoreImage(buf.Pix, buf.Width, buf.Height)
}

// Export encodes the current image as a base64 PNG.
func (s *Session) Export() (*codec.ExportResult, error) {
	if !s.HasImage() {
		return nil, ErrNoImage
	}
	return codec.Export(s.current, s.width, s.height)
}

// SaveTo writes the current image to path; the format is chosen from the
// file extension.
func (s *Session) SaveTo(path string) error {
	if !s.HasImage() {
		return ErrNoImage
	}
	return codec.SaveFile(path, s.current, s.width, s.height)
}

// Summary reports the current image's average color for display.
func (s *Session) Summary() (*codec.SummaryResult, error) {
	if !s.HasImage() {
		return nil, ErrNoImage
	}
	return codec.Summarize(s.current, s.width, s.height)
}

// Snapshot exposes the page store's per-page bookkeeping.
func (s *Session) Snapshot() []paging.PageInfo {
	return s.store.Snapshot()
}

// Stats exposes the page store's counters and gauges.
func (s *Session) Stats() paging.Stats {
	return s.store.Stats()
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }
