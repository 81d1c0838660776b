// Package transform implements the paged transform engine: it turns a source
// image that has been split across a page store into a freshly allocated
// output buffer with per-channel adjustments, one filter, and a rotation
// applied, driving page residency as it goes.
//
// The engine never touches the whole source buffer at once. It walks pages in
// ascending ID order, acquires each from the store (which may fault and evict
// to stay under budget), applies brightness, contrast, and the selected
// filter to a scratch copy of the page's bytes, and scatters every
// transformed pixel into the output buffer at its rotated coordinate.
//
// # Pixel Math
//
// All operations work in the byte domain on interleaved R,G,B,A channels,
// rounding to the nearest integer and clamping to [0,255]. The alpha channel
// is never modified.
//
//   - Brightness(d):  out = c + d/100 * 255
//   - Contrast(d):    f = 259*(d+100) / (255*(259-d)); out = f*(c-128) + 128
//   - Grayscale:      out = mean(R,G,B), identical across the three channels
//   - Sepia:          fixed 3x3 weighting matrix
//   - Invert:         out = 255 - c
//
// The contrast formula has a singularity at d = 259; requests carrying that
// value are rejected with ErrDegenerateContrast before any division happens.
//
// # Rotation
//
// Rotation remaps each source pixel (x, y) of a width x height image:
//
//	0:   (x, y)                      output width x height
//	90:  (height-1-y, x)             output height x width
//	180: (width-1-x, height-1-y)     output width x height
//	270: (y, width-1-x)              output height x width
//
// The source coordinate is derived from the page's pixel-range start plus the
// pixel's offset inside the page, so the mapping holds across page boundaries
// regardless of how the image was split.
//
// # Concurrency
//
// An engine exposes at most one outstanding Run. A second Run arriving while
// one is in flight is a usage error and fails fast with ErrTransformInFlight.
// There is no mid-run cancellation: a run always completes or fails.
package transform
