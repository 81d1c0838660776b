// Package session owns one image's editing lifecycle: the page store that
// holds the image's working set, the transform engine that edits it
// page-by-page, and the bounded undo/redo timeline over editing parameters.
//
// A session holds exactly one image at a time. Storing an image — whether
// fresh, cropped, or resized — destroys and rebuilds the whole page set,
// because these operations change the logical image size and therefore the
// page split. Transforms chain: each successful run's output becomes the
// session's current buffer and is re-paged for the next run.
//
// # Undo/Redo
//
// The timeline records transform parameters, not pixels. Undo and redo move
// a cursor over the recorded requests and replay the remaining prefix from
// the pristine stored image. The timeline is a bounded ring: pushing past
// capacity drops the oldest entry and folds its effect into the pristine
// baseline, so old edits become permanent instead of vanishing, and a new
// edit after an undo truncates the redo tail. Crop and resize are
// destructive re-stores and reset the timeline.
//
// Sessions are single-threaded by contract; no session state is shared
// across images.
package session
