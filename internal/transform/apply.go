package transform

import (
	"fmt"

	"github.com/ironsheep/image-pager/internal/paging"
)

// Apply runs req over a whole width x height buffer in one pass, without a
// page store. The output is byte-identical to a paged Run over the same
// buffer; only the residency bookkeeping differs. It backs baseline
// maintenance in callers that replay edit timelines.
func Apply(pix []byte, width, height int, req Request) ([]byte, int, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, 0, err
	}
	if width <= 0 || height <= 0 || len(pix) != width*height*paging.BytesPerPixel {
		return nil, 0, 0, fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidRequest, len(pix), width, height)
	}

	scratch := append([]byte(nil), pix...)
	applyOps(scratch, req)

	outW, outH := outputDims(width, height, req.Rotation)
	out := make([]byte, len(scratch))
	for px := 0; px+3 < len(scratch); px += paging.BytesPerPixel {
		flat := px / paging.BytesPerPixel
		dst := rotatedIndex(flat, width, height, req.Rotation) * paging.BytesPerPixel
		copy(out[dst:dst+paging.BytesPerPixel], scratch[px:px+paging.BytesPerPixel])
	}
	return out, outW, outH, nil
}
