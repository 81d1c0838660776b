package transform

import "math"

// clampByte rounds v to the nearest integer and clamps it to [0, 255].
func clampByte(v float64) byte {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return byte(r)
}

// applyBrightness shifts every color channel by delta/100 of the full byte
// range. Alpha is untouched.
func applyBrightness(px []byte, delta int) {
	offset := float64(delta) / 100 * 255
	for i := 0; i+3 < len(px); i += 4 {
		px[i+0] = clampByte(float64(px[i+0]) + offset)
		px[i+1] = clampByte(float64(px[i+1]) + offset)
		px[i+2] = clampByte(float64(px[i+2]) + offset)
	}
}

// applyContrast scales every color channel around the midpoint 128 by the
// standard contrast factor. The caller guarantees delta != 259 (the
// singularity is rejected at validation). Alpha is untouched.
func applyContrast(px []byte, delta int) {
	factor := 259 * float64(delta+100) / (255 * float64(259-delta))
	for i := 0; i+3 < len(px); i += 4 {
		px[i+0] = clampByte(factor*(float64(px[i+0])-128) + 128)
		px[i+1] = clampByte(factor*(float64(px[i+1])-128) + 128)
		px[i+2] = clampByte(factor*(float64(px[i+2])-128) + 128)
	}
}

// applyGrayscale replaces R, G, and B with their mean. The same rounded mean
// is written to all three channels.
func applyGrayscale(px []byte) {
	for i := 0; i+3 < len(px); i += 4 {
		mean := clampByte((float64(px[i+0]) + float64(px[i+1]) + float64(px[i+2])) / 3)
		px[i+0] = mean
		px[i+1] = mean
		px[i+2] = mean
	}
}

// applySepia applies the classic sepia weighting matrix. All three outputs
// are computed from the original channel values before any is overwritten.
func applySepia(px []byte) {
	for i := 0; i+3 < len(px); i += 4 {
		r := float64(px[i+0])
		g := float64(px[i+1])
		b := float64(px[i+2])
		px[i+0] = clampByte(0.393*r + 0.769*g + 0.189*b)
		px[i+1] = clampByte(0.349*r + 0.686*g + 0.168*b)
		px[i+2] = clampByte(0.272*r + 0.534*g + 0.131*b)
	}
}

// applyInvert replaces each color channel c with 255-c.
func applyInvert(px []byte) {
	for i := 0; i+3 < len(px); i += 4 {
		px[i+0] = 255 - px[i+0]
		px[i+1] = 255 - px[i+1]
		px[i+2] = 255 - px[i+2]
	}
}

// applyOps runs the request's operations over px in the required order:
// brightness, then contrast, then the selected filter. Zero deltas and
// FilterNone are skipped.
func applyOps(px []byte, req Request) {
	if req.Brightness != 0 {
		applyBrightness(px, req.Brightness)
	}
	if req.Contrast != 0 {
		applyContrast(px, req.Contrast)
	}
	switch req.Filter {
	case FilterGrayscale:
		applyGrayscale(px)
	case FilterSepia:
		applySepia(px)
	case FilterInvert:
		applyInvert(px)
	}
}
