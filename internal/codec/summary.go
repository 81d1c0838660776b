package codec

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor holds 8-bit color components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor holds a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// SummaryResult describes a buffer's overall color content for display.
type SummaryResult struct {
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	AverageHex string   `json:"average_hex"` // "#rrggbb"
	AverageRGB RGBColor `json:"average_rgb"`
	AverageHSL HSLColor `json:"average_hsl"`
}

// Summarize computes the mean color of a flat RGBA buffer.
//
// The mean is taken per channel over R, G, and B; alpha is ignored. The
// result is reported in hex, RGB, and HSL so display layers can pick the
// representation they need.
func Summarize(pix []byte, width, height int) (*SummaryResult, error) {
	total := width * height
	if total <= 0 || len(pix) != total*4 {
		return nil, fmt.Errorf("buffer length %d does not match %dx%d", len(pix), width, height)
	}

	var sumR, sumG, sumB float64
	for i := 0; i < total; i++ {
		sumR += float64(pix[i*4+0])
		sumG += float64(pix[i*4+1])
		sumB += float64(pix[i*4+2])
	}
	n := float64(total)

	c := colorful.Color{R: sumR / n / 255, G: sumG / n / 255, B: sumB / n / 255}
	h, s, l := c.Hsl()
	r8, g8, b8 := c.RGB255()

	return &SummaryResult{
		Width:      width,
		Height:     height,
		AverageHex: c.Hex(),
		AverageRGB: RGBColor{R: r8, G: g8, B: b8},
		AverageHSL: HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}, nil
}
