package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// PixelBuffer is a decoded image in the form the paging core consumes: a
// flat interleaved RGBA byte stream plus its dimensions. Pix is always
// exactly Width*Height*4 bytes.
type PixelBuffer struct {
	Pix    []byte
	Width  int
	Height int
}

// FromImage converts any image into a PixelBuffer.
//
// The image is cloned into a tightly packed NRGBA raster anchored at the
// origin, so the returned buffer owns its bytes and has no stride padding.
func FromImage(img image.Image) *PixelBuffer {
	nrgba := imaging.Clone(img)
	return &PixelBuffer{
		Pix:    nrgba.Pix,
		Width:  nrgba.Rect.Dx(),
		Height: nrgba.Rect.Dy(),
	}
}

// DecodeFile loads and decodes an image file (PNG, JPEG, or GIF) into a
// PixelBuffer.
func DecodeFile(path string) (*PixelBuffer, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return FromImage(img), nil
}

// Decode decodes an image from r into a PixelBuffer.
func Decode(r io.Reader) (*PixelBuffer, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

// ToImage wraps a flat RGBA buffer as an *image.NRGBA without copying.
//
// Returns an error if the buffer length does not match width*height*4.
func ToImage(pix []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("buffer length %d does not match %dx%d", len(pix), width, height)
	}
	return &image.NRGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// EncodePNG encodes a flat RGBA buffer as PNG bytes.
func EncodePNG(pix []byte, width, height int) ([]byte, error) {
	img, err := ToImage(pix, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportResult contains a finished image encoded for protocol transport.
type ExportResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Export encodes a flat RGBA buffer as a base64 PNG for transport.
func Export(pix []byte, width, height int) (*ExportResult, error) {
	raw, err := EncodePNG(pix, width, height)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Width:       width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(raw),
		MimeType:    "image/png",
	}, nil
}

// SaveFile encodes a flat RGBA buffer into the file at path; the format is
// chosen from the file extension (.png, .jpg, .gif, ...).
func SaveFile(path string, pix []byte, width, height int) error {
	img, err := ToImage(pix, width, height)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
