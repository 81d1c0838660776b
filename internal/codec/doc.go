// Package codec bridges image files and the flat RGBA byte buffers the
// paging core consumes.
//
// The core operates on one image's interleaved 4-channel (R,G,B,A) byte
// stream plus its dimensions; it never sees files or formats. This package
// is the decode/export collaborator on either side of that boundary: it
// decodes PNG, JPEG, and GIF files into pixel buffers, re-encodes finished
// buffers as PNG (raw or base64 for protocol transport), and produces small
// display summaries of a buffer's color content.
//
// Decoding normalizes every source image to a tightly packed, origin-anchored
// NRGBA raster, so the resulting Pix slice is exactly width*height*4 bytes
// with no stride padding.
package codec
