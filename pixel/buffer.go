package pixel

import (
	"image"
	"image/color"

	"github.com/BeatGlow/surface/draw"
)

// Image is a drawable pixel image that can be cleared and filled.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds raw pixel values.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

// MakeBuffer returns a zeroed buffer of w by h pixels using stride bytes per row.
func MakeBuffer(w, h, stride int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, stride*h),
		Stride: stride,
	}
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

// Clear sets all bytes to zero.
func (p *Buffer) Clear() {
	clear(p.Pix)
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *Buffer) PixOffset(x, y, bytesPerPixel int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*bytesPerPixel
}

// Len is the number of bytes covered by the buffer rows.
func (p *Buffer) Len() int {
	return p.Stride * p.Rect.Dy()
}
