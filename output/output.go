// Package output moves surface pixels to and from periph.io display devices.
package output

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/display"

	"github.com/BeatGlow/surface"
	"github.com/BeatGlow/surface/draw"
)

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// Present sends the pixels of s, rotated by rot, to the device. The surface
// is locked while the device reads from it.
func Present(d display.Drawer, s *surface.Surface, rot Rotation) error {
	return s.WithPixels(func([]byte) error {
		src := Rotate(s, rot)
		b := src.Bounds()
		if err := d.Draw(d.Bounds(), src, b.Min); err != nil {
			return errors.Wrapf(err, "output: draw to %s", d)
		}
		return nil
	})
}

// Rotate returns a view of img rotated clock wise by r.
func Rotate(img image.Image, r Rotation) image.Image {
	if r%4 == NoRotation {
		return img
	}
	return &rotated{img: img, r: r % 4}
}

type rotated struct {
	img image.Image
	r   Rotation
}

func (v *rotated) ColorModel() color.Model {
	return v.img.ColorModel()
}

func (v *rotated) Bounds() image.Rectangle {
	b := v.img.Bounds()
	if v.r == Rotate180 {
		return image.Rect(0, 0, b.Dx(), b.Dy())
	}
	return image.Rect(0, 0, b.Dy(), b.Dx())
}

func (v *rotated) At(x, y int) color.Color {
	b := v.img.Bounds()
	switch v.r {
	case Rotate90:
		return v.img.At(b.Min.X+y, b.Max.Y-1-x)
	case Rotate180:
		return v.img.At(b.Max.X-1-x, b.Max.Y-1-y)
	default:
		return v.img.At(b.Max.X-1-y, b.Min.Y+x)
	}
}

// Drawer is a display.Drawer that draws onto a surface, such as the surface
// of a frame buffer.
type Drawer struct {
	name string
	s    *surface.Surface
}

// NewDrawer returns a drawer for s. The drawer does not take ownership of s.
func NewDrawer(name string, s *surface.Surface) *Drawer {
	return &Drawer{name: name, s: s.Borrow()}
}

func (d *Drawer) String() string {
	return d.name
}

// Halt clears the surface.
func (d *Drawer) Halt() error {
	return d.s.FillRect(nil, color.Black)
}

// ColorModel is the color model of the surface's pixel format.
func (d *Drawer) ColorModel() color.Model {
	return d.s.ColorModel()
}

// Bounds of the surface.
func (d *Drawer) Bounds() image.Rectangle {
	return d.s.Bounds()
}

// Draw copies src onto the surface, aligning dstRect.Min with sp.
func (d *Drawer) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	return d.s.WithPixels(func([]byte) error {
		draw.Draw(d.s, dstRect, src, sp, draw.Src)
		return nil
	})
}

var _ display.Drawer = (*Drawer)(nil)
