// Package draw provides drawing primitives for pixel images.
//
// The compositing operators are those of [golang.org/x/image/draw], which
// extends the standard library's image/draw with scaling.
package draw

import (
	"image"

	"golang.org/x/image/draw"
)

// Drawer is an alias for [image/draw.Drawer].
type Drawer = draw.Drawer

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for image/draw.Op
type Op = draw.Op

const (
	// Over specifies ``(src in mask) over dst''.
	Over Op = draw.Over

	// Src specifies ``src in mask''.
	Src Op = draw.Src
)

// Filter selects the interpolation used by [Scale].
type Filter uint8

// Supported filters.
const (
	NearestNeighbor Filter = iota
	ApproxBiLinear
	BiLinear
)

func (f Filter) String() string {
	switch f {
	case ApproxBiLinear:
		return "approx-bilinear"
	case BiLinear:
		return "bilinear"
	default:
		return "nearest"
	}
}

func (f Filter) scaler() draw.Scaler {
	switch f {
	case ApproxBiLinear:
		return draw.ApproxBiLinear
	case BiLinear:
		return draw.BiLinear
	default:
		return draw.NearestNeighbor
	}
}

// Draw calls [DrawMask] with a nil mask.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	DrawMask(dst, r, src, sp, nil, image.Point{}, op)
}

// DrawMask aligns r.Min in dst with sp in src and mp in mask and then replaces the rectangle r
// in dst with the result of a Porter-Duff composition. A nil mask is treated as opaque.
func DrawMask(dst Image, r image.Rectangle, src image.Image, sp image.Point, mask image.Image, mp image.Point, op Op) {
	draw.DrawMask(dst, r, src, sp, mask, mp, op)
}

// Scale scales the part sr of src to the part dr of dst. Pixels of src for
// which srcMask is transparent do not contribute; a nil srcMask is opaque.
func Scale(dst Image, dr image.Rectangle, src image.Image, sr image.Rectangle, op Op, f Filter, srcMask image.Image) {
	var opts *draw.Options
	if srcMask != nil {
		opts = &draw.Options{SrcMask: srcMask}
	}
	f.scaler().Scale(dst, dr, src, sr, op, opts)
}
