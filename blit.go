package surface

import (
	"image"
	"image/color"

	"github.com/pkg/errors"

	"github.com/BeatGlow/surface/draw"
	"github.com/BeatGlow/surface/pixel"
)

// Blit copies the srcRect part of src to s at dstRect.Min, honouring the
// source color key, modulation and blend mode. A nil srcRect selects all of
// src and a nil dstRect places it at the origin. The copy is clipped to the
// clip rectangle of s; a non-nil dstRect is updated with the area drawn.
//
// Both surfaces must be unlocked.
func (s *Surface) Blit(src *Surface, dstRect, srcRect *image.Rectangle) bool {
	return report("blit", s.blit(src, dstRect, srcRect))
}

func (s *Surface) blit(src *Surface, dstRect, srcRect *image.Rectangle) error {
	dh, sh, err := blitHandles(s, src)
	if err != nil {
		return err
	}

	sr := sh.buf.Rect
	var dp image.Point
	if dstRect != nil {
		dp = dstRect.Min
	}
	if srcRect != nil {
		r := srcRect.Canon()
		if r.Min.X < 0 {
			dp.X -= r.Min.X
			r.Min.X = 0
		}
		if r.Min.Y < 0 {
			dp.Y -= r.Min.Y
			r.Min.Y = 0
		}
		sr = r.Intersect(sh.buf.Rect)
	}

	dr := image.Rectangle{Min: dp, Max: dp.Add(sr.Size())}.Intersect(dh.clip)
	if dstRect != nil {
		*dstRect = dr
	}
	if dr.Empty() {
		return nil
	}
	sp := sr.Min.Add(dr.Min.Sub(dp))
	if dh == sh && dr.Overlaps(image.Rectangle{Min: sp, Max: sp.Add(dr.Size())}) {
		tmp, err := src.snapshot(image.Rectangle{Min: sp, Max: sp.Add(dr.Size())})
		if err != nil {
			return err
		}
		defer tmp.Close()
		src, sp = tmp, image.Point{}
	}
	composite(s, dr, src, sp)
	return nil
}

// BlitScaled scales the srcRect part of src into dstRect of s using nearest
// neighbor sampling. A nil srcRect selects all of src and a nil dstRect all
// of s. Drawing is clipped to the clip rectangle of s; a non-nil dstRect is
// updated with the area drawn.
//
// Scaled blits either copy or blend: a source with a color key or a blend
// mode other than BlendNone is drawn with source-over alpha blending, so
// BlendAdd and BlendMod behave like BlendBlend here.
func (s *Surface) BlitScaled(src *Surface, dstRect, srcRect *image.Rectangle) bool {
	return report("blit scaled", s.blitScaled(src, dstRect, srcRect))
}

func (s *Surface) blitScaled(src *Surface, dstRect, srcRect *image.Rectangle) error {
	dh, sh, err := blitHandles(s, src)
	if err != nil {
		return err
	}

	sr := sh.buf.Rect
	if srcRect != nil {
		sr = srcRect.Canon().Intersect(sh.buf.Rect)
	}
	dr := dh.buf.Rect
	if dstRect != nil {
		dr = dstRect.Canon()
	}
	if dstRect != nil {
		*dstRect = dr.Intersect(dh.clip)
	}
	if sr.Empty() || dr.Intersect(dh.clip).Empty() {
		return nil
	}

	if dh == sh && dr.Overlaps(sr) {
		tmp, err := src.snapshot(sr)
		if err != nil {
			return err
		}
		defer tmp.Close()
		src, sh, sr = tmp, tmp.h, tmp.h.buf.Rect
	}

	op := draw.Src
	var mask image.Image
	if sh.hasKey {
		mask = &keyMask{src}
		op = draw.Over
	}
	if sh.blendMode != BlendNone {
		op = draw.Over
	}
	draw.Scale(&clipped{s, dh.clip}, dr, &source{src}, sr, op, draw.NearestNeighbor, mask)
	return nil
}

func blitHandles(dst, src *Surface) (dh, sh *Handle, err error) {
	if src == nil {
		return nil, nil, errors.New("surface: nil source surface")
	}
	if dh, err = dst.handle(); err != nil {
		return
	}
	if sh, err = src.handle(); err != nil {
		return
	}
	if dh.locked > 0 || sh.locked > 0 {
		return nil, nil, errors.Wrap(ErrLocked, "surfaces must not be locked during blit")
	}
	return
}

// snapshot copies the r part of s into a new surface with the same format
// and blit attributes, for blits whose source and destination overlap.
func (s *Surface) snapshot(r image.Rectangle) (*Surface, error) {
	sh := s.h
	t, err := NewWithFormat(r.Dx(), r.Dy(), sh.format)
	if err != nil {
		return nil, err
	}
	th := t.h
	bpp := sh.format.BytesPerPixel
	n := r.Dx() * bpp
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(th.buf.Pix[th.buf.PixOffset(0, y-r.Min.Y, bpp):][:n], sh.buf.Pix[sh.buf.PixOffset(r.Min.X, y, bpp):][:n])
	}
	th.hasKey, th.colorKey = sh.hasKey, sh.colorKey
	th.colorMod, th.alphaMod, th.blendMode = sh.colorMod, sh.alphaMod, sh.blendMode
	return t, nil
}

// composite draws the part of src starting at sp into r of dst.
func composite(dst *Surface, r image.Rectangle, src *Surface, sp image.Point) {
	sh := src.h
	switch {
	case sh.blendMode == BlendBlend && sh.hasKey:
		draw.DrawMask(dst, r, &source{src}, sp, &keyMask{src}, sp, draw.Over)
	case sh.blendMode == BlendBlend:
		draw.Draw(dst, r, &source{src}, sp, draw.Over)
	case sh.blendMode == BlendNone && !sh.hasKey:
		draw.Draw(dst, r, &source{src}, sp, draw.Src)
	default:
		blend(dst, r, src, sp)
	}
}

// blend handles the modes without a Porter-Duff equivalent.
func blend(dst *Surface, r image.Rectangle, src *Surface, sp image.Point) {
	sh, df := src.h, dst.h.format
	for y := r.Min.Y; y < r.Max.Y; y++ {
		sy := sp.Y + y - r.Min.Y
		for x := r.Min.X; x < r.Max.X; x++ {
			sx := sp.X + x - r.Min.X
			v := src.pixelAt(sx, sy)
			if sh.keyed(v) {
				continue
			}
			c := sh.modulated(sh.format.Color(v))
			switch sh.blendMode {
			case BlendAdd:
				d := dst.nrgbaAt(x, y)
				c = color.NRGBA{
					R: add8(d.R, mul8(c.R, c.A)),
					G: add8(d.G, mul8(c.G, c.A)),
					B: add8(d.B, mul8(c.B, c.A)),
					A: d.A,
				}
			case BlendMod:
				d := dst.nrgbaAt(x, y)
				c = color.NRGBA{R: mul8(c.R, d.R), G: mul8(c.G, d.G), B: mul8(c.B, d.B), A: d.A}
			}
			dst.setPixel(x, y, df.MapRGBA(c.R, c.G, c.B, c.A))
		}
	}
}

// source presents a surface with its color and alpha modulation applied.
type source struct {
	s *Surface
}

func (v *source) ColorModel() color.Model {
	return color.NRGBAModel
}

func (v *source) Bounds() image.Rectangle {
	return v.s.h.buf.Rect
}

func (v *source) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(v.s.h.buf.Rect) {
		return color.Transparent
	}
	return v.s.h.modulated(v.s.nrgbaAt(x, y))
}

// keyMask is transparent where a surface matches its color key.
type keyMask struct {
	s *Surface
}

func (m *keyMask) ColorModel() color.Model {
	return color.AlphaModel
}

func (m *keyMask) Bounds() image.Rectangle {
	return m.s.h.buf.Rect
}

func (m *keyMask) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(m.s.h.buf.Rect) || m.s.h.keyed(m.s.pixelAt(x, y)) {
		return color.Transparent
	}
	return color.Opaque
}

// clipped restricts drawing to the clip rectangle of a surface.
type clipped struct {
	*Surface
	clip image.Rectangle
}

func (c *clipped) Bounds() image.Rectangle {
	return c.clip
}

// SetClipRect sets the rectangle blits and fills are clipped to. A nil r
// resets it to the whole surface. The result reports whether the clip
// rectangle intersects the surface.
func (s *Surface) SetClipRect(r *image.Rectangle) bool {
	h, err := s.handle()
	if err != nil {
		return report("set clip rect", err)
	}
	if r == nil {
		h.clip = h.buf.Rect
		return true
	}
	h.clip = r.Canon().Intersect(h.buf.Rect)
	return !h.clip.Empty()
}

// ClipRect returns the clip rectangle.
func (s *Surface) ClipRect() image.Rectangle {
	return s.h.clip
}

// FillRect fills r, clipped to the clip rectangle, with c. A nil r fills the
// whole clip rectangle.
func (s *Surface) FillRect(r *image.Rectangle, c color.Color) error {
	h, err := s.handle()
	if err != nil {
		return opError("fill rect", err)
	}
	h.fill(r, h.format.MapColor(c))
	return nil
}

// FillRects fills every rectangle in rs with c.
func (s *Surface) FillRects(rs []image.Rectangle, c color.Color) error {
	h, err := s.handle()
	if err != nil {
		return opError("fill rects", err)
	}
	v := h.format.MapColor(c)
	for i := range rs {
		h.fill(&rs[i], v)
	}
	return nil
}

func (h *Handle) fill(r *image.Rectangle, v uint32) {
	fr := h.clip
	if r != nil {
		fr = r.Canon().Intersect(h.clip)
	}
	if fr.Empty() {
		return
	}

	bpp := h.format.BytesPerPixel
	row := h.buf.Pix[h.buf.PixOffset(fr.Min.X, fr.Min.Y, bpp):][:fr.Dx()*bpp]
	for i := 0; i < len(row); i += bpp {
		h.format.Store(row[i:], v)
	}
	for y := fr.Min.Y + 1; y < fr.Max.Y; y++ {
		copy(h.buf.Pix[h.buf.PixOffset(fr.Min.X, y, bpp):], row)
	}
}

// Convert returns a new surface holding the pixels of s in format. An
// enabled color key is carried over.
func (s *Surface) Convert(format *pixel.Format) (*Surface, error) {
	const op = "convert"
	h, err := s.handle()
	if err != nil {
		return nil, opError(op, err)
	}
	if format == nil {
		return nil, opErrorf(op, "nil pixel format")
	}
	dst, err := newSurface(op, SWSurface, h.buf.Rect.Dx(), h.buf.Rect.Dy(), format.Clone())
	if err != nil {
		return nil, err
	}
	draw.Draw(dst, dst.Bounds(), s, image.Point{}, draw.Src)
	if h.hasKey {
		dst.h.hasKey = true
		dst.h.colorKey = dst.h.format.MapColor(h.format.Color(h.colorKey))
	}
	return dst, nil
}
