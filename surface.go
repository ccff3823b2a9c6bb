package surface

import (
	"fmt"
	"image"
	"image/color"
	"runtime"

	"github.com/pkg/errors"

	"github.com/BeatGlow/surface/pixel"
)

// maxPixelBytes is the largest pixel buffer New will allocate.
const maxPixelBytes = 1<<31 - 1

// Handle is the shared pixel store behind one or more surfaces. Handles are
// reference counted; the pixel memory is released when the last owning
// reference is closed.
type Handle struct {
	flags    Flags
	format   *pixel.Format
	buf      pixel.Buffer
	locked   int
	clip     image.Rectangle
	refcount int
	release  func() error
	freed    bool

	hasKey    bool
	colorKey  uint32
	colorMod  [3]uint8
	alphaMod  uint8
	blendMode BlendMode
}

func newHandle(flags Flags, buf pixel.Buffer, format *pixel.Format, release func() error) *Handle {
	h := &Handle{
		flags:     flags,
		format:    format,
		buf:       buf,
		clip:      buf.Rect,
		refcount:  1,
		release:   release,
		colorMod:  [3]uint8{0xff, 0xff, 0xff},
		alphaMod:  0xff,
		blendMode: BlendNone,
	}
	if format.HasAlpha() {
		h.blendMode = BlendBlend
	}
	return h
}

// NewHandle returns a handle over pixel memory that was allocated elsewhere,
// such as a memory mapped frame buffer. The release function, if not nil, is
// called exactly once when the last owning reference is closed. The handle
// starts with a single reference.
func NewHandle(pix []byte, width, height, pitch int, format *pixel.Format, release func() error) (*Handle, error) {
	const op = "new handle"
	switch {
	case format == nil:
		return nil, opErrorf(op, "nil pixel format")
	case width < 0 || height < 0:
		return nil, opError(op, errors.Wrapf(ErrInvalidSize, "%dx%d", width, height))
	case pitch < width*format.BytesPerPixel:
		return nil, opErrorf(op, "pitch %d is too small for %d pixels of %s", pitch, width, format)
	case len(pix) < pitch*height:
		return nil, opErrorf(op, "%d bytes do not hold %d rows of %d bytes", len(pix), height, pitch)
	}
	buf := pixel.Buffer{
		Rect:   image.Rect(0, 0, width, height),
		Pix:    pix[:pitch*height],
		Stride: pitch,
	}
	return newHandle(PreAlloc, buf, format.Clone(), release), nil
}

// SetFlags adds flags to the handle. It is used to mark memory that must
// never be released with DontFree.
func (h *Handle) SetFlags(flags Flags) {
	h.flags |= flags
}

// RefCount returns the number of owning references.
func (h *Handle) RefCount() int {
	return h.refcount
}

// Released reports whether the pixel memory was released.
func (h *Handle) Released() bool {
	return h.freed
}

func (h *Handle) unref() error {
	if h.freed {
		return ErrClosed
	}
	if h.flags.Has(DontFree) {
		return nil
	}
	if h.refcount--; h.refcount > 0 {
		return nil
	}
	h.freed = true
	h.locked = 0
	h.buf.Pix = nil
	if release := h.release; release != nil {
		h.release = nil
		return release()
	}
	return nil
}

// Surface is a rectangular grid of pixels in a known pixel format.
//
// A surface either owns its handle, and then must be closed, or borrows it
// from an owner that outlives it. Closing a borrowed surface does nothing.
type Surface struct {
	h      *Handle
	owned  bool
	closed bool

	// owner keeps the owning surface of a borrowed wrapper reachable, so
	// its finalizer cannot release the handle while the borrower is in use.
	owner *Surface
}

// New allocates a surface of width by height pixels. A bpp of 8 with all
// masks zero creates an indexed surface; direct color depths without masks
// use the default layout for that depth. Only SWSurface and RLEAccel are
// valid flags.
func New(flags Flags, width, height, bpp int, rmask, gmask, bmask, amask uint32) (*Surface, error) {
	const op = "new"
	if flags&^RLEAccel != 0 {
		return nil, opError(op, errors.Wrapf(ErrInvalidFlags, "%s", flags))
	}
	format, err := pixel.NewFormat(bpp, rmask, gmask, bmask, amask)
	if err != nil {
		return nil, opError(op, errors.WithStack(err))
	}
	return newSurface(op, flags, width, height, format)
}

// NewWithFormat allocates a surface using a copy of format.
func NewWithFormat(width, height int, format *pixel.Format) (*Surface, error) {
	const op = "new"
	if format == nil {
		return nil, opErrorf(op, "nil pixel format")
	}
	return newSurface(op, SWSurface, width, height, format.Clone())
}

// NewFrom returns a surface over caller supplied pixel memory. The memory is
// not copied and must stay valid for the lifetime of the surface.
func NewFrom(pix []byte, width, height, bpp, pitch int, rmask, gmask, bmask, amask uint32) (*Surface, error) {
	const op = "new from"
	format, err := pixel.NewFormat(bpp, rmask, gmask, bmask, amask)
	if err != nil {
		return nil, opError(op, errors.WithStack(err))
	}
	h, err := NewHandle(pix, width, height, pitch, format, nil)
	if err != nil {
		return nil, err
	}
	return Wrap(h, true), nil
}

func newSurface(op string, flags Flags, width, height int, format *pixel.Format) (*Surface, error) {
	if width < 0 || height < 0 {
		return nil, opError(op, errors.Wrapf(ErrInvalidSize, "%dx%d", width, height))
	}
	pitch := format.Pitch(width)
	if int64(pitch)*int64(height) > maxPixelBytes {
		return nil, opError(op, errors.Wrapf(ErrInvalidSize, "%dx%d is too large", width, height))
	}
	s := Wrap(newHandle(flags, pixel.MakeBuffer(width, height, pitch), format, nil), true)
	Logger().Debug("surface: created", "size", s.Size(), "format", format.String(), "flags", flags.String())
	return s, nil
}

// Wrap returns a surface for h. An owned surface takes over one reference of
// the handle and releases it on Close; if it is never closed, the reference
// is released when the surface is garbage collected.
func Wrap(h *Handle, owned bool) *Surface {
	s := &Surface{h: h, owned: owned}
	if owned {
		runtime.SetFinalizer(s, (*Surface).finalize)
	}
	return s
}

func (s *Surface) finalize() {
	Logger().Warn("surface: owned surface was not closed", "surface", s.String())
	if err := s.Close(); err != nil {
		Logger().Warn("surface: release failed", "err", err)
	}
}

// Ref returns a new owning surface for the same handle.
func (s *Surface) Ref() (*Surface, error) {
	h, err := s.handle()
	if err != nil {
		return nil, opError("ref", err)
	}
	h.refcount++
	return Wrap(h, true), nil
}

// Borrow returns a non-owning surface for the same handle. It must not be
// used after the owner is closed. A borrowed surface keeps its owner from
// being garbage collected.
func (s *Surface) Borrow() *Surface {
	b := Wrap(s.h, false)
	b.owner = s
	if !s.owned {
		b.owner = s.owner
	}
	return b
}

// Close releases the surface's reference to its handle. Closing a borrowed
// surface is a no-op; closing an owned surface twice returns ErrClosed.
func (s *Surface) Close() error {
	if !s.owned {
		return nil
	}
	if s.closed {
		return opError("close", ErrClosed)
	}
	s.closed = true
	runtime.SetFinalizer(s, nil)
	if err := s.h.unref(); err != nil {
		return opError("close", err)
	}
	Logger().Debug("surface: closed", "size", s.Size(), "refs", s.h.refcount, "released", s.h.freed)
	return nil
}

// Owned reports whether closing the surface releases its reference.
func (s *Surface) Owned() bool {
	return s.owned
}

// Handle returns the underlying pixel store.
func (s *Surface) Handle() *Handle {
	return s.h
}

func (s *Surface) handle() (*Handle, error) {
	if s.closed || s.h.freed {
		return nil, ErrClosed
	}
	return s.h, nil
}

func (s *Surface) usable() bool {
	return !s.closed && !s.h.freed
}

// Width in pixels.
func (s *Surface) Width() int {
	return s.h.buf.Rect.Dx()
}

// Height in pixels.
func (s *Surface) Height() int {
	return s.h.buf.Rect.Dy()
}

// Size in pixels.
func (s *Surface) Size() image.Point {
	return s.h.buf.Rect.Size()
}

// Bounds returns the surface rectangle, anchored at the origin.
func (s *Surface) Bounds() image.Rectangle {
	return s.h.buf.Rect
}

// Pitch is the number of bytes between vertically adjacent pixels.
func (s *Surface) Pitch() int {
	return s.h.buf.Stride
}

// Flags returns the surface flags.
func (s *Surface) Flags() Flags {
	return s.h.flags
}

// Format returns the pixel format. It is shared with the surface.
func (s *Surface) Format() *pixel.Format {
	return s.h.format
}

func (s *Surface) String() string {
	return fmt.Sprintf("%dx%d %s", s.Width(), s.Height(), s.h.format)
}

// ColorModel quantizes colors through the surface's pixel format.
func (s *Surface) ColorModel() color.Model {
	return s.h.format.Model()
}

// At returns the color of the pixel at (x, y).
func (s *Surface) At(x, y int) color.Color {
	if !s.usable() || !(image.Point{X: x, Y: y}).In(s.h.buf.Rect) {
		return color.Transparent
	}
	return s.nrgbaAt(x, y)
}

// Set the color of the pixel at (x, y). Writes outside of the surface or to
// a released surface are ignored.
func (s *Surface) Set(x, y int, c color.Color) {
	if !s.usable() || !(image.Point{X: x, Y: y}).In(s.h.buf.Rect) {
		return
	}
	s.setPixel(x, y, s.h.format.MapColor(c))
}

// Clear sets all pixel bytes to zero.
func (s *Surface) Clear() {
	if s.usable() {
		s.h.buf.Clear()
	}
}

// Fill the clip rectangle with a single color.
func (s *Surface) Fill(c color.Color) {
	_ = s.FillRect(nil, c)
}

func (s *Surface) nrgbaAt(x, y int) color.NRGBA {
	return s.h.format.Color(s.pixelAt(x, y))
}

func (s *Surface) pixelAt(x, y int) uint32 {
	h := s.h
	return h.format.Load(h.buf.Pix[h.buf.PixOffset(x, y, h.format.BytesPerPixel):])
}

func (s *Surface) setPixel(x, y int, v uint32) {
	h := s.h
	h.format.Store(h.buf.Pix[h.buf.PixOffset(x, y, h.format.BytesPerPixel):], v)
}

var _ pixel.Image = (*Surface)(nil)
