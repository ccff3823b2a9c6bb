package pixel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"math/bits"
)

// Errors
var (
	ErrUnsupportedFormat = errors.New("pixel: unsupported pixel format")
	ErrInvalidMasks      = errors.New("pixel: invalid color masks")
)

// Masks describe a pixel layout by its depth and channel bit masks.
//
// A layout with all masks zero at 8 bits per pixel is indexed.
type Masks struct {
	BitsPerPixel int
	R, G, B, A   uint32
}

// Common pixel layouts.
var (
	ARGB8888 = Masks{32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0xff000000}
	RGBA8888 = Masks{32, 0xff000000, 0x00ff0000, 0x0000ff00, 0x000000ff}
	ABGR8888 = Masks{32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000}
	BGRA8888 = Masks{32, 0x0000ff00, 0x00ff0000, 0xff000000, 0x000000ff}
	RGB888   = Masks{32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0}
	BGR888   = Masks{32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0}
	RGB24    = Masks{24, 0xff0000, 0x00ff00, 0x0000ff, 0}
	BGR24    = Masks{24, 0x0000ff, 0x00ff00, 0xff0000, 0}
	RGB565   = Masks{16, 0xf800, 0x07e0, 0x001f, 0}
	BGR565   = Masks{16, 0x001f, 0x07e0, 0xf800, 0}
	RGB555   = Masks{15, 0x7c00, 0x03e0, 0x001f, 0}
	BGR555   = Masks{15, 0x001f, 0x03e0, 0x7c00, 0}
	ARGB4444 = Masks{16, 0x0f00, 0x00f0, 0x000f, 0xf000}
	RGB332   = Masks{8, 0xe0, 0x1c, 0x03, 0}
	Index8   = Masks{BitsPerPixel: 8}
)

var layoutNames = map[Masks]string{
	ARGB8888: "ARGB8888",
	RGBA8888: "RGBA8888",
	ABGR8888: "ABGR8888",
	BGRA8888: "BGRA8888",
	RGB888:   "RGB888",
	BGR888:   "BGR888",
	RGB24:    "RGB24",
	BGR24:    "BGR24",
	RGB565:   "RGB565",
	BGR565:   "BGR565",
	RGB555:   "RGB555",
	BGR555:   "BGR555",
	ARGB4444: "ARGB4444",
	RGB332:   "RGB332",
	Index8:   "INDEX8",
}

// defaultMasks are used when a direct color depth is requested without masks.
var defaultMasks = map[int]Masks{
	15: RGB555,
	16: RGB565,
	24: RGB24,
	32: RGB888,
}

func (m Masks) String() string {
	if name, ok := layoutNames[m]; ok {
		return name
	}
	return fmt.Sprintf("%dbpp R=%#08x G=%#08x B=%#08x A=%#08x", m.BitsPerPixel, m.R, m.G, m.B, m.A)
}

// Format returns a new pixel format for the layout.
func (m Masks) Format() (*Format, error) {
	return NewFormat(m.BitsPerPixel, m.R, m.G, m.B, m.A)
}

// Format describes the encoding of colors into native pixel values.
type Format struct {
	BitsPerPixel  int
	BytesPerPixel int

	Rmask, Gmask, Bmask, Amask     uint32
	Rshift, Gshift, Bshift, Ashift uint8
	Rloss, Gloss, Bloss, Aloss     uint8

	// Palette is only set for indexed formats.
	Palette *Palette

	// Order is the byte order of multi-byte pixels in memory.
	Order binary.ByteOrder
}

// NewFormat builds a pixel format from a color depth and channel masks.
//
// An 8 bits per pixel format without masks is indexed and gets a 256 color
// palette with all entries set to white. Direct color depths without masks
// use RGB555, RGB565, RGB24 or RGB888.
func NewFormat(bpp int, rmask, gmask, bmask, amask uint32) (*Format, error) {
	f := &Format{
		BitsPerPixel:  bpp,
		BytesPerPixel: (bpp + 7) / 8,
		Order:         binary.LittleEndian,
	}

	noMasks := rmask|gmask|bmask|amask == 0
	switch bpp {
	case 8:
		if noMasks {
			f.Palette, _ = NewPalette(256)
			f.Rloss, f.Gloss, f.Bloss, f.Aloss = 8, 8, 8, 8
			return f, nil
		}
	case 15, 16, 24, 32:
		if noMasks {
			m := defaultMasks[bpp]
			rmask, gmask, bmask = m.R, m.G, m.B
		}
	default:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedFormat, bpp)
	}

	var (
		limit = uint64(1)<<uint(bpp) - 1
		seen  uint32
	)
	for _, ch := range []struct {
		mask        uint32
		shift, loss *uint8
	}{
		{rmask, &f.Rshift, &f.Rloss},
		{gmask, &f.Gshift, &f.Gloss},
		{bmask, &f.Bshift, &f.Bloss},
		{amask, &f.Ashift, &f.Aloss},
	} {
		shift, loss, err := maskBits(ch.mask)
		if err != nil {
			return nil, err
		}
		if uint64(ch.mask) > limit {
			return nil, fmt.Errorf("%w: mask %#08x exceeds %d bits per pixel", ErrInvalidMasks, ch.mask, bpp)
		}
		if seen&ch.mask != 0 {
			return nil, fmt.Errorf("%w: mask %#08x overlaps another channel", ErrInvalidMasks, ch.mask)
		}
		seen |= ch.mask
		*ch.shift, *ch.loss = shift, loss
	}

	f.Rmask, f.Gmask, f.Bmask, f.Amask = rmask, gmask, bmask, amask
	return f, nil
}

// maskBits returns the shift and the precision loss (relative to 8 bits) of a
// channel mask.
func maskBits(mask uint32) (shift, loss uint8, err error) {
	if mask == 0 {
		return 0, 8, nil
	}
	shift = uint8(bits.TrailingZeros32(mask))
	v := mask >> shift
	if v&(v+1) != 0 {
		return 0, 0, fmt.Errorf("%w: mask %#08x is not contiguous", ErrInvalidMasks, mask)
	}
	n := bits.OnesCount32(v)
	if n > 8 {
		return 0, 0, fmt.Errorf("%w: mask %#08x is wider than 8 bits", ErrInvalidMasks, mask)
	}
	return shift, uint8(8 - n), nil
}

// Masks returns the layout of the format.
func (f *Format) Masks() Masks {
	return Masks{f.BitsPerPixel, f.Rmask, f.Gmask, f.Bmask, f.Amask}
}

func (f *Format) String() string {
	return f.Masks().String()
}

// Indexed reports whether pixel values are palette indices.
func (f *Format) Indexed() bool {
	return f.Palette != nil
}

// HasAlpha reports whether the format stores an alpha channel.
func (f *Format) HasAlpha() bool {
	return f.Amask != 0
}

// Clone returns a deep copy of the format.
func (f *Format) Clone() *Format {
	c := *f
	if f.Palette != nil {
		c.Palette = f.Palette.Clone()
	}
	return &c
}

// Pitch returns the row stride for width pixels, aligned to 4 bytes.
func (f *Format) Pitch(width int) int {
	return (width*f.BytesPerPixel + 3) &^ 3
}

// MapRGB maps an opaque color to a pixel value.
func (f *Format) MapRGB(r, g, b uint8) uint32 {
	if f.Palette != nil {
		return uint32(f.Palette.Index(color.NRGBA{R: r, G: g, B: b, A: 0xff}))
	}
	return f.pack(r, g, b) | f.Amask
}

// MapRGBA maps a color with alpha to a pixel value.
func (f *Format) MapRGBA(r, g, b, a uint8) uint32 {
	if f.Palette != nil {
		return uint32(f.Palette.Index(color.NRGBA{R: r, G: g, B: b, A: a}))
	}
	return f.pack(r, g, b) | (uint32(a)>>f.Aloss)<<f.Ashift&f.Amask
}

// MapColor maps any color to a pixel value.
func (f *Format) MapColor(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return f.MapRGBA(n.R, n.G, n.B, n.A)
}

func (f *Format) pack(r, g, b uint8) uint32 {
	return (uint32(r)>>f.Rloss)<<f.Rshift&f.Rmask |
		(uint32(g)>>f.Gloss)<<f.Gshift&f.Gmask |
		(uint32(b)>>f.Bloss)<<f.Bshift&f.Bmask
}

// RGBA returns the color components of a pixel value. Formats without an
// alpha channel report opaque pixels.
func (f *Format) RGBA(pixel uint32) (r, g, b, a uint8) {
	if f.Palette != nil {
		if int(pixel) < f.Palette.Len() {
			c := f.Palette.Colors[pixel]
			return c.R, c.G, c.B, c.A
		}
		return 0, 0, 0, 0xff
	}

	r = expand((pixel&f.Rmask)>>f.Rshift, 8-f.Rloss)
	g = expand((pixel&f.Gmask)>>f.Gshift, 8-f.Gloss)
	b = expand((pixel&f.Bmask)>>f.Bshift, 8-f.Bloss)
	a = 0xff
	if f.Amask != 0 {
		a = expand((pixel&f.Amask)>>f.Ashift, 8-f.Aloss)
	}
	return
}

// Color returns the color of a pixel value.
func (f *Format) Color(pixel uint32) color.NRGBA {
	r, g, b, a := f.RGBA(pixel)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Model returns a color model that quantizes colors through the format.
func (f *Format) Model() color.Model {
	return color.ModelFunc(func(c color.Color) color.Color {
		return f.Color(f.MapColor(c))
	})
}

// expand scales an n bit channel value to the full 8 bit range.
func expand(v uint32, n uint8) uint8 {
	switch n {
	case 0:
		return 0
	case 8:
		return uint8(v)
	}
	return uint8(v * 0xff / (1<<n - 1))
}

func (f *Format) order() binary.ByteOrder {
	if f.Order == nil {
		return binary.LittleEndian
	}
	return f.Order
}

// Load reads one pixel value from b.
func (f *Format) Load(b []byte) uint32 {
	switch f.BytesPerPixel {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(f.order().Uint16(b))
	case 3:
		if f.order() == binary.BigEndian {
			return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		}
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	default:
		return f.order().Uint32(b)
	}
}

// Store writes one pixel value to b.
func (f *Format) Store(b []byte, v uint32) {
	switch f.BytesPerPixel {
	case 1:
		b[0] = uint8(v)
	case 2:
		f.order().PutUint16(b, uint16(v))
	case 3:
		if f.order() == binary.BigEndian {
			b[0], b[1], b[2] = uint8(v>>16), uint8(v>>8), uint8(v)
			return
		}
		b[0], b[1], b[2] = uint8(v), uint8(v>>8), uint8(v>>16)
	default:
		f.order().PutUint32(b, v)
	}
}
