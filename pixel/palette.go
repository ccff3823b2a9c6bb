package pixel

import (
	"fmt"
	"image/color"
)

// MaxPaletteColors is the largest palette an indexed format can use.
const MaxPaletteColors = 256

// Palette is the color table of an indexed format.
type Palette struct {
	Colors []color.NRGBA
}

// NewPalette returns a palette of n colors, all white.
func NewPalette(n int) (*Palette, error) {
	if n < 1 || n > MaxPaletteColors {
		return nil, fmt.Errorf("pixel: invalid palette size %d", n)
	}
	p := &Palette{Colors: make([]color.NRGBA, n)}
	for i := range p.Colors {
		p.Colors[i] = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return p, nil
}

// PaletteFrom builds a palette from a Go color palette.
func PaletteFrom(cp color.Palette) (*Palette, error) {
	p, err := NewPalette(len(cp))
	if err != nil {
		return nil, err
	}
	return p, p.SetColors(0, cp...)
}

// Len is the number of colors in the palette.
func (p *Palette) Len() int {
	return len(p.Colors)
}

// SetColors replaces the colors starting at index first.
func (p *Palette) SetColors(first int, colors ...color.Color) error {
	if first < 0 || first+len(colors) > len(p.Colors) {
		return fmt.Errorf("pixel: %d colors at index %d do not fit a palette of %d", len(colors), first, len(p.Colors))
	}
	for i, c := range colors {
		p.Colors[first+i] = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	return nil
}

// Index returns the index of the palette color closest to c.
func (p *Palette) Index(c color.Color) int {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	best, bestDist := 0, uint32(1<<32-1)
	for i, e := range p.Colors {
		if e == n {
			return i
		}
		d := sqDiff(e.R, n.R) + sqDiff(e.G, n.G) + sqDiff(e.B, n.B) + sqDiff(e.A, n.A)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func sqDiff(a, b uint8) uint32 {
	d := int32(a) - int32(b)
	return uint32(d * d)
}

// ColorPalette returns the palette as a Go color palette.
func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p.Colors))
	for i, c := range p.Colors {
		cp[i] = c
	}
	return cp
}

// Clone returns a copy of the palette.
func (p *Palette) Clone() *Palette {
	return &Palette{Colors: append([]color.NRGBA(nil), p.Colors...)}
}
