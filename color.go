package surface

import (
	"image/color"

	"github.com/pkg/errors"

	"github.com/BeatGlow/surface/pixel"
)

// BlendMode selects how a blit combines source and destination pixels.
type BlendMode uint8

// Blend modes.
const (
	// BlendNone copies source pixels.
	BlendNone BlendMode = iota

	// BlendBlend composites source over destination using source alpha.
	BlendBlend

	// BlendAdd adds the alpha weighted source color to the destination.
	BlendAdd

	// BlendMod multiplies the destination color by the source color.
	BlendMod
)

func (m BlendMode) String() string {
	switch m {
	case BlendNone:
		return "none"
	case BlendBlend:
		return "blend"
	case BlendAdd:
		return "add"
	case BlendMod:
		return "mod"
	default:
		return "invalid"
	}
}

// SetPalette replaces the palette of an indexed surface.
func (s *Surface) SetPalette(p *pixel.Palette) bool {
	h, err := s.handle()
	if err == nil {
		switch {
		case p == nil:
			err = errors.New("surface: nil palette")
		case !h.format.Indexed():
			err = errors.Errorf("surface: %s is not an indexed format", h.format)
		case p.Len() == 0 || p.Len() > 1<<h.format.BitsPerPixel:
			err = errors.Errorf("surface: %d palette colors for %d bits per pixel", p.Len(), h.format.BitsPerPixel)
		default:
			h.format.Palette = p.Clone()
		}
	}
	return report("set palette", err)
}

// EnableRLE marks the surface for run-length encoded blits. Such surfaces
// must be locked before their pixels are accessed directly.
func (s *Surface) EnableRLE() bool {
	h, err := s.handle()
	if err == nil {
		h.flags |= RLEAccel
	}
	return report("enable rle", err)
}

// DisableRLE clears the RLE hint.
func (s *Surface) DisableRLE() bool {
	h, err := s.handle()
	if err == nil {
		h.flags &^= RLEAccel
	}
	return report("disable rle", err)
}

// RLE reports whether the RLE hint is set.
func (s *Surface) RLE() bool {
	return s.h.flags.Has(RLEAccel)
}

// SetColorKey sets the transparent color used by blits. The color is mapped
// to the surface's pixel format; disabling the key keeps its value.
func (s *Surface) SetColorKey(enabled bool, c color.Color) error {
	h, err := s.handle()
	if err != nil {
		return opError("set color key", err)
	}
	h.hasKey = enabled
	h.colorKey = h.format.MapColor(c)
	return nil
}

// HasColorKey reports whether a color key is enabled.
func (s *Surface) HasColorKey() bool {
	return s.h.hasKey
}

// ColorKey returns the enabled color key, as stored in the pixel format.
func (s *Surface) ColorKey() (color.NRGBA, error) {
	h, err := s.handle()
	if err != nil {
		return color.NRGBA{}, opError("color key", err)
	}
	if !h.hasKey {
		return color.NRGBA{}, opError("color key", ErrNoColorKey)
	}
	return h.format.Color(h.colorKey), nil
}

// keyed reports whether the pixel value v matches the color key. Alpha is not
// compared.
func (h *Handle) keyed(v uint32) bool {
	return h.hasKey && v&^h.format.Amask == h.colorKey&^h.format.Amask
}

// SetColorMod sets the color multiplied into source pixels during blits. The
// alpha of c is ignored.
func (s *Surface) SetColorMod(c color.Color) bool {
	h, err := s.handle()
	if err == nil {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		h.colorMod = [3]uint8{n.R, n.G, n.B}
	}
	return report("set color mod", err)
}

// ColorMod returns the color modulation as an opaque color.
func (s *Surface) ColorMod() (color.NRGBA, error) {
	h, err := s.handle()
	if err != nil {
		return color.NRGBA{}, opError("color mod", err)
	}
	return color.NRGBA{R: h.colorMod[0], G: h.colorMod[1], B: h.colorMod[2], A: 0xff}, nil
}

// SetAlphaMod sets the alpha multiplied into source pixels during blits.
func (s *Surface) SetAlphaMod(a uint8) bool {
	h, err := s.handle()
	if err == nil {
		h.alphaMod = a
	}
	return report("set alpha mod", err)
}

// AlphaMod returns the alpha modulation.
func (s *Surface) AlphaMod() (uint8, error) {
	h, err := s.handle()
	if err != nil {
		return 0, opError("alpha mod", err)
	}
	return h.alphaMod, nil
}

// SetBlendMode sets the blend mode used when the surface is a blit source.
func (s *Surface) SetBlendMode(m BlendMode) bool {
	h, err := s.handle()
	if err == nil {
		if m > BlendMod {
			err = errors.Errorf("surface: invalid blend mode %d", m)
		} else {
			h.blendMode = m
		}
	}
	return report("set blend mode", err)
}

// BlendMode returns the blend mode. New surfaces blend when their format has
// an alpha channel and copy otherwise.
func (s *Surface) BlendMode() (BlendMode, error) {
	h, err := s.handle()
	if err != nil {
		return BlendNone, opError("blend mode", err)
	}
	return h.blendMode, nil
}

// modulated applies the color and alpha modulation to c.
func (h *Handle) modulated(c color.NRGBA) color.NRGBA {
	if h.colorMod != [3]uint8{0xff, 0xff, 0xff} {
		c.R = mul8(c.R, h.colorMod[0])
		c.G = mul8(c.G, h.colorMod[1])
		c.B = mul8(c.B, h.colorMod[2])
	}
	if h.alphaMod != 0xff {
		c.A = mul8(c.A, h.alphaMod)
	}
	return c
}

func mul8(a, b uint8) uint8 {
	return uint8(uint16(a) * uint16(b) / 0xff)
}

func add8(a, b uint8) uint8 {
	if v := uint16(a) + uint16(b); v < 0xff {
		return uint8(v)
	}
	return 0xff
}
