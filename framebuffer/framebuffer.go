// Package framebuffer exposes the operating system's native frame buffer as a
// surface.
//
// The frame buffer memory is mapped into the process by [Open]. Surfaces
// returned by [Framebuffer.Surface] borrow that memory and must not be used
// after the frame buffer is closed.
package framebuffer

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/BeatGlow/surface"
	"github.com/BeatGlow/surface/pixel"
)

// Errors
var (
	ErrNotSupported     = errors.New("framebuffer: not supported")
	ErrUnsupportedModel = errors.New("framebuffer: unsupported color model")
)

// Framebuffer is an opened frame buffer device.
type Framebuffer struct {
	name string
	f    *os.File
	fix  fixScreenInfo
	vs   varScreenInfo
	s    *surface.Surface
}

// Surface returns a surface over the visible frame buffer memory.
func (fb *Framebuffer) Surface() *surface.Surface {
	return fb.s.Borrow()
}

// Close unmaps the frame buffer memory and closes the device.
func (fb *Framebuffer) Close() error {
	if err := fb.s.Close(); err != nil {
		_ = fb.f.Close()
		return err
	}
	return errors.WithStack(fb.f.Close())
}

func (fb *Framebuffer) String() string {
	return fmt.Sprintf("%s %q (%dx%d %s)", fb.name, fb.fix.id(), fb.vs.Xres, fb.vs.Yres, fb.s.Format())
}

// fixScreenInfo is struct fb_fix_screeninfo from <linux/fb.h>.
type fixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

func (info *fixScreenInfo) id() string {
	for i, c := range info.ID {
		if c == 0 {
			return string(info.ID[:i])
		}
	}
	return string(info.ID[:])
}

// Visuals
const (
	visualTrueColor   = 2
	visualPseudoColor = 3
)

// bitField describes one color channel.
type bitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

func (b bitField) mask() uint32 {
	if b.Length == 0 {
		return 0
	}
	return (1<<b.Length - 1) << b.Offset
}

// varScreenInfo is struct fb_var_screeninfo from <linux/fb.h>.
type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

// parseFormat derives the pixel format from the screen info.
func parseFormat(fix *fixScreenInfo, vs *varScreenInfo) (*pixel.Format, error) {
	if vs.Grayscale > 1 {
		// FOURCC based modes.
		return nil, errors.Wrapf(ErrUnsupportedModel, "fourcc %#08x", vs.Grayscale)
	}
	if fix.Visual == visualPseudoColor || (vs.BitsPerPixel == 8 && vs.Red.Offset == vs.Green.Offset) {
		if vs.BitsPerPixel != 8 {
			return nil, errors.Wrapf(ErrUnsupportedModel, "pseudo color with %d bits per pixel", vs.BitsPerPixel)
		}
		return pixel.NewFormat(8, 0, 0, 0, 0)
	}
	for _, ch := range []bitField{vs.Red, vs.Green, vs.Blue, vs.Alpha} {
		if ch.MsbRight != 0 {
			return nil, errors.Wrap(ErrUnsupportedModel, "most significant bit is right")
		}
	}

	bpp := int(vs.BitsPerPixel)
	if bpp == 16 && vs.Green.Length == 5 && vs.Alpha.Length == 0 {
		bpp = 15
	}
	format, err := pixel.NewFormat(bpp, vs.Red.mask(), vs.Green.mask(), vs.Blue.mask(), vs.Alpha.mask())
	if err != nil {
		return nil, errors.Wrap(ErrUnsupportedModel, err.Error())
	}
	return format, nil
}
