package framebuffer

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/BeatGlow/surface"
	"github.com/BeatGlow/surface/internal/ioctl"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
	fbioBlank          = 0x4611

	fbBlankUnblank = 0
	fbBlankNormal  = 1
)

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (*Framebuffer, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	fb := &Framebuffer{
		name: name,
		f:    f,
	}
	if err = ioctl.Do(f.Fd(), fbioGetFScreenInfo, unsafe.Pointer(&fb.fix)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Do(f.Fd(), fbioGetVScreenInfo, unsafe.Pointer(&fb.vs)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if fb.fix.Visual != visualTrueColor && fb.fix.Visual != visualPseudoColor {
		_ = f.Close()
		return nil, errors.Wrapf(ErrUnsupportedModel, "visual %d", fb.fix.Visual)
	}
	format, err := parseFormat(&fb.fix, &fb.vs)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	// Map pixel buffer.
	mem, err := unix.Mmap(int(f.Fd()), 0, int(fb.fix.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "framebuffer: mmap")
	}

	var (
		pitch  = int(fb.fix.LineLength)
		offset = int(fb.vs.Yoffset)*pitch + int(fb.vs.Xoffset)*format.BytesPerPixel
	)
	if offset > len(mem) {
		_ = unix.Munmap(mem)
		_ = f.Close()
		return nil, errors.Errorf("framebuffer: offset %d outside of %d bytes", offset, len(mem))
	}
	h, err := surface.NewHandle(mem[offset:], int(fb.vs.Xres), int(fb.vs.Yres), pitch, format, func() error {
		return errors.Wrap(unix.Munmap(mem), "framebuffer: munmap")
	})
	if err != nil {
		_ = unix.Munmap(mem)
		_ = f.Close()
		return nil, err
	}
	fb.s = surface.Wrap(h, true)

	surface.Logger().Debug("framebuffer: opened", "device", name, "id", fb.fix.id(),
		"size", fb.s.Size(), "pitch", pitch, "format", format.String())
	return fb, nil
}

// Show unblanks (true) or blanks (false) the display.
func (fb *Framebuffer) Show(show bool) error {
	var level uintptr = fbBlankNormal
	if show {
		level = fbBlankUnblank
	}
	return ioctl.Call(fb.f.Fd(), fbioBlank, level)
}
