// Package dma allocates surfaces in physically contiguous memory, so their
// pixels can be handed to a DMA engine or display controller.
package dma

import (
	"github.com/pkg/errors"
	"periph.io/x/host/v3/pmem"

	"github.com/BeatGlow/surface"
	"github.com/BeatGlow/surface/pixel"
)

const pageSize = 4096

// Surface is a surface backed by locked physical memory.
type Surface struct {
	*surface.Surface
	mem *pmem.MemAlloc
}

// New allocates a width by height surface in the layout m. The memory is
// released when the surface is closed.
func New(width, height int, m pixel.Masks) (*Surface, error) {
	format, err := m.Format()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(surface.ErrInvalidSize, "%dx%d", width, height)
	}

	pitch := format.Pitch(width)
	size := (pitch*height + pageSize - 1) &^ (pageSize - 1)
	mem, err := pmem.Alloc(size)
	if err != nil {
		return nil, errors.Wrapf(err, "dma: allocating %d bytes", size)
	}

	h, err := surface.NewHandle(mem.Bytes(), width, height, pitch, format, mem.Close)
	if err != nil {
		_ = mem.Close()
		return nil, err
	}
	surface.Logger().Debug("dma: allocated", "size", size, "phys", mem.PhysAddr())
	return &Surface{
		Surface: surface.Wrap(h, true),
		mem:     mem,
	}, nil
}

// PhysAddr is the physical address of the first pixel.
func (s *Surface) PhysAddr() uint64 {
	return s.mem.PhysAddr()
}
