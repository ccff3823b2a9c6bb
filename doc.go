// Package surface implements 2D pixel surfaces: rectangular grids of pixels in
// a described pixel format, with blitting, scaling, filling, color keys and
// Windows bitmap I/O.
//
// A surface wraps a [Handle], the shared pixel store. A surface either owns
// its handle and must be closed, or borrows it from an owner:
//
//	s, err := surface.New(surface.SWSurface, 64, 32, 32, pixel.RGBA8888.R, pixel.RGBA8888.G, pixel.RGBA8888.B, pixel.RGBA8888.A)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
// Pixel memory allocated outside the package, such as a memory mapped frame
// buffer, is wrapped with [NewHandle] and [Wrap].
//
// Surfaces implement [image/draw.Image], so the standard library drawing
// functions and the [github.com/BeatGlow/surface/draw] primitives work on
// them directly. A surface is not safe for concurrent use.
package surface
