package surface

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	"github.com/BeatGlow/surface/draw"
	"github.com/BeatGlow/surface/pixel"
	"github.com/BeatGlow/surface/rwops"
)

// LoadBMP reads a surface from the Windows bitmap file at path.
func LoadBMP(path string) (*Surface, error) {
	rw, err := rwops.FromFile(path, "rb")
	if err != nil {
		return nil, opError("load bmp", err)
	}
	defer rw.Close()
	return ReadBMP(rw)
}

// ReadBMP decodes a Windows bitmap. Paletted images become indexed surfaces
// with the file palette, 32 bit images ARGB8888 surfaces and all others
// RGB24 surfaces.
func ReadBMP(r io.Reader) (*Surface, error) {
	const op = "load bmp"
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, opError(op, errors.Wrap(err, "surface: decode"))
	}
	b := img.Bounds()

	if p, ok := img.(*image.Paletted); ok {
		pal, err := pixel.PaletteFrom(p.Palette)
		if err != nil {
			return nil, opError(op, err)
		}
		format, _ := pixel.Index8.Format()
		format.Palette = pal
		s, err := newSurface(op, SWSurface, b.Dx(), b.Dy(), format)
		if err != nil {
			return nil, err
		}
		for y := 0; y < b.Dy(); y++ {
			i := p.PixOffset(b.Min.X, b.Min.Y+y)
			copy(s.h.buf.Pix[y*s.h.buf.Stride:], p.Pix[i:i+b.Dx()])
		}
		return s, nil
	}

	masks := pixel.RGB24
	n, ok := img.(*image.NRGBA)
	if ok {
		masks = pixel.ARGB8888
	}
	format, err := masks.Format()
	if err != nil {
		return nil, opError(op, err)
	}
	s, err := newSurface(op, SWSurface, b.Dx(), b.Dy(), format)
	if err != nil {
		return nil, err
	}
	if !ok {
		draw.Draw(s, s.Bounds(), img, b.Min, draw.Src)
		return s, nil
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := n.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			s.setPixel(x, y, format.MapRGBA(c.R, c.G, c.B, c.A))
		}
	}
	return s, nil
}

// SaveBMP writes the surface to path as a Windows bitmap.
func (s *Surface) SaveBMP(path string) error {
	rw, err := rwops.FromFile(path, "wb")
	if err != nil {
		return opError("save bmp", err)
	}
	if err = s.WriteBMP(rw); err != nil {
		_ = rw.Close()
		return err
	}
	return opError("save bmp", rw.Close())
}

// WriteBMP encodes the surface as a Windows bitmap. Indexed surfaces are
// written with their palette and surfaces with alpha as 32 bit images with a
// BITMAPV4HEADER, so the alpha channel survives a reload.
func (s *Surface) WriteBMP(w io.Writer) error {
	const op = "save bmp"
	h, err := s.handle()
	if err != nil {
		return opError(op, err)
	}

	b := h.buf.Rect
	var img image.Image
	switch {
	case h.format.Indexed():
		p := image.NewPaletted(b, h.format.Palette.ColorPalette())
		for y := 0; y < b.Dy(); y++ {
			copy(p.Pix[y*p.Stride:y*p.Stride+b.Dx()], h.buf.Pix[y*h.buf.Stride:])
		}
		img = p
	case h.format.HasAlpha():
		n := image.NewNRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				n.SetNRGBA(x, y, s.nrgbaAt(x, y))
			}
		}
		if err = encodeV4(w, n); err != nil {
			return opError(op, errors.Wrap(err, "surface: encode"))
		}
		return nil
	default:
		m := image.NewRGBA(b)
		draw.Draw(m, b, s, b.Min, draw.Src)
		img = m
	}

	if err = bmp.Encode(w, img); err != nil {
		return opError(op, errors.Wrap(err, "surface: encode"))
	}
	return nil
}

const (
	bmpFileHeaderLen = 14
	bmpV4HeaderLen   = 108
)

// encodeV4 writes m as a bottom-up 32 bit BI_BITFIELDS bitmap. bmp.Encode
// only writes BITMAPINFOHEADER files, whose alpha readers ignore.
func encodeV4(w io.Writer, m *image.NRGBA) error {
	b := m.Bounds()
	size := 4 * b.Dx() * b.Dy()
	offset := bmpFileHeaderLen + bmpV4HeaderLen

	hdr := make([]byte, offset)
	le := binary.LittleEndian
	copy(hdr, "BM")
	le.PutUint32(hdr[2:], uint32(offset+size))
	le.PutUint32(hdr[10:], uint32(offset))

	info := hdr[bmpFileHeaderLen:]
	le.PutUint32(info[0:], bmpV4HeaderLen)
	le.PutUint32(info[4:], uint32(b.Dx()))
	le.PutUint32(info[8:], uint32(b.Dy()))
	le.PutUint16(info[12:], 1)  // planes
	le.PutUint16(info[14:], 32) // bits per pixel
	le.PutUint32(info[16:], 3)  // BI_BITFIELDS
	le.PutUint32(info[20:], uint32(size))
	le.PutUint32(info[24:], 2835) // 72 DPI
	le.PutUint32(info[28:], 2835)
	le.PutUint32(info[40:], 0x00ff0000)
	le.PutUint32(info[44:], 0x0000ff00)
	le.PutUint32(info[48:], 0x000000ff)
	le.PutUint32(info[52:], 0xff000000)
	le.PutUint32(info[56:], 0x73524742) // LCS_sRGB
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	row := make([]byte, 4*b.Dx())
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		p := m.Pix[m.PixOffset(b.Min.X, y):][:len(row)]
		for i := 0; i < len(row); i += 4 {
			row[i+0], row[i+1], row[i+2], row[i+3] = p[i+2], p[i+1], p[i+0], p[i+3]
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
