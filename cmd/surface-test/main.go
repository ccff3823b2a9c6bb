package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/surface"
	"github.com/BeatGlow/surface/dma"
	"github.com/BeatGlow/surface/draw"
	"github.com/BeatGlow/surface/framebuffer"
	"github.com/BeatGlow/surface/output"
	"github.com/BeatGlow/surface/pixel"
)

var layouts = []pixel.Masks{
	pixel.ARGB8888, pixel.RGBA8888, pixel.ABGR8888, pixel.BGRA8888,
	pixel.RGB888, pixel.BGR888, pixel.RGB24, pixel.BGR24,
	pixel.RGB565, pixel.BGR565, pixel.RGB555, pixel.BGR555,
	pixel.ARGB4444, pixel.RGB332, pixel.Index8,
}

func main() {
	widthFlag := flag.Int("width", 320, "Surface width")
	heightFlag := flag.Int("height", 240, "Surface height")
	formatFlag := flag.String("format", "ARGB8888", "Pixel format")
	outFlag := flag.String("out", "surface-test.bmp", "Output bitmap file")
	textFlag := flag.String("text", "BeatGlow", "Text to render")
	fbFlag := flag.String("fb", "", "Frame buffer device to show the result on, e.g. /dev/fb0")
	dmaFlag := flag.Bool("dma", false, "Allocate the surface in physically contiguous memory")
	rotateFlag := flag.String("rotate", "", "Output rotation")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debugFlag {
		surface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	masks, err := parseMasks(*formatFlag)
	if err != nil {
		fatal(err)
	}
	rotation, err := parseRotation(*rotateFlag)
	if err != nil {
		fatal(err)
	}

	var s *surface.Surface
	if *dmaFlag {
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
		var m *dma.Surface
		if m, err = dma.New(*widthFlag, *heightFlag, masks); err != nil {
			fatal(err)
		}
		fmt.Printf("using dma memory at %#x\n", m.PhysAddr())
		s = m.Surface
	} else if s, err = surface.New(surface.SWSurface, *widthFlag, *heightFlag, masks.BitsPerPixel, masks.R, masks.G, masks.B, masks.A); err != nil {
		fatal(err)
	}
	defer s.Close()
	fmt.Printf("using surface: %s\n", s)

	drawPattern(s)
	if err = drawSprite(s); err != nil {
		fatal(err)
	}
	if *textFlag != "" {
		if err = drawText(s, *textFlag); err != nil {
			fatal(err)
		}
	}

	if err = s.SaveBMP(*outFlag); err != nil {
		fatal(err)
	}
	fmt.Printf("saved %s\n", *outFlag)

	if *fbFlag != "" {
		fb, err := framebuffer.Open(*fbFlag)
		if err != nil {
			fatal(err)
		}
		defer fb.Close()
		fmt.Printf("using frame buffer: %s\n", fb)

		if err = output.Present(output.NewDrawer(*fbFlag, fb.Surface()), s, rotation); err != nil {
			fatal(err)
		}
	}
}

// drawPattern draws a gradient inside a box around the edge.
func drawPattern(s *surface.Surface) {
	r := s.Bounds()
	for y := 1; y < r.Max.Y-1; y++ {
		for x := 1; x < r.Max.X-1; x++ {
			s.Set(x, y, color.RGBA{
				R: uint8(x + y),
				G: uint8(x - y),
				B: uint8(x * y),
				A: 0xff,
			})
		}
	}
	draw.Rectangle(s, r, color.White)
	draw.Line(s, image.Pt(1, 1), r.Max.Sub(image.Pt(2, 2)), color.Black)
	draw.Line(s, image.Pt(r.Max.X-2, 1), image.Pt(1, r.Max.Y-2), color.Black)
}

// drawSprite blits a color keyed sprite, once at its size and once scaled.
func drawSprite(s *surface.Surface) error {
	masks := pixel.RGB565
	sprite, err := surface.New(surface.SWSurface, 16, 16, masks.BitsPerPixel, masks.R, masks.G, masks.B, masks.A)
	if err != nil {
		return err
	}
	defer sprite.Close()

	magenta := color.NRGBA{R: 0xff, B: 0xff, A: 0xff}
	sprite.Fill(magenta)
	draw.Box(sprite, image.Rect(4, 4, 12, 12), color.NRGBA{R: 0xff, G: 0xcc, A: 0xff})
	draw.Rectangle(sprite, image.Rect(4, 4, 12, 12), color.Black)
	if err = sprite.SetColorKey(true, magenta); err != nil {
		return err
	}

	dr := image.Rectangle{Min: image.Pt(8, 8)}
	if !s.Blit(sprite, &dr, nil) {
		return fmt.Errorf("blit sprite to %s failed", dr)
	}
	dr = image.Rect(32, 8, 96, 72)
	if !s.BlitScaled(sprite, &dr, nil) {
		return fmt.Errorf("scaled blit sprite to %s failed", dr)
	}
	return nil
}

func drawText(s *surface.Surface, text string) error {
	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return err
	}

	const size = 24
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(size)
	c.SetHinting(font.HintingFull)
	c.SetClip(s.Bounds())
	c.SetDst(s)
	c.SetSrc(image.NewUniform(color.White))

	_, err = c.DrawString(text, freetype.Pt(8, s.Height()-8))
	return err
}

func parseMasks(name string) (pixel.Masks, error) {
	for _, m := range layouts {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}
	return pixel.Masks{}, fmt.Errorf("unsupported pixel format %q", name)
}

func parseRotation(value string) (output.Rotation, error) {
	switch value {
	case "", "no", "0":
		return output.NoRotation, nil
	case "90", "right", "cw":
		return output.Rotate90, nil
	case "180", "flip":
		return output.Rotate180, nil
	case "270", "left", "ccw":
		return output.Rotate270, nil
	default:
		return output.NoRotation, fmt.Errorf("invalid rotation %q specified", value)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
