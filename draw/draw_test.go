package draw

import (
	"image"
	"image/color"
	"testing"
)

var (
	testOn  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	testOff = color.NRGBA{}
)

func testCount(img *image.NRGBA) (n int) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y) == testOn {
				n++
			}
		}
	}
	return
}

func TestLine(t *testing.T) {
	tests := []struct {
		a, b image.Point
		want int
	}{
		{image.Pt(0, 0), image.Pt(0, 0), 1},
		{image.Pt(0, 0), image.Pt(7, 0), 8},
		{image.Pt(7, 0), image.Pt(0, 0), 8},
		{image.Pt(3, 7), image.Pt(3, 0), 8},
		{image.Pt(0, 0), image.Pt(7, 7), 8},
		{image.Pt(7, 0), image.Pt(0, 7), 8},
		{image.Pt(0, 0), image.Pt(7, 3), 8},
		{image.Pt(1, 7), image.Pt(3, 0), 8},
	}
	for _, test := range tests {
		t.Run(test.a.String()+"-"+test.b.String(), func(it *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
			Line(img, test.a, test.b, testOn)
			if img.NRGBAAt(test.a.X, test.a.Y) != testOn {
				it.Errorf("start point %s not set", test.a)
			}
			if img.NRGBAAt(test.b.X, test.b.Y) != testOn {
				it.Errorf("end point %s not set", test.b)
			}
			if v := testCount(img); v != test.want {
				it.Errorf("expected %d pixels set, got %d", test.want, v)
			}
		})
	}
}

func TestHorizontalVerticalLine(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	HorizontalLine(img, 1, 1, 0, testOn)
	VerticalLine(img, 1, 1, -2, testOn)
	if v := testCount(img); v != 0 {
		t.Errorf("expected empty lines to draw nothing, got %d pixels", v)
	}
	HorizontalLine(img, 1, 1, 4, testOn)
	VerticalLine(img, 6, 2, 3, testOn)
	if v := testCount(img); v != 7 {
		t.Errorf("expected 7 pixels, got %d", v)
	}
	if img.NRGBAAt(5, 1) != testOff || img.NRGBAAt(6, 5) != testOff {
		t.Error("line drawn past its length")
	}
}

func TestRectangle(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	Rectangle(img, image.Rect(1, 2, 5, 6), testOn)
	if v := testCount(img); v != 12 {
		t.Errorf("expected 12 outline pixels, got %d", v)
	}
	for _, p := range []image.Point{{1, 2}, {4, 2}, {1, 5}, {4, 5}} {
		if img.NRGBAAt(p.X, p.Y) != testOn {
			t.Errorf("corner %s not set", p)
		}
	}
	if img.NRGBAAt(2, 3) != testOff {
		t.Error("outline filled the inside")
	}
}

func TestBox(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	Box(img, image.Rect(5, 6, 1, 2), testOn)
	if v := testCount(img); v != 16 {
		t.Errorf("expected 16 pixels, got %d", v)
	}
}

func TestScale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, testOn)
	dst := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	Scale(dst, dst.Bounds(), src, src.Bounds(), Src, NearestNeighbor, nil)
	if v := testCount(dst); v != 4 {
		t.Errorf("expected 4 scaled pixels, got %d", v)
	}
	for _, p := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		if dst.NRGBAAt(p.X, p.Y) != testOn {
			t.Errorf("pixel %s not set", p)
		}
	}
}

func TestScaleMask(t *testing.T) {
	src := image.NewUniform(testOn)
	mask := image.NewAlpha(image.Rect(0, 0, 2, 1))
	mask.SetAlpha(1, 0, color.Alpha{A: 0xff})
	dst := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	Scale(dst, dst.Bounds(), src, image.Rect(0, 0, 2, 1), Over, NearestNeighbor, mask)
	if v := testCount(dst); v != 4 {
		t.Errorf("expected 4 pixels, got %d", v)
	}
	if dst.NRGBAAt(0, 0) != testOff || dst.NRGBAAt(3, 1) != testOn {
		t.Error("mask not applied")
	}
}

func TestFilterString(t *testing.T) {
	for f, want := range map[Filter]string{
		NearestNeighbor: "nearest",
		ApproxBiLinear:  "approx-bilinear",
		BiLinear:        "bilinear",
	} {
		if v := f.String(); v != want {
			t.Errorf("expected %q, got %q", want, v)
		}
	}
}
