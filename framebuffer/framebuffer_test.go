package framebuffer

import (
	"errors"
	"testing"

	"github.com/BeatGlow/surface/pixel"
)

func testScreenInfo(bpp uint32, r, g, b, a bitField) *varScreenInfo {
	return &varScreenInfo{
		Xres:         320,
		Yres:         240,
		BitsPerPixel: bpp,
		Red:          r,
		Green:        g,
		Blue:         b,
		Alpha:        a,
	}
}

func TestParseFormat(t *testing.T) {
	trueColor := &fixScreenInfo{Visual: visualTrueColor}
	tests := []struct {
		Name string
		Info *varScreenInfo
		Want pixel.Masks
	}{
		{"RGB565", testScreenInfo(16, bitField{Offset: 11, Length: 5}, bitField{Offset: 5, Length: 6}, bitField{Length: 5}, bitField{}), pixel.RGB565},
		{"BGR565", testScreenInfo(16, bitField{Length: 5}, bitField{Offset: 5, Length: 6}, bitField{Offset: 11, Length: 5}, bitField{}), pixel.BGR565},
		{"RGB555", testScreenInfo(16, bitField{Offset: 10, Length: 5}, bitField{Offset: 5, Length: 5}, bitField{Length: 5}, bitField{}), pixel.RGB555},
		{"RGB24", testScreenInfo(24, bitField{Offset: 16, Length: 8}, bitField{Offset: 8, Length: 8}, bitField{Length: 8}, bitField{}), pixel.RGB24},
		{"ARGB8888", testScreenInfo(32, bitField{Offset: 16, Length: 8}, bitField{Offset: 8, Length: 8}, bitField{Length: 8}, bitField{Offset: 24, Length: 8}), pixel.ARGB8888},
		{"RGB888", testScreenInfo(32, bitField{Offset: 16, Length: 8}, bitField{Offset: 8, Length: 8}, bitField{Length: 8}, bitField{}), pixel.RGB888},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			f, err := parseFormat(trueColor, test.Info)
			if err != nil {
				it.Fatal(err)
			}
			if v := f.Masks(); v != test.Want {
				it.Errorf("expected %s, got %s", test.Want, v)
			}
		})
	}
}

func TestParseFormatIndexed(t *testing.T) {
	vs := testScreenInfo(8, bitField{Length: 8}, bitField{Length: 8}, bitField{Length: 8}, bitField{})
	f, err := parseFormat(&fixScreenInfo{Visual: visualPseudoColor}, vs)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Indexed() {
		t.Errorf("expected an indexed format, got %s", f)
	}

	vs.BitsPerPixel = 16
	if _, err = parseFormat(&fixScreenInfo{Visual: visualPseudoColor}, vs); !errors.Is(err, ErrUnsupportedModel) {
		t.Errorf("expected %v, got %v", ErrUnsupportedModel, err)
	}
}

func TestParseFormatUnsupported(t *testing.T) {
	trueColor := &fixScreenInfo{Visual: visualTrueColor}
	tests := []struct {
		Name string
		Info *varScreenInfo
	}{
		{"fourcc", &varScreenInfo{BitsPerPixel: 16, Grayscale: 0x56595559}},
		{"msb right", testScreenInfo(16, bitField{Offset: 11, Length: 5, MsbRight: 1}, bitField{Offset: 5, Length: 6}, bitField{Length: 5}, bitField{})},
		{"12 bits", testScreenInfo(12, bitField{Offset: 8, Length: 4}, bitField{Offset: 4, Length: 4}, bitField{Length: 4}, bitField{})},
		{"overlap", testScreenInfo(16, bitField{Offset: 8, Length: 8}, bitField{Offset: 4, Length: 8}, bitField{Length: 4}, bitField{})},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			if _, err := parseFormat(trueColor, test.Info); !errors.Is(err, ErrUnsupportedModel) {
				it.Errorf("expected %v, got %v", ErrUnsupportedModel, err)
			}
		})
	}
}

func TestFixScreenInfoID(t *testing.T) {
	var info fixScreenInfo
	copy(info.ID[:], "vc4drmfb")
	if v := info.id(); v != "vc4drmfb" {
		t.Errorf("expected %q, got %q", "vc4drmfb", v)
	}
}
