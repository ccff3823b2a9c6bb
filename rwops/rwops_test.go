package rwops

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.bin")

	w, err := FromFile(path, "wb")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = w.Write([]byte("hello, surface")); err != nil {
		t.Fatal(err)
	}
	if size, err := w.Size(); err != nil || size != 14 {
		t.Errorf("expected size 14, got %d (%v)", size, err)
	}
	if err = w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := FromFile(path, "rb")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err = r.Seek(7, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "surface" {
		t.Errorf("expected %q, got %q", "surface", b)
	}
	if _, err = r.Write([]byte("x")); err == nil {
		t.Error("expected write to a read-only file to fail")
	}
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.bmp"), "rb")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected %v, got %v", os.ErrNotExist, err)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		mode string
		want int
	}{
		{"r", os.O_RDONLY},
		{"rb", os.O_RDONLY},
		{"r+b", os.O_RDWR},
		{"rb+", os.O_RDWR},
		{"w", os.O_WRONLY | os.O_CREATE | os.O_TRUNC},
		{"w+", os.O_RDWR | os.O_CREATE | os.O_TRUNC},
		{"ab", os.O_WRONLY | os.O_CREATE | os.O_APPEND},
		{"a+", os.O_RDWR | os.O_CREATE | os.O_APPEND},
	}
	for _, test := range tests {
		t.Run(test.mode, func(it *testing.T) {
			v, err := parseMode(test.mode)
			if err != nil {
				it.Fatal(err)
			}
			if v != test.want {
				it.Errorf("expected flags %#x, got %#x", test.want, v)
			}
		})
	}

	for _, mode := range []string{"", "x", "rw", "++"} {
		if _, err := parseMode(mode); !errors.Is(err, ErrInvalidMode) {
			t.Errorf("mode %q: expected %v, got %v", mode, ErrInvalidMode, err)
		}
	}
}

func TestFromBytes(t *testing.T) {
	buf := make([]byte, 4)
	rw := FromBytes(buf)
	if n, err := rw.Write([]byte{1, 2, 3}); n != 3 || err != nil {
		t.Fatalf("expected 3 bytes written, got %d (%v)", n, err)
	}
	if n, err := rw.Write([]byte{4, 5}); n != 1 || !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("expected short write of 1 byte, got %d (%v)", n, err)
	}
	if buf[3] != 4 {
		t.Errorf("expected write in place, got % x", buf)
	}

	if pos, err := rw.Seek(-2, io.SeekEnd); pos != 2 || err != nil {
		t.Errorf("expected position 2, got %d (%v)", pos, err)
	}
	b := make([]byte, 8)
	if n, _ := rw.Read(b); n != 2 || b[0] != 3 || b[1] != 4 {
		t.Errorf("expected to read 03 04, got % x", b[:n])
	}
	if _, err := rw.Read(b); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
	if _, err := rw.Seek(5, io.SeekStart); err == nil {
		t.Error("expected seek past the end to fail")
	}
	if _, err := rw.Seek(-1, io.SeekCurrent); err != nil {
		t.Error(err)
	}

	if err := rw.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := rw.Read(b); !errors.Is(err, ErrClosed) {
		t.Errorf("expected %v, got %v", ErrClosed, err)
	}
	if err := rw.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected %v, got %v", ErrClosed, err)
	}
}

func TestFromConstBytes(t *testing.T) {
	rw := FromConstBytes([]byte("abc"))
	if _, err := rw.Write([]byte("x")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected %v, got %v", ErrReadOnly, err)
	}
	b, err := io.ReadAll(rw)
	if err != nil || string(b) != "abc" {
		t.Errorf("expected %q, got %q (%v)", "abc", b, err)
	}
	if size, _ := rw.Size(); size != 3 {
		t.Errorf("expected size 3, got %d", size)
	}
}
