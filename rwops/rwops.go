// Package rwops provides seekable byte streams over files and memory.
package rwops

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Errors
var (
	ErrInvalidMode = errors.New("rwops: invalid file mode")
	ErrReadOnly    = errors.New("rwops: stream is read-only")
	ErrClosed      = errors.New("rwops: stream is closed")
)

// RWops is a seekable read/write stream.
type RWops interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Size returns the total size of the stream in bytes.
	Size() (int64, error)
}

// FromFile opens the file at path. The mode has the form accepted by C's
// fopen: "r", "w" or "a", optionally followed by "+" and/or "b".
func FromFile(path, mode string) (RWops, error) {
	flag, err := parseMode(mode)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &fileRW{File: f}, nil
}

func parseMode(mode string) (int, error) {
	m := strings.ReplaceAll(mode, "b", "")
	switch m {
	case "r":
		return os.O_RDONLY, nil
	case "r+":
		return os.O_RDWR, nil
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	case "a+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, nil
	}
	return 0, errors.Wrapf(ErrInvalidMode, "%q", mode)
}

type fileRW struct {
	*os.File
}

func (f *fileRW) Size() (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return -1, err
	}
	return fi.Size(), nil
}

// FromBytes returns a stream over b. Writes overwrite b in place and cannot
// grow it.
func FromBytes(b []byte) RWops {
	return &memRW{buf: b}
}

// FromConstBytes returns a read-only stream over b.
func FromConstBytes(b []byte) RWops {
	return &memRW{buf: b, readOnly: true}
}

type memRW struct {
	buf      []byte
	pos      int64
	readOnly bool
	closed   bool
}

func (m *memRW) Read(p []byte) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memRW) Write(p []byte) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if m.readOnly {
		return 0, ErrReadOnly
	}
	var n int
	if m.pos < int64(len(m.buf)) {
		n = copy(m.buf[m.pos:], p)
	}
	m.pos += int64(n)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

func (m *memRW) Seek(offset int64, whence int) (int64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = m.pos + offset
	case io.SeekEnd:
		pos = int64(len(m.buf)) + offset
	default:
		return 0, errors.Errorf("rwops: invalid whence %d", whence)
	}
	if pos < 0 || pos > int64(len(m.buf)) {
		return 0, errors.Errorf("rwops: seek to %d outside of %d bytes", pos, len(m.buf))
	}
	m.pos = pos
	return pos, nil
}

func (m *memRW) Close() error {
	if m.closed {
		return ErrClosed
	}
	m.closed = true
	return nil
}

func (m *memRW) Size() (int64, error) {
	return int64(len(m.buf)), nil
}
