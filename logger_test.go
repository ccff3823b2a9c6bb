package surface

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/surface/pixel"
)

// syncBuffer is a log sink that finalizer goroutines may write to.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func TestLogger(t *testing.T) {
	prev := Logger()
	defer SetLogger(prev)

	var buf syncBuffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	s := testNew(t, 2, 2, pixel.RGB888)
	assert.Contains(t, buf.String(), "surface: created")

	require.NoError(t, s.Lock())
	assert.False(t, s.Blit(s.Borrow(), nil, nil))
	s.Unlock()
	assert.Contains(t, buf.String(), "op=blit")

	buf.Reset()
	SetLogger(nil)
	assert.False(t, s.SetClipRect(&image.Rectangle{Min: image.Pt(10, 10), Max: image.Pt(20, 20)}))
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
	assert.Empty(t, buf.String())
}
