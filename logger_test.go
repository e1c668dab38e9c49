package framemem

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	l.WithComponent("arena").LogArenaCreated(ctx, 4096, nil)
	l.LogArenaReleased(ctx, 4096, 100, nil)
	l.LogSnapshot(ctx, "write", 10, "lz4", nil)
	l.WithWorker(3).LogWorker(ctx, 3, errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"component":"arena"`)
	assert.Contains(t, out, `"msg":"arena reserved"`)
	assert.Contains(t, out, `"peak":100`)
	assert.Contains(t, out, `"compression":"lz4"`)
	assert.Contains(t, out, `"msg":"scratch worker failed"`)
	assert.Contains(t, out, `"worker":3`)
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	l.LogArenaCreated(context.Background(), 1, errors.New("ignored"))
}
