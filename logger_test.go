package gridloc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/gridloc/pointstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store, err := pointstore.FromPoints(2, [][]float64{{0, 0}, {1, 1}})
	require.NoError(t, err)

	loc, err := New[float64](2, WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, loc.InitPointInsertion(store, nil))

	_, err = loc.FindClosestPoint([]float64{0.4, 0.4})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var build map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &build))
	assert.Equal(t, "locator initialized", build["msg"])
	assert.Equal(t, "batch", build["mode"])
	assert.Equal(t, float64(2), build["dimension"])
	assert.Equal(t, float64(2), build["points"])

	var search map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &search))
	assert.Equal(t, "search completed", search["msg"])
	assert.Equal(t, "closest", search["op"])
	assert.Equal(t, float64(1), search["found"])
}

func TestLoggerErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	loc, err := New[float64](2, WithLogger(logger))
	require.NoError(t, err)

	err = loc.InitPointInsertion(pointstore.New[float64](2), nil)
	require.Error(t, err)

	assert.Contains(t, buf.String(), "locator init failed")
	assert.Contains(t, buf.String(), "mode=batch")
}

func TestNoopLogger(t *testing.T) {
	logger := NoopLogger()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}

type traceKey struct{}

// traceHandler records the trace value carried by the context of every record.
type traceHandler struct {
	mu     sync.Mutex
	traces map[string][]any
}

func (h *traceHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.traces[r.Message] = append(h.traces[r.Message], ctx.Value(traceKey{}))
	return nil
}

func (h *traceHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *traceHandler) WithGroup(string) slog.Handler      { return h }

func TestLoggerContext(t *testing.T) {
	h := &traceHandler{traces: make(map[string][]any)}
	logger := NewLogger(h)
	ctx := context.WithValue(context.Background(), traceKey{}, "req-1")

	logger.LogBuild(ctx, "batch", []int{2}, 3, time.Millisecond, nil)
	logger.LogBuild(ctx, "batch", nil, 0, 0, errors.New("boom"))
	logger.LogInsert(ctx, 1, true, nil)
	logger.LogInsert(ctx, 1, false, errors.New("boom"))
	logger.LogSearch(ctx, "closest", 1, 1, nil)
	logger.LogSearch(ctx, "closest", 0, 0, errors.New("boom"))
	logger.LogBatchSearch(ctx, 2, nil)

	for _, msg := range []string{
		"locator initialized", "locator init failed",
		"insert completed", "insert failed",
		"search completed", "search failed",
		"batch search completed",
	} {
		assert.Equal(t, []any{"req-1"}, h.traces[msg], msg)
	}

	t.Run("BatchQueriesCarryCallerContext", func(t *testing.T) {
		h := &traceHandler{traces: make(map[string][]any)}
		store, err := pointstore.FromPoints(2, [][]float64{{0, 0}, {1, 1}})
		require.NoError(t, err)
		loc, err := New[float64](2, WithLogger(NewLogger(h)))
		require.NoError(t, err)
		require.NoError(t, loc.InitPointInsertion(store, nil))

		_, err = loc.FindClosestPoints(ctx, [][]float64{{0.1, 0.1}, {0.9, 0.9}, {0.5, 0.4}})
		require.NoError(t, err)

		assert.Equal(t, []any{"req-1", "req-1", "req-1"}, h.traces["search completed"])
		assert.Equal(t, []any{"req-1"}, h.traces["batch search completed"])
	})
}
