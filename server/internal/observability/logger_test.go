package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// capturingHandler records everything logged through it.
type capturingHandler struct {
	records []slog.Record
}

func (h *capturingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}

func (h *capturingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(string) slog.Handler { return h }

func recordAttrs(r slog.Record) map[string]slog.Value {
	attrs := map[string]slog.Value{}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	return attrs
}

func TestRequestContextCarriesBaseFields(t *testing.T) {
	handler := &capturingHandler{}
	rc := NewRequestContext(slog.New(handler), "salary_analyze", 7)

	rc.Info("served", slog.Int("comparables", 12))
	require.Len(t, handler.records, 1)

	attrs := recordAttrs(handler.records[0])
	require.NotEmpty(t, attrs[LogFieldRequestID].String())
	require.EqualValues(t, 7, attrs[LogFieldUserID].Int64())
	require.Equal(t, "salary_analyze", attrs[LogFieldOperation].String())
	require.EqualValues(t, 12, attrs["comparables"].Int64())
}

func TestRequestContextErrorAppendsError(t *testing.T) {
	handler := &capturingHandler{}
	rc := NewRequestContext(slog.New(handler), "salary_ingest", 0)

	rc.Error("rejected", context.DeadlineExceeded)
	require.Len(t, handler.records, 1)
	require.Equal(t, slog.LevelError, handler.records[0].Level)

	attrs := recordAttrs(handler.records[0])
	require.Equal(t, context.DeadlineExceeded.Error(), attrs["error"].String())
}

func TestRequestContextRoundTripsThroughContext(t *testing.T) {
	rc := NewRequestContext(slog.Default(), "coaching_insights", 3)
	ctx := WithRequestContext(context.Background(), rc)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Same(t, rc, got)

	_, ok = FromContext(context.Background())
	require.False(t, ok)
}
