package lookup

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/openfga/asyncseq/pkg/sequence"
)

var (
	spanRecorder    *tracetest.SpanRecorder
	installRecorder sync.Once
)

// endedSpans runs fn and returns the spans it ended. The package tracer binds to the
// first global provider installed, so a single recorder is shared by every test.
func endedSpans(t *testing.T, fn func()) []sdktrace.ReadOnlySpan {
	t.Helper()

	installRecorder.Do(func() {
		spanRecorder = tracetest.NewSpanRecorder()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder)))
	})

	before := len(spanRecorder.Ended())
	fn()
	return spanRecorder.Ended()[before:]
}

func spanAttribute(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestBuildTracing(t *testing.T) {
	t.Run("records_group_count", func(t *testing.T) {
		spans := endedSpans(t, func() {
			_, err := BuildForJoin(context.Background(), sequence.NewStaticIterator("a", "b", "a"), func(s string) string { return s })
			require.NoError(t, err)
		})
		require.Len(t, spans, 1)
		require.Equal(t, "lookup.Build", spans[0].Name())

		groups, ok := spanAttribute(spans[0], "groups")
		require.True(t, ok)
		require.Equal(t, int64(2), groups.AsInt64())

		skip, ok := spanAttribute(spans[0], "skip_nil_keys")
		require.True(t, ok)
		require.True(t, skip.AsBool())
	})

	t.Run("records_failure", func(t *testing.T) {
		boom := errors.New("boom")

		spans := endedSpans(t, func() {
			_, err := Build(context.Background(), sequence.NewErrorIterator[string](boom), func(s string) string { return s })
			require.ErrorIs(t, err, boom)
		})
		require.Len(t, spans, 1)
		require.Equal(t, codes.Error, spans[0].Status().Code)
	})
}
