package concurrency

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMapOrdered(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	t.Run("results_follow_input_order", func(t *testing.T) {
		input := []int{5, 4, 3, 2, 1}
		out, err := MapOrdered(context.Background(), 3, input, func(_ context.Context, i int) (string, error) {
			time.Sleep(time.Duration(i) * time.Millisecond)
			return strconv.Itoa(i), nil
		})
		require.NoError(t, err)
		require.Equal(t, []string{"5", "4", "3", "2", "1"}, out)
	})

	t.Run("bounded_goroutines", func(t *testing.T) {
		var running, peak atomic.Int32
		input := make([]int, 20)
		_, err := MapOrdered(context.Background(), 2, input, func(_ context.Context, _ int) (int, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			return 0, nil
		})
		require.NoError(t, err)
		require.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("error_cancels_context", func(t *testing.T) {
		boom := errors.New("boom")
		var cancelled atomic.Bool
		_, err := MapOrdered(context.Background(), 1, []int{1, 2}, func(ctx context.Context, i int) (int, error) {
			if i == 1 {
				return 0, boom
			}
			cancelled.Store(ctx.Err() != nil)
			return i, nil
		})
		require.ErrorIs(t, err, boom)
		require.True(t, cancelled.Load())
	})

	t.Run("empty_input", func(t *testing.T) {
		out, err := MapOrdered(context.Background(), 4, []string(nil), func(_ context.Context, s string) (string, error) {
			return s, nil
		})
		require.NoError(t, err)
		require.Empty(t, out)
	})
}
