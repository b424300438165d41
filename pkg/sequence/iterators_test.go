package sequence

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestStaticIterator(t *testing.T) {
	t.Run("yields_items_in_order_then_done", func(t *testing.T) {
		iter := NewStaticIterator("a", "b")
		ctx := context.Background()

		v, err := iter.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, "a", v)

		v, err = iter.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, "b", v)

		_, err = iter.Next(ctx)
		require.ErrorIs(t, err, ErrIteratorDone)
	})

	t.Run("honours_cancelled_context", func(t *testing.T) {
		iter := NewStaticIterator(1, 2, 3)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := iter.Next(ctx)
		require.ErrorIs(t, err, context.Canceled)
		require.True(t, IterIsDoneOrCancelled(err))
	})

	t.Run("stop_ends_iteration", func(t *testing.T) {
		iter := NewStaticIterator(1, 2, 3)
		iter.Stop()

		_, err := iter.Next(context.Background())
		require.ErrorIs(t, err, ErrIteratorDone)
	})
}

func TestFromSlice(t *testing.T) {
	seq := FromSlice([]int{1, 2, 3})

	for range 2 {
		items, err := Collect(context.Background(), seq.Iterator())
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3}, items)
	}
}

func TestOnce(t *testing.T) {
	seq := Once(NewStaticIterator(1, 2))

	items, err := Collect(context.Background(), seq.Iterator())
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, items)

	_, err = Collect(context.Background(), seq.Iterator())
	require.ErrorIs(t, err, ErrAlreadyIterated)
}

func TestFromSeq(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	t.Run("drains_seq", func(t *testing.T) {
		items, err := Collect(context.Background(), FromSeq(slices.Values([]string{"x", "y"})))
		require.NoError(t, err)
		require.Equal(t, []string{"x", "y"}, items)
	})

	t.Run("stop_before_exhaustion", func(t *testing.T) {
		iter := FromSeq(slices.Values([]string{"x", "y"}))
		v, err := iter.Next(context.Background())
		require.NoError(t, err)
		require.Equal(t, "x", v)
		iter.Stop()
	})
}

func TestCollect(t *testing.T) {
	t.Run("propagates_errors", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Collect(context.Background(), NewErrorIterator[int](boom))
		require.ErrorIs(t, err, boom)
	})

	t.Run("reports_cancellation_masked_as_done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Collect(ctx, SequenceFunc[int](func() Iterator[int] {
			return &errorIterator[int]{err: ErrIteratorDone}
		}).Iterator())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestAll(t *testing.T) {
	t.Run("ranges_over_values", func(t *testing.T) {
		var got []int
		for v, err := range All(context.Background(), NewStaticIterator(1, 2, 3)) {
			require.NoError(t, err)
			got = append(got, v)
		}
		require.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("yields_error_last", func(t *testing.T) {
		boom := errors.New("boom")
		var errs []error
		for _, err := range All(context.Background(), NewErrorIterator[int](boom)) {
			errs = append(errs, err)
		}
		require.Len(t, errs, 1)
		require.ErrorIs(t, errs[0], boom)
	})
}
