package query

import (
	"cmp"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfga/asyncseq/pkg/sequence"
)

func TestRank(t *testing.T) {
	ranks, err := sequence.Collect(context.Background(), Rank(sequence.NewStaticIterator(10, 30, 20, 30, 10)))
	require.NoError(t, err)
	require.Equal(t, []int{3, 1, 2, 1, 3}, ranks)
}

func TestRankBy(t *testing.T) {
	t.Run("custom_key_and_comparer", func(t *testing.T) {
		src := sequence.NewStaticIterator("bb", "A", "ccc", "a", "BB")
		it := RankBy(src, strings.ToLower, func(a, b string) int {
			return cmp.Compare(len(a), len(b))
		})

		ranks, err := sequence.Collect(context.Background(), it)
		require.NoError(t, err)
		require.Equal(t, []int{2, 3, 1, 3, 2}, ranks)
	})

	t.Run("empty", func(t *testing.T) {
		ranks, err := sequence.Collect(context.Background(), Rank(sequence.NewStaticIterator[string]()))
		require.NoError(t, err)
		require.Empty(t, ranks)
	})

	t.Run("source_error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := sequence.Collect(context.Background(), Rank(sequence.NewErrorIterator[int](boom)))
		require.ErrorIs(t, err, boom)
	})
}
