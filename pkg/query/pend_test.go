package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfga/asyncseq/internal/pend"
	"github.com/openfga/asyncseq/pkg/sequence"
)

func TestAppendPrepend(t *testing.T) {
	base := sequence.FromSlice([]string{"b0", "b1"})

	seq := Append(Append(Prepend(base, "p1"), "a1"), "a2")
	items, err := sequence.Collect(context.Background(), seq.Iterator())
	require.NoError(t, err)
	require.Equal(t, []string{"p1", "b0", "b1", "a1", "a2"}, items)

	t.Run("chained_operations_extend_one_chain", func(t *testing.T) {
		c, ok := seq.(*pend.Chain[string])
		require.True(t, ok)
		require.Equal(t, 3, c.Len())
	})

	t.Run("source_is_not_modified", func(t *testing.T) {
		first := Prepend(base, "x")
		_ = Append(first, "y")

		items, err := sequence.Collect(context.Background(), first.Iterator())
		require.NoError(t, err)
		require.Equal(t, []string{"x", "b0", "b1"}, items)
	})
}
