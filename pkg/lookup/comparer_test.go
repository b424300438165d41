package lookup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFoldComparer(t *testing.T) {
	c := FoldComparer()

	for _, tc := range []struct {
		name string
		a, b string
	}{
		{name: "ascii", a: "Hello", b: "hELLO"},
		{name: "long_s", a: "ſ", b: "S"},
		{name: "kelvin_sign", a: "K", b: "k"},
		{name: "greek_sigma", a: "Σ", b: "ς"},
		{name: "empty", a: "", b: ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.True(t, c.Equal(tc.a, tc.b))
			require.Equal(t, c.Hash(tc.a), c.Hash(tc.b))
		})
	}

	require.False(t, c.Equal("a", "b"))
	require.NotEqual(t, c.Hash("a"), c.Hash("b"))
}

func TestStringComparer(t *testing.T) {
	c := StringComparer()
	require.True(t, c.Equal("a", "a"))
	require.False(t, c.Equal("a", "A"))
	require.Equal(t, c.Hash("abc"), c.Hash("abc"))
}

func TestDefaultComparer(t *testing.T) {
	type point struct{ x, y int }
	c := DefaultComparer[point]()
	require.True(t, c.Equal(point{1, 2}, point{1, 2}))
	require.False(t, c.Equal(point{1, 2}, point{2, 1}))
	require.Equal(t, c.Hash(point{1, 2}), c.Hash(point{1, 2}))
}
