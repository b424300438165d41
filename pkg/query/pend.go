// Package query provides query operators over asynchronous sequences, built on the
// lookup and splice primitives.
package query

import (
	"github.com/openfga/asyncseq/internal/pend"
	"github.com/openfga/asyncseq/pkg/sequence"
)

// Append returns a sequence yielding src followed by value. Appending to a sequence
// returned by Append or Prepend extends it instead of wrapping it again.
func Append[T any](src sequence.Sequence[T], value T) sequence.Sequence[T] {
	return chainOf(src).Append(value)
}

// Prepend returns a sequence yielding value followed by src. Prepending to a sequence
// returned by Append or Prepend extends it instead of wrapping it again.
func Prepend[T any](src sequence.Sequence[T], value T) sequence.Sequence[T] {
	return chainOf(src).Prepend(value)
}

func chainOf[T any](src sequence.Sequence[T]) *pend.Chain[T] {
	if c, ok := src.(*pend.Chain[T]); ok {
		return c
	}
	return pend.Of(src)
}
