// Package pend represents a base sequence with values prepended and appended to it
// without touching the base until the combined sequence is consumed.
package pend

import (
	"github.com/openfga/asyncseq/pkg/sequence"
)

// Chain is an immutable node in a list built backwards from the most recent operation.
// A chain always ends in exactly one base node wrapping the original sequence; every
// other node carries one prepended or appended value. Prepend and Append return new
// heads and never modify the receiver, so one chain can be extended from several
// places at once.
type Chain[T any] struct {
	base sequence.Sequence[T]

	value   T
	prepend bool
	next    *Chain[T]

	// appends counts the append nodes reachable from this node, itself included.
	appends int
	// spliced counts every prepend and append node reachable from this node.
	spliced int
}

var _ sequence.Sequence[int] = (*Chain[int])(nil)

// Of returns a chain wrapping base with nothing spliced around it.
func Of[T any](base sequence.Sequence[T]) *Chain[T] {
	return &Chain[T]{base: base}
}

// Prepend returns a chain that yields value before everything c yields.
func (c *Chain[T]) Prepend(value T) *Chain[T] {
	return &Chain[T]{
		value:   value,
		prepend: true,
		next:    c,
		appends: c.appends,
		spliced: c.spliced + 1,
	}
}

// Append returns a chain that yields everything c yields followed by value.
func (c *Chain[T]) Append(value T) *Chain[T] {
	return &Chain[T]{
		value:   value,
		next:    c,
		appends: c.appends + 1,
		spliced: c.spliced + 1,
	}
}

// Len returns the number of values prepended and appended to the base sequence.
func (c *Chain[T]) Len() int {
	return c.spliced
}

func (c *Chain[T]) isBase() bool {
	return c.next == nil
}

// Iterator flattens the chain. Nothing is read from the base sequence before the
// prepended values have been consumed.
func (c *Chain[T]) Iterator() sequence.Iterator[T] {
	return newFlattener(c)
}
