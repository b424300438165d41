package lookup

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/openfga/asyncseq/pkg/sequence"
)

// Grouping is a read-only view of one key and the elements grouped under it,
// in the order they appeared in the source.
type Grouping[K, T any] struct {
	key      K
	elements []T
}

var _ sequence.Sequence[int] = (*Grouping[string, int])(nil)

func (g *Grouping[K, T]) Key() K {
	return g.key
}

func (g *Grouping[K, T]) Len() int {
	return len(g.elements)
}

// At returns the i-th element of the group. It panics if i is outside [0, Len()).
func (g *Grouping[K, T]) At(i int) T {
	if i < 0 || i >= len(g.elements) {
		panic(fmt.Sprintf("lookup: index %d out of range for grouping of length %d", i, len(g.elements)))
	}
	return g.elements[i]
}

func (g *Grouping[K, T]) Values() iter.Seq[T] {
	return slices.Values(g.elements)
}

// Slice returns a copy of the elements. Modifying it does not affect the lookup.
func (g *Grouping[K, T]) Slice() []T {
	return slices.Clone(g.elements)
}

func (g *Grouping[K, T]) Iterator() sequence.Iterator[T] {
	return sequence.NewStaticIterator(g.elements...)
}

// Lookup maps keys to groupings. It is built once and never modified afterwards, so
// it can be read from any number of goroutines.
type Lookup[K, T any] struct {
	table *table[K, T]
}

// Count returns the number of distinct keys.
func (l *Lookup[K, T]) Count() int {
	return l.table.len()
}

func (l *Lookup[K, T]) Contains(key K) bool {
	return l.table.find(key) != noGroup
}

// Get returns the grouping for key. An empty grouping is returned when the key is absent;
// the lookup itself is never changed.
func (l *Lookup[K, T]) Get(key K) *Grouping[K, T] {
	idx := l.table.find(key)
	if idx == noGroup {
		return &Grouping[K, T]{key: key}
	}
	return l.grouping(idx)
}

func (l *Lookup[K, T]) grouping(idx int) *Grouping[K, T] {
	g := &l.table.groups[idx]
	return &Grouping[K, T]{key: g.key, elements: g.elements}
}

// All yields every key with its grouping in the order the keys were first seen.
func (l *Lookup[K, T]) All() iter.Seq2[K, *Grouping[K, T]] {
	return func(yield func(K, *Grouping[K, T]) bool) {
		for idx := l.table.first(); idx != noGroup; idx = l.table.next(idx) {
			g := l.grouping(idx)
			if !yield(g.key, g) {
				return
			}
		}
	}
}

// Groupings returns the groupings as a restartable Sequence in first-seen key order.
func (l *Lookup[K, T]) Groupings() sequence.Sequence[*Grouping[K, T]] {
	return sequence.SequenceFunc[*Grouping[K, T]](func() sequence.Iterator[*Grouping[K, T]] {
		return &groupingIterator[K, T]{lookup: l, idx: l.table.first()}
	})
}

type groupingIterator[K, T any] struct {
	lookup *Lookup[K, T]
	idx    int
}

func (g *groupingIterator[K, T]) Next(ctx context.Context) (*Grouping[K, T], error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if g.idx == noGroup {
		return nil, sequence.ErrIteratorDone
	}

	grouping := g.lookup.grouping(g.idx)
	g.idx = g.lookup.table.next(g.idx)
	return grouping, nil
}

func (g *groupingIterator[K, T]) Stop() {
	g.idx = noGroup
}
