package query

import (
	"context"
	"errors"

	"github.com/openfga/asyncseq/pkg/lookup"
	"github.com/openfga/asyncseq/pkg/sequence"
)

// ToLookup drains src into a lookup keyed by keyFn.
func ToLookup[K comparable, T any](ctx context.Context, src sequence.Iterator[T], keyFn func(T) K, opts ...lookup.BuildOption) (*lookup.Lookup[K, T], error) {
	return lookup.Build(ctx, src, keyFn, opts...)
}

// GroupBy returns an iterator over the groups of src in the order their keys first
// appear. Nothing is read from src until the first call to Next.
func GroupBy[K comparable, T any](src sequence.Iterator[T], keyFn func(T) K, opts ...lookup.BuildOption) sequence.Iterator[*lookup.Grouping[K, T]] {
	return &groupByIterator[K, T]{src: src, keyFn: keyFn, opts: opts}
}

type groupByIterator[K comparable, T any] struct {
	src   sequence.Iterator[T]
	keyFn func(T) K
	opts  []lookup.BuildOption

	groups sequence.Iterator[*lookup.Grouping[K, T]]
}

func (g *groupByIterator[K, T]) Next(ctx context.Context) (*lookup.Grouping[K, T], error) {
	if g.groups == nil {
		l, err := lookup.Build(ctx, g.src, g.keyFn, g.opts...)
		if err != nil {
			g.groups = sequence.NewErrorIterator[*lookup.Grouping[K, T]](err)
			return nil, err
		}
		g.groups = l.Groupings().Iterator()
	}
	return g.groups.Next(ctx)
}

func (g *groupByIterator[K, T]) Stop() {
	if g.groups == nil {
		g.src.Stop()
		g.groups = sequence.NewErrorIterator[*lookup.Grouping[K, T]](sequence.ErrIteratorDone)
		return
	}
	g.groups.Stop()
}

// GroupJoin correlates every element of outer with the group of inner elements sharing
// its key and yields resultFn of the pair. inner is fully read on the first call to
// Next; elements of either side with a nil key never match.
func GroupJoin[K comparable, O, I, R any](
	outer sequence.Iterator[O],
	inner sequence.Iterator[I],
	outerKey func(O) K,
	innerKey func(I) K,
	resultFn func(O, *lookup.Grouping[K, I]) R,
	opts ...lookup.BuildOption,
) sequence.Iterator[R] {
	return &groupJoinIterator[K, O, I, R]{
		joiner:   joiner[K, O, I]{outer: outer, inner: inner, outerKey: outerKey, innerKey: innerKey, opts: opts},
		resultFn: resultFn,
	}
}

// Join yields resultFn for every pair of outer and inner elements with equal keys,
// in outer order and then inner order. Elements with a nil key never match.
func Join[K comparable, O, I, R any](
	outer sequence.Iterator[O],
	inner sequence.Iterator[I],
	outerKey func(O) K,
	innerKey func(I) K,
	resultFn func(O, I) R,
	opts ...lookup.BuildOption,
) sequence.Iterator[R] {
	return &joinIterator[K, O, I, R]{
		joiner:   joiner[K, O, I]{outer: outer, inner: inner, outerKey: outerKey, innerKey: innerKey, opts: opts},
		resultFn: resultFn,
	}
}

// joiner holds the state shared by GroupJoin and Join: the outer iterator and the
// lookup of the inner side, built lazily.
type joiner[K comparable, O, I any] struct {
	outer    sequence.Iterator[O]
	inner    sequence.Iterator[I]
	outerKey func(O) K
	innerKey func(I) K
	opts     []lookup.BuildOption

	lookup *lookup.Lookup[K, I]
	err    error
}

func (j *joiner[K, O, I]) next(ctx context.Context) (O, *lookup.Grouping[K, I], error) {
	var zero O
	if j.err != nil {
		return zero, nil, j.err
	}

	if j.lookup == nil {
		l, err := lookup.BuildForJoin(ctx, j.inner, j.innerKey, j.opts...)
		if err != nil {
			j.err = err
			return zero, nil, err
		}
		j.lookup = l
	}

	item, err := j.outer.Next(ctx)
	if err != nil {
		if !errors.Is(err, sequence.ErrIteratorDone) {
			j.err = err
		}
		return zero, nil, err
	}
	return item, j.lookup.Get(j.outerKey(item)), nil
}

func (j *joiner[K, O, I]) stop() {
	if j.lookup == nil && j.err == nil {
		j.inner.Stop()
	}
	j.outer.Stop()
	if j.err == nil {
		j.err = sequence.ErrIteratorDone
	}
}

type groupJoinIterator[K comparable, O, I, R any] struct {
	joiner   joiner[K, O, I]
	resultFn func(O, *lookup.Grouping[K, I]) R
}

func (g *groupJoinIterator[K, O, I, R]) Next(ctx context.Context) (R, error) {
	var zero R
	item, group, err := g.joiner.next(ctx)
	if err != nil {
		return zero, err
	}
	return g.resultFn(item, group), nil
}

func (g *groupJoinIterator[K, O, I, R]) Stop() {
	g.joiner.stop()
}

type joinIterator[K comparable, O, I, R any] struct {
	joiner   joiner[K, O, I]
	resultFn func(O, I) R

	current O
	group   *lookup.Grouping[K, I]
	pos     int
}

func (j *joinIterator[K, O, I, R]) Next(ctx context.Context) (R, error) {
	var zero R
	for j.group == nil || j.pos >= j.group.Len() {
		item, group, err := j.joiner.next(ctx)
		if err != nil {
			return zero, err
		}
		j.current, j.group, j.pos = item, group, 0
	}

	inner := j.group.At(j.pos)
	j.pos++
	return j.resultFn(j.current, inner), nil
}

func (j *joinIterator[K, O, I, R]) Stop() {
	j.joiner.stop()
}
