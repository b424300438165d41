package query

import (
	"cmp"
	"context"

	"github.com/emirpasic/gods/trees/redblacktree"
	"golang.org/x/exp/constraints"

	"github.com/openfga/asyncseq/pkg/sequence"
)

// Rank is RankBy over the elements themselves in their natural order.
func Rank[T constraints.Ordered](src sequence.Iterator[T]) sequence.Iterator[int] {
	return RankBy(src, func(v T) T { return v }, cmp.Compare[T])
}

// RankBy yields, in source order, the dense rank of every element of src by key. Ranks
// are assigned in descending key order: the greatest key ranks 1 and equal keys share a
// rank. src is fully read on the first call to Next.
func RankBy[T, K any](src sequence.Iterator[T], keyFn func(T) K, compare func(a, b K) int) sequence.Iterator[int] {
	return &rankIterator[T, K]{src: src, keyFn: keyFn, compare: compare}
}

type rankIterator[T, K any] struct {
	src     sequence.Iterator[T]
	keyFn   func(T) K
	compare func(a, b K) int

	ranks *rankTree[K]
	keys  []K
	pos   int
	err   error
}

func (r *rankIterator[T, K]) Next(ctx context.Context) (int, error) {
	if r.err != nil {
		return 0, r.err
	}

	if r.ranks == nil {
		items, err := sequence.Collect(ctx, r.src)
		if err != nil {
			r.err = err
			return 0, err
		}

		r.ranks = newRankTree(r.compare)
		r.keys = make([]K, 0, len(items))
		for _, item := range items {
			key := r.keyFn(item)
			r.keys = append(r.keys, key)
			r.ranks.add(key)
		}
		r.ranks.assign()
	}

	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	if r.pos >= len(r.keys) {
		return 0, sequence.ErrIteratorDone
	}

	key := r.keys[r.pos]
	r.pos++
	return r.ranks.rank(key), nil
}

func (r *rankIterator[T, K]) Stop() {
	if r.ranks == nil && r.err == nil {
		r.src.Stop()
	}
	r.err = sequence.ErrIteratorDone
}

// rankTree maps distinct keys to their dense descending rank.
type rankTree[K any] struct {
	inner *redblacktree.Tree
}

func newRankTree[K any](compare func(a, b K) int) *rankTree[K] {
	return &rankTree[K]{
		inner: redblacktree.NewWith(func(a, b interface{}) int {
			return compare(a.(K), b.(K))
		}),
	}
}

func (r *rankTree[K]) add(key K) {
	r.inner.Put(key, 0)
}

// assign numbers the distinct keys from the greatest down, starting at 1.
func (r *rankTree[K]) assign() {
	rank := 0
	it := r.inner.Iterator()
	for it.End(); it.Prev(); {
		rank++
		r.inner.Put(it.Key(), rank)
	}
}

func (r *rankTree[K]) rank(key K) int {
	v, _ := r.inner.Get(key)
	return v.(int)
}
