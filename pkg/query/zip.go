package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/openfga/asyncseq/pkg/sequence"
)

// Pair holds one element of each zipped sequence.
type Pair[A, B any] struct {
	First  A
	Second B
}

type zipMode int

const (
	zipShortest zipMode = iota
	zipLongest
	zipEqual
)

// ZipShortest pairs up the elements of first and second and ends with the shorter one.
func ZipShortest[A, B any](first sequence.Iterator[A], second sequence.Iterator[B]) sequence.Iterator[Pair[A, B]] {
	return &zipIterator[A, B]{first: first, second: second, mode: zipShortest}
}

// ZipLongest pairs up the elements of first and second until both are exhausted, using
// the zero value in place of elements of the shorter one.
func ZipLongest[A, B any](first sequence.Iterator[A], second sequence.Iterator[B]) sequence.Iterator[Pair[A, B]] {
	return &zipIterator[A, B]{first: first, second: second, mode: zipLongest}
}

// EquiZip pairs up the elements of first and second and fails with ErrLengthMismatch
// if one ends before the other.
func EquiZip[A, B any](first sequence.Iterator[A], second sequence.Iterator[B]) sequence.Iterator[Pair[A, B]] {
	return &zipIterator[A, B]{first: first, second: second, mode: zipEqual}
}

type zipIterator[A, B any] struct {
	first  sequence.Iterator[A]
	second sequence.Iterator[B]
	mode   zipMode

	firstDone, secondDone bool
	err                   error
	stopped               bool
}

func (z *zipIterator[A, B]) Next(ctx context.Context) (Pair[A, B], error) {
	var pair Pair[A, B]
	if z.err != nil {
		return pair, z.err
	}

	var err error
	if !z.firstDone {
		pair.First, z.firstDone, err = pull(ctx, z.first)
		if err != nil {
			return pair, z.fail(err)
		}
	}

	if z.mode == zipShortest && z.firstDone {
		return pair, z.fail(sequence.ErrIteratorDone)
	}

	if !z.secondDone {
		pair.Second, z.secondDone, err = pull(ctx, z.second)
		if err != nil {
			return pair, z.fail(err)
		}
	}

	switch {
	case z.firstDone && z.secondDone:
		return pair, z.fail(sequence.ErrIteratorDone)
	case z.mode == zipShortest && z.secondDone:
		return pair, z.fail(sequence.ErrIteratorDone)
	case z.mode == zipEqual && (z.firstDone || z.secondDone):
		return pair, z.fail(fmt.Errorf("%w: first ended %t, second ended %t", ErrLengthMismatch, z.firstDone, z.secondDone))
	}

	return pair, nil
}

func (z *zipIterator[A, B]) fail(err error) error {
	z.err = err
	z.Stop()
	return err
}

func (z *zipIterator[A, B]) Stop() {
	if z.stopped {
		return
	}
	z.stopped = true
	if z.err == nil {
		z.err = sequence.ErrIteratorDone
	}
	z.first.Stop()
	z.second.Stop()
}

func pull[T any](ctx context.Context, src sequence.Iterator[T]) (T, bool, error) {
	item, err := src.Next(ctx)
	if err == nil {
		return item, false, nil
	}
	if errors.Is(err, sequence.ErrIteratorDone) {
		if ctx.Err() != nil {
			return item, false, ctx.Err()
		}
		var zero T
		return zero, true, nil
	}
	return item, false, err
}
