// Package sequence defines the asynchronous pull-sequence abstraction consumed by
// the query operators, along with a handful of constructors and consumers for it.
package sequence

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"
)

var (
	// ErrIteratorDone is returned by Next once an iterator has no more items.
	ErrIteratorDone = errors.New("iterator done")

	// ErrAlreadyIterated is returned when a sequence that can only be iterated once is iterated again.
	ErrAlreadyIterated = errors.New("sequence can only be iterated once")
)

// Iterator is a single-pass, cancellable pull sequence. It is closed by explicitly calling
// Stop() or by calling Next() until it returns an ErrIteratorDone error.
type Iterator[T any] interface {
	// Next will return the next available item. If the context is cancelled the context error
	// (or ErrIteratorDone) is returned.
	Next(ctx context.Context) (T, error)
	// Stop terminates iteration over the underlying iterator.
	Stop()
}

// Sequence is something that can be iterated. Every call to Iterator starts a new pass
// over the values, subject to the restart semantics of the implementation.
type Sequence[T any] interface {
	Iterator() Iterator[T]
}

// SequenceFunc adapts a function to the Sequence interface.
type SequenceFunc[T any] func() Iterator[T]

func (f SequenceFunc[T]) Iterator() Iterator[T] {
	return f()
}

// IterIsDoneOrCancelled reports whether err signals the natural end of an iterator
// or the cancellation of the context driving it.
func IterIsDoneOrCancelled(err error) bool {
	return errors.Is(err, ErrIteratorDone) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type staticIterator[T any] struct {
	items []T
}

var _ Iterator[any] = (*staticIterator[any])(nil)

// NewStaticIterator returns an Iterator that iterates over the provided items.
func NewStaticIterator[T any](items ...T) Iterator[T] {
	return &staticIterator[T]{items: items}
}

func (s *staticIterator[T]) Next(ctx context.Context) (T, error) {
	var val T
	if ctx.Err() != nil {
		return val, ctx.Err()
	}

	if len(s.items) == 0 {
		return val, ErrIteratorDone
	}

	next, rest := s.items[0], s.items[1:]
	s.items = rest

	return next, nil
}

func (s *staticIterator[T]) Stop() {
	s.items = nil
}

type sliceSequence[T any] struct {
	items []T
}

// FromSlice returns a Sequence over items that can be iterated any number of times.
func FromSlice[T any](items []T) Sequence[T] {
	return sliceSequence[T]{items: items}
}

func (s sliceSequence[T]) Iterator() Iterator[T] {
	return NewStaticIterator(s.items...)
}

type onceSequence[T any] struct {
	iter Iterator[T]
	used atomic.Bool
}

// Once wraps an existing iterator as a Sequence that refuses to be iterated a second time.
// The second and later calls to Iterator return an iterator failing with ErrAlreadyIterated.
func Once[T any](it Iterator[T]) Sequence[T] {
	return &onceSequence[T]{iter: it}
}

func (o *onceSequence[T]) Iterator() Iterator[T] {
	if o.used.Swap(true) {
		return NewErrorIterator[T](ErrAlreadyIterated)
	}
	return o.iter
}

type errorIterator[T any] struct {
	err error
}

// NewErrorIterator returns an iterator whose every Next call fails with err.
func NewErrorIterator[T any](err error) Iterator[T] {
	return &errorIterator[T]{err: err}
}

func (e *errorIterator[T]) Next(_ context.Context) (T, error) {
	var t T
	return t, e.err
}

func (e *errorIterator[T]) Stop() {}

// seqIterator pulls values out of an iter.Seq.
type seqIterator[T any] struct {
	// next is the function returned by iter.Pull that provides the next available
	// element from the iter.Seq.
	next func() (T, bool)

	// stop is the function returned by iter.Pull that signals that the iter.Seq will
	// no longer be iterated.
	stop func()
}

// FromSeq returns an Iterator that pulls its values from seq. The caller must call
// Stop or drain the iterator to release the resources held by iter.Pull.
func FromSeq[T any](seq iter.Seq[T]) Iterator[T] {
	next, stop := iter.Pull(seq)
	return &seqIterator[T]{
		next: next,
		stop: stop,
	}
}

func (s *seqIterator[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if ctx.Err() != nil {
		return zero, ctx.Err()
	}

	value, ok := s.next()
	if !ok {
		s.stop()
		return zero, ErrIteratorDone
	}
	return value, nil
}

func (s *seqIterator[T]) Stop() {
	s.stop()
}

// Collect drains it into a slice and stops it. Any error other than ErrIteratorDone
// is returned along with the values read so far.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	defer it.Stop()

	var items []T
	for {
		item, err := it.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrIteratorDone) {
				if ctx.Err() != nil {
					return items, ctx.Err()
				}
				return items, nil
			}
			return items, err
		}
		items = append(items, item)
	}
}

// All adapts it to a range-over-func sequence. Iteration ends at ErrIteratorDone; any
// other error is yielded once as the final pair. The iterator is stopped when the loop ends.
func All[T any](ctx context.Context, it Iterator[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer it.Stop()
		for {
			item, err := it.Next(ctx)
			if err != nil {
				if !errors.Is(err, ErrIteratorDone) {
					yield(item, err)
				}
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}
