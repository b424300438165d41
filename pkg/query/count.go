package query

import (
	"context"
	"errors"
	"math"

	"github.com/openfga/asyncseq/pkg/sequence"
)

// countUpTo counts the elements of src, giving up once limit is reached. src is stopped.
func countUpTo[T any](ctx context.Context, src sequence.Iterator[T], limit int) (int, error) {
	defer src.Stop()

	var count int
	for count < limit {
		if _, err := src.Next(ctx); err != nil {
			if errors.Is(err, sequence.ErrIteratorDone) {
				if ctx.Err() != nil {
					return count, ctx.Err()
				}
				break
			}
			return count, err
		}
		count++
	}
	return count, nil
}

func oneMore(n int) int {
	if n == math.MaxInt {
		return n
	}
	return n + 1
}

// AtLeast reports whether src has at least count elements.
func AtLeast[T any](ctx context.Context, src sequence.Iterator[T], count int) (bool, error) {
	if count < 0 {
		src.Stop()
		return false, ErrNegativeCount
	}
	n, err := countUpTo(ctx, src, count)
	if err != nil {
		return false, err
	}
	return n >= count, nil
}

// AtMost reports whether src has at most count elements.
func AtMost[T any](ctx context.Context, src sequence.Iterator[T], count int) (bool, error) {
	if count < 0 {
		src.Stop()
		return false, ErrNegativeCount
	}
	n, err := countUpTo(ctx, src, oneMore(count))
	if err != nil {
		return false, err
	}
	return n <= count, nil
}

// Exactly reports whether src has exactly count elements.
func Exactly[T any](ctx context.Context, src sequence.Iterator[T], count int) (bool, error) {
	if count < 0 {
		src.Stop()
		return false, ErrNegativeCount
	}
	n, err := countUpTo(ctx, src, oneMore(count))
	if err != nil {
		return false, err
	}
	return n == count, nil
}

// CountBetween reports whether the number of elements of src lies in [minCount, maxCount].
func CountBetween[T any](ctx context.Context, src sequence.Iterator[T], minCount, maxCount int) (bool, error) {
	if minCount < 0 || maxCount < 0 {
		src.Stop()
		return false, ErrNegativeCount
	}
	if minCount > maxCount {
		src.Stop()
		return false, ErrInvalidRange
	}
	n, err := countUpTo(ctx, src, oneMore(maxCount))
	if err != nil {
		return false, err
	}
	return n >= minCount && n <= maxCount, nil
}

// CompareCount returns -1, 0 or 1 depending on whether first has fewer, as many or more
// elements than second. Both iterators are advanced together and stopped as soon as the
// shorter one ends.
func CompareCount[A, B any](ctx context.Context, first sequence.Iterator[A], second sequence.Iterator[B]) (int, error) {
	defer first.Stop()
	defer second.Stop()

	for {
		firstDone, err := advance(ctx, first)
		if err != nil {
			return 0, err
		}
		secondDone, err := advance(ctx, second)
		if err != nil {
			return 0, err
		}

		switch {
		case firstDone && secondDone:
			return 0, nil
		case firstDone:
			return -1, nil
		case secondDone:
			return 1, nil
		}
	}
}

func advance[T any](ctx context.Context, src sequence.Iterator[T]) (bool, error) {
	_, err := src.Next(ctx)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, sequence.ErrIteratorDone) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, nil
	}
	return false, err
}
