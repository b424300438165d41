package concurrency

import (
	"context"

	"github.com/sourcegraph/conc/iter"
)

// MapOrdered applies fn to every item of input using at most maxGoroutines goroutines
// and returns the results in input order. The context passed to fn is cancelled as soon
// as any call fails; all errors are joined in the returned error.
func MapOrdered[T, R any](ctx context.Context, maxGoroutines int, input []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mapper := iter.Mapper[T, R]{MaxGoroutines: maxGoroutines}
	return mapper.MapErr(input, func(item *T) (R, error) {
		res, err := fn(ctx, *item)
		if err != nil {
			cancel()
		}
		return res, err
	})
}
