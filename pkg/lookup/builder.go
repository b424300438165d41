// Package lookup groups the elements of a sequence by key in a single pass,
// remembering the order in which keys were first seen.
package lookup

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/openfga/asyncseq/pkg/logger"
	"github.com/openfga/asyncseq/pkg/sequence"
)

const (
	outcomeSuccess   = "success"
	outcomeCancelled = "cancelled"
	outcomeError     = "error"
)

// ErrComparerType is returned when the comparer passed with WithComparer does not
// compare the key type of the lookup being built.
var ErrComparerType = errors.New("comparer does not match the lookup key type")

type buildOptions struct {
	comparer any
	logger   logger.Logger
}

type BuildOption func(*buildOptions)

// WithComparer sets the comparer deciding which keys share a group. The default
// compares keys with ==.
func WithComparer[K any](comparer Comparer[K]) BuildOption {
	return func(o *buildOptions) {
		o.comparer = comparer
	}
}

func WithLogger(l logger.Logger) BuildOption {
	return func(o *buildOptions) {
		o.logger = l
	}
}

func async[T, K any](keyFn func(T) K) func(context.Context, T) (K, error) {
	return func(_ context.Context, item T) (K, error) {
		return keyFn(item), nil
	}
}

// Build consumes src once and groups its elements by keyFn. A nil key forms a group
// of its own. src is always stopped.
func Build[K comparable, T any](ctx context.Context, src sequence.Iterator[T], keyFn func(T) K, opts ...BuildOption) (*Lookup[K, T], error) {
	return build(ctx, src, async(keyFn), false, opts)
}

// BuildAsync is Build with a key selector that receives the context and may fail.
func BuildAsync[K comparable, T any](ctx context.Context, src sequence.Iterator[T], keyFn func(context.Context, T) (K, error), opts ...BuildOption) (*Lookup[K, T], error) {
	return build(ctx, src, keyFn, false, opts)
}

// BuildForJoin is Build for join-style operators: elements whose key is nil are dropped.
func BuildForJoin[K comparable, T any](ctx context.Context, src sequence.Iterator[T], keyFn func(T) K, opts ...BuildOption) (*Lookup[K, T], error) {
	return build(ctx, src, async(keyFn), true, opts)
}

// BuildForJoinAsync is BuildForJoin with an asynchronous key selector.
func BuildForJoinAsync[K comparable, T any](ctx context.Context, src sequence.Iterator[T], keyFn func(context.Context, T) (K, error), opts ...BuildOption) (*Lookup[K, T], error) {
	return build(ctx, src, keyFn, true, opts)
}

func build[K comparable, T any](ctx context.Context, src sequence.Iterator[T], keyFn func(context.Context, T) (K, error), skipNil bool, opts []BuildOption) (*Lookup[K, T], error) {
	defer src.Stop()

	ctx, span := tracer.Start(ctx, "lookup.Build", trace.WithAttributes(attribute.Bool("skip_nil_keys", skipNil)))
	defer span.End()

	options := &buildOptions{logger: logger.NewNoopLogger()}
	for _, opt := range opts {
		opt(options)
	}

	comparer := DefaultComparer[K]()
	if options.comparer != nil {
		c, ok := options.comparer.(Comparer[K])
		if !ok {
			return nil, fail(span, outcomeError, fmt.Errorf("%w: got %T", ErrComparerType, options.comparer))
		}
		comparer = c
	}

	t := newTable[K, T](comparer, options.logger)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fail(span, outcomeCancelled, fmt.Errorf("lookup build cancelled: %w", err))
		}

		item, err := src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fail(span, outcomeCancelled, fmt.Errorf("lookup build cancelled: %w", ctx.Err()))
			}
			if errors.Is(err, sequence.ErrIteratorDone) {
				break
			}
			return nil, fail(span, outcomeError, fmt.Errorf("reading source: %w", err))
		}

		key, err := keyFn(ctx, item)
		if err != nil {
			return nil, fail(span, outcomeError, fmt.Errorf("selecting key: %w", err))
		}

		if skipNil && t.isNil(key) {
			continue
		}

		idx, err := t.getOrCreate(key, true)
		if err != nil {
			return nil, fail(span, outcomeError, err)
		}
		t.add(idx, item)
	}

	span.SetAttributes(attribute.Int("groups", t.len()))
	lookupBuildCounter.WithLabelValues(outcomeSuccess).Inc()
	lookupGroupsHistogram.Observe(float64(t.len()))
	options.logger.DebugWithContext(ctx, "lookup built", zap.Int("groups", t.len()))

	return &Lookup[K, T]{table: t}, nil
}

func fail(span trace.Span, outcome string, err error) error {
	lookupBuildCounter.WithLabelValues(outcome).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
