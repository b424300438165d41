package pend

import (
	"context"
	"errors"

	"github.com/openfga/asyncseq/pkg/sequence"
)

// inlineSlots is the number of pending appends buffered without allocating.
const inlineSlots = 4

type phase int

const (
	walking phase = iota
	streaming
	appending
	done
)

// flattener walks a chain once from its head to the base. Prepends are met in the
// order they must be emitted, so they are yielded immediately. Appends are met in
// reverse, so they are buffered and emitted backwards once the base is exhausted.
type flattener[T any] struct {
	phase phase
	node  *Chain[T]
	base  sequence.Iterator[T]

	slots [inlineSlots]T
	spill []T
	// buffered is the number of appends held in slots or spill.
	buffered int
}

func newFlattener[T any](head *Chain[T]) *flattener[T] {
	return &flattener[T]{node: head}
}

func (f *flattener[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if ctx.Err() != nil {
		return zero, ctx.Err()
	}

	if f.phase == walking {
		for !f.node.isBase() {
			node := f.node
			f.node = node.next
			if node.prepend {
				return node.value, nil
			}
			f.buffer(node)
		}

		f.base = f.node.base.Iterator()
		f.node = nil
		f.phase = streaming
	}

	if f.phase == streaming {
		item, err := f.base.Next(ctx)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, sequence.ErrIteratorDone) {
			return zero, err
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		f.base.Stop()
		f.base = nil
		f.phase = appending
	}

	if f.phase == appending {
		if f.buffered > 0 {
			f.buffered--
			return f.take(f.buffered), nil
		}
		f.spill = nil
		f.phase = done
	}

	return zero, sequence.ErrIteratorDone
}

// buffer holds on to the value of an append node. The first append node met knows how
// many appends remain below it, which sizes the spill slice exactly when the inline
// slots are not enough.
func (f *flattener[T]) buffer(node *Chain[T]) {
	if f.buffered == 0 && node.appends > inlineSlots {
		f.spill = make([]T, node.appends)
	}

	if f.spill != nil {
		f.spill[f.buffered] = node.value
	} else {
		f.slots[f.buffered] = node.value
	}
	f.buffered++
}

func (f *flattener[T]) take(i int) T {
	if f.spill != nil {
		return f.spill[i]
	}
	return f.slots[i]
}

func (f *flattener[T]) Stop() {
	if f.base != nil {
		f.base.Stop()
		f.base = nil
	}
	f.node = nil
	f.spill = nil
	f.buffered = 0
	f.phase = done
}
