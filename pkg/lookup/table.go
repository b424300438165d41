package lookup

import (
	"errors"
	"math"
	"reflect"

	"go.uber.org/zap"

	"github.com/openfga/asyncseq/pkg/logger"
)

const (
	initialBucketCount = 7

	// noGroup marks an empty bucket or the end of a hash chain.
	noGroup = -1

	hashMask = math.MaxInt64
)

// ErrCapacityOverflow is returned when the number of distinct keys can no longer be
// addressed by the bucket array.
var ErrCapacityOverflow = errors.New("lookup capacity overflow")

// group is a single record of the arena. Records are linked twice: into the chain of
// their bucket through hashNext and into the insertion-order ring through ringNext.
type group[K, T any] struct {
	key      K
	hash     uint64
	elements []T
	hashNext int
	ringNext int
}

// table is a chained hash table of groups which also threads every group on a circular
// ring in insertion order. Groups are never removed.
type table[K, T any] struct {
	comparer Comparer[K]
	logger   logger.Logger

	// nilable is set when K can hold nil, in which case nil keys skip the comparer.
	nilable bool

	buckets []int
	groups  []group[K, T]

	// last is the most recently inserted group; groups[last].ringNext is the first one.
	last int
}

func newTable[K, T any](comparer Comparer[K], log logger.Logger) *table[K, T] {
	buckets := make([]int, initialBucketCount)
	for i := range buckets {
		buckets[i] = noGroup
	}

	return &table[K, T]{
		comparer: comparer,
		logger:   log,
		nilable:  canBeNil(reflect.TypeFor[K]()),
		buckets:  buckets,
		last:     noGroup,
	}
}

func canBeNil(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func (t *table[K, T]) isNil(key K) bool {
	if !t.nilable {
		return false
	}
	v := any(key)
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return canBeNil(rv.Type()) && rv.IsNil()
}

func (t *table[K, T]) hash(key K) uint64 {
	if t.isNil(key) {
		return 0
	}
	return t.comparer.Hash(key) & hashMask
}

func (t *table[K, T]) equal(a, b K) bool {
	aNil, bNil := t.isNil(a), t.isNil(b)
	if aNil || bNil {
		return aNil && bNil
	}
	return t.comparer.Equal(a, b)
}

func (t *table[K, T]) len() int {
	return len(t.groups)
}

// find returns the index of the group for key, or noGroup when absent.
func (t *table[K, T]) find(key K) int {
	idx, _ := t.getOrCreate(key, false)
	return idx
}

// getOrCreate returns the index of the group for key. When the key is absent and create is
// set a new empty group is linked into its bucket and onto the ring after the last inserted
// group. Appending elements is left to the caller.
func (t *table[K, T]) getOrCreate(key K, create bool) (int, error) {
	hash := t.hash(key)
	for i := t.buckets[hash%uint64(len(t.buckets))]; i != noGroup; i = t.groups[i].hashNext {
		if t.groups[i].hash == hash && t.equal(t.groups[i].key, key) {
			return i, nil
		}
	}

	if !create {
		return noGroup, nil
	}

	if len(t.groups) == len(t.buckets) {
		if err := t.resize(); err != nil {
			return noGroup, err
		}
	}

	idx := len(t.groups)
	bucket := hash % uint64(len(t.buckets))
	g := group[K, T]{
		key:      key,
		hash:     hash,
		hashNext: t.buckets[bucket],
		ringNext: idx,
	}
	if t.last != noGroup {
		g.ringNext = t.groups[t.last].ringNext
		t.groups[t.last].ringNext = idx
	}

	t.groups = append(t.groups, g)
	t.buckets[bucket] = idx
	t.last = idx

	return idx, nil
}

// add appends value to the elements of the group at idx.
func (t *table[K, T]) add(idx int, value T) {
	g := &t.groups[idx]
	if len(g.elements) == cap(g.elements) {
		grown := make([]T, len(g.elements), max(1, 2*cap(g.elements)))
		copy(grown, g.elements)
		g.elements = grown
	}
	g.elements = append(g.elements, value)
}

// resize rebuilds the bucket array with 2*count+1 buckets. Cached hashes are reused.
func (t *table[K, T]) resize() error {
	size, err := growSize(len(t.groups))
	if err != nil {
		return err
	}

	buckets := make([]int, size)
	for i := range buckets {
		buckets[i] = noGroup
	}

	if t.last != noGroup {
		i := t.last
		for {
			i = t.groups[i].ringNext
			bucket := t.groups[i].hash % uint64(size)
			t.groups[i].hashNext = buckets[bucket]
			buckets[bucket] = i
			if i == t.last {
				break
			}
		}
	}

	t.buckets = buckets
	lookupResizeCounter.Inc()
	t.logger.Debug("lookup table resized", zap.Int("groups", len(t.groups)), zap.Int("buckets", size))

	return nil
}

func growSize(count int) (int, error) {
	if count < 0 || count > (math.MaxInt-1)/2 {
		return 0, ErrCapacityOverflow
	}
	return 2*count + 1, nil
}

// first returns the earliest inserted group, or noGroup for an empty table.
func (t *table[K, T]) first() int {
	if t.last == noGroup {
		return noGroup
	}
	return t.groups[t.last].ringNext
}

// next returns the group inserted after idx, or noGroup once the ring wraps around.
func (t *table[K, T]) next(idx int) int {
	if idx == t.last {
		return noGroup
	}
	return t.groups[idx].ringNext
}
