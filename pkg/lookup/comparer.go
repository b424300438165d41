package lookup

import (
	"hash/maphash"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// Comparer decides whether two keys belong to the same group. Keys that are Equal
// must produce the same Hash.
type Comparer[K any] interface {
	Equal(a, b K) bool
	Hash(key K) uint64
}

var defaultSeed = maphash.MakeSeed()

type defaultComparer[K comparable] struct{}

// DefaultComparer returns a Comparer using Go equality for K.
func DefaultComparer[K comparable]() Comparer[K] {
	return defaultComparer[K]{}
}

func (defaultComparer[K]) Equal(a, b K) bool {
	return a == b
}

func (defaultComparer[K]) Hash(key K) uint64 {
	return maphash.Comparable(defaultSeed, key)
}

type stringComparer struct{}

// StringComparer returns an ordinal string Comparer hashing with xxhash.
func StringComparer() Comparer[string] {
	return stringComparer{}
}

func (stringComparer) Equal(a, b string) bool {
	return a == b
}

func (stringComparer) Hash(key string) uint64 {
	return xxhash.Sum64String(key)
}

type foldComparer struct{}

// FoldComparer returns a case-insensitive string Comparer. Equality follows
// strings.EqualFold, so hashing folds every rune to the smallest rune of its
// Unicode simple-folding orbit.
func FoldComparer() Comparer[string] {
	return foldComparer{}
}

func (foldComparer) Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}

func (foldComparer) Hash(key string) uint64 {
	d := xxhash.New()
	var buf [utf8.UTFMax]byte
	for _, r := range key {
		n := utf8.EncodeRune(buf[:], foldRune(r))
		_, _ = d.Write(buf[:n])
	}
	return d.Sum64()
}

func foldRune(r rune) rune {
	smallest := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < smallest {
			smallest = f
		}
	}
	return smallest
}

type funcComparer[K any] struct {
	equal func(a, b K) bool
	hash  func(K) uint64
}

// NewComparer builds a Comparer out of an equality and a hash function.
func NewComparer[K any](equal func(a, b K) bool, hash func(K) uint64) Comparer[K] {
	return funcComparer[K]{equal: equal, hash: hash}
}

func (c funcComparer[K]) Equal(a, b K) bool {
	return c.equal(a, b)
}

func (c funcComparer[K]) Hash(key K) uint64 {
	return c.hash(key)
}
