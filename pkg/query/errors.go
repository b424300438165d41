package query

import "errors"

var (
	// ErrNegativeCount is returned when a counting operator receives a negative count.
	ErrNegativeCount = errors.New("count cannot be negative")

	// ErrInvalidRange is returned by CountBetween when min is greater than max.
	ErrInvalidRange = errors.New("min cannot be greater than max")

	// ErrLengthMismatch is returned by EquiZip when the sequences have different lengths.
	ErrLengthMismatch = errors.New("sequences differ in length")
)
