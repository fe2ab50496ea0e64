package strand

import "errors"

var (
	// ErrNegativeSize is returned when a constructor or Grow is given a
	// negative size.
	ErrNegativeSize = errors.New("negative size")

	// ErrOffsetOutOfRange is returned for writes at negative offsets and
	// for reads outside the allocated capacity.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrShrinkBelowLength is returned when Grow is asked for a capacity
	// smaller than the current logical length. The strand is unchanged.
	ErrShrinkBelowLength = errors.New("grow below current length")
)
