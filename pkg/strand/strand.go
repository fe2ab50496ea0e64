package strand

import (
	"fmt"
	"math"
)

// Strand is a growable sequence of raw bytes with a seed identity.
//
// The backing array may be larger than the logical length. Bytes below Len()
// are data; bytes between Len() and Capacity() are zero-filled padding that
// is readable but not yet meaningful.
type Strand struct {
	seed   uint64
	length int
	data   []byte
}

// New returns an empty strand with the given seed and initial capacity.
// A zero capacity is valid; the first write allocates.
func New(seed uint64, capacity int) (*Strand, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("strand: new with capacity %d: %w", capacity, ErrNegativeSize)
	}
	return &Strand{seed: seed, data: make([]byte, capacity)}, nil
}

// FromBytes returns a strand whose length and capacity both equal len(data).
// The bytes are copied; the caller keeps ownership of its slice.
func FromBytes(seed uint64, data []byte) *Strand {
	s := &Strand{seed: seed, length: len(data), data: make([]byte, len(data))}
	copy(s.data, data)
	return s
}

// Seed returns the identity assigned at construction. It never changes and
// travels with the strand through serialization.
func (s *Strand) Seed() uint64 { return s.seed }

// Len returns the logical write length: one past the highest offset ever
// written.
func (s *Strand) Len() int { return s.length }

// Capacity returns the size of the backing array. It is always at least
// Len().
func (s *Strand) Capacity() int { return len(s.data) }

// Bytes exposes the full backing array, padding included. The slice aliases
// the strand's storage and is invalidated by the next growth; serialization
// takes exactly Len() bytes from its front.
func (s *Strand) Bytes() []byte { return s.data }

// SetByte stores value at offset. Writing at or past the current length
// advances the length to offset+1, reallocating the backing array first if
// it is too small. Growth doubles: the new array holds
// max(newLength*2, newLength) bytes, the data prefix is copied over and the
// remainder is zero.
func (s *Strand) SetByte(offset int, value byte) error {
	if offset < 0 || offset == math.MaxInt {
		return fmt.Errorf("strand: set byte at %d: %w", offset, ErrOffsetOutOfRange)
	}
	newLength := s.length
	if offset >= s.length {
		newLength = offset + 1
	}
	if newLength > len(s.data) {
		capacity := newLength * 2
		if capacity < newLength {
			capacity = newLength
		}
		if err := s.Grow(capacity); err != nil {
			return err
		}
	}
	s.data[offset] = value
	s.length = newLength
	return nil
}

// AppendByte stores value at the current length.
func (s *Strand) AppendByte(value byte) error {
	return s.SetByte(s.length, value)
}

// ByteAt returns the byte at offset. Every offset below the capacity is
// readable; offsets in the padding region read zero.
func (s *Strand) ByteAt(offset int) (byte, error) {
	if offset < 0 || offset >= len(s.data) {
		return 0, fmt.Errorf("strand: byte at %d of %d: %w", offset, len(s.data), ErrOffsetOutOfRange)
	}
	return s.data[offset], nil
}

// Grow reallocates the backing array to hold exactly capacity bytes, copying
// the data prefix and zero-filling the rest. Shrinking below the current
// length would discard data and fails with ErrShrinkBelowLength, leaving the
// strand untouched.
func (s *Strand) Grow(capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("strand: grow to %d: %w", capacity, ErrNegativeSize)
	}
	if capacity < s.length {
		return fmt.Errorf("strand: grow to %d below length %d: %w", capacity, s.length, ErrShrinkBelowLength)
	}
	next := make([]byte, capacity)
	copy(next, s.data[:s.length])
	s.data = next
	return nil
}
