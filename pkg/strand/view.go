package strand

import (
	"fmt"
	"math"
)

const (
	unit32 = 4
	unit64 = 8

	maxSlot32 = math.MaxInt/unit32 - 1
	maxSlot64 = math.MaxInt/unit64 - 1
)

// View32 reads and writes 32-bit little-endian values into a borrowed strand
// at 4-byte-aligned offsets. Slot n covers byte offsets [n*4, n*4+4).
//
// The view holds no cursor of its own: the next free slot is derived from the
// strand's length at call time, so several views over one strand stay
// consistent as long as their calls are serialized.
type View32 struct {
	strand *Strand
}

// NewView32 returns a 32-bit view over s. The view must not outlive s.
func NewView32(s *Strand) *View32 { return &View32{strand: s} }

// NextSlot returns the index of the first aligned unit that is completely
// free, in 4-byte units: ceil(Len()/4). A partially written unit counts as
// occupied.
func (v *View32) NextSlot() int {
	length := v.strand.Len()
	return length/unit32 + (length%unit32+unit32-1)/unit32
}

// Set writes value little-endian into slot, least significant byte first,
// one byte at a time through SetByte. Writing past the current capacity
// grows the strand.
func (v *View32) Set(slot int, value uint32) error {
	if slot < 0 || slot > maxSlot32 {
		return fmt.Errorf("strand: view32 slot %d: %w", slot, ErrOffsetOutOfRange)
	}
	offset := slot * unit32
	for i := 0; i < unit32; i++ {
		if err := v.strand.SetByte(offset+i, byte(value)); err != nil {
			return err
		}
		value >>= 8
	}
	return nil
}

// Append writes value into the next free aligned slot and returns the slot
// index used.
func (v *View32) Append(value uint32) (int, error) {
	slot := v.NextSlot()
	if err := v.Set(slot, value); err != nil {
		return 0, err
	}
	return slot, nil
}

// At reassembles the little-endian value stored in slot. Reading an
// untouched slot inside the capacity yields zero; reading past the capacity
// fails with ErrOffsetOutOfRange.
func (v *View32) At(slot int) (uint32, error) {
	if slot < 0 || slot > maxSlot32 {
		return 0, fmt.Errorf("strand: view32 slot %d: %w", slot, ErrOffsetOutOfRange)
	}
	offset := slot * unit32
	var value uint32
	for i := 0; i < unit32; i++ {
		b, err := v.strand.ByteAt(offset + i)
		if err != nil {
			return 0, err
		}
		value |= uint32(b) << (8 * uint(i))
	}
	return value, nil
}

// View64 reads and writes 64-bit little-endian values into a borrowed strand
// at 8-byte-aligned offsets. Slot n covers byte offsets [n*8, n*8+8).
type View64 struct {
	strand *Strand
}

// NewView64 returns a 64-bit view over s. The view must not outlive s.
func NewView64(s *Strand) *View64 { return &View64{strand: s} }

// NextSlot returns the index of the first aligned unit that is completely
// free, in 8-byte units: ceil(Len()/8).
func (v *View64) NextSlot() int {
	length := v.strand.Len()
	return length/unit64 + (length%unit64+unit64-1)/unit64
}

// Set writes value little-endian into slot, least significant byte first.
func (v *View64) Set(slot int, value uint64) error {
	if slot < 0 || slot > maxSlot64 {
		return fmt.Errorf("strand: view64 slot %d: %w", slot, ErrOffsetOutOfRange)
	}
	offset := slot * unit64
	for i := 0; i < unit64; i++ {
		if err := v.strand.SetByte(offset+i, byte(value)); err != nil {
			return err
		}
		value >>= 8
	}
	return nil
}

// Append writes value into the next free aligned slot and returns the slot
// index used.
func (v *View64) Append(value uint64) (int, error) {
	slot := v.NextSlot()
	if err := v.Set(slot, value); err != nil {
		return 0, err
	}
	return slot, nil
}

// At reassembles the little-endian value stored in slot.
func (v *View64) At(slot int) (uint64, error) {
	if slot < 0 || slot > maxSlot64 {
		return 0, fmt.Errorf("strand: view64 slot %d: %w", slot, ErrOffsetOutOfRange)
	}
	offset := slot * unit64
	var value uint64
	for i := 0; i < unit64; i++ {
		b, err := v.strand.ByteAt(offset + i)
		if err != nil {
			return 0, err
		}
		value |= uint64(b) << (8 * uint(i))
	}
	return value, nil
}
