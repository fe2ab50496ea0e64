package strand

import (
	"bytes"
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("empty strand with capacity", func(t *testing.T) {
		s, err := New(42, 16)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if s.Seed() != 42 {
			t.Errorf("Seed mismatch: got %d, want 42", s.Seed())
		}
		if s.Len() != 0 {
			t.Errorf("Len mismatch: got %d, want 0", s.Len())
		}
		if s.Capacity() != 16 {
			t.Errorf("Capacity mismatch: got %d, want 16", s.Capacity())
		}
	})

	t.Run("zero capacity", func(t *testing.T) {
		s, err := New(0, 0)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if s.Capacity() != 0 {
			t.Errorf("Capacity mismatch: got %d, want 0", s.Capacity())
		}
	})

	t.Run("negative capacity rejected", func(t *testing.T) {
		if _, err := New(0, -1); !errors.Is(err, ErrNegativeSize) {
			t.Errorf("error mismatch: got %v, want ErrNegativeSize", err)
		}
	})
}

func TestFromBytes(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	s := FromBytes(7, src)

	if s.Len() != 4 || s.Capacity() != 4 {
		t.Fatalf("size mismatch: got len %d cap %d, want 4 4", s.Len(), s.Capacity())
	}

	// Mutating the source must not reach the strand.
	src[0] = 99
	b, err := s.ByteAt(0)
	if err != nil {
		t.Fatalf("ByteAt failed: %v", err)
	}
	if b != 1 {
		t.Errorf("byte 0 mismatch: got %d, want 1", b)
	}
}

func TestSetByteGrowth(t *testing.T) {
	testCases := []struct {
		name         string
		capacity     int
		offset       int
		wantLen      int
		wantCapacity int
	}{
		{
			name:         "write within capacity",
			capacity:     16,
			offset:       3,
			wantLen:      4,
			wantCapacity: 16,
		},
		{
			name:         "write at capacity boundary grows",
			capacity:     4,
			offset:       4,
			wantLen:      5,
			wantCapacity: 10,
		},
		{
			name:         "write far past capacity",
			capacity:     2,
			offset:       99,
			wantLen:      100,
			wantCapacity: 200,
		},
		{
			name:         "first write on empty strand",
			capacity:     0,
			offset:       0,
			wantLen:      1,
			wantCapacity: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(0, tc.capacity)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if err := s.SetByte(tc.offset, 0xAB); err != nil {
				t.Fatalf("SetByte failed: %v", err)
			}
			if s.Len() != tc.wantLen {
				t.Errorf("Len mismatch: got %d, want %d", s.Len(), tc.wantLen)
			}
			if s.Capacity() != tc.wantCapacity {
				t.Errorf("Capacity mismatch: got %d, want %d", s.Capacity(), tc.wantCapacity)
			}
			b, err := s.ByteAt(tc.offset)
			if err != nil {
				t.Fatalf("ByteAt failed: %v", err)
			}
			if b != 0xAB {
				t.Errorf("byte mismatch: got %#x, want 0xab", b)
			}
		})
	}
}

func TestSetBytePreservesPrefix(t *testing.T) {
	s, err := New(0, 4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := s.SetByte(i, byte(i+1)); err != nil {
			t.Fatalf("SetByte %d failed: %v", i, err)
		}
	}

	// Force a reallocation and check the old data survived the copy.
	if err := s.SetByte(8, 0xFF); err != nil {
		t.Fatalf("SetByte past capacity failed: %v", err)
	}
	want := []byte{1, 2, 3, 4, 0, 0, 0, 0, 0xFF}
	if !bytes.Equal(s.Bytes()[:9], want) {
		t.Errorf("data mismatch: got %v, want %v", s.Bytes()[:9], want)
	}
}

func TestSetByteRewriteKeepsLength(t *testing.T) {
	s, err := New(0, 8)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.SetByte(5, 1); err != nil {
		t.Fatalf("SetByte failed: %v", err)
	}
	if err := s.SetByte(2, 9); err != nil {
		t.Fatalf("SetByte failed: %v", err)
	}
	if s.Len() != 6 {
		t.Errorf("Len mismatch after rewrite below length: got %d, want 6", s.Len())
	}
}

func TestSetByteNegativeOffset(t *testing.T) {
	s, _ := New(0, 4)
	if err := s.SetByte(-1, 0); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("error mismatch: got %v, want ErrOffsetOutOfRange", err)
	}
}

func TestAppendByte(t *testing.T) {
	s, err := New(0, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i, b := range []byte{0x10, 0x20, 0x30} {
		if err := s.AppendByte(b); err != nil {
			t.Fatalf("AppendByte %d failed: %v", i, err)
		}
	}
	if s.Len() != 3 {
		t.Errorf("Len mismatch: got %d, want 3", s.Len())
	}
	if !bytes.Equal(s.Bytes()[:3], []byte{0x10, 0x20, 0x30}) {
		t.Errorf("data mismatch: got %v", s.Bytes()[:3])
	}
}

func TestByteAt(t *testing.T) {
	s, err := New(0, 8)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.SetByte(1, 0x7F); err != nil {
		t.Fatalf("SetByte failed: %v", err)
	}

	t.Run("written byte", func(t *testing.T) {
		b, err := s.ByteAt(1)
		if err != nil {
			t.Fatalf("ByteAt failed: %v", err)
		}
		if b != 0x7F {
			t.Errorf("byte mismatch: got %#x, want 0x7f", b)
		}
	})

	t.Run("padding reads zero", func(t *testing.T) {
		b, err := s.ByteAt(7)
		if err != nil {
			t.Fatalf("ByteAt failed: %v", err)
		}
		if b != 0 {
			t.Errorf("padding byte mismatch: got %#x, want 0", b)
		}
	})

	t.Run("past capacity", func(t *testing.T) {
		if _, err := s.ByteAt(8); !errors.Is(err, ErrOffsetOutOfRange) {
			t.Errorf("error mismatch: got %v, want ErrOffsetOutOfRange", err)
		}
	})

	t.Run("negative offset", func(t *testing.T) {
		if _, err := s.ByteAt(-1); !errors.Is(err, ErrOffsetOutOfRange) {
			t.Errorf("error mismatch: got %v, want ErrOffsetOutOfRange", err)
		}
	})
}

func TestGrow(t *testing.T) {
	t.Run("grow enlarges and zero-fills", func(t *testing.T) {
		s, err := New(0, 2)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if err := s.SetByte(0, 0xEE); err != nil {
			t.Fatalf("SetByte failed: %v", err)
		}
		if err := s.Grow(10); err != nil {
			t.Fatalf("Grow failed: %v", err)
		}
		if s.Capacity() != 10 {
			t.Errorf("Capacity mismatch: got %d, want 10", s.Capacity())
		}
		if !bytes.Equal(s.Bytes(), []byte{0xEE, 0, 0, 0, 0, 0, 0, 0, 0, 0}) {
			t.Errorf("data mismatch after grow: got %v", s.Bytes())
		}
	})

	t.Run("shrink to length drops padding only", func(t *testing.T) {
		s, err := New(0, 16)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if err := s.SetByte(3, 1); err != nil {
			t.Fatalf("SetByte failed: %v", err)
		}
		if err := s.Grow(4); err != nil {
			t.Fatalf("Grow failed: %v", err)
		}
		if s.Capacity() != 4 || s.Len() != 4 {
			t.Errorf("size mismatch: got len %d cap %d, want 4 4", s.Len(), s.Capacity())
		}
	})

	t.Run("shrink below length refused", func(t *testing.T) {
		s, err := New(0, 8)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if err := s.SetByte(5, 0xAA); err != nil {
			t.Fatalf("SetByte failed: %v", err)
		}
		if err := s.Grow(3); !errors.Is(err, ErrShrinkBelowLength) {
			t.Fatalf("error mismatch: got %v, want ErrShrinkBelowLength", err)
		}
		// The refused grow must leave everything intact.
		if s.Capacity() != 8 || s.Len() != 6 {
			t.Errorf("strand changed by refused grow: len %d cap %d", s.Len(), s.Capacity())
		}
		b, err := s.ByteAt(5)
		if err != nil {
			t.Fatalf("ByteAt failed: %v", err)
		}
		if b != 0xAA {
			t.Errorf("byte mismatch after refused grow: got %#x, want 0xaa", b)
		}
	})

	t.Run("negative capacity rejected", func(t *testing.T) {
		s, _ := New(0, 4)
		if err := s.Grow(-2); !errors.Is(err, ErrNegativeSize) {
			t.Errorf("error mismatch: got %v, want ErrNegativeSize", err)
		}
	})
}

func TestCapacityInvariant(t *testing.T) {
	// Capacity must never drop below length across a mixed workload.
	s, err := New(123, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	offsets := []int{0, 7, 3, 31, 12, 63, 63, 64, 200, 5}
	for _, off := range offsets {
		if err := s.SetByte(off, byte(off)); err != nil {
			t.Fatalf("SetByte %d failed: %v", off, err)
		}
		if s.Capacity() < s.Len() {
			t.Fatalf("capacity %d below length %d after SetByte %d", s.Capacity(), s.Len(), off)
		}
	}
	if s.Len() != 201 {
		t.Errorf("Len mismatch: got %d, want 201", s.Len())
	}
}
