package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ssargent/embla/pkg/strand"
)

const (
	// UnitSize is the fixed unit-size tag carried by every entry header.
	UnitSize = 16

	// FormatID is the current format revision written into new entries.
	// Readers skip it as a reserved word rather than interpreting it.
	FormatID = 1

	// Sentinel is the 4-byte word that terminates an entry's reserved
	// header region.
	Sentinel = uint32('\n')

	// MaxHeaderWords bounds how many reserved words a reader skips while
	// looking for the sentinel before declaring the entry malformed.
	MaxHeaderWords = 16

	// entryHeaderSize covers DataLength, UnitSize, Seed, FormatID and
	// Sentinel.
	entryHeaderSize = 4 + 4 + 8 + 4 + 4
)

var (
	// ErrFormatMismatch is returned when an entry header carries an
	// unexpected unit size or no sentinel within MaxHeaderWords.
	ErrFormatMismatch = errors.New("snapshot format mismatch")

	// ErrTruncatedRecord is returned when the input ends before an entry
	// is complete.
	ErrTruncatedRecord = errors.New("snapshot entry truncated")

	// ErrTooLarge is returned when a strand's length or a strand count
	// does not fit the format's 32-bit fields.
	ErrTooLarge = errors.New("snapshot field overflow")
)

// WriteSnapshot streams a complete snapshot: the strand count followed by
// one entry per strand, in slice order.
func WriteSnapshot(w io.Writer, strands []*strand.Strand) error {
	if err := WriteCount(w, len(strands)); err != nil {
		return err
	}
	for i, s := range strands {
		if err := WriteEntry(w, s); err != nil {
			return fmt.Errorf("codec: entry %d: %w", i, err)
		}
	}
	return nil
}

// ReadSnapshot reads a complete snapshot. Any malformed or truncated entry
// aborts the read; the strands decoded so far are discarded.
func ReadSnapshot(r io.Reader) ([]*strand.Strand, error) {
	count, err := ReadCount(r)
	if err != nil {
		return nil, err
	}
	strands := make([]*strand.Strand, 0)
	for i := 0; i < count; i++ {
		s, err := ReadEntry(r)
		if err != nil {
			return nil, fmt.Errorf("codec: entry %d: %w", i, err)
		}
		strands = append(strands, s)
	}
	return strands, nil
}

// WriteCount writes the 4-byte strand count that opens a snapshot.
func WriteCount(w io.Writer, count int) error {
	if count < 0 || uint64(count) > math.MaxUint32 {
		return fmt.Errorf("codec: strand count %d: %w", count, ErrTooLarge)
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(count))
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("codec: write strand count: %w", err)
	}
	return nil
}

// ReadCount reads the 4-byte strand count that opens a snapshot.
func ReadCount(r io.Reader) (int, error) {
	count, err := readWord(r)
	if err != nil {
		return 0, fmt.Errorf("codec: read strand count: %w", truncated(err))
	}
	return int(count), nil
}

// WriteEntry frames one strand: the entry header followed by exactly Len()
// bytes from the front of the strand's backing array. Padding past the
// logical length is not written.
func WriteEntry(w io.Writer, s *strand.Strand) error {
	length := s.Len()
	if uint64(length) > math.MaxUint32 {
		return fmt.Errorf("codec: strand length %d: %w", length, ErrTooLarge)
	}

	var header [entryHeaderSize]byte
	binary.LittleEndian.PutUint32(header[0:], uint32(length))
	binary.LittleEndian.PutUint32(header[4:], UnitSize)
	binary.LittleEndian.PutUint64(header[8:], s.Seed())
	binary.LittleEndian.PutUint32(header[16:], FormatID)
	binary.LittleEndian.PutUint32(header[20:], Sentinel)

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write entry header: %w", err)
	}
	if _, err := w.Write(s.Bytes()[:length]); err != nil {
		return fmt.Errorf("write %d data bytes: %w", length, err)
	}
	return nil
}

// ReadEntry decodes one strand entry. The returned strand has its length
// and capacity both equal to the entry's data length.
func ReadEntry(r io.Reader) (*strand.Strand, error) {
	length, err := readWord(r)
	if err != nil {
		return nil, fmt.Errorf("read data length: %w", truncated(err))
	}
	unit, err := readWord(r)
	if err != nil {
		return nil, fmt.Errorf("read unit size: %w", truncated(err))
	}
	if unit != UnitSize {
		return nil, fmt.Errorf("unit size %d, want %d: %w", unit, UnitSize, ErrFormatMismatch)
	}

	var seedBuf [8]byte
	if _, err := io.ReadFull(r, seedBuf[:]); err != nil {
		return nil, fmt.Errorf("read seed: %w", truncated(err))
	}
	seed := binary.LittleEndian.Uint64(seedBuf[:])

	// Skip the reserved header words up to the sentinel. FormatID lives
	// here; readers tolerate extra words so the header can grow.
	found := false
	for i := 0; i < MaxHeaderWords; i++ {
		word, err := readWord(r)
		if err != nil {
			return nil, fmt.Errorf("read header word %d: %w", i, truncated(err))
		}
		if word == Sentinel {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("no sentinel within %d header words: %w", MaxHeaderWords, ErrFormatMismatch)
	}

	// Copy through a limit reader so a forged length cannot force a huge
	// allocation before the stream runs dry.
	var data bytes.Buffer
	n, err := io.Copy(&data, io.LimitReader(r, int64(length)))
	if err != nil {
		return nil, fmt.Errorf("read %d data bytes: %w", length, truncated(err))
	}
	if n != int64(length) {
		return nil, fmt.Errorf("read %d of %d data bytes: %w", n, length, ErrTruncatedRecord)
	}
	return strand.FromBytes(seed, data.Bytes()), nil
}

// EncodeStrand frames a single strand as one snapshot entry, for callers
// that persist strands individually.
func EncodeStrand(s *strand.Strand) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(entryHeaderSize + s.Len())
	if err := WriteEntry(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeStrand reverses EncodeStrand. Trailing bytes after the entry are a
// format mismatch.
func DecodeStrand(data []byte) (*strand.Strand, error) {
	r := bytes.NewReader(data)
	s, err := ReadEntry(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("codec: %d trailing bytes after entry: %w", r.Len(), ErrFormatMismatch)
	}
	return s, nil
}

func readWord(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// truncated folds io-level end-of-input conditions into ErrTruncatedRecord
// so callers see one abort reason for a short stream.
func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncatedRecord
	}
	return err
}
