package store

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ssargent/embla/pkg/codec"
	"github.com/ssargent/embla/pkg/strand"
)

// SnapshotReader provides sequential access to the strands in a snapshot
// file without loading them all at once.
type SnapshotReader struct {
	file      *os.File
	reader    *bufio.Reader
	remaining int
	config    SnapshotReaderConfig
}

// NewSnapshotReader opens the snapshot file and reads its count word.
func NewSnapshotReader(config SnapshotReaderConfig) (*SnapshotReader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("store: open snapshot %q: %w", config.FilePath, err)
	}

	reader := bufio.NewReader(file)
	count, err := codec.ReadCount(reader)
	if err != nil {
		file.Close()
		return nil, err
	}

	return &SnapshotReader{
		file:      file,
		reader:    reader,
		remaining: count,
		config:    config,
	}, nil
}

// Next returns the next strand, or io.EOF once the declared count has been
// consumed. Decode failures surface as codec errors, not io.EOF.
func (r *SnapshotReader) Next() (*strand.Strand, error) {
	if r.remaining == 0 {
		return nil, io.EOF
	}

	s, err := codec.ReadEntry(r.reader)
	if err != nil {
		return nil, err
	}
	r.remaining--
	return s, nil
}

// Remaining returns how many declared strands have not been read yet.
func (r *SnapshotReader) Remaining() int {
	return r.remaining
}

// Iterator returns a streaming iterator over the remaining strands.
func (r *SnapshotReader) Iterator() StrandIterator {
	return &snapshotIterator{reader: r}
}

// Close closes the snapshot file.
func (r *SnapshotReader) Close() error {
	return r.file.Close()
}

// snapshotIterator implements StrandIterator for streaming access
type snapshotIterator struct {
	reader *SnapshotReader
	strand *strand.Strand
	err    error
}

func (it *snapshotIterator) Next() bool {
	it.strand, it.err = it.reader.Next()
	return it.err == nil
}

func (it *snapshotIterator) Strand() *strand.Strand {
	return it.strand
}

// Err returns the error that stopped iteration, or nil after a clean end of
// snapshot.
func (it *snapshotIterator) Err() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}

func (it *snapshotIterator) Close() error {
	// The underlying reader is owned by the caller.
	return nil
}
