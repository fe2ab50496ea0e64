package store

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/ssargent/embla/pkg/codec"
	"github.com/ssargent/embla/pkg/strand"
)

// SnapshotWriter streams strands into a snapshot file one at a time. The
// format's leading count word is reserved at creation and patched with the
// real strand count on Close, so callers do not need to know the count up
// front.
type SnapshotWriter struct {
	file   *os.File
	writer *bufio.Writer
	config SnapshotWriterConfig
	mutex  sync.Mutex
	count  int
	closed bool
}

// NewSnapshotWriter creates (or truncates) the snapshot file and reserves
// the count word.
func NewSnapshotWriter(config SnapshotWriterConfig) (*SnapshotWriter, error) {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, fmt.Errorf("store: create snapshot directory: %w", err)
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("store: create snapshot %q: %w", config.FilePath, err)
	}

	writer := &SnapshotWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, config.BufferSize),
		config: config,
	}

	if err := codec.WriteCount(writer.writer, 0); err != nil {
		file.Close()
		return nil, err
	}

	return writer, nil
}

// Append frames one strand into the snapshot.
func (w *SnapshotWriter) Append(s *strand.Strand) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return fmt.Errorf("store: append: %w", ErrWriterClosed)
	}
	if uint64(w.count) >= math.MaxUint32 {
		return fmt.Errorf("store: snapshot entry %d: %w", w.count, codec.ErrTooLarge)
	}

	if err := codec.WriteEntry(w.writer, s); err != nil {
		return fmt.Errorf("store: snapshot entry %d: %w", w.count, err)
	}
	w.count++
	return nil
}

// Count returns the number of strands appended so far.
func (w *SnapshotWriter) Count() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.count
}

// Path returns the snapshot file path.
func (w *SnapshotWriter) Path() string {
	return w.config.FilePath
}

// Close flushes buffered entries, patches the real strand count into the
// reserved word, syncs and closes the file. Close is idempotent.
func (w *SnapshotWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("store: flush snapshot: %w", err)
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(w.count))
	if _, err := w.file.WriteAt(buf[:], 0); err != nil {
		w.file.Close()
		return fmt.Errorf("store: patch strand count: %w", err)
	}

	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return fmt.Errorf("store: sync snapshot: %w", err)
	}

	return w.file.Close()
}
