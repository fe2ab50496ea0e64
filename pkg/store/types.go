package store

import "github.com/ssargent/embla/pkg/strand"

// DefaultBufferSize is the write buffer size used when a config leaves
// BufferSize at zero.
const DefaultBufferSize = 64 * 1024

// SnapshotWriterConfig holds configuration for the snapshot writer
type SnapshotWriterConfig struct {
	FilePath   string // Path to the snapshot file
	BufferSize int    // Write buffer size (0 = DefaultBufferSize)
}

// SnapshotReaderConfig holds configuration for the snapshot reader
type SnapshotReaderConfig struct {
	FilePath string // Path to the snapshot file
}

// StrandIterator provides streaming access to the strands in a snapshot
type StrandIterator interface {
	Next() bool
	Strand() *strand.Strand
	Err() error
	Close() error
}

// Errors
var (
	ErrWriterClosed = &SnapshotError{"snapshot writer closed"}
)

// SnapshotError represents a snapshot store error
type SnapshotError struct {
	Message string
}

func (e *SnapshotError) Error() string {
	return e.Message
}
