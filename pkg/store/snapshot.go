// Package store persists snapshots of strands to disk.
//
// The on-disk format is defined by pkg/codec. This package owns the file
// handling: SnapshotWriter and SnapshotReader stream entries through
// buffered file I/O, and WriteSnapshot/ReadSnapshot cover the whole-file
// case in one call.
package store

import (
	"bufio"
	"fmt"
	"os"

	"github.com/ssargent/embla/pkg/codec"
	"github.com/ssargent/embla/pkg/strand"
)

// WriteSnapshot serializes strands into a new snapshot file at path,
// replacing any existing file. The write is synced before the call returns.
func WriteSnapshot(path string, strands []*strand.Strand) error {
	writer, err := NewSnapshotWriter(SnapshotWriterConfig{FilePath: path})
	if err != nil {
		return err
	}

	for _, s := range strands {
		if err := writer.Append(s); err != nil {
			writer.Close()
			return err
		}
	}
	return writer.Close()
}

// ReadSnapshot loads every strand from the snapshot file at path. A
// malformed or truncated file yields an error and no strands.
func ReadSnapshot(path string) ([]*strand.Strand, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open snapshot %q: %w", path, err)
	}
	defer file.Close()

	return codec.ReadSnapshot(bufio.NewReader(file))
}
