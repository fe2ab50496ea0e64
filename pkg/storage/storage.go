// Package storage archives strands in an embedded key-value store, one
// snapshot-framed entry per strand keyed by a generated KSUID. An in-memory
// seed index tracks which ids carry which seed.
package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/embla/pkg/codec"
	"github.com/ssargent/embla/pkg/seedindex"
	"github.com/ssargent/embla/pkg/strand"
)

// ErrNotFound is returned when no strand exists under the requested id.
var ErrNotFound = errors.New("strand not found")

// ArchiveStats summarizes the archive contents.
type ArchiveStats struct {
	Strands   int   `json:"strands"`
	Seeds     int   `json:"seeds"`
	DataBytes int64 `json:"data_bytes"`
}

// Archive stores strands in a pebble database. Values are single snapshot
// entries, so the on-disk bytes use the same framing as snapshot files.
type Archive struct {
	db    *pebble.DB
	seeds *seedindex.Index
}

// Open opens (or creates) the archive at path and rebuilds the seed index
// from the stored entries.
func Open(path string) (*Archive, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("storage: open archive %q: %w", path, err)
	}

	a := &Archive{db: db, seeds: seedindex.New(seedindex.DefaultOrder)}
	if err := a.rebuildSeedIndex(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: rebuild seed index: %w", err)
	}
	return a, nil
}

// rebuildSeedIndex scans every stored entry and indexes its seed.
func (a *Archive) rebuildSeedIndex() error {
	iter, err := a.db.NewIter(nil)
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return fmt.Errorf("key %x: %w", iter.Key(), err)
		}
		seed, err := entrySeed(iter.Value())
		if err != nil {
			return fmt.Errorf("value for %s: %w", id, err)
		}
		a.seeds.Insert(seed, id)
	}
	return iter.Error()
}

// Create archives a strand under a fresh id.
func (a *Archive) Create(s *strand.Strand) (ksuid.KSUID, error) {
	id := ksuid.New()
	if err := a.put(id, s); err != nil {
		return ksuid.Nil, err
	}
	a.seeds.Insert(s.Seed(), id)
	return id, nil
}

// Read returns the strand archived under id.
func (a *Archive) Read(id ksuid.KSUID) (*strand.Strand, error) {
	value, closer, err := a.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("storage: read %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", id, err)
	}
	defer closer.Close()

	s, err := codec.DecodeStrand(value)
	if err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", id, err)
	}
	return s, nil
}

// Update replaces the strand archived under id. Updating an id that was
// never created fails with ErrNotFound.
func (a *Archive) Update(id ksuid.KSUID, s *strand.Strand) error {
	value, closer, err := a.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("storage: update %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("storage: update %s: %w", id, err)
	}
	oldSeed, err := entrySeed(value)
	closer.Close()
	if err != nil {
		return fmt.Errorf("storage: update %s: %w", id, err)
	}

	if err := a.put(id, s); err != nil {
		return err
	}
	if oldSeed != s.Seed() {
		a.seeds.Remove(oldSeed, id)
		a.seeds.Insert(s.Seed(), id)
	}
	return nil
}

// Delete removes the strand archived under id. Deleting an absent id is not
// an error.
func (a *Archive) Delete(id ksuid.KSUID) error {
	value, closer, err := a.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", id, err)
	}
	seed, err := entrySeed(value)
	closer.Close()
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", id, err)
	}

	if err := a.db.Delete(id.Bytes(), pebble.NoSync); err != nil {
		return fmt.Errorf("storage: delete %s: %w", id, err)
	}
	a.seeds.Remove(seed, id)
	return nil
}

// FindSeed returns the ids of every strand archived under seed, oldest
// first.
func (a *Archive) FindSeed(seed uint64) []ksuid.KSUID {
	return a.seeds.Find(seed)
}

// List returns every archived id in key order.
func (a *Archive) List() ([]ksuid.KSUID, error) {
	iter, err := a.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	defer iter.Close()

	ids := make([]ksuid.KSUID, 0)
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("storage: list key %x: %w", iter.Key(), err)
		}
		ids = append(ids, id)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return ids, nil
}

// Stats walks the archive and totals the strand count and their data bytes.
func (a *Archive) Stats() (ArchiveStats, error) {
	iter, err := a.db.NewIter(nil)
	if err != nil {
		return ArchiveStats{}, fmt.Errorf("storage: stats: %w", err)
	}
	defer iter.Close()

	var stats ArchiveStats
	for iter.First(); iter.Valid(); iter.Next() {
		value := iter.Value()
		if len(value) < 4 {
			return ArchiveStats{}, fmt.Errorf("storage: stats value %x: %w", iter.Key(), codec.ErrFormatMismatch)
		}
		// The entry's leading word is its data length.
		stats.Strands++
		stats.DataBytes += int64(binary.LittleEndian.Uint32(value[:4]))
	}
	if err := iter.Error(); err != nil {
		return ArchiveStats{}, fmt.Errorf("storage: stats: %w", err)
	}
	stats.Seeds = a.seeds.Len()
	return stats, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) put(id ksuid.KSUID, s *strand.Strand) error {
	value, err := codec.EncodeStrand(s)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", id, err)
	}
	if err := a.db.Set(id.Bytes(), value, pebble.NoSync); err != nil {
		return fmt.Errorf("storage: write %s: %w", id, err)
	}
	return nil
}

// entrySeed reads the seed field out of an encoded entry without decoding
// the payload. The seed sits after the length and unit words.
func entrySeed(value []byte) (uint64, error) {
	if len(value) < 16 {
		return 0, codec.ErrFormatMismatch
	}
	return binary.LittleEndian.Uint64(value[8:16]), nil
}
