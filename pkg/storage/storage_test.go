package storage

import (
	"os"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/embla/pkg/strand"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "embla_archive_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	archive, err := Open(tmpDir)
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })

	return archive
}

func TestArchiveCreateRead(t *testing.T) {
	archive := openTestArchive(t)

	s := strand.FromBytes(0xBEEF, []byte{1, 2, 3, 4, 5})
	id, err := archive.Create(s)
	require.NoError(t, err)
	assert.NotEqual(t, ksuid.Nil, id)

	got, err := archive.Read(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xBEEF), got.Seed())
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, got.Bytes())
}

func TestArchiveReadMissing(t *testing.T) {
	archive := openTestArchive(t)

	_, err := archive.Read(ksuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestArchiveUpdate(t *testing.T) {
	archive := openTestArchive(t)

	id, err := archive.Create(strand.FromBytes(1, []byte{1}))
	require.NoError(t, err)

	require.NoError(t, archive.Update(id, strand.FromBytes(2, []byte{2, 2})))

	got, err := archive.Read(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Seed())
	assert.Equal(t, []byte{2, 2}, got.Bytes())

	err = archive.Update(ksuid.New(), strand.FromBytes(3, []byte{3}))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestArchiveDelete(t *testing.T) {
	archive := openTestArchive(t)

	id, err := archive.Create(strand.FromBytes(1, []byte{1}))
	require.NoError(t, err)

	require.NoError(t, archive.Delete(id))

	_, err = archive.Read(id)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent id is a no-op.
	assert.NoError(t, archive.Delete(ksuid.New()))
}

func TestArchiveList(t *testing.T) {
	archive := openTestArchive(t)

	ids, err := archive.List()
	require.NoError(t, err)
	assert.Empty(t, ids)

	created := make(map[string]bool)
	for i := 0; i < 5; i++ {
		id, err := archive.Create(strand.FromBytes(uint64(i), []byte{byte(i)}))
		require.NoError(t, err)
		created[id.String()] = true
	}

	ids, err = archive.List()
	require.NoError(t, err)
	require.Len(t, ids, 5)
	for _, id := range ids {
		assert.True(t, created[id.String()], "unexpected id %s", id)
	}
}

func TestArchiveStats(t *testing.T) {
	archive := openTestArchive(t)

	stats, err := archive.Stats()
	require.NoError(t, err)
	assert.Equal(t, ArchiveStats{}, stats)

	_, err = archive.Create(strand.FromBytes(1, []byte{1, 2, 3}))
	require.NoError(t, err)
	_, err = archive.Create(strand.FromBytes(2, []byte{4, 5}))
	require.NoError(t, err)

	stats, err = archive.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Strands)
	assert.Equal(t, 2, stats.Seeds)
	assert.Equal(t, int64(5), stats.DataBytes)
}

func TestArchiveFindSeed(t *testing.T) {
	archive := openTestArchive(t)

	first, err := archive.Create(strand.FromBytes(7, []byte{1}))
	require.NoError(t, err)
	second, err := archive.Create(strand.FromBytes(7, []byte{2}))
	require.NoError(t, err)
	other, err := archive.Create(strand.FromBytes(8, []byte{3}))
	require.NoError(t, err)

	assert.Equal(t, []ksuid.KSUID{first, second}, archive.FindSeed(7))
	assert.Equal(t, []ksuid.KSUID{other}, archive.FindSeed(8))
	assert.Nil(t, archive.FindSeed(9))

	// An update that changes the seed moves the id
	require.NoError(t, archive.Update(second, strand.FromBytes(9, []byte{2})))
	assert.Equal(t, []ksuid.KSUID{first}, archive.FindSeed(7))
	assert.Equal(t, []ksuid.KSUID{second}, archive.FindSeed(9))

	// An update that keeps the seed leaves the index alone
	require.NoError(t, archive.Update(first, strand.FromBytes(7, []byte{1, 1})))
	assert.Equal(t, []ksuid.KSUID{first}, archive.FindSeed(7))

	// Deletion unindexes the id
	require.NoError(t, archive.Delete(first))
	assert.Nil(t, archive.FindSeed(7))
}

func TestArchivePersistsAcrossReopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "embla_archive_reopen_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	archive, err := Open(tmpDir)
	require.NoError(t, err)

	id, err := archive.Create(strand.FromBytes(0xA5, []byte{9, 9}))
	require.NoError(t, err)
	require.NoError(t, archive.Close())

	reopened, err := Open(tmpDir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Read(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xA5), got.Seed())

	// The seed index is rebuilt from the stored entries
	assert.Equal(t, []ksuid.KSUID{id}, reopened.FindSeed(0xA5))
}
