package storage

import (
	"path/filepath"
	"testing"

	"github.com/keelvm/keel/pkg/core/storage/dbconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoltStoreForTesting(t *testing.T) Store {
	s, err := NewBoltDBStore(dbconfig.BoltDBOptions{
		FilePath: filepath.Join(t.TempDir(), "test_bolt_db"),
	})
	require.NoError(t, err)
	return s
}

func newLevelDBForTesting(t *testing.T) Store {
	s, err := NewLevelDBStore(dbconfig.LevelDBOptions{
		DataDirectoryPath: t.TempDir(),
	})
	require.NoError(t, err)
	return s
}

func testStoreGetPutSeek(t *testing.T, s Store) {
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	_, err := s.Get([]byte{0x70, 0x01})
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.PutChangeSet(map[string][]byte{
		string([]byte{0x70, 0x01}): {1},
		string([]byte{0x70, 0x02}): {2},
		string([]byte{0x70, 0x03}): {3},
		string([]byte{0x71, 0x01}): {4},
	}))

	v, err := s.Get([]byte{0x70, 0x02})
	require.NoError(t, err)
	require.Equal(t, []byte{2}, v)

	var res []byte
	s.Seek(SeekRange{Prefix: []byte{0x70}}, func(k, v []byte) bool {
		res = append(res, v[0])
		return true
	})
	assert.Equal(t, []byte{1, 2, 3}, res)

	res = res[:0]
	s.Seek(SeekRange{Prefix: []byte{0x70}, Start: []byte{0x02}}, func(k, v []byte) bool {
		res = append(res, v[0])
		return true
	})
	assert.Equal(t, []byte{2, 3}, res)

	res = res[:0]
	s.Seek(SeekRange{Prefix: []byte{0x70}, Backwards: true}, func(k, v []byte) bool {
		res = append(res, v[0])
		return true
	})
	assert.Equal(t, []byte{3, 2, 1}, res)

	// early exit
	res = res[:0]
	s.Seek(SeekRange{Prefix: []byte{0x70}}, func(k, v []byte) bool {
		res = append(res, v[0])
		return false
	})
	assert.Equal(t, []byte{1}, res)

	// delete via changeset
	require.NoError(t, s.PutChangeSet(map[string][]byte{
		string([]byte{0x70, 0x02}): nil,
	}))
	_, err = s.Get([]byte{0x70, 0x02})
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStoreGetPutSeek(t, NewMemoryStore())
}

func TestBoltDBStore(t *testing.T) {
	testStoreGetPutSeek(t, newBoltStoreForTesting(t))
}

func TestLevelDBStore(t *testing.T) {
	testStoreGetPutSeek(t, newLevelDBForTesting(t))
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(dbconfig.DBConfiguration{Type: dbconfig.InMemoryDB})
	require.NoError(t, err)
	require.IsType(t, (*MemoryStore)(nil), s)

	_, err = NewStore(dbconfig.DBConfiguration{Type: "bogus"})
	require.Error(t, err)
}
