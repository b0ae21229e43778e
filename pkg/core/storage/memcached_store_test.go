package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemCachedPutGetDelete(t *testing.T) {
	ps := NewMemoryStore()
	s := NewMemCachedStore(ps)

	key := []byte{0x70, 0x01}

	_, err := s.Get(key)
	require.ErrorIs(t, err, ErrKeyNotFound)

	s.Put(key, []byte("value"))
	v, err := s.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)

	// empty value is a valid value
	s.Put(key, []byte{})
	v, err = s.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte{}, v)

	s.Delete(key)
	_, err = s.Get(key)
	require.ErrorIs(t, err, ErrKeyNotFound)

	// deletion shadows the lower layer
	require.NoError(t, ps.PutChangeSet(map[string][]byte{string(key): {1}}))
	_, err = s.Get(key)
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemCachedPersist(t *testing.T) {
	ps := NewMemoryStore()
	s := NewMemCachedStore(ps)

	s.Put([]byte{0x70, 0x01}, []byte{1})
	s.Put([]byte{0x70, 0x02}, []byte{2})
	s.Delete([]byte{0x70, 0x03})

	n, err := s.Persist()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	v, err := ps.Get([]byte{0x70, 0x01})
	require.NoError(t, err)
	require.Equal(t, []byte{1}, v)

	// nothing is left staged
	n, err = s.Persist()
	require.NoError(t, err)
	require.Equal(t, 0, n)

	// store is still fully functional after Persist
	v, err = s.Get([]byte{0x70, 0x02})
	require.NoError(t, err)
	require.Equal(t, []byte{2}, v)
}

func TestMemCachedSeek(t *testing.T) {
	ps := NewMemoryStore()
	require.NoError(t, ps.PutChangeSet(map[string][]byte{
		string([]byte{0x70, 0x01}): {1},
		string([]byte{0x70, 0x03}): {3},
		string([]byte{0x70, 0x05}): {5},
	}))
	s := NewMemCachedStore(ps)
	s.Put([]byte{0x70, 0x02}, []byte{2})
	s.Put([]byte{0x70, 0x03}, []byte{0x33}) // shadows the lower layer
	s.Delete([]byte{0x70, 0x05})

	var res []byte
	s.Seek(SeekRange{Prefix: []byte{0x70}}, func(k, v []byte) bool {
		res = append(res, v[0])
		return true
	})
	assert.Equal(t, []byte{1, 2, 0x33}, res)

	res = res[:0]
	s.Seek(SeekRange{Prefix: []byte{0x70}, Backwards: true}, func(k, v []byte) bool {
		res = append(res, v[0])
		return true
	})
	assert.Equal(t, []byte{0x33, 2, 1}, res)
}
