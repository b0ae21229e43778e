package storage

import (
	"bytes"
	"sort"
	"strings"
)

// MemCachedStore is a wrapper around a persistent store that caches all
// changes being made for them to be later flushed in one batch.
type MemCachedStore struct {
	MemoryStore

	// Persistent Store.
	ps Store
}

// NewMemCachedStore creates a new MemCachedStore object.
func NewMemCachedStore(lower Store) *MemCachedStore {
	return &MemCachedStore{
		MemoryStore: *NewMemoryStore(),
		ps:          lower,
	}
}

// Get implements the Store interface.
func (s *MemCachedStore) Get(key []byte) ([]byte, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	if val, ok := s.mem[string(key)]; ok {
		if val == nil {
			return nil, ErrKeyNotFound
		}
		return val, nil
	}
	return s.ps.Get(key)
}

// Put puts new KV pair into the store. The value may be empty, but not nil.
func (s *MemCachedStore) Put(key, value []byte) {
	newKey := string(key)
	vcopy := make([]byte, len(value))
	copy(vcopy, value)
	s.mut.Lock()
	s.put(newKey, vcopy)
	s.mut.Unlock()
}

// Delete drops KV pair from the store. Never returns an error.
func (s *MemCachedStore) Delete(key []byte) {
	newKey := string(key)
	s.mut.Lock()
	s.drop(newKey)
	s.mut.Unlock()
}

// GetChangeSet returns the currently accumulated changeset.
func (s *MemCachedStore) GetChangeSet() []KeyValue {
	s.mut.RLock()
	defer s.mut.RUnlock()
	res := make([]KeyValue, 0, len(s.mem))
	for k, v := range s.mem {
		res = append(res, KeyValue{Key: []byte(k), Value: v})
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

// Seek implements the Store interface. It merges cached changes with the
// lower layer, shadowed and deleted keys are not visited. The result is
// deterministic for any given store state.
func (s *MemCachedStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	sPrefix := string(rng.Prefix)
	lPrefix := len(sPrefix)
	sStart := string(rng.Start)
	lStart := len(sStart)

	isKeyOK := func(key string) bool {
		return strings.HasPrefix(key, sPrefix) && (lStart == 0 || strings.Compare(key[lPrefix:], sStart) >= 0)
	}
	if rng.Backwards {
		isKeyOK = func(key string) bool {
			return strings.HasPrefix(key, sPrefix) && (lStart == 0 || strings.Compare(key[lPrefix:], sStart) <= 0)
		}
	}

	var kvs []KeyValue
	for k, v := range s.mem {
		if v != nil && isKeyOK(k) {
			kvs = append(kvs, KeyValue{Key: []byte(k), Value: v})
		}
	}
	s.ps.Seek(rng, func(k, v []byte) bool {
		if _, shadowed := s.mem[string(k)]; !shadowed {
			key := make([]byte, len(k))
			copy(key, k)
			val := make([]byte, len(v))
			copy(val, v)
			kvs = append(kvs, KeyValue{Key: key, Value: val})
		}
		return true
	})
	sort.Slice(kvs, func(i, j int) bool {
		res := bytes.Compare(kvs[i].Key, kvs[j].Key)
		return res != 0 && rng.Backwards == (res > 0)
	})
	for _, kv := range kvs {
		if !f(kv.Key, kv.Value) {
			break
		}
	}
}

// Persist flushes all the MemCachedStore contents into the (supposedly)
// persistent store ps. It returns the number of keys flushed.
func (s *MemCachedStore) Persist() (int, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	if len(s.mem) == 0 {
		return 0, nil
	}
	err := s.ps.PutChangeSet(s.mem)
	if err != nil {
		return 0, err
	}
	keys := len(s.mem)
	s.mem = make(map[string][]byte)
	return keys, nil
}

// Close implements the Store interface, it closes the lower layer as well.
func (s *MemCachedStore) Close() error {
	err := s.MemoryStore.Close()
	psErr := s.ps.Close()
	if err == nil {
		err = psErr
	}
	return err
}
