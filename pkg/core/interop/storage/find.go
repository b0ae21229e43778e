package storage

import (
	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/state"
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/vm/stackitem"
)

// KeyValue is a storage key-value pair produced by Find.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// Iterator walks over a snapshot of storage items matching a prefix. The
// snapshot is taken when Find executes, later storage changes don't affect
// an iterator that was already created.
type Iterator struct {
	m     []KeyValue
	index int
}

// NewIterator creates a new Iterator over the given key-value pairs.
func NewIterator(m []KeyValue) *Iterator {
	return &Iterator{
		m:     m,
		index: -1,
	}
}

// Next advances the iterator and returns true if Value can be called at the
// current position.
func (s *Iterator) Next() bool {
	if s.index < len(s.m) {
		s.index++
	}
	return s.index < len(s.m)
}

// Value returns the current key-value pair packed in a struct. The key
// includes the prefix Find was performed with.
func (s *Iterator) Value() stackitem.Item {
	if s.index < 0 || s.index >= len(s.m) {
		panic("iterator index out of range")
	}
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(s.m[s.index].Key),
		stackitem.NewByteArray(s.m[s.index].Value),
	})
}

// Find returns an iterator over the stored key-value pairs whose keys start
// with the given prefix, in ascending key order.
func Find(ic *interop.Context) error {
	stc, err := popContext(ic)
	if err != nil {
		return err
	}
	prefix := ic.VM.Estack().Pop().Bytes()
	var res []KeyValue
	ic.DAO.Seek(stc.ID, storage.SeekRange{Prefix: prefix}, func(k, v []byte) bool {
		r := io.NewBinReaderFromBuf(v)
		si := new(state.StorageItem)
		si.DecodeBinary(r)
		if r.Err != nil {
			return true
		}
		key := make([]byte, len(k))
		copy(key, k)
		res = append(res, KeyValue{Key: key, Value: si.Value})
		return true
	})
	ic.VM.Estack().PushItem(stackitem.NewInterop(NewIterator(res)))
	return nil
}
