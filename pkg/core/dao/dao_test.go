package dao

import (
	"testing"

	"github.com/keelvm/keel/pkg/core/block"
	"github.com/keelvm/keel/pkg/core/state"
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/core/transaction"
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/smartcontract/manifest"
	"github.com/keelvm/keel/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetAndDecode(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore())
	serializable := &TestSerializable{field: "smth"}
	hash := []byte{1}
	require.NoError(t, dao.Put(serializable, hash))

	gotAndDecoded := &TestSerializable{}
	require.NoError(t, dao.GetAndDecode(gotAndDecoded, hash))
	require.Equal(t, serializable, gotAndDecoded)
}

// TestSerializable structure used in testing.
type TestSerializable struct {
	field string
}

func (t *TestSerializable) EncodeBinary(writer *io.BinWriter) {
	writer.WriteString(t.field)
}

func (t *TestSerializable) DecodeBinary(reader *io.BinReader) {
	t.field = reader.ReadString()
}

func TestContractState(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore())
	cs := &state.Contract{
		ID:       1,
		Hash:     util.Uint160{1, 2, 3},
		Script:   []byte{0x40},
		Manifest: *manifest.DefaultManifest(util.Uint160{1, 2, 3}, "Test"),
	}

	_, err := dao.GetContractState(cs.Hash)
	require.ErrorIs(t, err, ErrContractNotFound)

	require.NoError(t, dao.PutContractState(cs))

	actual, err := dao.GetContractState(cs.Hash)
	require.NoError(t, err)
	require.Equal(t, cs.ID, actual.ID)
	require.Equal(t, cs.Hash, actual.Hash)
	require.Equal(t, cs.Script, actual.Script)

	h, err := dao.GetContractScriptHash(cs.ID)
	require.NoError(t, err)
	require.Equal(t, cs.Hash, h)

	require.NoError(t, dao.DeleteContractState(cs))
	_, err = dao.GetContractState(cs.Hash)
	require.ErrorIs(t, err, ErrContractNotFound)
	_, err = dao.GetContractScriptHash(cs.ID)
	require.ErrorIs(t, err, ErrContractNotFound)
}

func TestNextContractID(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore())
	for i := int32(0); i < 3; i++ {
		id, err := dao.GetNextContractID()
		require.NoError(t, err)
		require.Equal(t, i, id)
	}
}

func TestStorageItem(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore())
	id := int32(42)
	key := []byte("key")

	require.Nil(t, dao.GetStorageItem(id, key))

	si := &state.StorageItem{Value: []byte("value"), IsConst: true}
	require.NoError(t, dao.PutStorageItem(id, key, si))

	actual := dao.GetStorageItem(id, key)
	require.NotNil(t, actual)
	require.Equal(t, si.Value, actual.Value)
	require.True(t, actual.IsConst)

	// a different contract does not see the item
	require.Nil(t, dao.GetStorageItem(id+1, key))

	require.NoError(t, dao.DeleteStorageItem(id, key))
	require.Nil(t, dao.GetStorageItem(id, key))
}

func TestStorageSeek(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore())
	id := int32(7)
	for _, k := range []string{"aa", "ab", "ba"} {
		require.NoError(t, dao.PutStorageItem(id, []byte(k), &state.StorageItem{Value: []byte(k)}))
	}
	// an item of another contract that must not be visited
	require.NoError(t, dao.PutStorageItem(id+1, []byte("ac"), &state.StorageItem{Value: []byte("ac")}))

	var keys []string
	dao.Seek(id, storage.SeekRange{Prefix: []byte("a")}, func(k, v []byte) bool {
		keys = append(keys, string(k))
		return true
	})
	assert.Equal(t, []string{"aa", "ab"}, keys)
}

func TestWrappedPersist(t *testing.T) {
	lower := NewSimple(storage.NewMemoryStore())
	upper := lower.GetWrapped()

	si := &state.StorageItem{Value: []byte{1}}
	require.NoError(t, upper.PutStorageItem(1, []byte("k"), si))

	// invisible to the lower layer until Persist
	require.Nil(t, lower.GetStorageItem(1, []byte("k")))

	_, err := upper.Persist()
	require.NoError(t, err)
	require.NotNil(t, lower.GetStorageItem(1, []byte("k")))
}

func TestWrappedPersistDropsContractCache(t *testing.T) {
	lower := NewSimple(storage.NewMemoryStore())
	cs := &state.Contract{
		ID:       1,
		Hash:     util.Uint160{1, 2, 3},
		Script:   []byte{0x40},
		Manifest: *manifest.DefaultManifest(util.Uint160{1, 2, 3}, "Test"),
	}
	require.NoError(t, lower.PutContractState(cs))

	// warm the lower layer's read cache
	_, err := lower.GetContractState(cs.Hash)
	require.NoError(t, err)

	upper := lower.GetWrapped()
	require.NoError(t, upper.DeleteContractState(cs))
	_, err = upper.Persist()
	require.NoError(t, err)

	_, err = lower.GetContractState(cs.Hash)
	require.ErrorIs(t, err, ErrContractNotFound)
	_, err = lower.GetContractScriptHash(cs.ID)
	require.ErrorIs(t, err, ErrContractNotFound)
}

func TestStoreAsTransaction(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore())
	tx := transaction.New([]byte{0x40}, 1)
	tx.Signers = []transaction.Signer{{Account: util.Uint160{1}}}
	require.NoError(t, dao.StoreAsTransaction(tx, 42))

	actual, height, err := dao.GetTransaction(tx.Hash())
	require.NoError(t, err)
	require.Equal(t, uint32(42), height)
	require.Equal(t, tx.Script, actual.Script)

	_, _, err = dao.GetTransaction(util.Uint256{1})
	require.ErrorIs(t, err, ErrTxNotFound)
}

func TestStoreAsBlock(t *testing.T) {
	dao := NewSimple(storage.NewMemoryStore())
	blk := &block.Block{}
	blk.Index = 5
	blk.Timestamp = 100500
	require.NoError(t, dao.StoreAsBlock(blk))

	actual, err := dao.GetBlock(blk.Hash())
	require.NoError(t, err)
	require.Equal(t, blk.Index, actual.Index)
	require.Equal(t, blk.Timestamp, actual.Timestamp)

	_, err = dao.GetBlock(util.Uint256{1})
	require.ErrorIs(t, err, ErrBlockNotFound)
}
