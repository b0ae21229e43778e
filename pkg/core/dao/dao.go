// Package dao provides a data access layer over the raw KV store: typed
// accessors for contracts, storage items, blocks and transactions, all
// working against a staged in-memory view that can be persisted or thrown
// away as a whole.
package dao

import (
	"encoding/binary"
	"errors"

	"github.com/keelvm/keel/pkg/core/block"
	"github.com/keelvm/keel/pkg/core/state"
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/core/transaction"
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/util"
	lru "github.com/hashicorp/golang-lru"
)

// contractCacheSize is the number of contract states kept in the read cache.
const contractCacheSize = 100

// ErrContractNotFound is returned when the requested contract is missing.
var ErrContractNotFound = errors.New("contract not found")

// ErrBlockNotFound is returned when the requested block is missing.
var ErrBlockNotFound = errors.New("block not found")

// ErrTxNotFound is returned when the requested transaction is missing.
var ErrTxNotFound = errors.New("transaction not found")

// Simple is a DAO over a MemCachedStore: all mutations are staged in memory
// until Persist pushes them to the lower layer.
type Simple struct {
	Store *storage.MemCachedStore

	contracts *lru.Cache
	// parent is the DAO this layer was wrapped from, nil for the bottom
	// layer. Persisting into the parent's store invalidates its read cache.
	parent *Simple
}

// NewSimple creates a new Simple instance over the given backing store.
func NewSimple(backend storage.Store) *Simple {
	cache, _ := lru.New(contractCacheSize)
	return &Simple{
		Store:     storage.NewMemCachedStore(backend),
		contracts: cache,
	}
}

// GetWrapped returns a new DAO layer wrapping the current one. Writes made
// through the wrapper are invisible to this DAO until the wrapper is
// persisted.
func (dao *Simple) GetWrapped() *Simple {
	wrapped := NewSimple(dao.Store)
	wrapped.parent = dao
	return wrapped
}

// Persist flushes all the changes made to the lower layer. It returns the
// number of keys flushed. Contract caches of this layer and of the layer
// persisted into are dropped, the parent may serve stale states otherwise.
func (dao *Simple) Persist() (int, error) {
	dao.contracts.Purge()
	if dao.parent != nil {
		dao.parent.contracts.Purge()
	}
	return dao.Store.Persist()
}

// GetAndDecode performs get operation and decoding with serializable entities.
func (dao *Simple) GetAndDecode(entity io.Serializable, key []byte) error {
	entityBytes, err := dao.Store.Get(key)
	if err != nil {
		return err
	}
	reader := io.NewBinReaderFromBuf(entityBytes)
	entity.DecodeBinary(reader)
	return reader.Err
}

// Put performs put operation with serializable entities.
func (dao *Simple) Put(entity io.Serializable, key []byte) error {
	data, err := io.ToByteArray(entity)
	if err != nil {
		return err
	}
	dao.Store.Put(key, data)
	return nil
}

// -- start contracts.

func makeContractKey(hash util.Uint160) []byte {
	return storage.AppendPrefix(storage.STContract, hash.BytesBE())
}

func makeContractIDKey(id int32) []byte {
	key := make([]byte, 5)
	key[0] = byte(storage.STContractID)
	binary.LittleEndian.PutUint32(key[1:], uint32(id))
	return key
}

// GetContractState returns a contract state from its script hash.
func (dao *Simple) GetContractState(hash util.Uint160) (*state.Contract, error) {
	if cs, ok := dao.contracts.Get(hash); ok {
		return cs.(*state.Contract), nil
	}
	contract := &state.Contract{}
	err := dao.GetAndDecode(contract, makeContractKey(hash))
	if err != nil {
		if err == storage.ErrKeyNotFound {
			err = ErrContractNotFound
		}
		return nil, err
	}
	dao.contracts.Add(hash, contract)
	return contract, nil
}

// GetContractScriptHash returns the script hash of the contract with the
// given id.
func (dao *Simple) GetContractScriptHash(id int32) (util.Uint160, error) {
	data, err := dao.Store.Get(makeContractIDKey(id))
	if err != nil {
		if err == storage.ErrKeyNotFound {
			err = ErrContractNotFound
		}
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(data)
}

// PutContractState stores the given contract state.
func (dao *Simple) PutContractState(cs *state.Contract) error {
	if err := dao.Put(cs, makeContractKey(cs.Hash)); err != nil {
		return err
	}
	dao.contracts.Remove(cs.Hash)
	dao.Store.Put(makeContractIDKey(cs.ID), cs.Hash.BytesBE())
	return nil
}

// DeleteContractState deletes the given contract state along with its
// id-to-hash mapping.
func (dao *Simple) DeleteContractState(cs *state.Contract) error {
	dao.contracts.Remove(cs.Hash)
	dao.Store.Delete(makeContractKey(cs.Hash))
	dao.Store.Delete(makeContractIDKey(cs.ID))
	return nil
}

// GetNextContractID returns the id to be assigned to the next deployed
// contract and advances the stored counter.
func (dao *Simple) GetNextContractID() (int32, error) {
	var id int32
	key := storage.STContractID.Bytes()
	data, err := dao.Store.Get(key)
	if err == nil {
		id = int32(binary.LittleEndian.Uint32(data))
	} else if err != storage.ErrKeyNotFound {
		return 0, err
	}
	next := make([]byte, 4)
	binary.LittleEndian.PutUint32(next, uint32(id+1))
	dao.Store.Put(key, next)
	return id, nil
}

// -- end contracts.

// -- start storage item.

// makeStorageItemKey returns the key used to store the StorageItem with the
// given contract id and user key: prefix byte, little-endian id, raw key.
func makeStorageItemKey(id int32, key []byte) []byte {
	buf := make([]byte, 5+len(key))
	buf[0] = byte(storage.STStorage)
	binary.LittleEndian.PutUint32(buf[1:], uint32(id))
	copy(buf[5:], key)
	return buf
}

// GetStorageItem returns StorageItem if it exists in the given store.
func (dao *Simple) GetStorageItem(id int32, key []byte) *state.StorageItem {
	b, err := dao.Store.Get(makeStorageItemKey(id, key))
	if err != nil {
		return nil
	}
	r := io.NewBinReaderFromBuf(b)
	si := &state.StorageItem{}
	si.DecodeBinary(r)
	if r.Err != nil {
		return nil
	}
	return si
}

// PutStorageItem puts the given StorageItem for the given contract id and
// key into the given store.
func (dao *Simple) PutStorageItem(id int32, key []byte, si *state.StorageItem) error {
	return dao.Put(si, makeStorageItemKey(id, key))
}

// DeleteStorageItem drops a storage item for the given contract id and key.
func (dao *Simple) DeleteStorageItem(id int32, key []byte) error {
	dao.Store.Delete(makeStorageItemKey(id, key))
	return nil
}

// Seek executes f for all storage items matching the given id and key
// prefix, in key order. Seeking stops once f returns false.
func (dao *Simple) Seek(id int32, rng storage.SeekRange, f func(k, v []byte) bool) {
	rng.Prefix = makeStorageItemKey(id, rng.Prefix)
	dao.Store.Seek(rng, func(k, v []byte) bool {
		return f(k[5:], v)
	})
}

// -- end storage item.

// -- start block.

func makeExecutableKey(hash util.Uint256) []byte {
	return storage.AppendPrefix(storage.DataExecutable, hash.BytesBE())
}

// GetBlock returns a Block by the given hash if it exists in the store.
func (dao *Simple) GetBlock(hash util.Uint256) (*block.Block, error) {
	b, err := dao.Store.Get(makeExecutableKey(hash))
	if err != nil {
		if err == storage.ErrKeyNotFound {
			err = ErrBlockNotFound
		}
		return nil, err
	}
	if len(b) == 0 || b[0] != storage.ExecBlock {
		return nil, ErrBlockNotFound
	}
	r := io.NewBinReaderFromBuf(b[1:])
	blk := &block.Block{}
	blk.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	return blk, nil
}

// StoreAsBlock stores given block as DataExecutable and records the
// index-to-hash mapping.
func (dao *Simple) StoreAsBlock(blk *block.Block) error {
	buf := io.NewBufBinWriter()
	buf.WriteB(storage.ExecBlock)
	blk.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return buf.Err
	}
	dao.Store.Put(makeExecutableKey(blk.Hash()), buf.Bytes())
	dao.Store.Put(makeHeaderHashKey(blk.Index), blk.Hash().BytesBE())
	return nil
}

func makeHeaderHashKey(index uint32) []byte {
	buf := make([]byte, 5)
	buf[0] = byte(storage.IXHeaderHashList)
	binary.LittleEndian.PutUint32(buf[1:], index)
	return buf
}

// GetBlockHashByIndex returns the hash of the block stored at the given
// height.
func (dao *Simple) GetBlockHashByIndex(index uint32) (util.Uint256, error) {
	b, err := dao.Store.Get(makeHeaderHashKey(index))
	if err != nil {
		return util.Uint256{}, ErrBlockNotFound
	}
	return util.Uint256DecodeBytesBE(b)
}

// GetCurrentBlockHeight returns the current block height found in the store.
func (dao *Simple) GetCurrentBlockHeight() (uint32, error) {
	b, err := dao.Store.Get(storage.SYSCurrentBlock.Bytes())
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// PutCurrentBlock stores the current block height and hash.
func (dao *Simple) PutCurrentBlock(h util.Uint256, index uint32) error {
	buf := make([]byte, 4+util.Uint256Size)
	binary.LittleEndian.PutUint32(buf, index)
	copy(buf[4:], h.BytesBE())
	dao.Store.Put(storage.SYSCurrentBlock.Bytes(), buf)
	return nil
}

// -- end block.

// -- start transaction.

// GetTransaction returns Transaction and its height by the given hash if it
// exists in the store.
func (dao *Simple) GetTransaction(hash util.Uint256) (*transaction.Transaction, uint32, error) {
	b, err := dao.Store.Get(makeExecutableKey(hash))
	if err != nil {
		if err == storage.ErrKeyNotFound {
			err = ErrTxNotFound
		}
		return nil, 0, err
	}
	if len(b) < 5 || b[0] != storage.ExecTransaction {
		return nil, 0, ErrTxNotFound
	}
	height := binary.LittleEndian.Uint32(b[1:])
	r := io.NewBinReaderFromBuf(b[5:])
	tx := &transaction.Transaction{}
	tx.DecodeBinary(r)
	if r.Err != nil {
		return nil, 0, r.Err
	}
	return tx, height, nil
}

// StoreAsTransaction stores the given transaction as DataExecutable together
// with the index of the block it belongs to.
func (dao *Simple) StoreAsTransaction(tx *transaction.Transaction, index uint32) error {
	buf := io.NewBufBinWriter()
	buf.WriteB(storage.ExecTransaction)
	buf.WriteU32LE(index)
	tx.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return buf.Err
	}
	dao.Store.Put(makeExecutableKey(tx.Hash()), buf.Bytes())
	return nil
}

// -- end transaction.
