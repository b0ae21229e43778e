package core

import (
	"math/big"
	"testing"

	"github.com/keelvm/keel/pkg/core/block"
	"github.com/keelvm/keel/pkg/core/dao"
	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/state"
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/core/transaction"
	"github.com/keelvm/keel/pkg/smartcontract/callflag"
	"github.com/keelvm/keel/pkg/smartcontract/manifest"
	"github.com/keelvm/keel/pkg/smartcontract/trigger"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/opcode"
	"github.com/keelvm/keel/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func createTestContext(t *testing.T) *interop.Context {
	d := dao.NewSimple(storage.NewMemoryStore())
	ic := interop.NewContext(trigger.Application, d, nil, nil, zaptest.NewLogger(t))
	SpawnVM(ic)
	ic.VM.LoadScriptWithHash([]byte{byte(opcode.RET)}, util.Uint160{0xca}, callflag.All)
	return ic
}

func testBlock(index uint32) *block.Block {
	return &block.Block{
		Header: block.Header{
			PrevHash:  util.Uint256{1},
			Timestamp: 1625000000000,
			Index:     index,
		},
	}
}

func TestBlockchainGetHeight(t *testing.T) {
	ic := createTestContext(t)
	blk := testBlock(12)
	require.NoError(t, ic.DAO.PutCurrentBlock(blk.Hash(), blk.Index))

	require.NoError(t, bcGetHeight(ic))
	require.Equal(t, big.NewInt(12), ic.VM.Estack().Pop().BigInt())
}

func TestBlockchainGetBlock(t *testing.T) {
	ic := createTestContext(t)
	blk := testBlock(5)
	require.NoError(t, ic.DAO.StoreAsBlock(blk))

	checkBlock := func(t *testing.T) {
		arr := ic.VM.Estack().Pop().Array()
		require.Equal(t, blk.Hash().BytesBE(), arr[0].Value().([]byte))
		require.Equal(t, big.NewInt(5), arr[5].Value())
	}

	t.Run("by hash", func(t *testing.T) {
		ic.VM.Estack().PushVal(blk.Hash().BytesBE())
		require.NoError(t, bcGetBlock(ic))
		checkBlock(t)
	})
	t.Run("by index", func(t *testing.T) {
		ic.VM.Estack().PushVal(5)
		require.NoError(t, bcGetBlock(ic))
		checkBlock(t)
	})
	t.Run("unknown hash", func(t *testing.T) {
		ic.VM.Estack().PushVal(util.Uint256{0xff}.BytesBE())
		require.NoError(t, bcGetBlock(ic))
		_, ok := ic.VM.Estack().Pop().Item().(stackitem.Null)
		require.True(t, ok)
	})
	t.Run("unknown index", func(t *testing.T) {
		ic.VM.Estack().PushVal(100500)
		require.NoError(t, bcGetBlock(ic))
		_, ok := ic.VM.Estack().Pop().Item().(stackitem.Null)
		require.True(t, ok)
	})
	t.Run("negative index", func(t *testing.T) {
		ic.VM.Estack().PushVal(-1)
		require.NoError(t, bcGetBlock(ic))
		_, ok := ic.VM.Estack().Pop().Item().(stackitem.Null)
		require.True(t, ok)
	})
}

func TestBlockchainGetTransaction(t *testing.T) {
	ic := createTestContext(t)
	tx := transaction.New([]byte{byte(opcode.PUSH1)}, 100)
	require.NoError(t, ic.DAO.StoreAsTransaction(tx, 33))

	t.Run("found", func(t *testing.T) {
		ic.VM.Estack().PushVal(tx.Hash().BytesBE())
		require.NoError(t, bcGetTransaction(ic))
		arr := ic.VM.Estack().Pop().Array()
		require.Equal(t, tx.Hash().BytesBE(), arr[0].Value().([]byte))
		require.Equal(t, big.NewInt(100), arr[4].Value())
	})
	t.Run("missing", func(t *testing.T) {
		ic.VM.Estack().PushVal(util.Uint256{0xff}.BytesBE())
		require.NoError(t, bcGetTransaction(ic))
		_, ok := ic.VM.Estack().Pop().Item().(stackitem.Null)
		require.True(t, ok)
	})
	t.Run("bad hash input", func(t *testing.T) {
		ic.VM.Estack().PushVal([]byte{1, 2, 3})
		require.Error(t, bcGetTransaction(ic))
	})
}

func TestBlockchainGetTransactionHeight(t *testing.T) {
	ic := createTestContext(t)
	tx := transaction.New([]byte{byte(opcode.PUSH1)}, 100)
	require.NoError(t, ic.DAO.StoreAsTransaction(tx, 33))

	t.Run("found", func(t *testing.T) {
		ic.VM.Estack().PushVal(tx.Hash().BytesBE())
		require.NoError(t, bcGetTransactionHeight(ic))
		require.Equal(t, big.NewInt(33), ic.VM.Estack().Pop().BigInt())
	})
	t.Run("missing is -1", func(t *testing.T) {
		ic.VM.Estack().PushVal(util.Uint256{0xff}.BytesBE())
		require.NoError(t, bcGetTransactionHeight(ic))
		require.Equal(t, big.NewInt(-1), ic.VM.Estack().Pop().BigInt())
	})
}

func TestBlockchainGetContract(t *testing.T) {
	ic := createTestContext(t)
	h := util.Uint160{1, 2, 3}
	m := manifest.DefaultManifest(h, "test")
	m.Features.Storage = true
	require.NoError(t, ic.DAO.PutContractState(&state.Contract{
		ID:       10,
		Hash:     h,
		Script:   []byte{byte(opcode.RET)},
		Manifest: *m,
	}))

	t.Run("found", func(t *testing.T) {
		ic.VM.Estack().PushVal(h.BytesBE())
		require.NoError(t, bcGetContract(ic))
		arr := ic.VM.Estack().Pop().Array()
		require.Equal(t, big.NewInt(10), arr[0].Value())
		require.Equal(t, h.BytesBE(), arr[1].Value().([]byte))
		require.Equal(t, []byte{byte(opcode.RET)}, arr[2].Value().([]byte))
		require.Equal(t, true, arr[3].Value())
	})
	t.Run("missing", func(t *testing.T) {
		ic.VM.Estack().PushVal(util.Uint160{0xff}.BytesBE())
		require.NoError(t, bcGetContract(ic))
		_, ok := ic.VM.Estack().Pop().Item().(stackitem.Null)
		require.True(t, ok)
	})
	t.Run("bad hash input", func(t *testing.T) {
		ic.VM.Estack().PushVal([]byte{1, 2})
		require.Error(t, bcGetContract(ic))
	})
}
