package core

import (
	"math/big"
	"testing"

	"github.com/keelvm/keel/config"
	"github.com/keelvm/keel/pkg/core/block"
	"github.com/keelvm/keel/pkg/core/dao"
	"github.com/keelvm/keel/pkg/core/interop/interopnames"
	"github.com/keelvm/keel/pkg/core/state"
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/core/transaction"
	"github.com/keelvm/keel/pkg/crypto/hash"
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/smartcontract/manifest"
	"github.com/keelvm/keel/pkg/vm"
	"github.com/keelvm/keel/pkg/vm/emit"
	"github.com/keelvm/keel/pkg/vm/opcode"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testExecutorBlock() *block.Block {
	return &block.Block{
		Header: block.Header{
			Timestamp: 1625000000000,
			Index:     1,
		},
	}
}

// deployForScript registers the script's computed hash as a storage-enabled
// contract so the entry script can obtain a storage context.
func deployForScript(t *testing.T, e *Executor, script []byte, id int32) {
	h := hash.Hash160(script)
	m := manifest.DefaultManifest(h, "test")
	m.Features.Storage = true
	require.NoError(t, e.DAO().PutContractState(&state.Contract{
		ID:       id,
		Hash:     h,
		Script:   script,
		Manifest: *m,
	}))
}

func storagePutScript(t *testing.T, key, value []byte) []byte {
	w := io.NewBufBinWriter()
	emit.Bytes(w.BinWriter, value)
	emit.Bytes(w.BinWriter, key)
	emit.Syscall(w.BinWriter, interopnames.SystemStorageGetContext)
	emit.Syscall(w.BinWriter, interopnames.SystemStoragePut)
	require.NoError(t, w.Err)
	return w.Bytes()
}

func TestExecutorHaltPersists(t *testing.T) {
	e := NewExecutor(storage.NewMemoryStore(), zaptest.NewLogger(t))
	script := storagePutScript(t, []byte("key"), []byte("value"))
	deployForScript(t, e, script, 1)

	res, err := e.Execute(testExecutorBlock(), transaction.New(script, -1))
	require.NoError(t, err)
	require.Equal(t, vm.HaltState, res.State)
	require.NoError(t, res.FaultError)
	require.True(t, res.GasConsumed > 0)

	si := e.DAO().GetStorageItem(1, []byte("key"))
	require.NotNil(t, si)
	require.Equal(t, []byte("value"), si.Value)
}

func TestExecutorFaultDiscards(t *testing.T) {
	e := NewExecutor(storage.NewMemoryStore(), zaptest.NewLogger(t))
	w := io.NewBufBinWriter()
	emit.Bytes(w.BinWriter, []byte("value"))
	emit.Bytes(w.BinWriter, []byte("key"))
	emit.Syscall(w.BinWriter, interopnames.SystemStorageGetContext)
	emit.Syscall(w.BinWriter, interopnames.SystemStoragePut)
	emit.Opcode(w.BinWriter, opcode.ABORT)
	require.NoError(t, w.Err)
	script := w.Bytes()
	deployForScript(t, e, script, 1)

	res, err := e.Execute(testExecutorBlock(), transaction.New(script, -1))
	require.NoError(t, err)
	require.Equal(t, vm.FaultState, res.State)
	require.Error(t, res.FaultError)

	// The write is rolled back together with the whole snapshot layer.
	require.Nil(t, e.DAO().GetStorageItem(1, []byte("key")))
}

func TestExecutorResultStack(t *testing.T) {
	e := NewExecutor(storage.NewMemoryStore(), nil)
	w := io.NewBufBinWriter()
	emit.Int(w.BinWriter, 42)
	require.NoError(t, w.Err)

	res, err := e.Execute(testExecutorBlock(), transaction.New(w.Bytes(), -1))
	require.NoError(t, err)
	require.Equal(t, vm.HaltState, res.State)
	require.Len(t, res.Stack, 1)
	require.Equal(t, big.NewInt(42), res.Stack[0].Value())
}

func TestExecutorEvents(t *testing.T) {
	e := NewExecutor(storage.NewMemoryStore(), zaptest.NewLogger(t))
	w := io.NewBufBinWriter()
	emit.Array(w.BinWriter, int64(7))
	emit.String(w.BinWriter, "SomethingHappened")
	emit.Syscall(w.BinWriter, interopnames.SystemRuntimeNotify)
	require.NoError(t, w.Err)
	script := w.Bytes()

	res, err := e.Execute(testExecutorBlock(), transaction.New(script, -1))
	require.NoError(t, err)
	require.Equal(t, vm.HaltState, res.State)
	require.Len(t, res.Events, 1)
	require.Equal(t, "SomethingHappened", res.Events[0].Name)
	require.Equal(t, hash.Hash160(script), res.Events[0].ScriptHash)
}

func TestExecutorGasLimit(t *testing.T) {
	e := NewExecutor(storage.NewMemoryStore(), zaptest.NewLogger(t))
	w := io.NewBufBinWriter()
	emit.Syscall(w.BinWriter, interopnames.SystemRuntimePlatform)
	require.NoError(t, w.Err)

	res, err := e.Execute(testExecutorBlock(), transaction.New(w.Bytes(), 1))
	require.NoError(t, err)
	require.Equal(t, vm.FaultState, res.State)
	require.Error(t, res.FaultError)
}

func TestExecutorConfiguredLimits(t *testing.T) {
	limits := config.DefaultLimits()
	limits.MaxStorageKeySize = 4
	e := NewExecutorWithLimits(storage.NewMemoryStore(), limits, zaptest.NewLogger(t))
	script := storagePutScript(t, []byte("longkey"), []byte("value"))
	deployForScript(t, e, script, 1)

	res, err := e.Execute(testExecutorBlock(), transaction.New(script, -1))
	require.NoError(t, err)
	require.Equal(t, vm.FaultState, res.State)
	require.ErrorContains(t, res.FaultError, "key is too big")
	require.Nil(t, e.DAO().GetStorageItem(1, []byte("longkey")))
}

func TestExecutorInvalidatesContractCache(t *testing.T) {
	e := NewExecutor(storage.NewMemoryStore(), zaptest.NewLogger(t))
	w := io.NewBufBinWriter()
	emit.Syscall(w.BinWriter, interopnames.SystemContractDestroy)
	require.NoError(t, w.Err)
	script := w.Bytes()
	deployForScript(t, e, script, 1)

	// Warm the host DAO's read cache before the script runs.
	h := hash.Hash160(script)
	_, err := e.DAO().GetContractState(h)
	require.NoError(t, err)

	res, err := e.Execute(testExecutorBlock(), transaction.New(script, -1))
	require.NoError(t, err)
	require.Equal(t, vm.HaltState, res.State)

	// The destroyed contract must not be served from the cache.
	_, err = e.DAO().GetContractState(h)
	require.ErrorIs(t, err, dao.ErrContractNotFound)
}

func TestExecutorPersistLayers(t *testing.T) {
	backend := storage.NewMemoryStore()
	e := NewExecutor(backend, zaptest.NewLogger(t))
	script := storagePutScript(t, []byte("key"), []byte("value"))
	deployForScript(t, e, script, 1)

	_, err := e.Execute(testExecutorBlock(), transaction.New(script, -1))
	require.NoError(t, err)

	keys, err := e.Persist()
	require.NoError(t, err)
	require.True(t, keys > 0)
}
