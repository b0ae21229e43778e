package storage

import (
	"testing"

	"github.com/keelvm/keel/pkg/core/dao"
	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/state"
	istorage "github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/smartcontract/callflag"
	"github.com/keelvm/keel/pkg/smartcontract/manifest"
	"github.com/keelvm/keel/pkg/smartcontract/trigger"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/opcode"
	"github.com/keelvm/keel/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testContractID = 42

var testContractHash = util.Uint160{0xde, 0xad}

func createContext(t *testing.T, withStorage bool) *interop.Context {
	d := dao.NewSimple(istorage.NewMemoryStore())
	ic := interop.NewContext(trigger.Application, d, nil, nil, zaptest.NewLogger(t))
	ic.SpawnVM()

	m := manifest.NewManifest(testContractHash, "test")
	m.Features.Storage = withStorage
	require.NoError(t, d.PutContractState(&state.Contract{
		ID:       testContractID,
		Hash:     testContractHash,
		Script:   []byte{byte(opcode.RET)},
		Manifest: *m,
	}))
	ic.VM.LoadScriptWithHash([]byte{byte(opcode.RET)}, testContractHash, callflag.All)
	return ic
}

func pushContext(ic *interop.Context, readOnly bool) {
	ic.VM.Estack().PushItem(stackitem.NewInterop(&Context{ID: testContractID, ReadOnly: readOnly}))
}

func TestGetContext(t *testing.T) {
	t.Run("with storage feature", func(t *testing.T) {
		ic := createContext(t, true)
		require.NoError(t, GetContext(ic))
		stc := ic.VM.Estack().Pop().Value().(*Context)
		require.Equal(t, int32(testContractID), stc.ID)
		require.False(t, stc.ReadOnly)
	})
	t.Run("no storage feature", func(t *testing.T) {
		ic := createContext(t, false)
		require.Error(t, GetContext(ic))
	})
	t.Run("undeployed script", func(t *testing.T) {
		ic := createContext(t, true)
		ic.VM.LoadScriptWithHash([]byte{byte(opcode.RET)}, util.Uint160{9}, callflag.All)
		require.Error(t, GetContext(ic))
	})
	t.Run("read-only variant", func(t *testing.T) {
		ic := createContext(t, true)
		require.NoError(t, GetReadOnlyContext(ic))
		stc := ic.VM.Estack().Pop().Value().(*Context)
		require.True(t, stc.ReadOnly)
	})
}

func TestPutGet(t *testing.T) {
	ic := createContext(t, true)

	// The handler pops context, key, value in that order.
	ic.VM.Estack().PushVal([]byte("value"))
	ic.VM.Estack().PushVal([]byte("key"))
	pushContext(ic, false)
	require.NoError(t, Put(ic))

	ic.VM.Estack().PushVal([]byte("key"))
	pushContext(ic, false)
	require.NoError(t, Get(ic))
	require.Equal(t, []byte("value"), ic.VM.Estack().Pop().Bytes())
}

func TestGetMissingIsNull(t *testing.T) {
	ic := createContext(t, true)
	ic.VM.Estack().PushVal([]byte("nope"))
	pushContext(ic, false)
	require.NoError(t, Get(ic))
	_, ok := ic.VM.Estack().Pop().Item().(stackitem.Null)
	require.True(t, ok)
}

func TestPutEmptyValueIsAWrite(t *testing.T) {
	ic := createContext(t, true)

	ic.VM.Estack().PushVal([]byte{})
	ic.VM.Estack().PushVal([]byte("key"))
	pushContext(ic, false)
	require.NoError(t, Put(ic))

	ic.VM.Estack().PushVal([]byte("key"))
	pushContext(ic, false)
	require.NoError(t, Get(ic))
	item := ic.VM.Estack().Pop().Item()
	_, isNull := item.(stackitem.Null)
	require.False(t, isNull)
	b, err := item.TryBytes()
	require.NoError(t, err)
	require.Len(t, b, 0)
}

func TestPutLimits(t *testing.T) {
	ic := createContext(t, true)

	t.Run("key too long", func(t *testing.T) {
		ic.VM.Estack().PushVal([]byte("value"))
		ic.VM.Estack().PushVal(make([]byte, istorage.MaxStorageKeyLen+1))
		pushContext(ic, false)
		require.Error(t, Put(ic))
	})
	t.Run("value too long", func(t *testing.T) {
		ic.VM.Estack().PushVal(make([]byte, istorage.MaxStorageValueLen+1))
		ic.VM.Estack().PushVal([]byte("key"))
		pushContext(ic, false)
		require.Error(t, Put(ic))
	})
	t.Run("configured key ceiling", func(t *testing.T) {
		ic := createContext(t, true)
		ic.Limits.MaxStorageKeySize = 4

		ic.VM.Estack().PushVal([]byte("value"))
		ic.VM.Estack().PushVal([]byte("longkey"))
		pushContext(ic, false)
		require.Error(t, Put(ic))

		// A key within the lowered ceiling still goes through.
		ic.VM.Estack().PushVal([]byte("value"))
		ic.VM.Estack().PushVal([]byte("key"))
		pushContext(ic, false)
		require.NoError(t, Put(ic))
	})
	t.Run("configured value ceiling", func(t *testing.T) {
		ic := createContext(t, true)
		ic.Limits.MaxStorageValueSize = 8

		ic.VM.Estack().PushVal(make([]byte, 9))
		ic.VM.Estack().PushVal([]byte("key"))
		pushContext(ic, false)
		require.Error(t, Put(ic))
	})
}

func TestPutReadOnlyContext(t *testing.T) {
	ic := createContext(t, true)
	ic.VM.Estack().PushVal([]byte("value"))
	ic.VM.Estack().PushVal([]byte("key"))
	pushContext(ic, true)
	require.Error(t, Put(ic))

	// Nothing must have been written.
	require.Nil(t, ic.DAO.GetStorageItem(testContractID, []byte("key")))
}

func TestPutExConstant(t *testing.T) {
	ic := createContext(t, true)

	ic.VM.Estack().PushVal(int(Constant))
	ic.VM.Estack().PushVal([]byte("immutable"))
	ic.VM.Estack().PushVal([]byte("key"))
	pushContext(ic, false)
	require.NoError(t, PutEx(ic))

	t.Run("overwrite fails", func(t *testing.T) {
		ic.VM.Estack().PushVal([]byte("new"))
		ic.VM.Estack().PushVal([]byte("key"))
		pushContext(ic, false)
		require.Error(t, Put(ic))
	})
	t.Run("delete fails", func(t *testing.T) {
		ic.VM.Estack().PushVal([]byte("key"))
		pushContext(ic, false)
		require.Error(t, Delete(ic))
	})
	t.Run("value intact", func(t *testing.T) {
		ic.VM.Estack().PushVal([]byte("key"))
		pushContext(ic, false)
		require.NoError(t, Get(ic))
		require.Equal(t, []byte("immutable"), ic.VM.Estack().Pop().Bytes())
	})
}

func TestDelete(t *testing.T) {
	ic := createContext(t, true)

	ic.VM.Estack().PushVal([]byte("value"))
	ic.VM.Estack().PushVal([]byte("key"))
	pushContext(ic, false)
	require.NoError(t, Put(ic))

	t.Run("read-only context", func(t *testing.T) {
		ic.VM.Estack().PushVal([]byte("key"))
		pushContext(ic, true)
		require.Error(t, Delete(ic))
	})

	ic.VM.Estack().PushVal([]byte("key"))
	pushContext(ic, false)
	require.NoError(t, Delete(ic))

	ic.VM.Estack().PushVal([]byte("key"))
	pushContext(ic, false)
	require.NoError(t, Get(ic))
	_, ok := ic.VM.Estack().Pop().Item().(stackitem.Null)
	require.True(t, ok)

	t.Run("missing key is a no-op", func(t *testing.T) {
		ic.VM.Estack().PushVal([]byte("key"))
		pushContext(ic, false)
		require.NoError(t, Delete(ic))
	})
}

func TestContextAsReadOnly(t *testing.T) {
	ic := createContext(t, true)
	pushContext(ic, false)
	require.NoError(t, ContextAsReadOnly(ic))
	stc := ic.VM.Estack().Pop().Value().(*Context)
	require.True(t, stc.ReadOnly)
	require.Equal(t, int32(testContractID), stc.ID)
}

func TestContextTypeCheck(t *testing.T) {
	ic := createContext(t, true)
	ic.VM.Estack().PushVal([]byte("key"))
	ic.VM.Estack().PushItem(stackitem.NewInterop("not a context"))
	require.Error(t, Get(ic))
}

func TestGasAccounting(t *testing.T) {
	ic := createContext(t, true)
	ic.VM.GasLimit = DefaultStoragePrice // enough for one byte, not for 8.

	ic.VM.Estack().PushVal([]byte("value"))
	ic.VM.Estack().PushVal([]byte("key"))
	pushContext(ic, false)
	require.ErrorIs(t, Put(ic), ErrGasLimitExceeded)
}

func TestFind(t *testing.T) {
	ic := createContext(t, true)

	items := map[string][]byte{
		"key1":  []byte("one"),
		"key2":  []byte("two"),
		"other": []byte("three"),
	}
	for k, v := range items {
		require.NoError(t, ic.DAO.PutStorageItem(testContractID, []byte(k), &state.StorageItem{Value: v}))
	}

	ic.VM.Estack().PushVal([]byte("key"))
	pushContext(ic, false)
	require.NoError(t, Find(ic))

	iop := ic.VM.Estack().Pop().Interop()
	iter := iop.Value().(*Iterator)

	require.True(t, iter.Next())
	kv := iter.Value().Value().([]stackitem.Item)
	require.Equal(t, []byte("key1"), kv[0].Value().([]byte))
	require.Equal(t, []byte("one"), kv[1].Value().([]byte))

	require.True(t, iter.Next())
	kv = iter.Value().Value().([]stackitem.Item)
	require.Equal(t, []byte("key2"), kv[0].Value().([]byte))

	require.False(t, iter.Next())
}

func TestFindSnapshotIsolation(t *testing.T) {
	ic := createContext(t, true)
	require.NoError(t, ic.DAO.PutStorageItem(testContractID, []byte("a"), &state.StorageItem{Value: []byte{1}}))

	ic.VM.Estack().PushVal([]byte{})
	pushContext(ic, false)
	require.NoError(t, Find(ic))
	iter := ic.VM.Estack().Pop().Interop().Value().(*Iterator)

	// A write made after Find is not seen by the existing iterator.
	require.NoError(t, ic.DAO.PutStorageItem(testContractID, []byte("b"), &state.StorageItem{Value: []byte{2}}))

	require.True(t, iter.Next())
	require.False(t, iter.Next())
}
