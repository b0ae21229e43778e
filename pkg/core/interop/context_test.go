package interop

import (
	"errors"
	"testing"

	"github.com/keelvm/keel/pkg/core/dao"
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/core/transaction"
	"github.com/keelvm/keel/pkg/smartcontract/callflag"
	"github.com/keelvm/keel/pkg/smartcontract/trigger"
	"github.com/keelvm/keel/pkg/vm/opcode"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func createContext(t *testing.T, tx *transaction.Transaction) *Context {
	d := dao.NewSimple(storage.NewMemoryStore())
	ic := NewContext(trigger.Application, d, nil, tx, zaptest.NewLogger(t))
	ic.SpawnVM()
	return ic
}

func TestGetFunction(t *testing.T) {
	ic := createContext(t, nil)
	ic.Functions = []Function{
		{ID: 2, Name: "second"},
		{ID: 5, Name: "fifth"},
		{ID: 1, Name: "first"},
	}
	Sort(ic.Functions)

	f := ic.GetFunction(5)
	require.NotNil(t, f)
	require.Equal(t, "fifth", f.Name)

	require.Nil(t, ic.GetFunction(3))
	require.Nil(t, ic.GetFunction(100))
}

func TestSyscallHandler(t *testing.T) {
	newIC := func(t *testing.T, tx *transaction.Transaction) *Context {
		ic := createContext(t, tx)
		ic.Functions = []Function{{
			ID:            1,
			Name:          "Test.Echo",
			Func:          func(*Context) error { return nil },
			Price:         100,
			RequiredFlags: callflag.ReadStates,
		}, {
			ID:   2,
			Name: "Test.Fail",
			Func: func(*Context) error { return errors.New("handler failed") },
		}}
		Sort(ic.Functions)
		ic.LoadScriptWithFlags([]byte{byte(opcode.RET)}, callflag.All)
		return ic
	}

	t.Run("unknown syscall", func(t *testing.T) {
		ic := newIC(t, nil)
		require.Error(t, ic.SyscallHandler(ic.VM, 42))
	})
	t.Run("ok", func(t *testing.T) {
		ic := newIC(t, nil)
		require.NoError(t, ic.SyscallHandler(ic.VM, 1))
	})
	t.Run("missing flags", func(t *testing.T) {
		ic := newIC(t, nil)
		ic.VM.LoadScriptWithHash([]byte{byte(opcode.RET)}, ic.VM.GetCurrentScriptHash(), callflag.AllowNotify)
		require.Error(t, ic.SyscallHandler(ic.VM, 1))
	})
	t.Run("handler error is propagated", func(t *testing.T) {
		ic := newIC(t, nil)
		require.Error(t, ic.SyscallHandler(ic.VM, 2))
	})
	t.Run("insufficient gas", func(t *testing.T) {
		tx := transaction.New([]byte{byte(opcode.RET)}, 10)
		ic := newIC(t, tx)
		require.Equal(t, int64(10), ic.VM.GasLimit)
		require.Error(t, ic.SyscallHandler(ic.VM, 1))
	})
}

func TestSpawnVMGasLimit(t *testing.T) {
	ic := createContext(t, nil)
	require.Equal(t, int64(-1), ic.VM.GasLimit)

	tx := transaction.New([]byte{byte(opcode.RET)}, 12345)
	ic = createContext(t, tx)
	require.Equal(t, int64(12345), ic.VM.GasLimit)
	require.Equal(t, tx, ic.Container())
}
