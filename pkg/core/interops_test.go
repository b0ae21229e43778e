package core

import (
	"testing"

	"github.com/keelvm/keel/pkg/core/dao"
	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/interop/interopnames"
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/core/transaction"
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/smartcontract/callflag"
	"github.com/keelvm/keel/pkg/smartcontract/trigger"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/emit"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInteropIDsAreSorted(t *testing.T) {
	for i := 1; i < len(systemInterops); i++ {
		require.True(t, systemInterops[i-1].ID < systemInterops[i].ID,
			"unsorted entries %s and %s", systemInterops[i-1].Name, systemInterops[i].Name)
	}
}

func TestAllInteropsResolvable(t *testing.T) {
	for i := range systemInterops {
		name, err := interopnames.FromID(systemInterops[i].ID)
		require.NoError(t, err)
		require.Equal(t, systemInterops[i].Name, name)
	}
}

func spawn(t *testing.T, tx *transaction.Transaction) *interop.Context {
	d := dao.NewSimple(storage.NewMemoryStore())
	ic := interop.NewContext(trigger.Application, d, nil, tx, zaptest.NewLogger(t))
	SpawnVM(ic)
	return ic
}

func TestSyscallDispatch(t *testing.T) {
	t.Run("platform via script", func(t *testing.T) {
		w := io.NewBufBinWriter()
		emit.Syscall(w.BinWriter, interopnames.SystemRuntimePlatform)
		require.NoError(t, w.Err)

		ic := spawn(t, nil)
		ic.LoadScriptWithFlags(w.Bytes(), callflag.All)
		require.NoError(t, ic.VM.Run())
		require.Equal(t, "KEEL", string(ic.VM.Estack().Pop().Bytes()))
	})
	t.Run("unknown syscall faults", func(t *testing.T) {
		w := io.NewBufBinWriter()
		emit.Syscall(w.BinWriter, "System.Missing.Interop")
		require.NoError(t, w.Err)

		ic := spawn(t, nil)
		ic.LoadScriptWithFlags(w.Bytes(), callflag.All)
		err := ic.VM.Run()
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")
	})
	t.Run("missing flags fault", func(t *testing.T) {
		w := io.NewBufBinWriter()
		emit.Syscall(w.BinWriter, interopnames.SystemStorageGetContext)
		require.NoError(t, w.Err)

		ic := spawn(t, nil)
		ic.VM.LoadScriptWithHash(w.Bytes(), util.Uint160{1}, callflag.AllowNotify)
		err := ic.VM.Run()
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing call flags")
	})
	t.Run("gas exhaustion faults", func(t *testing.T) {
		w := io.NewBufBinWriter()
		emit.Syscall(w.BinWriter, interopnames.SystemRuntimePlatform)
		require.NoError(t, w.Err)

		tx := transaction.New(w.Bytes(), 1) // Platform costs more than 1.
		ic := spawn(t, tx)
		ic.LoadScriptWithFlags(tx.Script, callflag.All)
		err := ic.VM.Run()
		require.Error(t, err)
		require.Contains(t, err.Error(), "insufficient amount of gas")
	})
}
