package iterator

import (
	"math/big"
	"testing"

	"github.com/keelvm/keel/pkg/core/dao"
	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/smartcontract/trigger"
	"github.com/keelvm/keel/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func createContext(t *testing.T) *interop.Context {
	d := dao.NewSimple(storage.NewMemoryStore())
	ic := interop.NewContext(trigger.Application, d, nil, nil, zaptest.NewLogger(t))
	ic.SpawnVM()
	return ic
}

func next(t *testing.T, ic *interop.Context, iop stackitem.Item) bool {
	ic.VM.Estack().PushItem(iop)
	require.NoError(t, Next(ic))
	return ic.VM.Estack().Pop().Bool()
}

func value(t *testing.T, ic *interop.Context, iop stackitem.Item) stackitem.Item {
	ic.VM.Estack().PushItem(iop)
	require.NoError(t, Value(ic))
	return ic.VM.Estack().Pop().Item()
}

func TestCreateArray(t *testing.T) {
	ic := createContext(t)
	ic.VM.Estack().PushVal([]stackitem.Item{
		stackitem.Make(10),
		stackitem.Make(11),
	})
	require.NoError(t, Create(ic))
	iop := ic.VM.Estack().Pop().Item()
	require.True(t, IsIterator(iop))

	require.True(t, next(t, ic, iop))
	require.Equal(t, big.NewInt(10), value(t, ic, iop).Value())
	require.True(t, next(t, ic, iop))
	require.Equal(t, big.NewInt(11), value(t, ic, iop).Value())
	require.False(t, next(t, ic, iop))
}

func TestCreateStruct(t *testing.T) {
	ic := createContext(t)
	ic.VM.Estack().PushItem(stackitem.NewStruct([]stackitem.Item{stackitem.Make(1)}))
	require.NoError(t, Create(ic))
	iop := ic.VM.Estack().Pop().Item()

	require.True(t, next(t, ic, iop))
	require.Equal(t, big.NewInt(1), value(t, ic, iop).Value())
	require.False(t, next(t, ic, iop))
}

func TestCreateMap(t *testing.T) {
	ic := createContext(t)
	m := stackitem.NewMap()
	m.Add(stackitem.Make("a"), stackitem.Make(1))
	m.Add(stackitem.Make("b"), stackitem.Make(2))
	ic.VM.Estack().PushItem(m)
	require.NoError(t, Create(ic))
	iop := ic.VM.Estack().Pop().Item()

	require.True(t, next(t, ic, iop))
	kv := value(t, ic, iop).Value().([]stackitem.Item)
	require.Equal(t, []byte("a"), kv[0].Value())
	require.Equal(t, big.NewInt(1), kv[1].Value())

	require.True(t, next(t, ic, iop))
	kv = value(t, ic, iop).Value().([]stackitem.Item)
	require.Equal(t, []byte("b"), kv[0].Value())

	require.False(t, next(t, ic, iop))
}

func TestCreateNonIterable(t *testing.T) {
	ic := createContext(t)
	ic.VM.Estack().PushVal(42)
	require.Error(t, Create(ic))
}

func TestNextValueTypeCheck(t *testing.T) {
	ic := createContext(t)
	ic.VM.Estack().PushItem(stackitem.NewInterop("not an iterator"))
	require.Error(t, Next(ic))
	ic.VM.Estack().PushItem(stackitem.NewInterop("not an iterator"))
	require.Error(t, Value(ic))
}

func TestValues(t *testing.T) {
	ic := createContext(t)
	ic.VM.Estack().PushVal([]stackitem.Item{
		stackitem.Make(1),
		stackitem.Make(2),
		stackitem.Make(3),
	})
	require.NoError(t, Create(ic))
	iop := ic.VM.Estack().Pop().Item()

	vals := Values(iop, 2)
	require.Len(t, vals, 2)
	require.Equal(t, big.NewInt(1), vals[0].Value())
	require.Equal(t, big.NewInt(2), vals[1].Value())

	// The same iterator continues from where it stopped.
	vals = Values(iop, 10)
	require.Len(t, vals, 1)
	require.Equal(t, big.NewInt(3), vals[0].Value())
}
