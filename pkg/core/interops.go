package core

/*
  Interops are designed to run under VM's execute() panic protection, so it's OK
  for them to do things like
          smth := ic.VM.Estack().Pop().Bytes()
  even though technically Pop() can return a nil pointer.
*/

import (
	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/interop/contract"
	"github.com/keelvm/keel/pkg/core/interop/crypto"
	"github.com/keelvm/keel/pkg/core/interop/interopnames"
	"github.com/keelvm/keel/pkg/core/interop/iterator"
	"github.com/keelvm/keel/pkg/core/interop/runtime"
	istorage "github.com/keelvm/keel/pkg/core/interop/storage"
	"github.com/keelvm/keel/pkg/smartcontract/callflag"
	"github.com/keelvm/keel/pkg/vm"
)

// SpawnVM returns a VM with the syscall dispatch set up for the given
// context.
func SpawnVM(ic *interop.Context) *vm.VM {
	vm := ic.SpawnVM()
	ic.Functions = systemInterops
	return vm
}

// All lists are sorted, keep 'em this way, please.
var systemInterops = []interop.Function{
	{Name: interopnames.SystemBlockchainGetBlock, Func: bcGetBlock, Price: 1 << 16,
		RequiredFlags: callflag.ReadStates, ParamCount: 1},
	{Name: interopnames.SystemBlockchainGetContract, Func: bcGetContract, Price: 1 << 15,
		RequiredFlags: callflag.ReadStates, ParamCount: 1},
	{Name: interopnames.SystemBlockchainGetHeight, Func: bcGetHeight, Price: 1 << 4,
		RequiredFlags: callflag.ReadStates},
	{Name: interopnames.SystemBlockchainGetTransaction, Func: bcGetTransaction, Price: 1 << 15,
		RequiredFlags: callflag.ReadStates, ParamCount: 1},
	{Name: interopnames.SystemBlockchainGetTransactionHeight, Func: bcGetTransactionHeight, Price: 1 << 15,
		RequiredFlags: callflag.ReadStates, ParamCount: 1},
	{Name: interopnames.SystemContractCall, Func: contract.Call, Price: 1 << 15,
		RequiredFlags: callflag.AllowCall, ParamCount: 4},
	{Name: interopnames.SystemContractCreateStandardAccount, Func: contract.CreateStandardAccount,
		Price: 1 << 8, ParamCount: 1},
	{Name: interopnames.SystemContractDestroy, Func: contract.Destroy, Price: 1 << 15,
		RequiredFlags: callflag.WriteStates},
	{Name: interopnames.SystemContractGetCallFlags, Func: contract.GetCallFlags, Price: 1 << 10},
	{Name: interopnames.SystemCryptoVerifyWithECDsaSecp256k1, Func: crypto.ECDSASecp256k1Verify,
		Price: 1 << 15, ParamCount: 3},
	{Name: interopnames.SystemCryptoVerifyWithECDsaSecp256r1, Func: crypto.ECDSASecp256r1Verify,
		Price: 1 << 15, ParamCount: 3},
	{Name: interopnames.SystemIteratorCreate, Func: iterator.Create, Price: 1 << 4, ParamCount: 1},
	{Name: interopnames.SystemIteratorNext, Func: iterator.Next, Price: 1 << 15, ParamCount: 1},
	{Name: interopnames.SystemIteratorValue, Func: iterator.Value, Price: 1 << 4, ParamCount: 1},
	{Name: interopnames.SystemRuntimeCheckWitness, Func: runtime.CheckWitness, Price: 1 << 10,
		RequiredFlags: callflag.NoneFlag, ParamCount: 1},
	{Name: interopnames.SystemRuntimeDeserialize, Func: runtime.Deserialize, Price: 1 << 14, ParamCount: 1},
	{Name: interopnames.SystemRuntimeGasLeft, Func: runtime.GasLeft, Price: 1 << 4},
	{Name: interopnames.SystemRuntimeGetCallingScriptHash, Func: runtime.GetCallingScriptHash, Price: 1 << 4},
	{Name: interopnames.SystemRuntimeGetEntryScriptHash, Func: runtime.GetEntryScriptHash, Price: 1 << 4},
	{Name: interopnames.SystemRuntimeGetExecutingScriptHash, Func: runtime.GetExecutingScriptHash, Price: 1 << 4},
	{Name: interopnames.SystemRuntimeGetInvocationCounter, Func: runtime.GetInvocationCounter, Price: 1 << 4},
	{Name: interopnames.SystemRuntimeGetNotifications, Func: runtime.GetNotifications, Price: 1 << 8, ParamCount: 1},
	{Name: interopnames.SystemRuntimeGetScriptContainer, Func: runtime.GetScriptContainer, Price: 1 << 3},
	{Name: interopnames.SystemRuntimeGetTime, Func: runtime.GetTime, Price: 1 << 3,
		RequiredFlags: callflag.ReadStates},
	{Name: interopnames.SystemRuntimeGetTrigger, Func: runtime.GetTrigger, Price: 1 << 3},
	{Name: interopnames.SystemRuntimeLog, Func: runtime.Log, Price: 1 << 15,
		RequiredFlags: callflag.AllowNotify, ParamCount: 1},
	{Name: interopnames.SystemRuntimeNotify, Func: runtime.Notify, Price: 1 << 15,
		RequiredFlags: callflag.AllowNotify, ParamCount: 2},
	{Name: interopnames.SystemRuntimePlatform, Func: runtime.Platform, Price: 1 << 3},
	{Name: interopnames.SystemRuntimeSerialize, Func: runtime.Serialize, Price: 1 << 12, ParamCount: 1},
	{Name: interopnames.SystemStorageAsReadOnly, Func: istorage.ContextAsReadOnly, Price: 1 << 4,
		RequiredFlags: callflag.ReadStates, ParamCount: 1},
	{Name: interopnames.SystemStorageDelete, Func: istorage.Delete, Price: 0,
		RequiredFlags: callflag.WriteStates, ParamCount: 2},
	{Name: interopnames.SystemStorageFind, Func: istorage.Find, Price: 1 << 15,
		RequiredFlags: callflag.ReadStates, ParamCount: 2},
	{Name: interopnames.SystemStorageGet, Func: istorage.Get, Price: 1 << 15,
		RequiredFlags: callflag.ReadStates, ParamCount: 2},
	{Name: interopnames.SystemStorageGetContext, Func: istorage.GetContext, Price: 1 << 4,
		RequiredFlags: callflag.ReadStates},
	{Name: interopnames.SystemStorageGetReadOnlyContext, Func: istorage.GetReadOnlyContext, Price: 1 << 4,
		RequiredFlags: callflag.ReadStates},
	{Name: interopnames.SystemStoragePut, Func: istorage.Put, Price: 0,
		RequiredFlags: callflag.WriteStates, ParamCount: 3}, // Charged per byte in the handler.
	{Name: interopnames.SystemStoragePutEx, Func: istorage.PutEx, Price: 0,
		RequiredFlags: callflag.WriteStates, ParamCount: 4},
}

// initIDinInteropsSlice initializes IDs from names in one given
// Function slice and then sorts it.
func initIDinInteropsSlice(iops []interop.Function) {
	for i := range iops {
		iops[i].ID = interopnames.ToID([]byte(iops[i].Name))
	}
	interop.Sort(iops)
}

func init() {
	initIDinInteropsSlice(systemInterops)
}
