// Package interop contains the execution context passed to all syscall
// handlers and the syscall registry/dispatch machinery.
package interop

import (
	"errors"
	"fmt"
	"sort"

	"github.com/keelvm/keel/config"
	"github.com/keelvm/keel/pkg/core/block"
	"github.com/keelvm/keel/pkg/core/dao"
	"github.com/keelvm/keel/pkg/core/state"
	"github.com/keelvm/keel/pkg/core/transaction"
	"github.com/keelvm/keel/pkg/crypto/hash"
	"github.com/keelvm/keel/pkg/smartcontract/callflag"
	"github.com/keelvm/keel/pkg/smartcontract/trigger"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm"
	"github.com/keelvm/keel/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// Context represents the context in which interops are executed. It owns
// the per-execution notification ledger and the staged snapshot view, and
// is shared by all frames of one execution. It is not safe for concurrent
// use.
type Context struct {
	Trigger       trigger.Type
	Block         *block.Block
	Tx            *transaction.Transaction
	DAO           *dao.Simple
	Notifications []state.NotificationEvent
	Log           *zap.Logger
	VM            *vm.VM
	Functions     []Function
	// Limits are the resource ceilings enforced by storage and
	// serialization interops.
	Limits config.Limits
}

// NewContext returns new interop context.
func NewContext(trigger trigger.Type, d *dao.Simple, blk *block.Block, tx *transaction.Transaction, log *zap.Logger) *Context {
	return &Context{
		Trigger:       trigger,
		Block:         blk,
		Tx:            tx,
		DAO:           d,
		Notifications: make([]state.NotificationEvent, 0),
		Log:           log,
		Limits:        config.DefaultLimits(),
	}
}

// Function binds function name and id with the function itself and its
// price, the required set of flags and the number of parameters it pops
// from the evaluation stack.
type Function struct {
	ID   uint32
	Name string
	Func func(*Context) error
	// Price is the cost of the function charged before execution.
	Price int64
	// RequiredFlags is a set of flags which must be set in the current
	// frame during function invocation. 0 means no flags are required.
	RequiredFlags callflag.CallFlag
	ParamCount    int
}

// Sort sorts the given array of interop functions by ID.
func Sort(fs []Function) {
	sort.Slice(fs, func(i, j int) bool { return fs[i].ID < fs[j].ID })
}

// GetContract returns a contract state by its hash.
func (ic *Context) GetContract(h util.Uint160) (*state.Contract, error) {
	return ic.DAO.GetContractState(h)
}

// GetFunction returns the function with the given id or nil. The Functions
// slice is kept sorted by id.
func (ic *Context) GetFunction(id uint32) *Function {
	n := sort.Search(len(ic.Functions), func(i int) bool {
		return ic.Functions[i].ID >= id
	})
	if n < len(ic.Functions) && ic.Functions[n].ID == id {
		return &ic.Functions[n]
	}
	return nil
}

// SyscallHandler handles a syscall with the given id: charges its price,
// checks the required call flags against the current frame and runs the
// handler.
func (ic *Context) SyscallHandler(_ *vm.VM, id uint32) error {
	f := ic.GetFunction(id)
	if f == nil {
		return fmt.Errorf("syscall %#x not found", id)
	}
	cf := ic.VM.Context().GetCallFlags()
	if !cf.Has(f.RequiredFlags) {
		return fmt.Errorf("missing call flags for %s: %05b vs %05b", f.Name, cf, f.RequiredFlags)
	}
	if !ic.VM.AddGas(f.Price) {
		return errors.New("insufficient amount of gas")
	}
	return f.Func(ic)
}

// SpawnVM spawns a new VM with the specified gas limit and set up syscall
// handler.
func (ic *Context) SpawnVM() *vm.VM {
	v := vm.New()
	v.GasLimit = -1
	if ic.Tx != nil {
		v.GasLimit = ic.Tx.SystemFee
	}
	v.SyscallHandler = ic.SyscallHandler
	ic.VM = v
	return v
}

// AddNotification appends the given notification to the per-execution
// ledger preserving the emission order.
func (ic *Context) AddNotification(h util.Uint160, name string, item *stackitem.Array) {
	ic.Notifications = append(ic.Notifications, state.NotificationEvent{
		ScriptHash: h,
		Name:       name,
		Item:       item,
	})
}

// Container returns the script container of the current execution (the
// transaction normally).
func (ic *Context) Container() *transaction.Transaction {
	return ic.Tx
}

// LoadScriptWithFlags loads the given script identified by its computed
// hash as the entry context of the spawned VM.
func (ic *Context) LoadScriptWithFlags(script []byte, f callflag.CallFlag) {
	ic.VM.LoadScriptWithHash(script, hash.Hash160(script), f)
}
