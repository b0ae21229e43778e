package core

import (
	"github.com/keelvm/keel/config"
	"github.com/keelvm/keel/pkg/core/block"
	"github.com/keelvm/keel/pkg/core/dao"
	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/state"
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/core/transaction"
	"github.com/keelvm/keel/pkg/smartcontract/callflag"
	"github.com/keelvm/keel/pkg/smartcontract/trigger"
	"github.com/keelvm/keel/pkg/vm"
	"github.com/keelvm/keel/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// Executor runs transaction scripts against a staged snapshot of the
// underlying store. It is the embedding point for hosts that feed
// transactions in: each execution gets its own snapshot layer and its own
// notification ledger.
type Executor struct {
	dao    *dao.Simple
	log    *zap.Logger
	limits config.Limits
}

// ExecutionResult is what's left after a script has been run: the terminal
// VM state, the consumed gas, the items remaining on the evaluation stack
// and the notifications emitted along the way.
type ExecutionResult struct {
	State       vm.State
	GasConsumed int64
	Stack       []stackitem.Item
	Events      []state.NotificationEvent
	FaultError  error
}

// NewExecutor creates an Executor on top of the given store with the default
// resource limits.
func NewExecutor(st storage.Store, log *zap.Logger) *Executor {
	return NewExecutorWithLimits(st, config.DefaultLimits(), log)
}

// NewExecutorWithLimits creates an Executor enforcing the given resource
// limits on every execution.
func NewExecutorWithLimits(st storage.Store, limits config.Limits, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		dao:    dao.NewSimple(st),
		log:    log,
		limits: limits,
	}
}

// DAO gives access to the executor's top-level data layer, tests and hosts
// use it to deploy contracts and inspect state.
func (e *Executor) DAO() *dao.Simple {
	return e.dao
}

// Execute runs the entry script of the given transaction under the
// Application trigger. Storage writes are staged in a snapshot layer and
// persisted only when the script HALTs; a FAULT discards them wholesale.
func (e *Executor) Execute(blk *block.Block, tx *transaction.Transaction) (*ExecutionResult, error) {
	cache := e.dao.GetWrapped()
	ic := interop.NewContext(trigger.Application, cache, blk, tx, e.log)
	ic.Limits = e.limits
	SpawnVM(ic)
	ic.LoadScriptWithFlags(tx.Script, callflag.All)

	err := ic.VM.Run()
	res := &ExecutionResult{
		State:       ic.VM.State(),
		GasConsumed: ic.VM.GasConsumed(),
		Events:      ic.Notifications,
		FaultError:  err,
	}
	if err == nil {
		for _, el := range ic.VM.Estack().PopN(ic.VM.Estack().Len()) {
			res.Stack = append(res.Stack, el.Item())
		}
		if _, perr := cache.Persist(); perr != nil {
			return nil, perr
		}
	}
	return res, nil
}

// Persist pushes the executor's own staged layer down to the backing store.
func (e *Executor) Persist() (int, error) {
	return e.dao.Persist()
}
