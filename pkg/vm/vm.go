package vm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/keelvm/keel/pkg/encoding/bigint"
	"github.com/keelvm/keel/pkg/smartcontract/callflag"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/opcode"
	"github.com/keelvm/keel/pkg/vm/stackitem"
)

// MaxStackItemByteLen is the maximum length of a single byte string pushed
// with PUSHDATA4.
const MaxStackItemByteLen = 1024 * 1024

// MaxInvocationStackSize is the maximum size of the invocation stack.
const MaxInvocationStackSize = 1024

// SyscallHandler is a type for a syscall handler. The handler receives the
// ID of the syscall popped from the instruction stream and operates on the
// VM's evaluation stack. A non-nil error puts the VM into the FAULT state.
type SyscallHandler = func(*VM, uint32) error

// ScriptHashGetter defines the interface for getting the script hashes of
// the frames relevant to the current execution context.
type ScriptHashGetter interface {
	GetCallingScriptHash() util.Uint160
	GetEntryScriptHash() util.Uint160
	GetCurrentScriptHash() util.Uint160
}

// VM represents the virtual machine and its invocation stack. One VM runs a
// single execution, it is not safe for concurrent use.
type VM struct {
	istack []*Context
	estack *Stack

	state State

	// Invocations tracks the number of activations per contract hash over
	// the whole execution.
	Invocations map[util.Uint160]int

	// GasLimit is the maximum amount of execution cost that can be spent
	// during the execution, -1 means no limit.
	GasLimit int64

	gasConsumed int64

	// SyscallHandler handles SYSCALL instructions.
	SyscallHandler SyscallHandler

	uncaughtException error
}

// New returns a new VM object ready to load scripts.
func New() *VM {
	return &VM{
		istack:      make([]*Context, 0, 8),
		estack:      NewStack(),
		Invocations: make(map[util.Uint160]int),
		GasLimit:    -1,
	}
}

// Estack returns the evaluation stack.
func (v *VM) Estack() *Stack {
	return v.estack
}

// Istack returns the number of the contexts on the invocation stack.
func (v *VM) Istack() int {
	return len(v.istack)
}

// Context returns the current executed context (the top one), nil if none.
func (v *VM) Context() *Context {
	if len(v.istack) == 0 {
		return nil
	}
	return v.istack[len(v.istack)-1]
}

// State returns the state for the VM.
func (v *VM) State() State {
	return v.state
}

// HasStopped checks whether the VM is stopped.
func (v *VM) HasStopped() bool {
	return v.state.HasFlag(HaltState) || v.state.HasFlag(FaultState)
}

// HasFailed checks whether the VM is in the failed state now.
func (v *VM) HasFailed() bool {
	return v.state.HasFlag(FaultState)
}

// FaultException returns the exception registered as the reason of the
// FAULT state.
func (v *VM) FaultException() error {
	return v.uncaughtException
}

// GasConsumed returns the amount of GAS consumed during execution.
func (v *VM) GasConsumed() int64 {
	return v.gasConsumed
}

// AddGas consumes the specified amount of GAS. It returns false in case the
// GAS limit is exceeded.
func (v *VM) AddGas(gas int64) bool {
	v.gasConsumed += gas
	return v.GasLimit < 0 || v.gasConsumed <= v.GasLimit
}

// LoadScript loads a script into the VM as the entry context.
func (v *VM) LoadScript(b []byte, f callflag.CallFlag) {
	v.LoadScriptWithHash(b, util.Uint160{}, f)
}

// LoadScriptWithHash is similar to LoadScript but sets the given hash as the
// script hash of the new context.
func (v *VM) LoadScriptWithHash(b []byte, hash util.Uint160, f callflag.CallFlag) {
	v.loadScriptWithCallingHash(b, hash, util.Uint160{}, f, -1, 0)
}

// LoadScriptWithCallingHash is similar to LoadScriptWithHash but sets the
// calling hash and the number of arguments/return values explicitly. It is
// used for contract-to-contract calls.
func (v *VM) LoadScriptWithCallingHash(caller util.Uint160, b []byte, hash util.Uint160,
	f callflag.CallFlag, hasReturn bool, paramCount uint16) {
	retCount := 0
	if hasReturn {
		retCount = 1
	}
	v.loadScriptWithCallingHash(b, hash, caller, f, retCount, int(paramCount))
}

func (v *VM) loadScriptWithCallingHash(b []byte, hash util.Uint160, caller util.Uint160,
	f callflag.CallFlag, retCount int, paramCount int) {
	if len(v.istack) >= MaxInvocationStackSize {
		panic("invocation stack is too big")
	}
	ctx := NewContext(b)
	ctx.scriptHash = hash
	ctx.callingScriptHash = caller
	ctx.callFlag = f
	ctx.retCount = retCount
	ctx.paramCount = paramCount
	ctx.checkPoint = v.estack.Len()
	if !hash.IsZero() {
		v.Invocations[hash]++
	}
	v.istack = append(v.istack, ctx)
}

// GetCurrentScriptHash implements the ScriptHashGetter interface.
func (v *VM) GetCurrentScriptHash() util.Uint160 {
	if len(v.istack) == 0 {
		return util.Uint160{}
	}
	return v.Context().scriptHash
}

// GetCallingScriptHash implements the ScriptHashGetter interface. A zero
// hash is returned for the entry context.
func (v *VM) GetCallingScriptHash() util.Uint160 {
	if len(v.istack) == 0 {
		return util.Uint160{}
	}
	return v.Context().callingScriptHash
}

// GetEntryScriptHash implements the ScriptHashGetter interface.
func (v *VM) GetEntryScriptHash() util.Uint160 {
	if len(v.istack) == 0 {
		return util.Uint160{}
	}
	return v.istack[0].scriptHash
}

// Run starts execution of the loaded program and continues until HALT or
// FAULT. The fault reason (if any) is returned as an error.
func (v *VM) Run() error {
	if len(v.istack) == 0 {
		return errors.New("no program loaded")
	}

	if v.state.HasFlag(FaultState) {
		// Always throw an error in the fault state.
		return v.uncaughtException
	}
	v.state = NoneState
	for {
		switch {
		case v.state.HasFlag(FaultState):
			// Should be caught and reported already by the v.Step() below.
			return v.uncaughtException
		case v.state.HasFlag(HaltState), v.state.HasFlag(BreakState):
			// Normal exit from this loop.
			return nil
		case v.state == NoneState:
			if err := v.Step(); err != nil {
				return err
			}
		default:
			v.fault(fmt.Errorf("unknown state: %s", v.state))
			return v.uncaughtException
		}
	}
}

// Step executes one instruction of the loaded program.
func (v *VM) Step() error {
	ctx := v.Context()
	if ctx == nil {
		v.fault(errors.New("no program loaded"))
		return v.uncaughtException
	}
	op, param, err := ctx.Next()
	if err != nil {
		v.fault(newFault(ctx, err))
		return v.uncaughtException
	}
	return v.execute(ctx, op, param)
}

// execute performs a single instruction. Any panic arising from the
// instruction (type assertions on stack values, stack exhaustion) is
// converted to the FAULT state.
func (v *VM) execute(ctx *Context, op opcode.Opcode, param []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			v.fault(newFault(ctx, fmt.Errorf("%v", r)))
			err = v.uncaughtException
		}
	}()

	switch {
	case op >= opcode.PUSHM1 && op <= opcode.PUSH16:
		val := int(op) - int(opcode.PUSH0)
		v.estack.PushItem(stackitem.NewBigInteger(big.NewInt(int64(val))))

	case op == opcode.PUSHINT8 || op == opcode.PUSHINT16 ||
		op == opcode.PUSHINT32 || op == opcode.PUSHINT64:
		v.estack.PushItem(stackitem.NewBigInteger(bigint.FromBytes(param)))

	case op == opcode.PUSHNULL:
		v.estack.PushItem(stackitem.Null{})

	case op == opcode.PUSHDATA1 || op == opcode.PUSHDATA2 || op == opcode.PUSHDATA4:
		data := make([]byte, len(param))
		copy(data, param)
		v.estack.PushItem(stackitem.NewByteArray(data))

	case op == opcode.NOP:
		// Nothing to do.

	case op == opcode.DROP:
		v.estack.Pop()

	case op == opcode.PACK:
		n := int(v.estack.Pop().BigInt().Int64())
		if n < 0 || n > v.estack.Len() {
			panic("invalid length")
		}
		// The topmost element becomes the first one of the array.
		arr := make([]stackitem.Item, n)
		for i := 0; i < n; i++ {
			arr[i] = v.estack.Pop().Item()
		}
		v.estack.PushItem(stackitem.NewArray(arr))

	case op == opcode.ABORT:
		panic("ABORT")

	case op == opcode.SYSCALL:
		interopID := binary.LittleEndian.Uint32(param)
		if v.SyscallHandler == nil {
			panic("vm's syscall handler is not initialized")
		}
		if serr := v.SyscallHandler(v, interopID); serr != nil {
			panic(fmt.Errorf("syscall %#x failed: %w", interopID, serr))
		}

	case op == opcode.RET:
		v.unloadContext(ctx)
		if len(v.istack) == 0 {
			v.state = HaltState
		}

	default:
		panic(fmt.Sprintf("unknown opcode %s", op))
	}
	return nil
}

// unloadContext pops the current context from the invocation stack moving
// the declared return values to the caller's evaluation stack.
func (v *VM) unloadContext(ctx *Context) {
	if v.Context() != ctx {
		panic("can only unload the current context")
	}
	v.istack = v.istack[:len(v.istack)-1]
	if ctx.retCount >= 0 {
		eLen := v.estack.Len()
		if eLen < ctx.checkPoint+ctx.retCount {
			panic("missing return values")
		}
		rets := v.estack.PopN(ctx.retCount)
		v.estack.truncate(ctx.checkPoint)
		for i := range rets {
			v.estack.PushItem(rets[i].Item())
		}
	}
}

// fault puts the VM into the FAULT state registering the given error as the
// fault reason. The invocation stack is dropped.
func (v *VM) fault(err error) {
	v.state = FaultState
	v.uncaughtException = err
	v.istack = v.istack[:0]
}

// newFault wraps err with the context of the current frame for diagnostics.
func newFault(ctx *Context, err error) error {
	return fmt.Errorf("at instruction %d of %s: %w", ctx.ip, ctx.scriptHash.StringLE(), err)
}
