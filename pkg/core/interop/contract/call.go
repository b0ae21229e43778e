package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/state"
	"github.com/keelvm/keel/pkg/smartcontract"
	"github.com/keelvm/keel/pkg/smartcontract/callflag"
	"github.com/keelvm/keel/pkg/smartcontract/manifest"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/stackitem"
)

// Call invokes a method of another contract. The callee decides who may call
// it: its manifest permissions are checked against the caller's hash and
// groups before the new context is loaded.
func Call(ic *interop.Context) error {
	h := ic.VM.Estack().Pop().Bytes()
	method := ic.VM.Estack().Pop().String()
	fs := callflag.CallFlag(int32(ic.VM.Estack().Pop().BigInt().Int64()))
	if fs&^callflag.All != 0 {
		return errors.New("call flags out of range")
	}
	args := ic.VM.Estack().Pop().Array()
	u, err := util.Uint160DecodeBytesBE(h)
	if err != nil {
		return errors.New("invalid contract hash")
	}
	cs, err := ic.GetContract(u)
	if err != nil {
		return fmt.Errorf("contract not found: %w", err)
	}
	if strings.HasPrefix(method, "_") {
		return errors.New("invalid method name (starts with '_')")
	}
	md := cs.Manifest.ABI.GetMethod(method)
	if md == nil {
		return errors.New("method not found")
	}
	hasReturn := md.ReturnType != smartcontract.VoidType
	if !hasReturn {
		ic.VM.Estack().PushVal(stackitem.Null{})
	}
	return callInternal(ic, cs, method, fs, hasReturn, args)
}

func callInternal(ic *interop.Context, cs *state.Contract, name string, f callflag.CallFlag,
	hasReturn bool, args []stackitem.Item) error {
	md := cs.Manifest.ABI.GetMethod(name)
	if md.Safe {
		f &^= callflag.WriteStates
	}
	callerHash := ic.VM.GetCurrentScriptHash()
	var callerManifest *manifest.Manifest
	curr, err := ic.GetContract(callerHash)
	if err == nil {
		callerManifest = &curr.Manifest
	}
	if !cs.Manifest.AllowsCall(callerHash, callerManifest, name) {
		return errors.New("disallowed method call")
	}
	return callWithHash(ic, callerHash, cs, name, args, f, hasReturn)
}

// callWithHash loads the callee's script with the given calling hash and
// positions the instruction pointer at the method's entry offset.
func callWithHash(ic *interop.Context, caller util.Uint160, cs *state.Contract,
	name string, args []stackitem.Item, f callflag.CallFlag, hasReturn bool) error {
	md := cs.Manifest.ABI.GetMethod(name)
	if md == nil {
		return fmt.Errorf("method '%s' not found", name)
	}
	if len(args) != len(md.Parameters) {
		return fmt.Errorf("invalid argument count: %d (expected %d)", len(args), len(md.Parameters))
	}

	ic.VM.LoadScriptWithCallingHash(caller, cs.Script, cs.Hash,
		ic.VM.Context().GetCallFlags()&f, hasReturn, uint16(len(args)))
	for i := len(args) - 1; i >= 0; i-- {
		ic.VM.Estack().PushItem(args[i])
	}
	// The context was already loaded, so reposition instead of pushing a
	// new frame.
	ic.VM.Context().Jump(md.Offset)
	return nil
}
