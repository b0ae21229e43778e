package storage

import (
	"errors"
	"fmt"

	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/state"
	"github.com/keelvm/keel/pkg/vm/stackitem"
)

// DefaultStoragePrice is the amount of gas charged per byte written to the
// contract storage.
const DefaultStoragePrice = 100000

// ErrGasLimitExceeded is returned from interops when there is not enough
// GAS left in the execution context to complete the action.
var ErrGasLimitExceeded = errors.New("gas limit exceeded")

// Flag denotes whether the stored value is a constant.
type Flag byte

const (
	// None is a storage flag for mutable items.
	None Flag = 0
	// Constant is a storage flag for items that can't be changed or deleted
	// once written.
	Constant Flag = 0x01
)

// Context contains contract ID and a read/write flag, it's used as a context
// for storage manipulation functions.
type Context struct {
	ID       int32
	ReadOnly bool
}

func popContext(ic *interop.Context) (*Context, error) {
	stcInterface := ic.VM.Estack().Pop().Value()
	stc, ok := stcInterface.(*Context)
	if !ok {
		return nil, fmt.Errorf("%T is not a storage.Context", stcInterface)
	}
	return stc, nil
}

// Delete removes the key-value pair from the storage. Constant items can't
// be deleted, removing a missing key is a no-op.
func Delete(ic *interop.Context) error {
	stc, err := popContext(ic)
	if err != nil {
		return err
	}
	if stc.ReadOnly {
		return errors.New("storage.Context is read only")
	}
	key := ic.VM.Estack().Pop().Bytes()
	si := ic.DAO.GetStorageItem(stc.ID, key)
	if si != nil && si.IsConst {
		return errors.New("storage item is constant")
	}
	return ic.DAO.DeleteStorageItem(stc.ID, key)
}

// Get returns the stored value or Null if the key is not present. An empty
// stored value is a valid value and is returned as an empty byte array.
func Get(ic *interop.Context) error {
	stc, err := popContext(ic)
	if err != nil {
		return err
	}
	key := ic.VM.Estack().Pop().Bytes()
	si := ic.DAO.GetStorageItem(stc.ID, key)
	if si != nil {
		ic.VM.Estack().PushItem(stackitem.NewByteArray(si.Value))
	} else {
		ic.VM.Estack().PushItem(stackitem.Null{})
	}
	return nil
}

// GetContext returns the storage context for the currently executing
// contract.
func GetContext(ic *interop.Context) error {
	return getContextInternal(ic, false)
}

// GetReadOnlyContext returns a read-only storage context for the currently
// executing contract.
func GetReadOnlyContext(ic *interop.Context) error {
	return getContextInternal(ic, true)
}

func getContextInternal(ic *interop.Context, isReadOnly bool) error {
	contract, err := ic.GetContract(ic.VM.GetCurrentScriptHash())
	if err != nil {
		return err
	}
	if !contract.HasStorage() {
		return fmt.Errorf("contract %s can't use storage", contract.Hash.StringLE())
	}
	sc := &Context{
		ID:       contract.ID,
		ReadOnly: isReadOnly,
	}
	ic.VM.Estack().PushItem(stackitem.NewInterop(sc))
	return nil
}

func putWithContextAndFlags(ic *interop.Context, stc *Context, key []byte, value []byte, isConst bool) error {
	if len(key) > ic.Limits.MaxStorageKeySize {
		return errors.New("key is too big")
	}
	if len(value) > ic.Limits.MaxStorageValueSize {
		return errors.New("value is too big")
	}
	if stc.ReadOnly {
		return errors.New("storage.Context is read only")
	}
	si := ic.DAO.GetStorageItem(stc.ID, key)
	sizeInc := 1
	if si == nil {
		si = &state.StorageItem{}
		sizeInc = len(key) + len(value)
	} else if si.IsConst {
		return errors.New("storage item exists and is constant")
	} else if len(value) != 0 {
		if len(value) <= len(si.Value) {
			sizeInc = (len(value)-1)/4 + 1
		} else {
			sizeInc = (len(si.Value)-1)/4 + 1 + len(value) - len(si.Value)
		}
	}
	if !ic.VM.AddGas(int64(sizeInc) * DefaultStoragePrice) {
		return ErrGasLimitExceeded
	}
	si.Value = value
	si.IsConst = isConst
	return ic.DAO.PutStorageItem(stc.ID, key, si)
}

func putInternal(ic *interop.Context, getFlag bool) error {
	stc, err := popContext(ic)
	if err != nil {
		return err
	}
	key := ic.VM.Estack().Pop().Bytes()
	value := ic.VM.Estack().Pop().Bytes()
	var flag int
	if getFlag {
		flag = int(ic.VM.Estack().Pop().BigInt().Int64())
	}
	return putWithContextAndFlags(ic, stc, key, value, int(Constant)&flag != 0)
}

// Put puts the key-value pair into the storage. Writing an empty value is
// a real write, not a deletion.
func Put(ic *interop.Context) error {
	return putInternal(ic, false)
}

// PutEx puts the key-value pair with the given flags into the storage.
func PutEx(ic *interop.Context) error {
	return putInternal(ic, true)
}

// ContextAsReadOnly returns a read-only copy of the given context.
func ContextAsReadOnly(ic *interop.Context) error {
	stc, err := popContext(ic)
	if err != nil {
		return err
	}
	if !stc.ReadOnly {
		stc = &Context{
			ID:       stc.ID,
			ReadOnly: true,
		}
	}
	ic.VM.Estack().PushItem(stackitem.NewInterop(stc))
	return nil
}
