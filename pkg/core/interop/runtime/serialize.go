package runtime

import (
	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/vm/stackitem"
)

// Serialize serializes the top stack item into a byte slice using the
// canonical item encoding. Interop items, items with reference cycles and
// items exceeding the configured size ceiling can't be serialized and fault
// the call.
func Serialize(ic *interop.Context) error {
	item := ic.VM.Estack().Pop().Item()
	data, err := stackitem.SerializeLimited(item, ic.Limits.MaxSerializedItemSize)
	if err != nil {
		return err
	}
	ic.VM.Estack().PushVal(data)
	return nil
}

// Deserialize restores a stack item from its canonical encoding. Trailing
// bytes after a complete item are an error.
func Deserialize(ic *interop.Context) error {
	data := ic.VM.Estack().Pop().Bytes()
	item, err := stackitem.Deserialize(data)
	if err != nil {
		return err
	}
	ic.VM.Estack().PushItem(item)
	return nil
}
