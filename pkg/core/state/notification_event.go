package state

import (
	"errors"

	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/stackitem"
)

// NotificationEvent is a tuple of the scripthash that has emitted the Item
// as a notification and the item itself.
type NotificationEvent struct {
	ScriptHash util.Uint160     `json:"contract"`
	Name       string           `json:"eventname"`
	Item       *stackitem.Array `json:"state"`
}

// EncodeBinary implements the io.Serializable interface.
func (ne *NotificationEvent) EncodeBinary(w *io.BinWriter) {
	ne.ScriptHash.EncodeBinary(w)
	w.WriteString(ne.Name)
	b, err := stackitem.Serialize(ne.Item)
	if err != nil {
		w.Err = err
		return
	}
	w.WriteBytes(b)
}

// DecodeBinary implements the io.Serializable interface.
func (ne *NotificationEvent) DecodeBinary(r *io.BinReader) {
	ne.ScriptHash.DecodeBinary(r)
	ne.Name = r.ReadString()
	item := stackitem.DecodeBinary(r)
	if r.Err != nil {
		return
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		r.Err = errors.New("array expected")
		return
	}
	ne.Item = stackitem.NewArray(arr)
}

// ToStackItem converts the event to a VM value in the form the runtime
// exposes it to contracts: [scripthash, name, state].
func (ne *NotificationEvent) ToStackItem() stackitem.Item {
	return stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(ne.ScriptHash.BytesBE()),
		stackitem.Make(ne.Name),
		ne.Item,
	})
}
