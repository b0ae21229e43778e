package state

import (
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/io"
)

// StorageItem is the value to be stored with a constant flag. A constant
// item can never be overwritten or deleted after the first write.
type StorageItem struct {
	Value   []byte
	IsConst bool
}

// EncodeBinary implements the io.Serializable interface.
func (si *StorageItem) EncodeBinary(w *io.BinWriter) {
	w.WriteVarBytes(si.Value)
	w.WriteBool(si.IsConst)
}

// DecodeBinary implements the io.Serializable interface.
func (si *StorageItem) DecodeBinary(r *io.BinReader) {
	si.Value = r.ReadVarBytes(storage.MaxStorageValueLen)
	si.IsConst = r.ReadBool()
}
