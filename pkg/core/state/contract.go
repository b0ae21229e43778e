package state

import (
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/smartcontract/manifest"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/stackitem"
)

// Contract holds information about a deployed smart contract.
type Contract struct {
	// ID is an on-chain numeric id assigned at deployment time. It never
	// changes and is never reused; storage items of the contract are keyed
	// by it rather than by hash.
	ID       int32             `json:"id"`
	Hash     util.Uint160      `json:"hash"`
	Script   []byte            `json:"script"`
	Manifest manifest.Manifest `json:"manifest"`
}

// DecodeBinary implements the io.Serializable interface.
func (cs *Contract) DecodeBinary(br *io.BinReader) {
	cs.ID = int32(br.ReadU32LE())
	cs.Hash.DecodeBinary(br)
	cs.Script = br.ReadVarBytes()
	cs.Manifest.DecodeBinary(br)
}

// EncodeBinary implements the io.Serializable interface.
func (cs *Contract) EncodeBinary(bw *io.BinWriter) {
	bw.WriteU32LE(uint32(cs.ID))
	cs.Hash.EncodeBinary(bw)
	bw.WriteVarBytes(cs.Script)
	cs.Manifest.EncodeBinary(bw)
}

// HasStorage checks whether the contract has the storage capability.
func (cs *Contract) HasStorage() bool {
	return cs.Manifest.Features.Storage
}

// ToStackItem converts the contract state to a stack item.
func (cs *Contract) ToStackItem() stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(int(cs.ID)),
		stackitem.NewByteArray(cs.Hash.BytesBE()),
		stackitem.NewByteArray(cs.Script),
		stackitem.NewBool(cs.HasStorage()),
	})
}
