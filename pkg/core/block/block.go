package block

import (
	"github.com/keelvm/keel/pkg/core/transaction"
	"github.com/keelvm/keel/pkg/crypto/hash"
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/stackitem"
)

// Header holds the base info of a block.
type Header struct {
	// Version of the block.
	Version uint32 `json:"version"`
	// PrevHash is the hash of the previous block.
	PrevHash util.Uint256 `json:"previousblockhash"`
	// MerkleRoot is the root hash of transactions contained in the block.
	MerkleRoot util.Uint256 `json:"merkleroot"`
	// Timestamp is a millisecond-precision block timestamp.
	Timestamp uint64 `json:"time"`
	// Index is the height of the block.
	Index uint32 `json:"index"`

	hash   util.Uint256
	hashed bool
}

// Block represents one block in the chain.
type Block struct {
	Header

	// Transaction list.
	Transactions []*transaction.Transaction `json:"tx"`
}

// Hash returns the hash of the block, computing it if needed.
func (b *Header) Hash() util.Uint256 {
	if !b.hashed {
		b.createHash()
	}
	return b.hash
}

func (b *Header) createHash() {
	buf := io.NewBufBinWriter()
	b.EncodeBinary(buf.BinWriter)
	b.hash = hash.DoubleSha256(buf.Bytes())
	b.hashed = true
}

// EncodeBinary implements the io.Serializable interface.
func (b *Header) EncodeBinary(bw *io.BinWriter) {
	bw.WriteU32LE(b.Version)
	b.PrevHash.EncodeBinary(bw)
	b.MerkleRoot.EncodeBinary(bw)
	bw.WriteU64LE(b.Timestamp)
	bw.WriteU32LE(b.Index)
}

// DecodeBinary implements the io.Serializable interface.
func (b *Header) DecodeBinary(br *io.BinReader) {
	b.Version = br.ReadU32LE()
	b.PrevHash.DecodeBinary(br)
	b.MerkleRoot.DecodeBinary(br)
	b.Timestamp = br.ReadU64LE()
	b.Index = br.ReadU32LE()
	if br.Err == nil {
		b.createHash()
	}
}

// EncodeBinary implements the io.Serializable interface.
func (b *Block) EncodeBinary(bw *io.BinWriter) {
	b.Header.EncodeBinary(bw)
	bw.WriteVarUint(uint64(len(b.Transactions)))
	for i := range b.Transactions {
		b.Transactions[i].EncodeBinary(bw)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (b *Block) DecodeBinary(br *io.BinReader) {
	b.Header.DecodeBinary(br)
	n := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	b.Transactions = make([]*transaction.Transaction, n)
	for i := range b.Transactions {
		b.Transactions[i] = new(transaction.Transaction)
		b.Transactions[i].DecodeBinary(br)
	}
}

// ToStackItem converts the block to a VM value exposing its header fields
// and transaction count to contracts.
func (b *Block) ToStackItem() stackitem.Item {
	return stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(b.Hash().BytesBE()),
		stackitem.Make(int(b.Version)),
		stackitem.NewByteArray(b.PrevHash.BytesBE()),
		stackitem.NewByteArray(b.MerkleRoot.BytesBE()),
		stackitem.Make(int64(b.Timestamp)),
		stackitem.Make(int(b.Index)),
		stackitem.Make(len(b.Transactions)),
	})
}
