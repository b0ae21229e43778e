package transaction

import (
	"errors"

	"github.com/keelvm/keel/pkg/crypto/hash"
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/stackitem"
)

const (
	// MaxScriptLength is the limit for transaction's script length.
	MaxScriptLength = 65535
	// MaxAttributes is maximum number of signers that can be contained
	// within a transaction.
	MaxAttributes = 16
)

// ErrInvalidScript is returned for transactions carrying no script.
var ErrInvalidScript = errors.New("no script")

// Transaction is a signed container for a script to be executed. Its hash
// identifies it uniquely and is computed over all fields but the witnesses.
type Transaction struct {
	Version         uint8    `json:"version"`
	Nonce           uint32   `json:"nonce"`
	SystemFee       int64    `json:"sysfee,string"`
	NetworkFee      int64    `json:"netfee,string"`
	ValidUntilBlock uint32   `json:"validuntilblock"`
	Signers         []Signer `json:"signers"`
	Script          []byte   `json:"script"`

	Scripts []Witness `json:"witnesses"`

	hash   util.Uint256
	hashed bool
}

// New returns a new transaction to execute the given script.
func New(script []byte, sysFee int64) *Transaction {
	return &Transaction{
		SystemFee: sysFee,
		Script:    script,
	}
}

// Hash returns the hash of the transaction, computing it if needed.
func (t *Transaction) Hash() util.Uint256 {
	if !t.hashed {
		if t.createHash() != nil {
			panic("failed to compute hash!")
		}
	}
	return t.hash
}

// Sender returns the sender of the transaction which is always on the first
// place in the transaction's signers list.
func (t *Transaction) Sender() util.Uint160 {
	if len(t.Signers) == 0 {
		panic("transaction does not have signers")
	}
	return t.Signers[0].Account
}

func (t *Transaction) createHash() error {
	buf := io.NewBufBinWriter()
	t.encodeHashableFields(buf.BinWriter)
	if buf.Err != nil {
		return buf.Err
	}
	t.hash = hash.DoubleSha256(buf.Bytes())
	t.hashed = true
	return nil
}

func (t *Transaction) encodeHashableFields(bw *io.BinWriter) {
	bw.WriteB(t.Version)
	bw.WriteU32LE(t.Nonce)
	bw.WriteU64LE(uint64(t.SystemFee))
	bw.WriteU64LE(uint64(t.NetworkFee))
	bw.WriteU32LE(t.ValidUntilBlock)
	bw.WriteVarUint(uint64(len(t.Signers)))
	for i := range t.Signers {
		t.Signers[i].EncodeBinary(bw)
	}
	bw.WriteVarBytes(t.Script)
}

// EncodeBinary implements the io.Serializable interface.
func (t *Transaction) EncodeBinary(bw *io.BinWriter) {
	t.encodeHashableFields(bw)
	bw.WriteVarUint(uint64(len(t.Scripts)))
	for i := range t.Scripts {
		t.Scripts[i].EncodeBinary(bw)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (t *Transaction) DecodeBinary(br *io.BinReader) {
	t.decodeHashableFields(br)
	if br.Err != nil {
		return
	}
	n := br.ReadVarUint()
	if n > MaxAttributes {
		br.Err = errors.New("too many witnesses")
		return
	}
	t.Scripts = make([]Witness, n)
	for i := range t.Scripts {
		t.Scripts[i].DecodeBinary(br)
	}
	if br.Err == nil {
		br.Err = t.createHash()
	}
}

func (t *Transaction) decodeHashableFields(br *io.BinReader) {
	t.Version = br.ReadB()
	t.Nonce = br.ReadU32LE()
	t.SystemFee = int64(br.ReadU64LE())
	t.NetworkFee = int64(br.ReadU64LE())
	t.ValidUntilBlock = br.ReadU32LE()
	n := br.ReadVarUint()
	if n > MaxAttributes {
		br.Err = errors.New("too many signers")
		return
	}
	t.Signers = make([]Signer, n)
	for i := range t.Signers {
		t.Signers[i].DecodeBinary(br)
	}
	t.Script = br.ReadVarBytes(MaxScriptLength)
	if br.Err == nil && len(t.Script) == 0 {
		br.Err = ErrInvalidScript
	}
}

// Bytes returns a serialized version of the transaction.
func (t *Transaction) Bytes() ([]byte, error) {
	return io.ToByteArray(t)
}

// NewTransactionFromBytes decodes a transaction from the given bytes.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	tx := &Transaction{}
	if err := io.FromByteArray(tx, b); err != nil {
		return nil, err
	}
	return tx, nil
}

// ToStackItem converts the transaction to a VM value exposed to contracts
// via the script container query.
func (t *Transaction) ToStackItem() stackitem.Item {
	var sender util.Uint160
	if len(t.Signers) != 0 {
		sender = t.Signers[0].Account
	}
	return stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(t.Hash().BytesBE()),
		stackitem.Make(int(t.Version)),
		stackitem.Make(int(t.Nonce)),
		stackitem.NewByteArray(sender.BytesBE()),
		stackitem.Make(t.SystemFee),
		stackitem.Make(t.NetworkFee),
		stackitem.Make(int(t.ValidUntilBlock)),
		stackitem.NewByteArray(t.Script),
	})
}
