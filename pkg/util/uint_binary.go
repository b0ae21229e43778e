package util

import (
	"github.com/keelvm/keel/pkg/io"
)

// EncodeBinary implements the io.Serializable interface. Note that it
// serializes the value in the LE representation.
func (u *Uint160) EncodeBinary(bw *io.BinWriter) {
	bw.WriteBytes(u.BytesLE())
}

// DecodeBinary implements the io.Serializable interface.
func (u *Uint160) DecodeBinary(br *io.BinReader) {
	var b [Uint160Size]byte
	br.ReadBytes(b[:])
	for i := range b {
		u[Uint160Size-i-1] = b[i]
	}
}

// EncodeBinary implements the io.Serializable interface. Note that it
// serializes the value in the LE representation.
func (u *Uint256) EncodeBinary(bw *io.BinWriter) {
	bw.WriteBytes(u.BytesLE())
}

// DecodeBinary implements the io.Serializable interface.
func (u *Uint256) DecodeBinary(br *io.BinReader) {
	var b [Uint256Size]byte
	br.ReadBytes(b[:])
	for i := range b {
		u[Uint256Size-i-1] = b[i]
	}
}
