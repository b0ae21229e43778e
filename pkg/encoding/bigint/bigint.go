// Package bigint implements the VM-compatible representation of arbitrary
// precision integers: little-endian byte slices in two's complement form.
package bigint

import (
	"math/big"
)

// MaxBytesLen is the maximum length of a serialized integer suitable for
// the VM (256-bit signed value).
const MaxBytesLen = 32

// FromBytes converts data in little-endian two's complement format to an
// integer.
func FromBytes(data []byte) *big.Int {
	n := new(big.Int)
	size := len(data)
	if size == 0 {
		if data == nil {
			panic("nil slice provided to `FromBytes`")
		}
		return big.NewInt(0)
	}

	isNeg := data[size-1]&0x80 != 0
	if !isNeg {
		return n.SetBytes(reverse(data))
	}

	// Two's complement: invert, add one, negate.
	inv := make([]byte, size)
	for i := range data {
		inv[i] = ^data[i]
	}
	n.SetBytes(reverse(inv))
	n.Add(n, big.NewInt(1))
	return n.Neg(n)
}

// ToBytes converts an integer to a little-endian two's complement byte slice.
// Note: NeoVM convention is used, a positive number with the high bit of the
// last byte set gets an extra zero byte, a negative one an extra 0xFF byte
// when needed.
func ToBytes(n *big.Int) []byte {
	return ToPreallocatedBytes(n, []byte{})
}

// ToPreallocatedBytes is a version of ToBytes which uses the given byte slice
// as a preallocated buffer.
func ToPreallocatedBytes(n *big.Int, data []byte) []byte {
	sign := n.Sign()
	if sign == 0 {
		return data[:0]
	}

	if sign < 0 {
		// Convert to two's complement: abs(n)-1, inverted.
		m := new(big.Int).Neg(n)
		m.Sub(m, bigOne)
		bs := reverse(m.Bytes())
		if len(bs) == 0 {
			bs = []byte{0}
		}
		for i := range bs {
			bs[i] = ^bs[i]
		}
		if bs[len(bs)-1]&0x80 == 0 {
			bs = append(bs, 0xFF)
		}
		return append(data[:0], bs...)
	}

	bs := reverse(n.Bytes())
	if bs[len(bs)-1]&0x80 != 0 {
		bs = append(bs, 0)
	}
	return append(data[:0], bs...)
}

var bigOne = big.NewInt(1)

// reverse returns a reversed copy of b.
func reverse(b []byte) []byte {
	res := make([]byte, len(b))
	for i, j := 0, len(b)-1; i <= j; i, j = i+1, j-1 {
		res[i], res[j] = b[j], b[i]
	}
	return res
}
