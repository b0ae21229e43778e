// Package address implements conversion between script hashes and
// human-readable base58-check encoded addresses.
package address

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/keelvm/keel/pkg/util"
	"github.com/mr-tron/base58"
)

// Prefix is the byte used to prepend to addresses when encoding them, it can
// be changed and defaults to 0x35 which gives us addresses beginning with "K".
var Prefix = byte(0x35)

// Uint160ToString returns the dedicated address from the given Uint160.
func Uint160ToString(u util.Uint160) string {
	// Address version goes first.
	b := append([]byte{Prefix}, u.BytesBE()...)
	return base58CheckEncode(b)
}

// StringToUint160 attempts to decode the given address string
// into a Uint160.
func StringToUint160(s string) (u util.Uint160, err error) {
	b, err := base58CheckDecode(s)
	if err != nil {
		return u, err
	}
	if b[0] != Prefix {
		return u, errors.New("wrong address prefix")
	}
	return util.Uint160DecodeBytesBE(b[1:21])
}

// base58CheckEncode encodes b into a base58-check encoded string.
func base58CheckEncode(b []byte) string {
	b = append(b, checksum(b)...)
	return base58.Encode(b)
}

// base58CheckDecode decodes the given string and checks the embedded checksum.
func base58CheckDecode(s string) (b []byte, err error) {
	b, err = base58.Decode(s)
	if err != nil {
		return nil, err
	}

	if len(b) < 25 {
		return nil, fmt.Errorf("invalid base-58 check string: missing bytes")
	}

	payload := b[:len(b)-4]
	if string(b[len(b)-4:]) != string(checksum(payload)) {
		return nil, fmt.Errorf("invalid base-58 check string: invalid checksum")
	}

	return payload, nil
}

// checksum returns the first 4 bytes of a double-SHA256 of b.
func checksum(b []byte) []byte {
	h := sha256.Sum256(b)
	h = sha256.Sum256(h[:])
	return h[:4]
}
