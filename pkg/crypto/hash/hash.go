// Package hash contains wrappers for the hash functions used throughout
// the codebase, all of them return fixed-size util.Uint160/Uint256 values.
package hash

import (
	"crypto/sha256"

	"github.com/keelvm/keel/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // SA1019: used for script hashes, not for security
)

// Sha256 hashes the incoming byte slice using the sha256 algorithm.
func Sha256(data []byte) util.Uint256 {
	return util.Uint256(sha256.Sum256(data))
}

// DoubleSha256 performs sha256 twice on the given data.
func DoubleSha256(data []byte) util.Uint256 {
	h1 := Sha256(data)
	return Sha256(h1.BytesBE())
}

// RipeMD160 performs the RIPEMD160 hash algorithm on the given data.
func RipeMD160(data []byte) util.Uint160 {
	var hash util.Uint160
	hasher := ripemd160.New()
	_, _ = hasher.Write(data)
	copy(hash[:], hasher.Sum(nil))
	return hash
}

// Hash160 performs sha256 and then ripemd160 on the given data. It's used
// to compute script hashes.
func Hash160(data []byte) util.Uint160 {
	h1 := Sha256(data)
	return RipeMD160(h1.BytesBE())
}

// Checksum returns the checksum for a given piece of data using DoubleSha256
// as the hash algorithm.
func Checksum(data []byte) []byte {
	hash := DoubleSha256(data)
	return hash[:4]
}
