package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/keelvm/keel/pkg/core/interop/interopnames"
	"github.com/keelvm/keel/pkg/crypto/hash"
	"github.com/keelvm/keel/pkg/encoding/address"
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/opcode"
)

// coordLen is the length of a serialized X or Y coordinate.
const coordLen = 32

// SignatureLen is the length of a standard signature (r, s concatenated).
const SignatureLen = 64

// PublicKey represents a public key on a supported elliptic curve and
// provides a high level API around ecdsa.PublicKey.
type PublicKey struct {
	X *big.Int
	Y *big.Int
	// Curve is either elliptic.P256() or secp256k1.S256().
	Curve elliptic.Curve
}

// PublicKeys is a list of public keys.
type PublicKeys []*PublicKey

func (keys PublicKeys) Len() int      { return len(keys) }
func (keys PublicKeys) Swap(i, j int) { keys[i], keys[j] = keys[j], keys[i] }
func (keys PublicKeys) Less(i, j int) bool {
	return keys[i].Cmp(keys[j]) == -1
}

// Contains checks whether the passed param is contained in PublicKeys.
func (keys PublicKeys) Contains(pKey *PublicKey) bool {
	for _, key := range keys {
		if key.Equal(pKey) {
			return true
		}
	}
	return false
}

// Unique returns a set of public keys.
func (keys PublicKeys) Unique() PublicKeys {
	unique := PublicKeys{}
	for _, publicKey := range keys {
		if !unique.Contains(publicKey) {
			unique = append(unique, publicKey)
		}
	}
	sort.Sort(unique)
	return unique
}

// Equal returns true in case the public keys are equal.
func (p *PublicKey) Equal(key *PublicKey) bool {
	return p.X.Cmp(key.X) == 0 && p.Y.Cmp(key.Y) == 0
}

// Cmp compares two keys and returns -1 if p < key, 0 if p = key
// and 1 otherwise.
func (p *PublicKey) Cmp(key *PublicKey) int {
	xCmp := p.X.Cmp(key.X)
	if xCmp != 0 {
		return xCmp
	}
	return p.Y.Cmp(key.Y)
}

// NewPublicKeyFromString returns a public key created from the
// given hex string of its compressed form.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}

	return NewPublicKeyFromBytes(b, elliptic.P256())
}

// NewPublicKeyFromBytes returns a public key created from b using the given
// curve.
func NewPublicKeyFromBytes(b []byte, curve elliptic.Curve) (*PublicKey, error) {
	pubKey := &PublicKey{Curve: curve}
	if err := pubKey.DecodeBytes(b); err != nil {
		return nil, err
	}
	return pubKey, nil
}

// Bytes returns byte array representation of the public key in its
// compressed form.
func (p *PublicKey) Bytes() []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}

	var (
		x       = p.X.Bytes()
		paddedX = append(make([]byte, coordLen-len(x)), x...)
		prefix  = byte(0x03)
	)

	if p.Y.Bit(0) == 0 {
		prefix = byte(0x02)
	}

	return append([]byte{prefix}, paddedX...)
}

// UncompressedBytes returns the bytes of the key in its uncompressed
// (0x04 prefixed) form.
func (p *PublicKey) UncompressedBytes() []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}
	b := make([]byte, 0, 1+2*coordLen)
	b = append(b, 0x04)
	x := p.X.Bytes()
	b = append(b, make([]byte, coordLen-len(x))...)
	b = append(b, x...)
	y := p.Y.Bytes()
	b = append(b, make([]byte, coordLen-len(y))...)
	b = append(b, y...)
	return b
}

// decodeCompressedY performs decompression of the Y coordinate for the given
// X and Y's least significant bit. We use here a short-form Weierstrass
// curve y² = x³ + ax + b, two kinds of curves are supported:
//  1. secp256k1 (Koblitz curve): y² = x³ + b,
//  2. secp256r1 (random curve): y² = x³ - 3x + b.
func decodeCompressedY(x *big.Int, ylsb uint, curve elliptic.Curve) (*big.Int, error) {
	var a *big.Int
	switch curve.(type) {
	case *secp256k1.KoblitzCurve:
		a = big.NewInt(0)
	default:
		a = big.NewInt(3)
	}
	cp := curve.Params()
	xCubed := new(big.Int).Exp(x, big.NewInt(3), cp.P)
	aX := new(big.Int).Mul(x, a)
	aX.Mod(aX, cp.P)
	ySquared := new(big.Int).Sub(xCubed, aX)
	ySquared.Add(ySquared, cp.B)
	ySquared.Mod(ySquared, cp.P)
	y := new(big.Int).ModSqrt(ySquared, cp.P)
	if y == nil {
		return nil, errors.New("error computing Y for compressed point")
	}
	if y.Bit(0) != ylsb {
		y.Neg(y)
		y.Mod(y, cp.P)
	}
	return y, nil
}

// DecodeBytes decodes a PublicKey from the given slice of bytes.
func (p *PublicKey) DecodeBytes(data []byte) error {
	switch len(data) {
	case 33:
		if data[0] != 0x02 && data[0] != 0x03 {
			return errors.New("invalid compressed point prefix")
		}
	case 65:
		if data[0] != 0x04 {
			return errors.New("invalid uncompressed point prefix")
		}
	default:
		return fmt.Errorf("invalid key size (%d)", len(data))
	}
	r := io.NewBinReaderFromBuf(data)
	p.DecodeBinary(r)
	if r.Err != nil {
		return r.Err
	}
	// The whole input must be consumed.
	b := r.ReadB()
	if r.Err == nil && b != 0 {
		return errors.New("extra data in key encoding")
	}
	return nil
}

// DecodeBinary decodes a PublicKey from the given BinReader using information
// about the curve from the p. The P-256 curve is used by default.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	var prefix byte
	var x, y *big.Int
	var err error

	if p.Curve == nil {
		p.Curve = elliptic.P256()
	}
	prefix = r.ReadB()
	if r.Err != nil {
		return
	}

	curveParams := p.Curve.Params()
	switch prefix {
	// Infinity
	case 0x00:
		p.X = nil
		p.Y = nil
		return
	// Compressed public keys
	case 0x02, 0x03:
		xbytes := make([]byte, coordLen)
		r.ReadBytes(xbytes)
		if r.Err != nil {
			return
		}
		x = new(big.Int).SetBytes(xbytes)
		ylsb := uint(prefix & 0x1)
		y, err = decodeCompressedY(x, ylsb, p.Curve)
		if err != nil {
			r.Err = err
			return
		}
	case 0x04:
		xbytes := make([]byte, coordLen)
		ybytes := make([]byte, coordLen)
		r.ReadBytes(xbytes)
		r.ReadBytes(ybytes)
		if r.Err != nil {
			return
		}
		x = new(big.Int).SetBytes(xbytes)
		y = new(big.Int).SetBytes(ybytes)
		if !p.Curve.IsOnCurve(x, y) {
			r.Err = errors.New("encoded point is not on the curve")
			return
		}
	default:
		r.Err = fmt.Errorf("invalid prefix %d", prefix)
		return
	}
	if x.Cmp(curveParams.P) >= 0 || y.Cmp(curveParams.P) >= 0 {
		r.Err = errors.New("encoded point is not correct (X or Y is bigger than P)")
		return
	}
	p.X, p.Y = x, y
}

// EncodeBinary encodes a PublicKey to the given BinWriter.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// GetVerificationScript returns the signature check script for the key. The
// hash of this script is the standard account identity derived from the key.
func (p *PublicKey) GetVerificationScript() []byte {
	b := p.Bytes()
	script := make([]byte, 0, 2+len(b)+5)
	script = append(script, byte(opcode.PUSHDATA1), byte(len(b)))
	script = append(script, b...)
	script = append(script, byte(opcode.SYSCALL))
	script = binary.LittleEndian.AppendUint32(script, interopnames.ToID([]byte(interopnames.SystemCryptoVerifyWithECDsaSecp256r1)))
	return script
}

// GetScriptHash returns a Hash160 of the verification script for the key.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	return hash.Hash160(p.GetVerificationScript())
}

// Address returns a base58-encoded address based on the key hash.
func (p *PublicKey) Address() string {
	return address.Uint160ToString(p.GetScriptHash())
}

// Verify returns true if the signature is valid and corresponds
// to the hash and public key.
func (p *PublicKey) Verify(signature []byte, hash []byte) bool {
	if p.X == nil || p.Y == nil || len(signature) != SignatureLen {
		return false
	}
	publicKey := &ecdsa.PublicKey{
		Curve: p.Curve,
		X:     p.X,
		Y:     p.Y,
	}
	rBytes := new(big.Int).SetBytes(signature[0:32])
	sBytes := new(big.Int).SetBytes(signature[32:64])
	return ecdsa.Verify(publicKey, hash, rBytes, sBytes)
}

// IsInfinity checks if the key is infinite (null, basically).
func (p *PublicKey) IsInfinity() bool {
	return p.X == nil && p.Y == nil
}

// String implements the fmt.Stringer interface.
func (p *PublicKey) String() string {
	if p.IsInfinity() {
		return "00"
	}
	return hex.EncodeToString(p.Bytes())
}

// MarshalJSON implements the json.Marshaler interface.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(p.Bytes()))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	l := len(data)
	if l < 2 || data[0] != '"' || data[l-1] != '"' {
		return errors.New("wrong format")
	}

	bytes := make([]byte, hex.DecodedLen(l-2))
	_, err := hex.Decode(bytes, data[1:l-1])
	if err != nil {
		return err
	}
	err = p.DecodeBytes(bytes)
	if err != nil {
		return err
	}

	return nil
}

// Secp256k1 returns the secp256k1 curve in the stdlib elliptic.Curve form.
func Secp256k1() elliptic.Curve {
	return secp256k1.S256()
}
