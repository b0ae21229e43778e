package crypto

import (
	"crypto/elliptic"
	"fmt"

	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/crypto/hash"
	"github.com/keelvm/keel/pkg/crypto/keys"
)

// ECDSASecp256r1Verify checks an ECDSA signature over the P-256 curve.
func ECDSASecp256r1Verify(ic *interop.Context) error {
	return ecdsaVerify(ic, elliptic.P256())
}

// ECDSASecp256k1Verify checks an ECDSA signature over the secp256k1 curve.
func ECDSASecp256k1Verify(ic *interop.Context) error {
	return ecdsaVerify(ic, keys.Secp256k1())
}

// ecdsaVerify checks the ECDSA signature of the sha256 digest of an
// arbitrary message. A bad signature is a false result, a key that can't be
// decoded is an error.
func ecdsaVerify(ic *interop.Context, curve elliptic.Curve) error {
	msg := ic.VM.Estack().Pop().Bytes()
	keyb := ic.VM.Estack().Pop().Bytes()
	signature := ic.VM.Estack().Pop().Bytes()
	pkey, err := keys.NewPublicKeyFromBytes(keyb, curve)
	if err != nil {
		return fmt.Errorf("failed to decode public key: %w", err)
	}
	res := pkey.Verify(signature, hash.Sha256(msg).BytesBE())
	ic.VM.Estack().PushVal(res)
	return nil
}
