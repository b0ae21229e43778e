package contract

import (
	"crypto/elliptic"

	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/crypto/keys"
)

// CreateStandardAccount calculates the script hash of the signature check
// contract for the given public key.
func CreateStandardAccount(ic *interop.Context) error {
	h := ic.VM.Estack().Pop().Bytes()
	p, err := keys.NewPublicKeyFromBytes(h, elliptic.P256())
	if err != nil {
		return err
	}
	ic.VM.Estack().PushVal(p.GetScriptHash().BytesBE())
	return nil
}

// GetCallFlags returns the calling flags of the current context.
func GetCallFlags(ic *interop.Context) error {
	ic.VM.Estack().PushVal(int64(ic.VM.Context().GetCallFlags()))
	return nil
}
