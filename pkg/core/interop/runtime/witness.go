package runtime

import (
	"crypto/elliptic"
	"errors"
	"fmt"

	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/transaction"
	"github.com/keelvm/keel/pkg/crypto/keys"
	"github.com/keelvm/keel/pkg/util"
)

// CheckHashedWitness checks the given hash against the signers of the
// transaction being executed. Absence of a container or of a matching signer
// is a negative answer, not an error.
func CheckHashedWitness(ic *interop.Context, hash util.Uint160) (bool, error) {
	if tx := ic.Container(); tx != nil {
		return checkScope(ic, tx, hash)
	}
	return false, nil
}

func checkScope(ic *interop.Context, tx *transaction.Transaction, hash util.Uint160) (bool, error) {
	for _, c := range tx.Signers {
		if c.Account != hash {
			continue
		}
		if c.Scopes == transaction.Global {
			return true, nil
		}
		if c.Scopes&transaction.CalledByEntry != 0 {
			callingScriptHash := ic.VM.GetCallingScriptHash()
			entryScriptHash := ic.VM.GetEntryScriptHash()
			if callingScriptHash.Equals(util.Uint160{}) || callingScriptHash == entryScriptHash {
				return true, nil
			}
		}
		if c.Scopes&transaction.CustomContracts != 0 {
			currentScriptHash := ic.VM.GetCurrentScriptHash()
			for _, allowedContract := range c.AllowedContracts {
				if allowedContract == currentScriptHash {
					return true, nil
				}
			}
		}
		if c.Scopes&transaction.CustomGroups != 0 {
			callingScriptHash := ic.VM.GetCallingScriptHash()
			if callingScriptHash.Equals(util.Uint160{}) {
				return false, nil
			}
			cs, err := ic.GetContract(callingScriptHash)
			if err != nil {
				return false, nil
			}
			for _, allowedGroup := range c.AllowedGroups {
				for _, group := range cs.Manifest.Groups {
					if group.PublicKey.Equal(allowedGroup) {
						return true, nil
					}
				}
			}
		}
		return false, nil
	}
	return false, nil
}

// CheckKeyedWitness checks the hash of the signature check contract of the
// given public key against the signers of the current transaction.
func CheckKeyedWitness(ic *interop.Context, key *keys.PublicKey) (bool, error) {
	return CheckHashedWitness(ic, key.GetScriptHash())
}

// CheckWitness checks witnesses. It pops either a script hash or a public key
// from the stack, anything else is an error.
func CheckWitness(ic *interop.Context) error {
	var res bool
	var err error

	hashOrKey := ic.VM.Estack().Pop().Bytes()
	hash, err := util.Uint160DecodeBytesBE(hashOrKey)
	if err != nil {
		var key *keys.PublicKey
		key, err = keys.NewPublicKeyFromBytes(hashOrKey, elliptic.P256())
		if err != nil {
			return errors.New("parameter given is neither a key nor a hash")
		}
		res, err = CheckKeyedWitness(ic, key)
	} else {
		res, err = CheckHashedWitness(ic, hash)
	}
	if err != nil {
		return fmt.Errorf("failed to check witness: %w", err)
	}
	ic.VM.Estack().PushVal(res)
	return nil
}
