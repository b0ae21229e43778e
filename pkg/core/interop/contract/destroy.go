package contract

import (
	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/storage"
)

// Destroy removes the currently executing contract from the store together
// with all of its storage items. Running in a script that is not a deployed
// contract is a no-op.
func Destroy(ic *interop.Context) error {
	hash := ic.VM.GetCurrentScriptHash()
	cs, err := ic.GetContract(hash)
	if err != nil {
		return nil
	}
	if cs.HasStorage() {
		var keys [][]byte
		ic.DAO.Seek(cs.ID, storage.SeekRange{}, func(k, _ []byte) bool {
			key := make([]byte, len(k))
			copy(key, k)
			keys = append(keys, key)
			return true
		})
		for _, k := range keys {
			if err := ic.DAO.DeleteStorageItem(cs.ID, k); err != nil {
				return err
			}
		}
	}
	return ic.DAO.DeleteContractState(cs)
}
