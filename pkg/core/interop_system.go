package core

import (
	"fmt"

	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm"
	"github.com/keelvm/keel/pkg/vm/stackitem"
)

// bcGetHeight returns the current chain height.
func bcGetHeight(ic *interop.Context) error {
	height, err := ic.DAO.GetCurrentBlockHeight()
	if err != nil {
		return err
	}
	ic.VM.Estack().PushVal(height)
	return nil
}

// getBlockHashFromElement resolves a stack element into a block hash, the
// element can carry either the hash itself or a block index.
func getBlockHashFromElement(ic *interop.Context, element vm.Element) (util.Uint256, error) {
	hashbytes := element.Bytes()
	if len(hashbytes) <= 5 {
		hashint := element.BigInt().Int64()
		if hashint < 0 || hashint > int64(^uint32(0)) {
			return util.Uint256{}, fmt.Errorf("wrong block index: %d", hashint)
		}
		return ic.DAO.GetBlockHashByIndex(uint32(hashint))
	}
	return util.Uint256DecodeBytesBE(hashbytes)
}

// bcGetBlock returns the block by its hash or index, Null if it is unknown.
func bcGetBlock(ic *interop.Context) error {
	hash, err := getBlockHashFromElement(ic, ic.VM.Estack().Pop())
	if err != nil {
		ic.VM.Estack().PushItem(stackitem.Null{})
		return nil
	}
	block, err := ic.DAO.GetBlock(hash)
	if err != nil {
		ic.VM.Estack().PushItem(stackitem.Null{})
	} else {
		ic.VM.Estack().PushItem(block.ToStackItem())
	}
	return nil
}

// bcGetTransaction returns the transaction by its hash, Null if it is
// unknown.
func bcGetTransaction(ic *interop.Context) error {
	hash, err := getHashFromElement(ic.VM.Estack().Pop())
	if err != nil {
		return err
	}
	tx, _, err := ic.DAO.GetTransaction(hash)
	if err != nil {
		ic.VM.Estack().PushItem(stackitem.Null{})
		return nil
	}
	ic.VM.Estack().PushItem(tx.ToStackItem())
	return nil
}

// bcGetTransactionHeight returns the height of the block the transaction
// belongs to, -1 if the transaction is unknown.
func bcGetTransactionHeight(ic *interop.Context) error {
	hash, err := getHashFromElement(ic.VM.Estack().Pop())
	if err != nil {
		return err
	}
	_, height, err := ic.DAO.GetTransaction(hash)
	if err != nil {
		ic.VM.Estack().PushVal(-1)
		return nil
	}
	ic.VM.Estack().PushVal(height)
	return nil
}

func getHashFromElement(element vm.Element) (util.Uint256, error) {
	return util.Uint256DecodeBytesBE(element.Bytes())
}

// bcGetContract returns the contract state by its hash, Null if there is no
// such contract.
func bcGetContract(ic *interop.Context) error {
	hashbytes := ic.VM.Estack().Pop().Bytes()
	hash, err := util.Uint160DecodeBytesBE(hashbytes)
	if err != nil {
		return err
	}
	cs, err := ic.DAO.GetContractState(hash)
	if err != nil {
		ic.VM.Estack().PushItem(stackitem.Null{})
	} else {
		ic.VM.Estack().PushItem(cs.ToStackItem())
	}
	return nil
}
