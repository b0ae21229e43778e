package transaction

import (
	"errors"

	"github.com/keelvm/keel/pkg/crypto/keys"
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/util"
)

// The maximum number of AllowedContracts or AllowedGroups.
const maxSubitems = 16

// Signer implements a Transaction signer.
type Signer struct {
	Account          util.Uint160      `json:"account"`
	Scopes           WitnessScope      `json:"scopes"`
	AllowedContracts []util.Uint160    `json:"allowedcontracts,omitempty"`
	AllowedGroups    []*keys.PublicKey `json:"allowedgroups,omitempty"`
}

// EncodeBinary implements the io.Serializable interface.
func (c *Signer) EncodeBinary(bw *io.BinWriter) {
	c.Account.EncodeBinary(bw)
	bw.WriteB(byte(c.Scopes))
	if c.Scopes&CustomContracts != 0 {
		bw.WriteVarUint(uint64(len(c.AllowedContracts)))
		for i := range c.AllowedContracts {
			c.AllowedContracts[i].EncodeBinary(bw)
		}
	}
	if c.Scopes&CustomGroups != 0 {
		bw.WriteVarUint(uint64(len(c.AllowedGroups)))
		for i := range c.AllowedGroups {
			c.AllowedGroups[i].EncodeBinary(bw)
		}
	}
}

// DecodeBinary implements the io.Serializable interface.
func (c *Signer) DecodeBinary(br *io.BinReader) {
	c.Account.DecodeBinary(br)
	c.Scopes = WitnessScope(br.ReadB())
	if c.Scopes & ^(Global|CalledByEntry|CustomContracts|CustomGroups) != 0 {
		br.Err = errors.New("unknown witness scope")
		return
	}
	if c.Scopes&Global != 0 && c.Scopes != Global {
		br.Err = errors.New("global scope can not be combined with other scopes")
		return
	}
	if c.Scopes&CustomContracts != 0 {
		n := br.ReadVarUint()
		if n > maxSubitems {
			br.Err = errors.New("too many allowed contracts")
			return
		}
		c.AllowedContracts = make([]util.Uint160, n)
		for i := range c.AllowedContracts {
			c.AllowedContracts[i].DecodeBinary(br)
		}
	}
	if c.Scopes&CustomGroups != 0 {
		n := br.ReadVarUint()
		if n > maxSubitems {
			br.Err = errors.New("too many allowed groups")
			return
		}
		c.AllowedGroups = make([]*keys.PublicKey, n)
		for i := range c.AllowedGroups {
			c.AllowedGroups[i] = new(keys.PublicKey)
			c.AllowedGroups[i].DecodeBinary(br)
		}
	}
}
