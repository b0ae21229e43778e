package transaction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WitnessScope represents a set of witness flags for a Transaction signer.
type WitnessScope byte

const (
	// FeeOnly is only valid for a sender, it can't be used during the execution.
	FeeOnly WitnessScope = 0
	// CalledByEntry means that this condition must hold: EntryScriptHash ==
	// CallingScriptHash. The witness automatically expires when entering
	// deeper internal invocations.
	CalledByEntry WitnessScope = 0x01
	// CustomContracts defines custom hashes for contract-specific witnesses.
	CustomContracts WitnessScope = 0x10
	// CustomGroups defines custom public keys for group members.
	CustomGroups WitnessScope = 0x20
	// Global allows the witness in all contexts. It cannot be combined with
	// other flags.
	Global WitnessScope = 0x80
)

var scopeNames = []struct {
	s WitnessScope
	n string
}{
	{CalledByEntry, "CalledByEntry"},
	{CustomContracts, "CustomContracts"},
	{CustomGroups, "CustomGroups"},
	{Global, "Global"},
}

// String implements the fmt.Stringer interface.
func (s WitnessScope) String() string {
	if s == FeeOnly {
		return "FeeOnly"
	}
	var ss []string
	for _, sn := range scopeNames {
		if s&sn.s != 0 {
			ss = append(ss, sn.n)
		}
	}
	return strings.Join(ss, ", ")
}

// ScopesFromString converts a comma-separated list of scope names to a set
// of scopes (case-sensitive). In case of an empty string an error is
// returned.
func ScopesFromString(s string) (WitnessScope, error) {
	var (
		result   WitnessScope
		isGlobal bool
	)
	if s = strings.TrimSpace(s); s == "FeeOnly" {
		return FeeOnly, nil
	}
outer:
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		for _, sn := range scopeNames {
			if name == sn.n {
				result |= sn.s
				if sn.s == Global {
					isGlobal = true
				}
				continue outer
			}
		}
		return 0, fmt.Errorf("invalid witness scope: %v", name)
	}
	if isGlobal && result != Global {
		return 0, fmt.Errorf("global scope can not be combined with other scopes")
	}
	return result, nil
}

// MarshalJSON implements the json.Marshaler interface.
func (s WitnessScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *WitnessScope) UnmarshalJSON(data []byte) error {
	var js string
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	scopes, err := ScopesFromString(js)
	if err != nil {
		return err
	}
	*s = scopes
	return nil
}
