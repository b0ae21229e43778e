package manifest

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/util"
)

const (
	// MaxManifestSize is a max length for a valid contract manifest.
	MaxManifestSize = math.MaxUint16

	// MethodInit is a name for default initialization method.
	MethodInit = "_initialize"

	// MethodDeploy is a name for default method called during contract deployment.
	MethodDeploy = "_deploy"
)

// Features represents the capabilities a contract declares.
type Features struct {
	// Storage is set when the contract may use persistent storage.
	Storage bool `json:"storage"`
	// Payable is set when the contract may receive funds.
	Payable bool `json:"payable"`
}

// ABI represents a contract application binary interface.
type ABI struct {
	Hash    util.Uint160 `json:"hash"`
	Methods []Method     `json:"methods"`
	Events  []Event      `json:"events"`
}

// Manifest represents contract metadata: its identity, capabilities and
// the permissions governing who may call it.
type Manifest struct {
	// Name is a contract's name.
	Name string `json:"name"`
	// ABI is a contract's ABI.
	ABI ABI `json:"abi"`
	// Features is a set of contract capabilities.
	Features Features `json:"features"`
	// Groups is a set of groups to which a contract belongs.
	Groups []Group `json:"groups"`
	// Permissions describe callers allowed to invoke this contract.
	Permissions Permissions `json:"permissions"`
	// SafeMethods is a set of names of methods that don't mutate state.
	SafeMethods WildStrings `json:"safemethods"`
	// Extra is an implementation-defined user data.
	Extra interface{} `json:"extra"`
}

// NewManifest returns new manifest with necessary fields initialized.
func NewManifest(h util.Uint160, name string) *Manifest {
	m := &Manifest{
		Name: name,
		ABI: ABI{
			Hash:    h,
			Methods: []Method{},
			Events:  []Event{},
		},
		Groups: []Group{},
	}
	m.SafeMethods.Restrict()
	return m
}

// DefaultManifest returns default contract manifest allowing anyone to call
// any method.
func DefaultManifest(h util.Uint160, name string) *Manifest {
	m := NewManifest(h, name)
	m.Permissions = Permissions{*NewPermission(PermissionWildcard)}
	return m
}

// GetMethod returns the method with the specified name.
func (a *ABI) GetMethod(name string) *Method {
	for i := range a.Methods {
		if a.Methods[i].Name == name {
			return &a.Methods[i]
		}
	}
	return nil
}

// GetEvent returns the event with the specified name.
func (a *ABI) GetEvent(name string) *Event {
	for i := range a.Events {
		if a.Events[i].Name == name {
			return &a.Events[i]
		}
	}
	return nil
}

// AllowsCall returns true if the caller identified by callerHash and caller
// manifest (nil for a script that is not a deployed contract) is allowed to
// call the given method of the declaring contract.
func (m *Manifest) AllowsCall(callerHash util.Uint160, caller *Manifest, method string) bool {
	for i := range m.Permissions {
		if m.Permissions[i].IsAllowed(callerHash, caller, method) {
			return true
		}
	}
	return false
}

// IsValid checks whether the given hash is the one specified in manifest and
// verifies it against all the keys in manifest groups.
func (m *Manifest) IsValid(hash util.Uint160) error {
	if !m.ABI.Hash.Equals(hash) {
		return errors.New("manifest hash mismatch")
	}
	err := m.Permissions.AreValid()
	if err != nil {
		return err
	}
	for _, g := range m.Groups {
		if err := g.IsValid(hash); err != nil {
			return err
		}
	}
	return nil
}

// EncodeBinary implements the io.Serializable interface.
func (m *Manifest) EncodeBinary(w *io.BinWriter) {
	data, err := json.Marshal(m)
	if err != nil {
		w.Err = err
		return
	}
	w.WriteVarBytes(data)
}

// DecodeBinary implements the io.Serializable interface.
func (m *Manifest) DecodeBinary(r *io.BinReader) {
	data := r.ReadVarBytes(MaxManifestSize)
	if r.Err != nil {
		return
	} else if err := json.Unmarshal(data, m); err != nil {
		r.Err = err
	}
}
