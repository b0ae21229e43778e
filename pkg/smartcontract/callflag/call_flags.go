// Package callflag defines the call flag capability bit-set. Flags only
// ever narrow down the call chain: a child context never gets a flag its
// parent doesn't have.
package callflag

import (
	"errors"
	"strings"
)

// CallFlag represents a call flag.
type CallFlag byte

// Default flags.
const (
	// ReadStates allows reading states.
	ReadStates CallFlag = 1 << iota
	// WriteStates allows writing states.
	WriteStates
	// AllowCall allows calling other contracts.
	AllowCall
	// AllowNotify allows notifications.
	AllowNotify

	// States allows reading and writing states.
	States = ReadStates | WriteStates
	// ReadOnly allows reading states and calling other contracts.
	ReadOnly = ReadStates | AllowCall
	// All is a complete set of flags.
	All = States | AllowCall | AllowNotify
	// NoneFlag is an empty set of flags.
	NoneFlag CallFlag = 0
)

var flagStrings = []struct {
	f CallFlag
	s string
}{
	{ReadStates, "ReadStates"},
	{WriteStates, "WriteStates"},
	{AllowCall, "AllowCall"},
	{AllowNotify, "AllowNotify"},
}

// Has returns true iff all the flags specified in cf are also set in f.
func (f CallFlag) Has(cf CallFlag) bool {
	return f&cf == cf
}

// String implements the fmt.Stringer interface.
func (f CallFlag) String() string {
	if f == NoneFlag {
		return "None"
	}
	if f == All {
		return "All"
	}
	var ss []string
	for _, fs := range flagStrings {
		if f.Has(fs.f) {
			ss = append(ss, fs.s)
		}
	}
	return strings.Join(ss, ", ")
}

// FromString parses a comma-separated list of flag names.
func FromString(s string) (CallFlag, error) {
	var res CallFlag
	if s = strings.TrimSpace(s); s == "None" {
		return NoneFlag, nil
	}
	if s == "All" {
		return All, nil
	}
outer:
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		for _, fs := range flagStrings {
			if name == fs.s {
				res |= fs.f
				continue outer
			}
		}
		return NoneFlag, errors.New("unknown call flag")
	}
	return res, nil
}
