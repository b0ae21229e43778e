package vm

import (
	"errors"
	"strings"
)

// State of the VM. It's a set of flags stored in the integer number.
type State uint8

// Available states.
const (
	// NoneState represents the NONE VM state.
	NoneState State = 0
	// HaltState represents the HALT VM state.
	HaltState State = 1 << iota
	// FaultState represents the FAULT VM state.
	FaultState
	// BreakState represents the BREAK VM state.
	BreakState
)

// HasFlag checks for State flag presence.
func (s State) HasFlag(f State) bool {
	return s&f != 0
}

// String implements the fmt.Stringer interface.
func (s State) String() string {
	if s == NoneState {
		return "NONE"
	}

	ss := make([]string, 0, 3)
	if s.HasFlag(HaltState) {
		ss = append(ss, "HALT")
	}
	if s.HasFlag(FaultState) {
		ss = append(ss, "FAULT")
	}
	if s.HasFlag(BreakState) {
		ss = append(ss, "BREAK")
	}
	return strings.Join(ss, ", ")
}

// StateFromString converts a string into the State.
func StateFromString(s string) (st State, err error) {
	if s = strings.TrimSpace(s); s == "NONE" {
		return NoneState, nil
	}

	ss := strings.Split(s, ",")
	for _, state := range ss {
		switch state = strings.TrimSpace(state); state {
		case "HALT":
			st |= HaltState
		case "FAULT":
			st |= FaultState
		case "BREAK":
			st |= BreakState
		default:
			return 0, errors.New("unknown state")
		}
	}
	return
}
