package trigger

import "fmt"

// Type represents the trigger type: the reason a script is being executed.
type Type byte

// Viable list of supported trigger type constants.
const (
	// System is a trigger type that indicates that the script is being
	// invoked internally by the system.
	System Type = 0x01

	// Verification trigger indicates that the contract is being invoked as
	// a verification function. The function should return a boolean value
	// indicating the validity of the transaction or block.
	Verification Type = 0x20

	// Application trigger indicates that the contract is being invoked as
	// an application function, it can change the states of the ledger and
	// return any type of value.
	Application Type = 0x40

	// All represents any trigger type.
	All Type = System | Verification | Application
)

// String implements the fmt.Stringer interface.
func (t Type) String() string {
	switch t {
	case System:
		return "System"
	case Verification:
		return "Verification"
	case Application:
		return "Application"
	case All:
		return "All"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// FromString converts a string to the trigger Type.
func FromString(str string) (Type, error) {
	triggers := []Type{System, Verification, Application, All}
	for _, t := range triggers {
		if t.String() == str {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown trigger type: %s", str)
}
