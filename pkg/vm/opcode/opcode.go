// Package opcode defines the instruction set understood by the engine. Only
// the instructions needed to push values, transfer control to syscalls and
// return from a script are defined, the engine is not a general-purpose
// computer, arithmetic is a host concern.
package opcode

// Opcode represents a single operation code.
type Opcode byte

// Viable list of supported instruction constants.
const (
	PUSHINT8  Opcode = 0x00
	PUSHINT16 Opcode = 0x01
	PUSHINT32 Opcode = 0x02
	PUSHINT64 Opcode = 0x03
	PUSHNULL  Opcode = 0x0B
	PUSHDATA1 Opcode = 0x0C
	PUSHDATA2 Opcode = 0x0D
	PUSHDATA4 Opcode = 0x0E
	PUSHM1    Opcode = 0x0F
	PUSH0     Opcode = 0x10
	PUSH1     Opcode = 0x11
	PUSH2     Opcode = 0x12
	PUSH3     Opcode = 0x13
	PUSH4     Opcode = 0x14
	PUSH5     Opcode = 0x15
	PUSH6     Opcode = 0x16
	PUSH7     Opcode = 0x17
	PUSH8     Opcode = 0x18
	PUSH9     Opcode = 0x19
	PUSH10    Opcode = 0x1A
	PUSH11    Opcode = 0x1B
	PUSH12    Opcode = 0x1C
	PUSH13    Opcode = 0x1D
	PUSH14    Opcode = 0x1E
	PUSH15    Opcode = 0x1F
	PUSH16    Opcode = 0x20
	NOP       Opcode = 0x21
	ABORT     Opcode = 0x38
	RET       Opcode = 0x40
	SYSCALL   Opcode = 0x41
	DROP      Opcode = 0x45
	PACK      Opcode = 0xC0
)

var opcodeStrings = map[Opcode]string{
	PUSHINT8:  "PUSHINT8",
	PUSHINT16: "PUSHINT16",
	PUSHINT32: "PUSHINT32",
	PUSHINT64: "PUSHINT64",
	PUSHNULL:  "PUSHNULL",
	PUSHDATA1: "PUSHDATA1",
	PUSHDATA2: "PUSHDATA2",
	PUSHDATA4: "PUSHDATA4",
	PUSHM1:    "PUSHM1",
	PUSH0:     "PUSH0",
	PUSH1:     "PUSH1",
	PUSH2:     "PUSH2",
	PUSH3:     "PUSH3",
	PUSH4:     "PUSH4",
	PUSH5:     "PUSH5",
	PUSH6:     "PUSH6",
	PUSH7:     "PUSH7",
	PUSH8:     "PUSH8",
	PUSH9:     "PUSH9",
	PUSH10:    "PUSH10",
	PUSH11:    "PUSH11",
	PUSH12:    "PUSH12",
	PUSH13:    "PUSH13",
	PUSH14:    "PUSH14",
	PUSH15:    "PUSH15",
	PUSH16:    "PUSH16",
	NOP:       "NOP",
	SYSCALL:   "SYSCALL",
	RET:       "RET",
	PACK:      "PACK",
	DROP:      "DROP",
	ABORT:     "ABORT",
}

// String implements the fmt.Stringer interface.
func (o Opcode) String() string {
	if s, ok := opcodeStrings[o]; ok {
		return s
	}
	return "UNKNOWN"
}

// IsValid returns true if the opcode passed is valid (defined in the VM).
func (o Opcode) IsValid() bool {
	_, ok := opcodeStrings[o]
	return ok
}
