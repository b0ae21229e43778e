package vm

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/keelvm/keel/pkg/smartcontract/callflag"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/opcode"
)

// Context represents the current execution context of the VM: one frame of
// the invocation stack. The bottom frame is the entry frame, the top one is
// the currently executing one.
type Context struct {
	// Instruction pointer.
	ip int

	// The next instruction pointer.
	nextip int

	// The raw program script.
	prog []byte

	// Script hash of the prog.
	scriptHash util.Uint160

	// Caller's contract script hash.
	callingScriptHash util.Uint160

	// Call flags this context was created with.
	callFlag callflag.CallFlag

	// Evaluation stack height at the moment this context was loaded (after
	// the arguments were pushed). Used to clean the stack on unload.
	checkPoint int

	// retCount specifies the number of return values, -1 for the entry
	// context (everything left on the stack is returned).
	retCount int

	// paramCount specifies the number of parameters the loaded script
	// consumed from the caller's evaluation stack.
	paramCount int
}

var errNoInstParam = errors.New("failed to read instruction parameter")

// NewContext returns a new Context object for the given script.
func NewContext(b []byte) *Context {
	return &Context{
		prog:     b,
		retCount: -1,
	}
}

// ScriptHash returns the hash of the script this context runs.
func (c *Context) ScriptHash() util.Uint160 {
	return c.scriptHash
}

// GetCallFlags returns the calling flags which the context was created with.
func (c *Context) GetCallFlags() callflag.CallFlag {
	return c.callFlag
}

// IP returns the current instruction offset in the context script.
func (c *Context) IP() int {
	return c.ip
}

// Jump unconditionally moves the next instruction pointer to the specified
// location.
func (c *Context) Jump(pos int) {
	if pos < 0 || pos > len(c.prog) {
		panic("instruction offset is out of range")
	}
	c.nextip = pos
}

// Next returns the next instruction to execute with its parameter if any.
// The parameter is not copied and shouldn't be written to. After its
// invocation the instruction pointer points to the instruction returned.
func (c *Context) Next() (opcode.Opcode, []byte, error) {
	var err error

	c.ip = c.nextip
	if c.ip >= len(c.prog) {
		return opcode.RET, nil, nil
	}

	var instrbyte = c.prog[c.ip]
	instr := opcode.Opcode(instrbyte)
	if !instr.IsValid() {
		return instr, nil, fmt.Errorf("incorrect opcode %x at offset %d", instrbyte, c.ip)
	}
	c.nextip++

	var numtoread int
	switch instr {
	case opcode.PUSHDATA1:
		if c.nextip >= len(c.prog) {
			err = errNoInstParam
		} else {
			numtoread = int(c.prog[c.nextip])
			c.nextip++
		}
	case opcode.PUSHDATA2:
		if c.nextip+1 >= len(c.prog) {
			err = errNoInstParam
		} else {
			numtoread = int(binary.LittleEndian.Uint16(c.prog[c.nextip : c.nextip+2]))
			c.nextip += 2
		}
	case opcode.PUSHDATA4:
		if c.nextip+3 >= len(c.prog) {
			err = errNoInstParam
		} else {
			n := binary.LittleEndian.Uint32(c.prog[c.nextip : c.nextip+4])
			if n > MaxStackItemByteLen {
				return instr, nil, errors.New("parameter is too big")
			}
			numtoread = int(n)
			c.nextip += 4
		}
	case opcode.PUSHINT8:
		numtoread = 1
	case opcode.PUSHINT16:
		numtoread = 2
	case opcode.PUSHINT32:
		numtoread = 4
	case opcode.PUSHINT64:
		numtoread = 8
	case opcode.SYSCALL:
		numtoread = 4
	default:
		// No parameters, can just return.
		return instr, nil, nil
	}
	if err != nil {
		return instr, nil, err
	}
	if c.nextip+numtoread-1 >= len(c.prog) {
		err = errNoInstParam
		return instr, nil, err
	}
	out := c.prog[c.nextip : c.nextip+numtoread]
	c.nextip += numtoread
	return instr, out, nil
}
