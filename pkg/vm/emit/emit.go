// Package emit provides helpers used to construct VM scripts programmatically.
package emit

import (
	"encoding/binary"
	"errors"
	"math/big"
	"math/bits"

	"github.com/keelvm/keel/pkg/core/interop/interopnames"
	"github.com/keelvm/keel/pkg/encoding/bigint"
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/smartcontract/callflag"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/opcode"
)

// Instruction emits a VM Instruction with data to the given buffer.
func Instruction(w *io.BinWriter, op opcode.Opcode, b []byte) {
	w.WriteB(byte(op))
	w.WriteBytes(b)
}

// Opcode emits a single VM Instruction without arguments to the given buffer.
func Opcode(w *io.BinWriter, op opcode.Opcode) {
	w.WriteB(byte(op))
}

// Bool emits a bool type to the given buffer.
func Bool(w *io.BinWriter, ok bool) {
	if ok {
		Opcode(w, opcode.PUSH1)
	} else {
		Opcode(w, opcode.PUSH0)
	}
}

func padRight(s int, buf []byte) []byte {
	l := len(buf)
	buf = buf[:s]
	if buf[l-1]&0x80 != 0 {
		for i := l; i < s; i++ {
			buf[i] = 0xFF
		}
	}
	return buf
}

// Int emits an int type to the given buffer.
func Int(w *io.BinWriter, i int64) {
	switch {
	case i == -1:
		Opcode(w, opcode.PUSHM1)
	case i >= 0 && i < 16:
		val := opcode.Opcode(int(opcode.PUSH1) - 1 + int(i))
		Opcode(w, val)
	default:
		buf := bigint.ToPreallocatedBytes(big.NewInt(i), make([]byte, 0, 32))
		// l != 0 because of the switch above.
		padSize := byte(8 - bits.LeadingZeros8(byte(len(buf)-1)))
		Opcode(w, opcode.PUSHINT8+opcode.Opcode(padSize))
		w.WriteBytes(padRight(1<<padSize, buf))
	}
}

// Array emits an array of elements to the given buffer.
func Array(w *io.BinWriter, es ...interface{}) {
	for i := len(es) - 1; i >= 0; i-- {
		switch e := es[i].(type) {
		case int64:
			Int(w, e)
		case int:
			Int(w, int64(e))
		case string:
			String(w, e)
		case util.Uint160:
			Bytes(w, e.BytesBE())
		case []byte:
			Bytes(w, e)
		case bool:
			Bool(w, e)
		default:
			if es[i] != nil {
				w.Err = errors.New("unsupported type")
				return
			}
			Opcode(w, opcode.PUSHNULL)
		}
	}
	Int(w, int64(len(es)))
	Opcode(w, opcode.PACK)
}

// String emits a string to the given buffer.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Bytes emits a byte array to the given buffer.
func Bytes(w *io.BinWriter, b []byte) {
	n := len(b)

	switch {
	case n < 0x100:
		Instruction(w, opcode.PUSHDATA1, []byte{byte(n)})
	case n < 0x10000:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(n))
		Instruction(w, opcode.PUSHDATA2, buf)
	default:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		Instruction(w, opcode.PUSHDATA4, buf)
	}
	w.WriteBytes(b)
}

// Syscall emits a syscall instruction for the given API name to the given
// buffer. The name cannot be empty.
func Syscall(w *io.BinWriter, api string) {
	if w.Err != nil {
		return
	} else if len(api) == 0 {
		w.Err = errors.New("syscall api cannot be of length 0")
		return
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, interopnames.ToID([]byte(api)))
	Instruction(w, opcode.SYSCALL, buf)
}

// AppCall emits a call to the given contract with the given method,
// flags and arguments.
func AppCall(w *io.BinWriter, scriptHash util.Uint160, method string, f callflag.CallFlag, args ...interface{}) {
	Array(w, args...)
	Int(w, int64(f))
	String(w, method)
	Bytes(w, scriptHash.BytesBE())
	Syscall(w, interopnames.SystemContractCall)
}
