package vm

import (
	"fmt"
	"math/big"

	"github.com/keelvm/keel/pkg/vm/stackitem"
)

// MaxStackSize is the maximum number of items allowed on the evaluation
// stack.
const MaxStackSize = 2 * 1024

// Element represents an element on the evaluation stack.
type Element struct {
	value stackitem.Item
}

// NewElement makes a new Element from the given value.
func NewElement(v interface{}) Element {
	return Element{stackitem.Make(v)}
}

// Item returns the Item contained in the element.
func (e Element) Item() stackitem.Item {
	return e.value
}

// Value returns the value of the Item contained in the element.
func (e Element) Value() interface{} {
	return e.value.Value()
}

// BigInt attempts to get the underlying value of the element as a big
// integer. It will panic if the assertion fails, which will be caught by the
// VM.
func (e Element) BigInt() *big.Int {
	val, err := e.value.TryInteger()
	if err != nil {
		panic(err)
	}
	return val
}

// Bool converts the underlying value of the element to a boolean. It will
// panic if the assertion fails, which will be caught by the VM.
func (e Element) Bool() bool {
	b, err := e.value.TryBool()
	if err != nil {
		panic(err)
	}
	return b
}

// Bytes attempts to get the underlying value of the element as a byte array.
// It will panic if the assertion fails, which will be caught by the VM.
func (e Element) Bytes() []byte {
	bs, err := e.value.TryBytes()
	if err != nil {
		panic(err)
	}
	return bs
}

// String attempts to get the underlying value of the element as a string.
// It will panic if the assertion fails, which will be caught by the VM.
func (e Element) String() string {
	s, err := stackitem.ToString(e.value)
	if err != nil {
		panic(err)
	}
	return s
}

// Array attempts to get the underlying value of the element as an array of
// other items. It will panic if the item is not an array, which will be
// caught by the VM.
func (e Element) Array() []stackitem.Item {
	switch t := e.value.(type) {
	case *stackitem.Array, *stackitem.Struct:
		return t.Value().([]stackitem.Item)
	default:
		panic("element is not an array")
	}
}

// Interop attempts to get the underlying value of the element as an interop
// item. It will panic if the item is not an interop, which will be caught by
// the VM.
func (e Element) Interop() *stackitem.Interop {
	iop, ok := e.value.(*stackitem.Interop)
	if !ok {
		panic("element is not an interop")
	}
	return iop
}

// Stack represents the evaluation stack shared by all execution contexts of
// one VM run.
type Stack struct {
	elems []Element
}

// NewStack returns a new stack.
func NewStack() *Stack {
	return &Stack{elems: make([]Element, 0, 16)}
}

// Len returns the number of elements that are on the stack.
func (s *Stack) Len() int {
	return len(s.elems)
}

// Clear removes all elements from the stack.
func (s *Stack) Clear() {
	s.elems = s.elems[:0]
}

// PushItem pushes an Item onto the stack.
func (s *Stack) PushItem(i stackitem.Item) {
	if len(s.elems) >= MaxStackSize {
		panic("stack is too big")
	}
	s.elems = append(s.elems, Element{i})
}

// PushVal pushes the given value on the stack, it will be wrapped into the
// respective stack item.
func (s *Stack) PushVal(v interface{}) {
	s.PushItem(stackitem.Make(v))
}

// Pop removes and returns the element on top of the stack. It panics if the
// stack is empty, which will be caught by the VM.
func (s *Stack) Pop() Element {
	if len(s.elems) == 0 {
		panic("stack is empty")
	}
	e := s.elems[len(s.elems)-1]
	s.elems = s.elems[:len(s.elems)-1]
	return e
}

// Peek returns the element with the given index relative to the top of the
// stack (Peek(0) being the topmost element) without removing it. It panics
// on invalid index, which will be caught by the VM.
func (s *Stack) Peek(n int) Element {
	if n < 0 || n >= len(s.elems) {
		panic(fmt.Sprintf("no element at depth %d", n))
	}
	return s.elems[len(s.elems)-1-n]
}

// PopN pops n elements from the top of the stack preserving their order.
func (s *Stack) PopN(n int) []Element {
	if n < 0 || n > len(s.elems) {
		panic(fmt.Sprintf("can't pop %d elements", n))
	}
	res := make([]Element, n)
	copy(res, s.elems[len(s.elems)-n:])
	s.elems = s.elems[:len(s.elems)-n]
	return res
}

// truncate drops all elements above the given height.
func (s *Stack) truncate(height int) {
	if height < 0 || height > len(s.elems) {
		panic("bad stack height")
	}
	s.elems = s.elems[:height]
}
