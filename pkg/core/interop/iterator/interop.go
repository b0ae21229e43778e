package iterator

import (
	"fmt"

	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/vm/stackitem"
)

type iterator interface {
	Next() bool
	Value() stackitem.Item
}

// arrayWrapper iterates over the elements of an array or struct.
type arrayWrapper struct {
	index int
	value []stackitem.Item
}

func (a *arrayWrapper) Next() bool {
	if next := a.index + 1; next < len(a.value) {
		a.index = next
		return true
	}
	return false
}

func (a *arrayWrapper) Value() stackitem.Item {
	return a.value[a.index]
}

// mapWrapper iterates over the entries of a map in insertion order, producing
// key-value structs.
type mapWrapper struct {
	index int
	m     []stackitem.MapElement
}

func (m *mapWrapper) Next() bool {
	if next := m.index + 1; next < len(m.m) {
		m.index = next
		return true
	}
	return false
}

func (m *mapWrapper) Value() stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		m.m[m.index].Key,
		m.m[m.index].Value,
	})
}

// Create returns an iterator over the elements of an array or the entries of
// a map popped from the stack.
func Create(ic *interop.Context) error {
	item := ic.VM.Estack().Pop().Item()
	var res iterator
	switch t := item.(type) {
	case *stackitem.Array, *stackitem.Struct:
		res = &arrayWrapper{
			index: -1,
			value: t.Value().([]stackitem.Item),
		}
	case *stackitem.Map:
		res = &mapWrapper{
			index: -1,
			m:     t.Value().([]stackitem.MapElement),
		}
	default:
		return fmt.Errorf("non-iterable type %s", t.Type())
	}
	ic.VM.Estack().PushItem(stackitem.NewInterop(res))
	return nil
}

// Next advances the iterator, pushes true on success and false otherwise.
func Next(ic *interop.Context) error {
	iop := ic.VM.Estack().Pop().Interop()
	arr, ok := iop.Value().(iterator)
	if !ok {
		return fmt.Errorf("%T is not an iterator", iop.Value())
	}
	ic.VM.Estack().PushVal(arr.Next())
	return nil
}

// Value returns the current iterator value, the exact shape depends on what
// is being iterated.
func Value(ic *interop.Context) error {
	iop := ic.VM.Estack().Pop().Interop()
	arr, ok := iop.Value().(iterator)
	if !ok {
		return fmt.Errorf("%T is not an iterator", iop.Value())
	}
	ic.VM.Estack().PushItem(arr.Value())
	return nil
}

// IsIterator returns whether the given item implements the iterator
// interface.
func IsIterator(item stackitem.Item) bool {
	_, ok := item.Value().(iterator)
	return ok
}

// Values returns an array of up to max iterator values. The iterator can be
// reused to retrieve the rest of its values in subsequent calls.
func Values(item stackitem.Item, max int) []stackitem.Item {
	var result []stackitem.Item
	arr := item.Value().(iterator)
	for max > 0 && arr.Next() {
		result = append(result, arr.Value())
		max--
	}
	return result
}
