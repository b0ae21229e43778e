// Package stackitem declares Item interface used by the VM and the interop
// layer to represent all of the values contracts operate on, along with a
// canonical binary serialization for them.
package stackitem

import (
	"errors"
	"fmt"
	"math/big"
)

const (
	// MaxBigIntegerSizeBits is the maximum size of a BigInt item in bits.
	MaxBigIntegerSizeBits = 32 * 8
	// MaxKeySize is the maximum size of a map key.
	MaxKeySize = 64
)

// Item represents a single value handled by the VM.
type Item interface {
	// Value returns the value of the item in its native representation.
	Value() interface{}
	// Type returns the type of the item.
	Type() Type
	// TryBytes converts the item to a byte slice. If the conversion can't
	// be made, an error is returned.
	TryBytes() ([]byte, error)
	// TryBool converts the item to a boolean value.
	TryBool() (bool, error)
	// TryInteger converts the item to an integer.
	TryInteger() (*big.Int, error)
	// Equals compares the item with the given one.
	Equals(s Item) bool
	// Dup duplicates the current item.
	Dup() Item
	// String implements the fmt.Stringer interface.
	String() string
}

var (
	// ErrInvalidConversion is returned upon an attempt to make an incorrect
	// conversion between item types.
	ErrInvalidConversion = errors.New("invalid conversion")
	// ErrIntegerTooBig is returned when an integer exceeds the size allowed
	// by the VM.
	ErrIntegerTooBig = errors.New("integer is too big")
)

// mkInvConversion creates an error for the invalid conversion of the item
// to the given type.
func mkInvConversion(from Item, to Type) error {
	return fmt.Errorf("%w: %s/%s", ErrInvalidConversion, from, to)
}

// Null represents the Null value, it is its own type.
type Null struct{}

// Value implements the Item interface.
func (i Null) Value() interface{} { return nil }

// Type implements the Item interface.
func (i Null) Type() Type { return AnyT }

// TryBytes implements the Item interface.
func (i Null) TryBytes() ([]byte, error) {
	return nil, mkInvConversion(i, ByteArrayT)
}

// TryBool implements the Item interface.
func (i Null) TryBool() (bool, error) { return false, nil }

// TryInteger implements the Item interface.
func (i Null) TryInteger() (*big.Int, error) {
	return nil, mkInvConversion(i, IntegerT)
}

// Equals implements the Item interface.
func (i Null) Equals(s Item) bool {
	_, ok := s.(Null)
	return ok
}

// Dup implements the Item interface.
func (i Null) Dup() Item { return i }

// String implements the fmt.Stringer interface.
func (i Null) String() string { return "Null" }

// BigInteger represents a big integer on the stack.
type BigInteger big.Int

// NewBigInteger returns a BigInteger item for the given big.Int. It panics
// if the integer exceeds the size allowed by the VM.
func NewBigInteger(value *big.Int) *BigInteger {
	if value.BitLen() > MaxBigIntegerSizeBits {
		panic(ErrIntegerTooBig)
	}
	return (*BigInteger)(value)
}

// Big casts the item to big.Int.
func (i *BigInteger) Big() *big.Int { return (*big.Int)(i) }

// Value implements the Item interface.
func (i *BigInteger) Value() interface{} { return i.Big() }

// Type implements the Item interface.
func (i *BigInteger) Type() Type { return IntegerT }

// TryBytes implements the Item interface.
func (i *BigInteger) TryBytes() ([]byte, error) {
	return i.Bytes(), nil
}

// Bytes converts the integer to its VM byte representation.
func (i *BigInteger) Bytes() []byte {
	return bigToBytes(i.Big())
}

// TryBool implements the Item interface.
func (i *BigInteger) TryBool() (bool, error) {
	return i.Big().Sign() != 0, nil
}

// TryInteger implements the Item interface.
func (i *BigInteger) TryInteger() (*big.Int, error) {
	return i.Big(), nil
}

// Equals implements the Item interface.
func (i *BigInteger) Equals(s Item) bool {
	if i == s {
		return true
	}
	if s == nil {
		return false
	}
	val, ok := s.(*BigInteger)
	return ok && i.Big().Cmp(val.Big()) == 0
}

// Dup implements the Item interface.
func (i *BigInteger) Dup() Item {
	n := new(big.Int)
	return (*BigInteger)(n.Set(i.Big()))
}

// String implements the fmt.Stringer interface.
func (i *BigInteger) String() string { return "BigInteger" }

// Bool represents a boolean Item.
type Bool bool

// NewBool returns a new Bool object.
func NewBool(val bool) Bool {
	return Bool(val)
}

// Value implements the Item interface.
func (i Bool) Value() interface{} { return bool(i) }

// Type implements the Item interface.
func (i Bool) Type() Type { return BooleanT }

// TryBytes implements the Item interface.
func (i Bool) TryBytes() ([]byte, error) {
	if i {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

// TryBool implements the Item interface.
func (i Bool) TryBool() (bool, error) { return bool(i), nil }

// TryInteger implements the Item interface.
func (i Bool) TryInteger() (*big.Int, error) {
	if i {
		return big.NewInt(1), nil
	}
	return big.NewInt(0), nil
}

// Equals implements the Item interface.
func (i Bool) Equals(s Item) bool {
	if i == s {
		return true
	}
	if s == nil {
		return false
	}
	val, ok := s.(Bool)
	return ok && i == val
}

// Dup implements the Item interface.
func (i Bool) Dup() Item { return i }

// String implements the fmt.Stringer interface.
func (i Bool) String() string { return "Boolean" }

// ByteArray represents an immutable byte string on the stack.
type ByteArray []byte

// NewByteArray returns a new ByteArray object.
func NewByteArray(b []byte) *ByteArray {
	return (*ByteArray)(&b)
}

// Value implements the Item interface.
func (i *ByteArray) Value() interface{} { return []byte(*i) }

// Type implements the Item interface.
func (i *ByteArray) Type() Type { return ByteArrayT }

// TryBytes implements the Item interface.
func (i *ByteArray) TryBytes() ([]byte, error) {
	return *i, nil
}

// TryBool implements the Item interface.
func (i *ByteArray) TryBool() (bool, error) {
	for _, b := range *i {
		if b != 0 {
			return true, nil
		}
	}
	return false, nil
}

// TryInteger implements the Item interface.
func (i *ByteArray) TryInteger() (*big.Int, error) {
	if len(*i) > MaxBigIntegerSizeBits/8 {
		return nil, ErrIntegerTooBig
	}
	return bytesToBig(*i), nil
}

// Equals implements the Item interface.
func (i *ByteArray) Equals(s Item) bool {
	if i == s {
		return true
	}
	if s == nil {
		return false
	}
	val, ok := s.(*ByteArray)
	if !ok {
		return false
	}
	return string(*i) == string(*val)
}

// Dup implements the Item interface.
func (i *ByteArray) Dup() Item {
	ba := make(ByteArray, len(*i))
	copy(ba, *i)
	return &ba
}

// String implements the fmt.Stringer interface.
func (i *ByteArray) String() string { return "ByteString" }

// Buffer represents a mutable byte string on the stack.
type Buffer []byte

// NewBuffer returns a new Buffer object.
func NewBuffer(b []byte) *Buffer {
	return (*Buffer)(&b)
}

// Value implements the Item interface.
func (i *Buffer) Value() interface{} { return []byte(*i) }

// Type implements the Item interface.
func (i *Buffer) Type() Type { return BufferT }

// TryBytes implements the Item interface.
func (i *Buffer) TryBytes() ([]byte, error) {
	return *i, nil
}

// TryBool implements the Item interface.
func (i *Buffer) TryBool() (bool, error) { return true, nil }

// TryInteger implements the Item interface.
func (i *Buffer) TryInteger() (*big.Int, error) {
	return nil, mkInvConversion(i, IntegerT)
}

// Equals implements the Item interface.
func (i *Buffer) Equals(s Item) bool {
	return i == s
}

// Dup implements the Item interface.
func (i *Buffer) Dup() Item {
	b := make(Buffer, len(*i))
	copy(b, *i)
	return &b
}

// String implements the fmt.Stringer interface.
func (i *Buffer) String() string { return "Buffer" }

// Array represents a list of items on the stack.
type Array struct {
	value []Item
}

// NewArray returns a new Array object.
func NewArray(items []Item) *Array {
	return &Array{
		value: items,
	}
}

// Value implements the Item interface.
func (i *Array) Value() interface{} { return i.value }

// Type implements the Item interface.
func (i *Array) Type() Type { return ArrayT }

// TryBytes implements the Item interface.
func (i *Array) TryBytes() ([]byte, error) {
	return nil, mkInvConversion(i, ByteArrayT)
}

// TryBool implements the Item interface.
func (i *Array) TryBool() (bool, error) { return true, nil }

// TryInteger implements the Item interface.
func (i *Array) TryInteger() (*big.Int, error) {
	return nil, mkInvConversion(i, IntegerT)
}

// Equals implements the Item interface.
func (i *Array) Equals(s Item) bool { return i == s }

// Len returns the length of the Array value.
func (i *Array) Len() int { return len(i.value) }

// Append adds an Item to the end of the Array value.
func (i *Array) Append(item Item) {
	i.value = append(i.value, item)
}

// Dup implements the Item interface.
func (i *Array) Dup() Item {
	return &Array{value: i.value}
}

// String implements the fmt.Stringer interface.
func (i *Array) String() string { return "Array" }

// Struct represents a struct on the stack. Unlike Array, equality is
// computed over the values it holds rather than over the reference.
type Struct struct {
	value []Item
}

// NewStruct returns a new Struct object.
func NewStruct(items []Item) *Struct {
	return &Struct{
		value: items,
	}
}

// Value implements the Item interface.
func (i *Struct) Value() interface{} { return i.value }

// Type implements the Item interface.
func (i *Struct) Type() Type { return StructT }

// TryBytes implements the Item interface.
func (i *Struct) TryBytes() ([]byte, error) {
	return nil, mkInvConversion(i, ByteArrayT)
}

// TryBool implements the Item interface.
func (i *Struct) TryBool() (bool, error) { return true, nil }

// TryInteger implements the Item interface.
func (i *Struct) TryInteger() (*big.Int, error) {
	return nil, mkInvConversion(i, IntegerT)
}

// Equals implements the Item interface.
func (i *Struct) Equals(s Item) bool {
	if i == s {
		return true
	}
	if s == nil {
		return false
	}
	val, ok := s.(*Struct)
	if !ok || len(i.value) != len(val.value) {
		return false
	}
	for j := range i.value {
		if !i.value[j].Equals(val.value[j]) {
			return false
		}
	}
	return true
}

// Len returns the length of the Struct value.
func (i *Struct) Len() int { return len(i.value) }

// Append adds an Item to the end of the Struct value.
func (i *Struct) Append(item Item) {
	i.value = append(i.value, item)
}

// Dup implements the Item interface.
func (i *Struct) Dup() Item {
	return &Struct{value: i.value}
}

// String implements the fmt.Stringer interface.
func (i *Struct) String() string { return "Struct" }

// MapElement is a key-value pair of Items.
type MapElement struct {
	Key   Item
	Value Item
}

// Map represents a Map object on the stack. It is ordered by insertion.
type Map struct {
	value []MapElement
}

// NewMap returns a new Map object.
func NewMap() *Map {
	return &Map{
		value: make([]MapElement, 0),
	}
}

// Value implements the Item interface.
func (i *Map) Value() interface{} { return i.value }

// Type implements the Item interface.
func (i *Map) Type() Type { return MapT }

// TryBytes implements the Item interface.
func (i *Map) TryBytes() ([]byte, error) {
	return nil, mkInvConversion(i, ByteArrayT)
}

// TryBool implements the Item interface.
func (i *Map) TryBool() (bool, error) { return true, nil }

// TryInteger implements the Item interface.
func (i *Map) TryInteger() (*big.Int, error) {
	return nil, mkInvConversion(i, IntegerT)
}

// Equals implements the Item interface.
func (i *Map) Equals(s Item) bool { return i == s }

// Len returns the length of the Map value.
func (i *Map) Len() int { return len(i.value) }

// Index returns the index of the given key in Map, -1 if not present.
func (i *Map) Index(key Item) int {
	for k := range i.value {
		if i.value[k].Key.Equals(key) {
			return k
		}
	}
	return -1
}

// Has checks if the map has the specified key.
func (i *Map) Has(key Item) bool {
	return i.Index(key) >= 0
}

// Add adds a key-value pair to the Map, replacing the old value for the
// given key if present.
func (i *Map) Add(key, value Item) {
	if !IsValidMapKey(key) {
		panic("wrong key type")
	}
	index := i.Index(key)
	if index >= 0 {
		i.value[index].Value = value
	} else {
		i.value = append(i.value, MapElement{key, value})
	}
}

// Dup implements the Item interface.
func (i *Map) Dup() Item {
	return &Map{value: i.value}
}

// String implements the fmt.Stringer interface.
func (i *Map) String() string { return "Map" }

// IsValidMapKey checks whether it's possible to use the given Item as a Map
// key.
func IsValidMapKey(key Item) bool {
	switch key.(type) {
	case Bool, *BigInteger:
		return true
	case *ByteArray:
		size := len(key.Value().([]byte))
		return size <= MaxKeySize
	default:
		return false
	}
}

// Interop represents an interop data on the stack, an opaque reference to a
// host object. It has no serializable representation.
type Interop struct {
	value interface{}
}

// NewInterop returns a new Interop object.
func NewInterop(value interface{}) *Interop {
	return &Interop{
		value: value,
	}
}

// Value implements the Item interface.
func (i *Interop) Value() interface{} { return i.value }

// Type implements the Item interface.
func (i *Interop) Type() Type { return InteropT }

// TryBytes implements the Item interface.
func (i *Interop) TryBytes() ([]byte, error) {
	return nil, mkInvConversion(i, ByteArrayT)
}

// TryBool implements the Item interface.
func (i *Interop) TryBool() (bool, error) { return true, nil }

// TryInteger implements the Item interface.
func (i *Interop) TryInteger() (*big.Int, error) {
	return nil, mkInvConversion(i, IntegerT)
}

// Equals implements the Item interface.
func (i *Interop) Equals(s Item) bool {
	if i == s {
		return true
	}
	if s == nil {
		return false
	}
	val, ok := s.(*Interop)
	return ok && i.value == val.value
}

// Dup implements the Item interface.
func (i *Interop) Dup() Item { return i }

// String implements the fmt.Stringer interface.
func (i *Interop) String() string { return "InteropInterface" }

// Make tries to make an appropriate stack item from the provided value.
// It will panic if it's not possible.
func Make(v interface{}) Item {
	switch val := v.(type) {
	case int:
		return NewBigInteger(big.NewInt(int64(val)))
	case int64:
		return NewBigInteger(big.NewInt(val))
	case uint32:
		return NewBigInteger(big.NewInt(int64(val)))
	case []byte:
		return NewByteArray(val)
	case string:
		return NewByteArray([]byte(val))
	case bool:
		return NewBool(val)
	case []Item:
		return NewArray(val)
	case *big.Int:
		return NewBigInteger(val)
	case Item:
		return val
	case []int:
		var items []Item
		for _, i := range val {
			items = append(items, Make(i))
		}
		return Make(items)
	case nil:
		return Null{}
	default:
		panic(fmt.Sprintf("unable to make stack item from %v of %T", val, val))
	}
}

// ToString converts an Item to a string if it is a legitimate UTF-8 string.
func ToString(item Item) (string, error) {
	bs, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// DeepCopy returns a new deep copy of the provided item. Values of Interop
// items are not deeply copied.
func DeepCopy(item Item) Item {
	seen := make(map[Item]Item)
	return deepCopy(item, seen)
}

func deepCopy(item Item, seen map[Item]Item) Item {
	if it, ok := seen[item]; ok && it != nil {
		return it
	}
	switch it := item.(type) {
	case Null:
		return Null{}
	case *Array:
		arr := NewArray(make([]Item, len(it.value)))
		seen[item] = arr
		for i := range it.value {
			arr.value[i] = deepCopy(it.value[i], seen)
		}
		return arr
	case *Struct:
		arr := NewStruct(make([]Item, len(it.value)))
		seen[item] = arr
		for i := range it.value {
			arr.value[i] = deepCopy(it.value[i], seen)
		}
		return arr
	case *Map:
		m := NewMap()
		seen[item] = m
		for i := range it.value {
			key := deepCopy(it.value[i].Key, seen)
			value := deepCopy(it.value[i].Value, seen)
			m.Add(key, value)
		}
		return m
	case *BigInteger, Bool:
		return it
	case *ByteArray:
		return NewByteArray(append([]byte{}, *it...))
	case *Buffer:
		return NewBuffer(append([]byte{}, *it...))
	case *Interop:
		return NewInterop(it.value)
	default:
		return nil
	}
}
