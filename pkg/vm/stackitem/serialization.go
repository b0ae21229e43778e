package stackitem

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/keelvm/keel/pkg/encoding/bigint"
	"github.com/keelvm/keel/pkg/io"
)

// MaxSize is the default maximum allowed size of a serialized item in bytes.
const MaxSize = 2 * 1024 * 1024

// MaxDeserialized is the maximum number of items deserialize can handle in
// one encoded value.
const MaxDeserialized = 2048

// ErrTooBig is returned when an item exceeds the serialized size limit.
var ErrTooBig = errors.New("too big")

// ErrUnserializable is returned on an attempt to serialize an item with no
// serializable representation (Interop handles, recursive structures).
var ErrUnserializable = errors.New("unserializable")

// serContext is an internal serialization context.
type serContext struct {
	uv    [9]byte
	data  []byte
	limit int
	seen  map[Item]sliceNoPointer
}

// sliceNoPointer represents a sub-slice of serContext.data as offsets. It is
// used to duplicate already serialized items cheaply and to track recursion.
type sliceNoPointer struct {
	start, end int
}

// Serialize encodes the given Item into a byte slice using the default
// MaxSize limit.
func Serialize(item Item) ([]byte, error) {
	return SerializeLimited(item, MaxSize)
}

// SerializeLimited encodes the given Item into a byte slice enforcing the
// given size limit on the result.
func SerializeLimited(item Item, limit int) ([]byte, error) {
	sc := serContext{
		data:  make([]byte, 0),
		limit: limit,
		seen:  make(map[Item]sliceNoPointer),
	}
	if err := sc.serialize(item); err != nil {
		return nil, err
	}
	return sc.data, nil
}

func (w *serContext) writeByte(b byte) {
	w.data = append(w.data, b)
}

func (w *serContext) writeVarBytes(b []byte) {
	n := io.PutVarUint(w.uv[:], uint64(len(b)))
	w.data = append(w.data, w.uv[:n]...)
	w.data = append(w.data, b...)
}

func (w *serContext) writeVarUint(val uint64) {
	n := io.PutVarUint(w.uv[:], val)
	w.data = append(w.data, w.uv[:n]...)
}

func (w *serContext) serialize(item Item) error {
	if v, ok := w.seen[item]; ok {
		if v.end == 0 {
			return fmt.Errorf("%w: recursive structures can't be serialized", ErrUnserializable)
		}
		if len(w.data)+v.end-v.start > w.limit {
			return ErrTooBig
		}
		w.data = append(w.data, w.data[v.start:v.end]...)
		return nil
	}

	start := len(w.data)
	switch t := item.(type) {
	case *ByteArray:
		w.writeByte(byte(ByteArrayT))
		w.writeVarBytes(t.Value().([]byte))
	case *Buffer:
		w.writeByte(byte(BufferT))
		w.writeVarBytes(t.Value().([]byte))
	case Bool:
		w.writeByte(byte(BooleanT))
		if bool(t) {
			w.writeByte(1)
		} else {
			w.writeByte(0)
		}
	case *BigInteger:
		w.writeByte(byte(IntegerT))
		w.writeVarBytes(bigint.ToBytes(t.Big()))
	case *Interop:
		return fmt.Errorf("%w: interop item", ErrUnserializable)
	case *Array, *Struct:
		w.seen[item] = sliceNoPointer{}

		if t.Type() == ArrayT {
			w.writeByte(byte(ArrayT))
		} else {
			w.writeByte(byte(StructT))
		}

		arr := t.Value().([]Item)
		w.writeVarUint(uint64(len(arr)))
		for i := range arr {
			if err := w.serialize(arr[i]); err != nil {
				return err
			}
		}
		w.seen[item] = sliceNoPointer{start, len(w.data)}
	case *Map:
		w.seen[item] = sliceNoPointer{}

		elems := t.Value().([]MapElement)
		w.writeByte(byte(MapT))
		w.writeVarUint(uint64(len(elems)))
		for i := range elems {
			if err := w.serialize(elems[i].Key); err != nil {
				return err
			}
			if err := w.serialize(elems[i].Value); err != nil {
				return err
			}
		}
		w.seen[item] = sliceNoPointer{start, len(w.data)}
	case Null:
		w.writeByte(byte(AnyT))
	case nil:
		return fmt.Errorf("%w: nil item", ErrUnserializable)
	default:
		return fmt.Errorf("%w: %s", ErrUnserializable, t.String())
	}

	if len(w.data) > w.limit {
		return ErrTooBig
	}
	return nil
}

// Deserialize decodes an Item from the given byte slice. It is the exact
// inverse of Serialize for every supported item type, trailing bytes after
// a complete item are an error.
func Deserialize(data []byte) (Item, error) {
	br := bytes.NewReader(data)
	r := io.NewBinReaderFromIO(br)
	item := DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	if br.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after the item", br.Len())
	}
	return item, nil
}

// DecodeBinary decodes a previously serialized Item from the given reader.
// It is similar to the io.Serializable's DecodeBinary() but implemented as a
// function because Item itself is an interface. Caveat: always check the
// reader's error value before using the returned Item.
func DecodeBinary(r *io.BinReader) Item {
	dc := decodeContext{depth: MaxDeserialized}
	return dc.decodeBinary(r)
}

type decodeContext struct {
	depth int
}

func (dc *decodeContext) decodeBinary(r *io.BinReader) Item {
	dc.depth--
	if dc.depth < 0 {
		r.Err = errors.New("too many nested items")
		return nil
	}
	var t = Type(r.ReadB())
	if r.Err != nil {
		return nil
	}

	switch t {
	case ByteArrayT, BufferT:
		data := r.ReadVarBytes(MaxSize)
		if t == ByteArrayT {
			return NewByteArray(data)
		}
		return NewBuffer(data)
	case BooleanT:
		var b = r.ReadBool()
		return NewBool(b)
	case IntegerT:
		data := r.ReadVarBytes(bigint.MaxBytesLen)
		num := bigint.FromBytes(data)
		return NewBigInteger(num)
	case ArrayT, StructT:
		size := int(r.ReadVarUint())
		if size > MaxDeserialized {
			r.Err = errors.New("array is too big")
			return nil
		}
		arr := make([]Item, size)
		for i := 0; i < size; i++ {
			arr[i] = dc.decodeBinary(r)
		}

		if t == ArrayT {
			return NewArray(arr)
		}
		return NewStruct(arr)
	case MapT:
		size := int(r.ReadVarUint())
		if size > MaxDeserialized {
			r.Err = errors.New("map is too big")
			return nil
		}
		m := NewMap()
		for i := 0; i < size; i++ {
			key := dc.decodeBinary(r)
			value := dc.decodeBinary(r)
			if r.Err != nil {
				break
			}
			m.Add(key, value)
		}
		return m
	case AnyT:
		return Null{}
	default:
		r.Err = fmt.Errorf("unknown type: %v", t)
		return nil
	}
}
