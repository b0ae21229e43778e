package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint160DecodeString(t *testing.T) {
	hexStr := "2d3b96ae1bcc5a585e075e3b81920210dec16302"
	val, err := Uint160DecodeStringBE(hexStr)
	require.NoError(t, err)
	assert.Equal(t, hexStr, val.StringBE())

	valLE, err := Uint160DecodeStringLE(hexStr)
	require.NoError(t, err)
	assert.NotEqual(t, val, valLE)

	_, err = Uint160DecodeStringBE(hexStr[1:])
	require.Error(t, err)

	_, err = Uint160DecodeStringLE(hexStr[1:])
	require.Error(t, err)

	hexStr = "zz3b96ae1bcc5a585e075e3b81920210dec16302"
	_, err = Uint160DecodeStringBE(hexStr)
	require.Error(t, err)
}

func TestUint160DecodeBytes(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	val, err := Uint160DecodeBytesBE(b)
	require.NoError(t, err)
	assert.Equal(t, b, val.BytesBE())

	valLE, err := Uint160DecodeBytesLE(b)
	require.NoError(t, err)
	assert.Equal(t, b, valLE.BytesLE())

	_, err = Uint160DecodeBytesBE(b[1:])
	require.Error(t, err)
}

func TestUint160Equals(t *testing.T) {
	a := Uint160{1, 2, 3}
	b := Uint160{4, 5, 6}

	assert.False(t, a.Equals(b))
	assert.True(t, a.Equals(a))
	assert.True(t, b.IsZero() == false)
	assert.True(t, Uint160{}.IsZero())
}

func TestUint160Less(t *testing.T) {
	a := Uint160{}
	b := Uint160{}
	b[Uint160Size-1] = 1

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestUint160MarshalJSON(t *testing.T) {
	str := "0263c1de100292813b5e075e585acc1bae963b2d"
	expected, err := Uint160DecodeStringLE(str)
	require.NoError(t, err)

	// UnmarshalJSON decodes hex-strings
	var u1, u2 Uint160
	require.NoError(t, u1.UnmarshalJSON([]byte(`"`+str+`"`)))
	assert.True(t, expected.Equals(u1))

	s, err := expected.MarshalJSON()
	require.NoError(t, err)

	// UnmarshalJSON decodes hex-strings prefixed by 0x
	require.NoError(t, u2.UnmarshalJSON(s))
	assert.True(t, expected.Equals(u1))

	// marshal-unmarshal via the type itself
	out, err := json.Marshal(expected)
	require.NoError(t, err)
	var u3 Uint160
	require.NoError(t, json.Unmarshal(out, &u3))
	assert.Equal(t, expected, u3)
}
