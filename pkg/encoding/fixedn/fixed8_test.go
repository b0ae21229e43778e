package fixedn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixed8FromInt64(t *testing.T) {
	values := []int64{9000, 100000000, 5, 10945, -42}

	for _, val := range values {
		assert.Equal(t, Fixed8(val*decimals), Fixed8FromInt64(val))
		assert.Equal(t, val, Fixed8FromInt64(val).IntegralValue())
		assert.Equal(t, int32(0), Fixed8FromInt64(val).FractionalValue())
	}
}

func TestFixed8String(t *testing.T) {
	assert.Equal(t, "123.456789", Fixed8(12345678900).String())
	assert.Equal(t, "-0.42", Fixed8(-42000000).String())
	assert.Equal(t, "0", Fixed8(0).String())
	assert.Equal(t, "1", Fixed8FromInt64(1).String())
}

func TestFixed8FromString(t *testing.T) {
	ivalues := []string{"9000", "100000000", "5", "10945", "20.45", "-42", "-0.042"}
	for _, val := range ivalues {
		n, err := Fixed8FromString(val)
		require.NoError(t, err)
		assert.Equal(t, val, n.String())
	}

	v, err := Fixed8FromString("0.123456789")
	require.Error(t, err)
	assert.Equal(t, Fixed8(0), v)

	_, err = Fixed8FromString("just-a-string")
	require.Error(t, err)
}

func TestFixed8JSON(t *testing.T) {
	u, err := Fixed8FromString("123.45")
	require.NoError(t, err)

	data, err := u.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"123.45"`, string(data))

	var f Fixed8
	require.NoError(t, f.UnmarshalJSON(data))
	assert.Equal(t, u, f)
}
