package manifest

import (
	"testing"

	"github.com/keelvm/keel/pkg/crypto/hash"
	"github.com/keelvm/keel/pkg/crypto/keys"
	"github.com/keelvm/keel/pkg/io"
	"github.com/keelvm/keel/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestManifestSerialization(t *testing.T) {
	h := util.Uint160{1, 2, 3}
	m := DefaultManifest(h, "Test")
	m.Features.Storage = true
	m.ABI.Methods = append(m.ABI.Methods, Method{Name: "main", Offset: 0})
	m.SafeMethods.Add("balanceOf")

	data, err := io.ToByteArray(m)
	require.NoError(t, err)

	actual := new(Manifest)
	require.NoError(t, io.FromByteArray(actual, data))
	require.Equal(t, m.Name, actual.Name)
	require.Equal(t, m.ABI.Hash, actual.ABI.Hash)
	require.True(t, actual.Features.Storage)
	require.True(t, actual.SafeMethods.Contains("balanceOf"))
	require.False(t, actual.SafeMethods.Contains("transfer"))
	require.NotNil(t, actual.ABI.GetMethod("main"))
	require.Nil(t, actual.ABI.GetMethod("missing"))
}

func TestManifestIsValid(t *testing.T) {
	h := util.Uint160{9, 8, 7}
	m := DefaultManifest(h, "Test")

	require.NoError(t, m.IsValid(h))
	require.Error(t, m.IsValid(util.Uint160{1}))

	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	m.Groups = []Group{{PublicKey: priv.PublicKey(), Signature: make([]byte, 64)}}
	require.Error(t, m.IsValid(h))

	sig := priv.SignHash(hash.Sha256(h.BytesBE()))
	m.Groups = []Group{{PublicKey: priv.PublicKey(), Signature: sig}}
	require.NoError(t, m.IsValid(h))
}
