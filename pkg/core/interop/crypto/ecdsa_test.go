package crypto

import (
	"testing"

	"github.com/keelvm/keel/pkg/core/dao"
	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/crypto/keys"
	"github.com/keelvm/keel/pkg/smartcontract/trigger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func createContext(t *testing.T) *interop.Context {
	d := dao.NewSimple(storage.NewMemoryStore())
	ic := interop.NewContext(trigger.Application, d, nil, nil, zaptest.NewLogger(t))
	ic.SpawnVM()
	return ic
}

func testVerify(t *testing.T, newKey func() (*keys.PrivateKey, error), verify func(*interop.Context) error) {
	priv, err := newKey()
	require.NoError(t, err)
	msg := []byte("sample message")
	sig := priv.Sign(msg)

	t.Run("good signature", func(t *testing.T) {
		ic := createContext(t)
		ic.VM.Estack().PushVal(sig)
		ic.VM.Estack().PushVal(priv.PublicKey().Bytes())
		ic.VM.Estack().PushVal(msg)
		require.NoError(t, verify(ic))
		require.True(t, ic.VM.Estack().Pop().Bool())
	})
	t.Run("wrong message", func(t *testing.T) {
		ic := createContext(t)
		ic.VM.Estack().PushVal(sig)
		ic.VM.Estack().PushVal(priv.PublicKey().Bytes())
		ic.VM.Estack().PushVal([]byte("other message"))
		require.NoError(t, verify(ic))
		require.False(t, ic.VM.Estack().Pop().Bool())
	})
	t.Run("corrupted signature", func(t *testing.T) {
		bad := make([]byte, len(sig))
		copy(bad, sig)
		bad[0] ^= 0xff
		ic := createContext(t)
		ic.VM.Estack().PushVal(bad)
		ic.VM.Estack().PushVal(priv.PublicKey().Bytes())
		ic.VM.Estack().PushVal(msg)
		require.NoError(t, verify(ic))
		require.False(t, ic.VM.Estack().Pop().Bool())
	})
	t.Run("bad public key", func(t *testing.T) {
		ic := createContext(t)
		ic.VM.Estack().PushVal(sig)
		ic.VM.Estack().PushVal([]byte{0x02, 0x01})
		ic.VM.Estack().PushVal(msg)
		require.Error(t, verify(ic))
	})
}

func TestECDSASecp256r1Verify(t *testing.T) {
	testVerify(t, keys.NewPrivateKey, ECDSASecp256r1Verify)
}

func TestECDSASecp256k1Verify(t *testing.T) {
	testVerify(t, keys.NewSecp256k1PrivateKey, ECDSASecp256k1Verify)
}

func TestCurveMismatch(t *testing.T) {
	priv, err := keys.NewSecp256k1PrivateKey()
	require.NoError(t, err)
	ic := createContext(t)
	ic.VM.Estack().PushVal(priv.Sign([]byte("msg")))
	ic.VM.Estack().PushVal(priv.PublicKey().Bytes())
	ic.VM.Estack().PushVal([]byte("msg"))
	// A secp256k1 key is rarely a valid P-256 point, but when the point does
	// decode the signature still can't match.
	if err := ECDSASecp256r1Verify(ic); err == nil {
		require.False(t, ic.VM.Estack().Pop().Bool())
	}
}
