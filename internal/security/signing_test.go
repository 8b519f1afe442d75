package security

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPairRoundtrip(t *testing.T) {
	dir := t.TempDir()
	pubPath := filepath.Join(dir, "k.pub")
	privPath := filepath.Join(dir, "k.priv")

	pub, priv, err := GenerateKeyPair()
	require.NoError(t, err)
	require.NoError(t, SaveKeyPair(pub, priv, pubPath, privPath))

	loadedPub, err := LoadPublicKey(pubPath)
	require.NoError(t, err)
	assert.Equal(t, pub, loadedPub)

	loadedPriv, err := LoadPrivateKey(privPath)
	require.NoError(t, err)
	assert.Equal(t, priv, loadedPriv)
}

func TestSignAndVerify(t *testing.T) {
	pub, priv, err := GenerateKeyPair()
	require.NoError(t, err)

	data := []byte("record-hash")
	sig := SignData(priv, data)

	ok, err := VerifySignature(pub, data, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifySignature(pub, []byte("other"), sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnsureKeyPair(t *testing.T) {
	dir := t.TempDir()
	pubPath := filepath.Join(dir, "keys", "k.pub")
	privPath := filepath.Join(dir, "keys", "k.priv")

	pub1, _, err := EnsureKeyPair(pubPath, privPath)
	require.NoError(t, err)

	// Second call loads the same pair instead of regenerating.
	pub2, _, err := EnsureKeyPair(pubPath, privPath)
	require.NoError(t, err)
	assert.Equal(t, pub1, pub2)
}

func TestLoadInvalidKey(t *testing.T) {
	_, err := LoadPublicKey(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
