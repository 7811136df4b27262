package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known anvil dev key, safe to embed in tests.
const devKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestPrivateKeyFromEnvMissing(t *testing.T) {
	t.Setenv(privateKeyEnvVar, "")

	_, err := PrivateKeyFromEnv()
	require.ErrorIs(t, err, ErrMissingPrivateKey)
}

func TestPrivateKeyFromEnvMalformed(t *testing.T) {
	t.Setenv(privateKeyEnvVar, "0xnothex")

	_, err := PrivateKeyFromEnv()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingPrivateKey)
}

func TestPrivateKeyFromEnvStripsPrefix(t *testing.T) {
	t.Setenv(privateKeyEnvVar, "0x"+devKey)
	withPrefix, err := PrivateKeyFromEnv()
	require.NoError(t, err)

	t.Setenv(privateKeyEnvVar, devKey)
	withoutPrefix, err := PrivateKeyFromEnv()
	require.NoError(t, err)

	a, err := AddressFromPrivateKey(withPrefix)
	require.NoError(t, err)
	b, err := AddressFromPrivateKey(withoutPrefix)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAddressFromPrivateKey(t *testing.T) {
	t.Setenv(privateKeyEnvVar, devKey)
	key, err := PrivateKeyFromEnv()
	require.NoError(t, err)

	addr, err := AddressFromPrivateKey(key)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", addr.Hex())
}
