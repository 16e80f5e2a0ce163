package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	salt := []byte("xbookmarks-test-salt")

	k1, err := DeriveKey("passphrase", salt)
	require.NoError(t, err)
	assert.Len(t, k1, KeySize)

	k2, err := DeriveKey("passphrase", salt)
	require.NoError(t, err)
	assert.Equal(t, k1, k2, "derivation is deterministic")

	k3, err := DeriveKey("other", salt)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	_, err = DeriveKey("", salt)
	assert.ErrorContains(t, err, "passphrase cannot be empty")

	_, err = DeriveKey("passphrase", []byte("short"))
	assert.ErrorContains(t, err, "salt must be at least")
}

func TestHashToken(t *testing.T) {
	h := HashToken("session-id")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("session-id"))
	assert.NotEqual(t, h, HashToken("session-id2"))
	// known SHA-256 vector
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashToken("abc"))
}
