package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestEncrypt(t *testing.T) {
	validKey := testKey(t)

	tests := []struct {
		name      string
		errMsg    string
		plaintext []byte
		key       []byte
		wantErr   bool
	}{
		{
			name:      "successful encryption",
			plaintext: []byte("refresh-token-value"),
			key:       validKey,
		},
		{
			name:      "empty plaintext",
			plaintext: []byte{},
			key:       validKey,
			wantErr:   true,
			errMsg:    "plaintext cannot be empty",
		},
		{
			name:      "invalid key length - too short",
			plaintext: []byte("test"),
			key:       make([]byte, 16),
			wantErr:   true,
			errMsg:    "encryption key must be 32 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encrypted, err := Encrypt(tt.plaintext, tt.key, []byte("user-1"))

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, encrypted)
				return
			}

			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(encrypted), NonceSize+len(tt.plaintext)+16)
			assert.NotEqual(t, tt.plaintext, encrypted[NonceSize:])
		})
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(t)

	encrypted, err := Encrypt([]byte("secret"), key, []byte("user-1"))
	require.NoError(t, err)

	plaintext, err := Decrypt(encrypted, key, []byte("user-1"))
	require.NoError(t, err)
	assert.Equal(t, "secret", string(plaintext))

	_, err = Decrypt(encrypted, key, []byte("user-2"))
	assert.Error(t, err, "associated data is authenticated")

	_, err = Decrypt(encrypted, testKey(t), []byte("user-1"))
	assert.Error(t, err)

	_, err = Decrypt([]byte("short"), key, nil)
	assert.ErrorContains(t, err, "too short")
}

func TestEncrypt_Randomness(t *testing.T) {
	key := testKey(t)

	a, err := EncryptToBase64([]byte("same"), key, nil)
	require.NoError(t, err)
	b, err := EncryptToBase64([]byte("same"), key, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	plaintext, err := DecryptFromBase64(a, key, nil)
	require.NoError(t, err)
	assert.Equal(t, "same", string(plaintext))

	_, err = DecryptFromBase64("not base64!", key, nil)
	assert.ErrorContains(t, err, "failed to decode base64")
}
