package crypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for deriving the token sealing key
const (
	Argon2Time    = 1
	Argon2Memory  = 64 * 1024 // KiB
	Argon2Threads = 4
	// MinSaltSize is the shortest salt DeriveKey accepts
	MinSaltSize = 16
)

// DeriveKey turns a configured passphrase into a 32-byte AES key with Argon2id.
// The salt is per deployment, so the same passphrase yields the same key
// across restarts.
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if len(salt) < MinSaltSize {
		return nil, fmt.Errorf("salt must be at least %d bytes, got %d", MinSaltSize, len(salt))
	}

	return argon2.IDKey([]byte(passphrase), salt, Argon2Time, Argon2Memory, Argon2Threads, KeySize), nil
}
