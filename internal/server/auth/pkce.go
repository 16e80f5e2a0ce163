// Package auth implements the X OAuth 2.0 authorization code flow with PKCE
// and the session validity guard.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/oauth2"
)

const (
	// stateBytes of entropy, hex-encoded to 32 characters
	stateBytes = 16
	// verifierBytes of entropy, hex-encoded to a 64 character code verifier
	verifierBytes = 32
)

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateState returns an opaque single-use state token
func GenerateState() (string, error) {
	return randomHex(stateBytes)
}

// GenerateVerifier returns a PKCE code verifier (RFC 7636 allows 43-128 unreserved characters)
func GenerateVerifier() (string, error) {
	return randomHex(verifierBytes)
}

// ChallengeS256 derives the code challenge: base64url(SHA-256(verifier)) without padding
func ChallengeS256(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}
