package crypto

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// Sealer encrypts credentials before they are stored. subject is bound to the
// ciphertext, so a sealed value copied to another user's record fails to open.
type Sealer interface {
	Seal(ctx context.Context, subject, plaintext string) (string, error)
	Open(ctx context.Context, subject, sealed string) (string, error)
}

// LocalSealer seals with AES-256-GCM under a key held in process memory.
type LocalSealer struct {
	key []byte
}

// NewLocalSealer creates a sealer from a 32-byte key
func NewLocalSealer(key []byte) (*LocalSealer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("sealing key must be %d bytes, got %d", KeySize, len(key))
	}
	return &LocalSealer{key: key}, nil
}

func (s *LocalSealer) Seal(_ context.Context, subject, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	return EncryptToBase64([]byte(plaintext), s.key, []byte(subject))
}

func (s *LocalSealer) Open(_ context.Context, subject, sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	plaintext, err := DecryptFromBase64(sealed, s.key, []byte(subject))
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// KMSAPI is the part of the KMS client the sealer uses
type KMSAPI interface {
	Encrypt(ctx context.Context, params *kms.EncryptInput, optFns ...func(*kms.Options)) (*kms.EncryptOutput, error)
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// KMSSealer seals with an AWS KMS key. The subject travels as encryption context.
type KMSSealer struct {
	client KMSAPI
	keyID  string
}

// NewKMSSealer creates a sealer using keyID (id, ARN or alias)
func NewKMSSealer(client KMSAPI, keyID string) *KMSSealer {
	return &KMSSealer{client: client, keyID: keyID}
}

func (s *KMSSealer) Seal(ctx context.Context, subject, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	out, err := s.client.Encrypt(ctx, &kms.EncryptInput{
		KeyId:             &s.keyID,
		Plaintext:         []byte(plaintext),
		EncryptionContext: map[string]string{"subject": subject},
	})
	if err != nil {
		return "", fmt.Errorf("kms encrypt: %w", err)
	}

	return base64.StdEncoding.EncodeToString(out.CiphertextBlob), nil
}

func (s *KMSSealer) Open(ctx context.Context, subject, sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}

	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	out, err := s.client.Decrypt(ctx, &kms.DecryptInput{
		KeyId:             &s.keyID,
		CiphertextBlob:    blob,
		EncryptionContext: map[string]string{"subject": subject},
	})
	if err != nil {
		return "", fmt.Errorf("kms decrypt: %w", err)
	}

	return string(out.Plaintext), nil
}
