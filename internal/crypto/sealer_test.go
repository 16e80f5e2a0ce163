package crypto

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSealer(t *testing.T) {
	ctx := context.Background()

	_, err := NewLocalSealer([]byte("short"))
	require.Error(t, err)

	s, err := NewLocalSealer(testKey(t))
	require.NoError(t, err)

	sealed, err := s.Seal(ctx, "1001", "refresh")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "refresh")

	opened, err := s.Open(ctx, "1001", sealed)
	require.NoError(t, err)
	assert.Equal(t, "refresh", opened)

	_, err = s.Open(ctx, "1002", sealed)
	assert.Error(t, err)

	empty, err := s.Seal(ctx, "1001", "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

type fakeKMS struct{}

func (fakeKMS) Encrypt(_ context.Context, in *kms.EncryptInput, _ ...func(*kms.Options)) (*kms.EncryptOutput, error) {
	blob := in.EncryptionContext["subject"] + "|" + strings.ToUpper(string(in.Plaintext))
	return &kms.EncryptOutput{CiphertextBlob: []byte(blob)}, nil
}

func (fakeKMS) Decrypt(_ context.Context, in *kms.DecryptInput, _ ...func(*kms.Options)) (*kms.DecryptOutput, error) {
	subject, body, ok := strings.Cut(string(in.CiphertextBlob), "|")
	if !ok || subject != in.EncryptionContext["subject"] {
		return nil, errors.New("InvalidCiphertextException")
	}
	return &kms.DecryptOutput{Plaintext: []byte(strings.ToLower(body))}, nil
}

func TestKMSSealer(t *testing.T) {
	ctx := context.Background()
	s := NewKMSSealer(fakeKMS{}, "alias/xbookmarks")

	sealed, err := s.Seal(ctx, "1001", "refresh")
	require.NoError(t, err)

	opened, err := s.Open(ctx, "1001", sealed)
	require.NoError(t, err)
	assert.Equal(t, "refresh", opened)

	_, err = s.Open(ctx, "1002", sealed)
	assert.ErrorContains(t, err, "kms decrypt")

	_, err = s.Open(ctx, "1001", "%%%")
	assert.ErrorContains(t, err, "base64")
}
