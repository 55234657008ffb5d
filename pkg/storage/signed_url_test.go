package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("photo", "photos/2024/05/file.jpg")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	path, parsedExpiry, err := signer.Parse(token, "photo")
	require.NoError(t, err)
	require.Equal(t, "photos/2024/05/file.jpg", path)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Millisecond*10)
	token, _, err := signer.Generate("photo", "photos/file.jpg")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 1100)

	_, _, err = signer.Parse(token, "photo")
	require.Error(t, err)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("photo", "photos/file.jpg")
	require.NoError(t, err)

	_, _, err = signer.Parse(token, "report")
	require.Error(t, err)

	other := NewSignedURLSigner("other", time.Hour)
	_, _, err = other.Parse(token, "photo")
	require.Error(t, err)

	parts := strings.Split(token, ".")
	parts[1] = "9999999999"
	_, _, err = signer.Parse(strings.Join(parts, "."), "photo")
	require.Error(t, err)
}
