package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("media-1", "news/2026/cover.jpg")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	mediaID, path, parsedExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "media-1", mediaID)
	require.Equal(t, "news/2026/cover.jpg", path)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Millisecond*10)
	token, _, err := signer.Generate("media-1", "news/2026/cover.jpg")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 20)

	_, _, _, err = signer.Parse(token, false)
	require.Error(t, err)

	mediaID, path, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "media-1", mediaID)
	require.Equal(t, "news/2026/cover.jpg", path)
}

func TestPublicPathMapping(t *testing.T) {
	require.Equal(t, "/storage/news/a.jpg", PublicPath("", "news/a.jpg"))
	require.Equal(t, "https://cdn.example.com/storage/news/a.jpg", PublicPath("https://cdn.example.com/", "/news/a.jpg"))
}
