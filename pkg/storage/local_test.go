package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	resp, err := store.Upload(ctx, &UploadRequest{
		Key:         "partners/2026/10/photo.png",
		Reader:      strings.NewReader("png-bytes"),
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/partners/2026/10/photo.png", resp.URL)
	assert.EqualValues(t, 9, resp.Size)

	ok, err := store.Exists(ctx, resp.Key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, resp.Key))
	ok, err = store.Exists(ctx, resp.Key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "http://localhost")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), &UploadRequest{Key: "../outside.png", Reader: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrInvalidKey)
}
