package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/storage/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "avatars/a.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/storage/avatars/a.png", url)

	content, err := os.ReadFile(filepath.Join(dir, "avatars", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, "avatars", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is not an error.
	assert.NoError(t, store.Delete(context.Background(), url))
}

func TestLocalStorage_Owns(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/storage")
	require.NoError(t, err)

	assert.True(t, store.Owns("/storage/avatars/a.png"))
	assert.False(t, store.Owns("https://cdn.example.com/avatars/a.png"))
	assert.False(t, store.Owns("/storagex/a.png"))
}

func TestLocalStorage_IgnoresForeignURLs(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/storage")
	require.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	assert.NoError(t, store.Delete(context.Background(), "https://example.com/keep.txt"))
	assert.Error(t, store.Delete(context.Background(), "/storage/../../keep.txt"))

	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/storage")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape.png", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestS3Storage_Owns(t *testing.T) {
	store := NewS3Storage(context.Background(), "eu-central-1", "bucket", "key", "secret", "https://cdn.example.com/")

	assert.True(t, store.Owns("https://cdn.example.com/avatars/a.png"))
	assert.False(t, store.Owns("https://elsewhere.example.com/avatars/a.png"))
	assert.Equal(t, "avatars/a.png", store.keyFor("https://cdn.example.com/avatars/a.png"))
}
