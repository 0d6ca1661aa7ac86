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

func TestDiskStoreUploadAndResolve(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "avatars/u1.png", strings.NewReader("png-bytes"), false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/avatars/u1.png", url)

	data, err := os.ReadFile(filepath.Join(store.Root(), "avatars", "u1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestDiskStoreOverwrite(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "avatars/u1.png", strings.NewReader("first"), false)
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "avatars/u1.png", strings.NewReader("second"), false)
	assert.ErrorIs(t, err, ErrObjectExists)

	_, err = store.Upload(context.Background(), "avatars/u1.png", strings.NewReader("second"), true)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(store.Root(), "avatars", "u1.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskStore(root, "http://localhost:8080")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "../escape.txt", strings.NewReader("x"), true)
	require.NoError(t, err)

	// The cleaned path must stay inside the root.
	_, statErr := os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(filepath.Dir(root), "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
