package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStore(t *testing.T) *LocalBlobStore {
	t.Helper()
	store, err := NewLocalBlobStore(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)
	return store
}

func TestNewLocalBlobStore(t *testing.T) {
	t.Run("creates root directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "blobs")
		store, err := NewLocalBlobStore(dir)
		require.NoError(t, err)
		require.NotNil(t, store)
	})

	t.Run("empty root returns error", func(t *testing.T) {
		_, err := NewLocalBlobStore("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "root directory is required")
	})
}

func TestLocalBlobStore_PutGet(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		data := []byte("contrato de honorarios")
		err := store.Put(ctx, "templates/abc/v1.docx", data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		require.NoError(t, err)

		got, err := store.Get(ctx, "templates/abc/v1.docx")
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("overwrite replaces content", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "k.txt", []byte("old"), "text/plain"))
		require.NoError(t, store.Put(ctx, "k.txt", []byte("new"), "text/plain"))

		got, err := store.Get(ctx, "k.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("missing key returns ErrObjectNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing/key.docx")
		require.ErrorIs(t, err, ErrObjectNotFound)
	})
}

func TestLocalBlobStore_Delete(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "doomed.txt", []byte("x"), "text/plain"))
	require.NoError(t, store.Delete(ctx, "doomed.txt"))

	exists, err := store.Exists(ctx, "doomed.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing key is a no-op
	require.NoError(t, store.Delete(ctx, "doomed.txt"))
}

func TestLocalBlobStore_Exists(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "nope.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Put(ctx, "yep.txt", []byte("x"), "text/plain"))
	exists, err = store.Exists(ctx, "yep.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalBlobStore_RejectsEscapingKeys(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "../outside.txt", "a/../../outside.txt", "/etc/passwd"} {
		err := store.Put(ctx, key, []byte("x"), "text/plain")
		assert.Error(t, err, "key %q should be rejected", key)
	}
}
