package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	t.Parallel()

	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, ok, err := storage.Load("vault")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Store("vault", []byte(`{"items":[]}`)))

	data, ok, err := storage.Load("vault")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"items":[]}`, string(data))

	require.NoError(t, storage.Remove("vault"))
	_, ok, err = storage.Load("vault")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is a no-op.
	assert.NoError(t, storage.Remove("vault"))
}

func TestFileStorage_SanitizesKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storage, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, storage.Store("../escape/attempt", []byte("x")))

	// The write stayed inside the storage directory.
	matches, globErr := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, globErr)
	assert.Len(t, matches, 1)

	data, ok, err := storage.Load("../escape/attempt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("x"), data)
}

func TestFileStorage_RequiresDirectory(t *testing.T) {
	t.Parallel()

	_, err := NewFileStorage("")
	assert.Error(t, err)
}

func TestMemoryStorage_RoundTrip(t *testing.T) {
	t.Parallel()

	storage := NewMemoryStorage()

	_, ok, err := storage.Load("key")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Store("key", []byte("value")))

	data, ok, err := storage.Load("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), data)

	require.NoError(t, storage.Remove("key"))
	_, ok, err = storage.Load("key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	t.Parallel()

	storage := NewMemoryStorage()
	original := []byte("value")
	require.NoError(t, storage.Store("key", original))

	original[0] = 'X'
	data, _, err := storage.Load("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), data)

	data[0] = 'Y'
	again, _, err := storage.Load("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}
