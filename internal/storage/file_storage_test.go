package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/bigfive/internal/storage"
)

func setupStorage(t *testing.T) (*storage.FileStorage, string) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "artifact_storage_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := storage.NewFileStorage(tmpDir)
	require.NoError(t, err)
	return store, tmpDir
}

func TestFileStorage(t *testing.T) {
	store, dir := setupStorage(t)
	defer store.Close()

	payload := []byte(`{"vocabulary":{"art":0},"idf":[1]}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tfidf_b5.json"), payload, 0o644))

	// Test Read
	data, err := store.Read("tfidf_b5.json")
	assert.NoError(t, err)
	assert.Equal(t, payload, data)

	// Test Exists
	assert.True(t, store.Exists("tfidf_b5.json"))
	assert.False(t, store.Exists("bigfive_ridge.json"))

	// Test Read missing
	_, err = store.Read("bigfive_ridge.json")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Contains(t, err.Error(), "bigfive_ridge.json")
}

func TestFileStorageSubdirectory(t *testing.T) {
	store, dir := setupStorage(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "v2"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v2", "model.json"), []byte("{}"), 0o644))

	assert.True(t, store.Exists("v2/model.json"))
	// A directory is not an artifact.
	assert.False(t, store.Exists("v2"))
}

func TestFileStoragePathEscape(t *testing.T) {
	store, dir := setupStorage(t)

	for _, name := range []string{"../secret.json", "..", ".", "", "/etc/passwd"} {
		_, err := store.Path(name)
		assert.Error(t, err, name)
		assert.False(t, store.Exists(name), name)
		_, err = store.Read(name)
		assert.Error(t, err, name)
	}

	path, err := store.Path("a/../model.json")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "model.json"), path)
}

func TestNewFileStorageInvalidDir(t *testing.T) {
	_, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))
	_, err = storage.NewFileStorage(file)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
