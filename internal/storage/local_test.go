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

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalStorage(dir, "http://localhost:8080/")

	url, err := storage.Save(context.Background(), "kitchen.jpg", strings.NewReader("image bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/images/"))
	assert.True(t, strings.HasSuffix(url, "-kitchen.jpg"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(data))

	require.NoError(t, storage.Delete(context.Background(), url))
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorage_SaveStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalStorage(dir, "http://localhost:8080")

	url, err := storage.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotContains(t, url, "..")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "-passwd"))
}

func TestLocalStorage_DeleteMissingFile(t *testing.T) {
	storage := NewLocalStorage(t.TempDir(), "http://localhost:8080")

	err := storage.Delete(context.Background(), "http://localhost:8080/uploads/images/gone.jpg")
	assert.NoError(t, err)
}

func TestLocalStorage_DeleteMalformedURL(t *testing.T) {
	storage := NewLocalStorage(t.TempDir(), "http://localhost:8080")

	assert.Error(t, storage.Delete(context.Background(), "trailing/"))
}
