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

func TestLocalPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	local := NewLocal(dir)

	url, err := local.Put(context.Background(), File{
		Data:     []byte("imagen"),
		Filename: "Casa en Rosario.jpg",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/Casa-en-Rosario-"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	name := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("imagen"), data)

	t.Run("delete removes the file", func(t *testing.T) {
		require.NoError(t, local.Delete(context.Background(), url))
		_, err := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		assert.NoError(t, local.Delete(context.Background(), url))
	})

	t.Run("foreign urls are skipped, not errors", func(t *testing.T) {
		assert.NoError(t, local.Delete(context.Background(), "https://cdn.example.com/foto.jpg"))
	})

	t.Run("path traversal is refused", func(t *testing.T) {
		outside := filepath.Join(dir, "..", "victim")
		require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

		require.NoError(t, local.Delete(context.Background(), "/uploads/../victim"))
		_, err := os.Stat(outside)
		assert.NoError(t, err, "file outside the upload dir must survive")
	})

	t.Run("two uploads with the same name never collide", func(t *testing.T) {
		first, err := local.Put(context.Background(), File{Data: []byte("a"), Filename: "foto.png"})
		require.NoError(t, err)
		second, err := local.Put(context.Background(), File{Data: []byte("b"), Filename: "foto.png"})
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}
