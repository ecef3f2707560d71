package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveStreamKeepsInsideBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	path, err := store.SaveStream("../../etc/essay.pdf", strings.NewReader("content"))
	require.NoError(t, err)
	assert.Equal(t, "essay.pdf", filepath.Base(path))
	assert.Equal(t, filepath.Clean(dir), filepath.Dir(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(raw))

	require.NoError(t, store.Delete("essay.pdf"))
	require.NoError(t, store.Delete("essay.pdf"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalStorageRemovesPartialFile(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveStream("broken.bin", io.MultiReader(strings.NewReader("half"), failingReader{}))
	require.Error(t, err)
	_, statErr := os.Stat(store.Path("broken.bin"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "a_b.txt", SafeName("dir/a:b.txt"))
	assert.Equal(t, "x.txt", SafeName(`C:\\tmp\\x.txt`))
	assert.Equal(t, "", SafeName(".."))
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "lms"), "psb_token")

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save(ctx, "abc"))
	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	store := &MemoryTokenStore{}
	require.NoError(t, store.Save(ctx, "t"))
	token, _ := store.Load(ctx)
	assert.Equal(t, "t", token)
	require.NoError(t, store.Clear(ctx))
	token, _ = store.Load(ctx)
	assert.Empty(t, token)
}
