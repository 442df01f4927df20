package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/bitrise-io/go-resumable/internal/mocks"
	filechecks "github.com/bitrise-io/go-resumable/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Lifecycle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	staged := filepath.Join(dir, "staging", "upload")
	chunk := filepath.Join(dir, "chunks", "resumable-abc.1")
	require.NoError(t, os.MkdirAll(filepath.Dir(staged), 0o755))
	require.NoError(t, os.WriteFile(staged, []byte("chunk data"), 0o600))

	l := NewLocal()

	exists, err := l.Exists(ctx, chunk)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, l.Rename(ctx, staged, chunk))
	assert.NoError(t, filechecks.NewFileChecker(staged).Missing().Check())
	assert.NoError(t, filechecks.NewFileChecker(chunk).IsFile().Content("chunk data").Check())

	exists, err = l.Exists(ctx, chunk)
	require.NoError(t, err)
	assert.True(t, exists)

	r, err := l.Open(ctx, chunk)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "chunk data", string(content))

	require.NoError(t, l.Remove(ctx, chunk))
	assert.NoError(t, filechecks.NewFileChecker(chunk).Missing().Check())

	assert.ErrorIs(t, l.Remove(ctx, chunk), fs.ErrNotExist)
}

func TestLocal_Exists_Error(t *testing.T) {
	statErr := errors.New("permission denied")
	osProxy := mocks.NewOsProxy(t)
	osProxy.EXPECT().Stat("/chunks/resumable-abc.1").Return(nil, statErr)

	exists, err := newLocal(osProxy).Exists(context.Background(), "/chunks/resumable-abc.1")

	assert.False(t, exists)
	assert.Same(t, statErr, err)
}

func TestLocal_Rename_Errors(t *testing.T) {
	t.Run("mkdir", func(t *testing.T) {
		mkdirErr := errors.New("read-only file system")
		osProxy := mocks.NewOsProxy(t)
		osProxy.EXPECT().MkdirAll("/chunks", os.FileMode(dirPerm)).Return(mkdirErr)

		err := newLocal(osProxy).Rename(context.Background(), "/staging/a", "/chunks/resumable-abc.1")

		assert.Same(t, mkdirErr, err)
	})

	t.Run("rename", func(t *testing.T) {
		renameErr := errors.New("invalid cross-device link")
		osProxy := mocks.NewOsProxy(t)
		osProxy.EXPECT().MkdirAll("/chunks", os.FileMode(dirPerm)).Return(nil)
		osProxy.EXPECT().Rename("/staging/a", "/chunks/resumable-abc.1").Return(renameErr)

		err := newLocal(osProxy).Rename(context.Background(), "/staging/a", "/chunks/resumable-abc.1")

		assert.Same(t, renameErr, err)
	})
}

func TestLocal_Sweep(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := now.Add(-2 * time.Hour)

	files := map[string]time.Time{
		"resumable-old.1":   old,
		"resumable-old.2":   old,
		"resumable-new.1":   now,
		"x-resumable-old.1": old,
		"unrelated.txt":     old,
	}
	for name, modTime := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0o600))
		require.NoError(t, os.Chtimes(path, modTime, modTime))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "resumable-dir.1"), 0o755))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "resumable-dir.1"), old, old))

	l := NewLocal()
	l.now = func() time.Time { return now }

	removed, err := l.Sweep(context.Background(), SweepParams{
		Dir:       dir,
		Pattern:   "resumable-*.*",
		Match:     func(name string) bool { return name != "resumable-old.2" },
		OlderThan: time.Hour,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "resumable-old.1")}, removed)
	for _, kept := range []string{"resumable-old.2", "resumable-new.1", "x-resumable-old.1", "unrelated.txt", "resumable-dir.1"} {
		_, err := os.Stat(filepath.Join(dir, kept))
		assert.NoError(t, err, kept)
	}
}

func TestLocal_Sweep_SkipsVanishedFiles(t *testing.T) {
	osProxy := mocks.NewOsProxy(t)
	osProxy.EXPECT().DirFS("/chunks").Return(fstest.MapFS{
		"resumable-gone.1": &fstest.MapFile{Data: []byte("x")},
	})
	osProxy.EXPECT().Stat(filepath.Join("/chunks", "resumable-gone.1")).Return(nil, fs.ErrNotExist)

	removed, err := newLocal(osProxy).Sweep(context.Background(), SweepParams{Dir: "/chunks", Pattern: "resumable-*.*", OlderThan: time.Hour})

	require.NoError(t, err)
	assert.Empty(t, removed)
}
