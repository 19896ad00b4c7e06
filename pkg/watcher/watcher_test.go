package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_DebouncesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\n"), 0644))

	fw, err := NewFileWatcher(100*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{path}, func(file string) { changed <- file }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("solid b\n"), 0644))
	}

	select {
	case file := <-changed:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, file)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case <-changed:
		t.Fatal("burst reported more than once")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFileWatcher_RemoveAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\n"), 0644))

	fw, err := NewFileWatcher(10*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.Watch([]string{path}, func(string) {}))
	require.NoError(t, fw.RemoveAll())
	assert.Empty(t, fw.callbacks)
	assert.Empty(t, fw.dirs)
}

func TestFileWatcher_Missing(t *testing.T) {
	fw, err := NewFileWatcher(10*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	assert.Error(t, fw.Watch([]string{filepath.Join(t.TempDir(), "missing.stl")}, func(string) {}))
}

func TestFileWatcher_RenameOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\n"), 0644))

	fw, err := NewFileWatcher(50*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{path}, func(file string) { changed <- file }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	tmp := filepath.Join(dir, "model.stl.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("solid b\n"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case file := <-changed:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, file)
	case <-time.After(5 * time.Second):
		t.Fatal("replaced file not reported")
	}

	// The watch survives the replacement and can be reset repeatedly
	require.NoError(t, fw.RemoveAll())
	require.NoError(t, fw.RemoveAll())
	require.NoError(t, fw.Watch([]string{path}, func(file string) { changed <- file }))
}

func TestFileWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\n"), 0644))

	fw, err := NewFileWatcher(20*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{path}, func(file string) { changed <- file }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.stl"), []byte("solid c\n"), 0644))

	select {
	case file := <-changed:
		t.Fatalf("unexpected change of %s", file)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcher_RemoveAllAfterDirectoryVanished(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	require.NoError(t, os.Mkdir(dir, 0755))
	path := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\n"), 0644))

	fw, err := NewFileWatcher(10*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.Watch([]string{path}, func(string) {}))
	require.NoError(t, os.RemoveAll(dir))

	// The watcher is emptied whatever the first call reports
	_ = fw.RemoveAll()
	assert.Empty(t, fw.callbacks)
	assert.Empty(t, fw.dirs)
	assert.NoError(t, fw.RemoveAll())
}
