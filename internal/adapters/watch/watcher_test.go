package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// fsnotify Watcher Adapter — detect pattern-file edits, trigger rebuild
// Expectation: file changes detected and callback fired within <100ms;
// unrelated files in the same directory do not fire.
// =============================================================================

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	dictFile := filepath.Join(dir, "patterns.txt")
	require.NoError(t, os.WriteFile(dictFile, []byte("cat\ndog\n"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(dictFile, func(path string) {
		changed <- path
	}))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(dictFile, []byte("cat\ndog\nbird\n"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, dictFile, path)
}

func TestWatcher_DetectsAtomicReplace(t *testing.T) {
	// Editors save via temp file + rename; the watch must survive that.
	dir := t.TempDir()
	dictFile := filepath.Join(dir, "patterns.txt")
	require.NoError(t, os.WriteFile(dictFile, []byte("cat\n"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(dictFile, func(path string) {
		changed <- path
	}))
	time.Sleep(50 * time.Millisecond)

	tmp := filepath.Join(dir, "patterns.txt.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("dog\n"), 0644))
	require.NoError(t, os.Rename(tmp, dictFile))

	_, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for atomic replace")
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	dictFile := filepath.Join(dir, "patterns.txt")
	require.NoError(t, os.WriteFile(dictFile, []byte("cat\n"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(dictFile, func(path string) {
		changed <- path
	}))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "sibling file must not fire the callback")
}

func TestWatcher_MissingFile(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch(filepath.Join(t.TempDir(), "nope.txt"), func(string) {})
	assert.Error(t, err)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
