package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/so1ar-ec1ipse/pattern-search/internal/adapters/store"
	"github.com/so1ar-ec1ipse/pattern-search/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// App wiring — pattern loading, matcher lifecycle, file-watch rebuild
// =============================================================================

func writeDictFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestApp_FileSource(t *testing.T) {
	a, err := New(Config{DictFile: writeDictFile(t, "cat\ndog\n")})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"cat", "dog"}, a.Matcher().Patterns())
	assert.Equal(t, []string{"cat", "dog"}, a.Matcher().Match("the cat and the dog"))
}

func TestApp_StoreSource(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dicts.db")
	s, err := store.NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Save(&ports.Dictionary{Name: "auth", Patterns: []string{"login", "token"}}))
	require.NoError(t, s.Close())

	a, err := New(Config{DBPath: dbPath, DictName: "auth"})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"login"}, a.Matcher().Match("user login flow"))
}

func TestApp_StoreSourceMissingDict(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dicts.db")
	_, err := New(Config{DBPath: dbPath, DictName: "nope"})
	assert.ErrorContains(t, err, "not found")
}

func TestApp_NoSource(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorContains(t, err, "no pattern source")
}

func TestApp_EmptySource(t *testing.T) {
	_, err := New(Config{DictFile: writeDictFile(t, "# only comments\n\n")})
	assert.ErrorContains(t, err, "empty")
}

func TestApp_DenseSource(t *testing.T) {
	a, err := New(Config{DictFile: writeDictFile(t, "he\nshe\nhers\n"), Dense: true})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"she", "he", "hers"}, a.Matcher().Match("ushers"))
}

func TestApp_WatchRebuilds(t *testing.T) {
	dictFile := writeDictFile(t, "cat\n")
	a, err := New(Config{DictFile: dictFile})
	require.NoError(t, err)
	defer a.Close()

	reloaded := make(chan int, 10)
	require.NoError(t, a.WatchDictFile(func(count int, err error) {
		if err == nil {
			reloaded <- count
		}
	}))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(dictFile, []byte("cat\nbird\n"), 0o644))

	select {
	case count := <-reloaded:
		assert.Equal(t, 2, count)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not trigger a rebuild")
	}
	assert.Equal(t, []string{"bird"}, a.Matcher().Match("a bird"))
}

func TestScanner_ScanReader(t *testing.T) {
	a, err := New(Config{DictFile: writeDictFile(t, "cat\ndog\n")})
	require.NoError(t, err)
	defer a.Close()

	sc := NewScanner(a.Matcher())
	input := "the cat sat\nnothing here\nscaty dog day\n"
	result, err := sc.ScanReader("", strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Lines, 2)
	assert.Equal(t, 1, result.Lines[0].Line)
	assert.Equal(t, "the cat sat", result.Lines[0].Text)
	assert.Equal(t, 3, result.Lines[1].Line)
	assert.Equal(t, 3, result.MatchCount) // cat, cat (in scaty), dog
}

func TestScanner_ScanFiles(t *testing.T) {
	a, err := New(Config{DictFile: writeDictFile(t, "cat\n")})
	require.NoError(t, err)
	defer a.Close()

	dir := t.TempDir()
	f1 := filepath.Join(dir, "a.txt")
	f2 := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(f1, []byte("a cat\n"), 0o644))
	require.NoError(t, os.WriteFile(f2, []byte("no match\ncatalog\n"), 0o644))

	sc := NewScanner(a.Matcher())
	result, err := sc.ScanFiles([]string{f1, f2})
	require.NoError(t, err)

	require.Len(t, result.Lines, 2)
	assert.Equal(t, f1, result.Lines[0].File)
	assert.Equal(t, f2, result.Lines[1].File)
	assert.Equal(t, 2, result.MatchCount)
}

func TestScanner_MissingFile(t *testing.T) {
	a, err := New(Config{DictFile: writeDictFile(t, "cat\n")})
	require.NoError(t, err)
	defer a.Close()

	_, err = NewScanner(a.Matcher()).ScanFiles([]string{filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}
