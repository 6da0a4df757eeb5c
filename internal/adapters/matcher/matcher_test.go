package matcher

import (
	"testing"

	"github.com/so1ar-ec1ipse/pattern-search/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Pattern Matcher adapter — port semantics over the Aho-Corasick core
// Expectation: Match deduplicates (first-occurrence order), Find reports
// every overlapping occurrence with offsets, Rebuild fully replaces the set.
// =============================================================================

func newMatcher(t *testing.T, patterns ...string) *Matcher {
	t.Helper()
	m := New(false)
	require.NoError(t, m.Rebuild(patterns))
	return m
}

func TestMatcher_SingleKeyword(t *testing.T) {
	m := newMatcher(t, "login")
	assert.Equal(t, []string{"login"}, m.Match("user login flow"))
}

func TestMatcher_MultipleKeywords(t *testing.T) {
	m := newMatcher(t, "login", "auth", "session")
	assert.Equal(t, []string{"auth", "login", "session"},
		m.Match("auth login creates session"))
}

func TestMatcher_OverlappingKeywords(t *testing.T) {
	m := newMatcher(t, "log", "login")
	got := m.Match("login page")
	assert.Contains(t, got, "log")
	assert.Contains(t, got, "login")
}

func TestMatcher_DeduplicatesRepeats(t *testing.T) {
	m := newMatcher(t, "cat")
	assert.Equal(t, []string{"cat"}, m.Match("cat cat cat"))
}

func TestMatcher_NoMatch(t *testing.T) {
	m := newMatcher(t, "auth")
	assert.Nil(t, m.Match("hello world"))
}

func TestMatcher_BeforeRebuild(t *testing.T) {
	m := New(false)
	assert.Nil(t, m.Match("anything"))
	assert.Nil(t, m.Find("anything"))
	assert.Nil(t, m.Patterns())
}

func TestMatcher_Rebuild(t *testing.T) {
	m := newMatcher(t, "old")
	require.NoError(t, m.Rebuild([]string{"new"}))
	assert.Nil(t, m.Match("old keyword"))
	assert.Equal(t, []string{"new"}, m.Match("new keyword"))
	assert.Equal(t, []string{"new"}, m.Patterns())
}

func TestMatcher_RebuildRejectsEmptyPattern(t *testing.T) {
	m := New(false)
	assert.Error(t, m.Rebuild([]string{"ok", ""}))
}

func TestMatcher_CaseSensitive(t *testing.T) {
	m := newMatcher(t, "login")
	assert.Nil(t, m.Match("Login page"))
}

func TestMatcher_Find(t *testing.T) {
	m := newMatcher(t, "he", "she", "hers")
	assert.Equal(t, []ports.TextMatch{
		{Pattern: "she", Start: 1, End: 4},
		{Pattern: "he", Start: 2, End: 4},
		{Pattern: "hers", Start: 2, End: 6},
	}, m.Find("ushers"))
}

func TestMatcher_DenseRepresentation(t *testing.T) {
	m := New(true)
	require.NoError(t, m.Rebuild([]string{"he", "she", "hers"}))
	assert.Equal(t, []string{"she", "he", "hers"}, m.Match("ushers"))
	assert.Len(t, m.Find("ushers"), 3)
}

func BenchmarkMatch(b *testing.B) {
	m := New(true)
	keywords := make([]string, 0, 500)
	for _, base := range []string{"login", "auth", "session", "token", "user"} {
		for i := 0; i < 100; i++ {
			keywords = append(keywords, base+string(rune('a'+i%26))+string(rune('a'+i/26)))
		}
	}
	if err := m.Rebuild(keywords); err != nil {
		b.Fatal(err)
	}
	content := "the auth handler validates the session token before login completes"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match(content)
	}
}
