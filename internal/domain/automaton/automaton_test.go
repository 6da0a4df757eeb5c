package automaton

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Aho-Corasick core — trie build, failure-link propagation, streaming match
// Expectation: every occurrence of every pattern is reported, overlaps
// included, in scan order, in time independent of the pattern count.
// =============================================================================

// build is a test helper: insert all patterns and freeze.
func build(t *testing.T, patterns ...string) *Automaton {
	t.Helper()
	a := New()
	for _, p := range patterns {
		require.NoError(t, a.AddPattern(p))
	}
	require.NoError(t, a.Build())
	return a
}

func mustMatch(t *testing.T, a *Automaton, text string) []string {
	t.Helper()
	got, err := a.Match(text)
	require.NoError(t, err)
	return got
}

func TestMatch_SinglePattern(t *testing.T) {
	a := build(t, "login")
	assert.Equal(t, []string{"login"}, mustMatch(t, a, "user login flow"))
}

func TestMatch_RepeatedOccurrences(t *testing.T) {
	// "cat" occurs in "cat" and again inside "scaty"; "dog" once.
	a := build(t, "cat", "dog")
	assert.Equal(t, []string{"cat", "cat", "dog"},
		mustMatch(t, a, "the cat scaty on the dog"))
}

func TestMatch_OverlappingViaFallback(t *testing.T) {
	// In "ushers", "she" ends at offset 4 and "he" ends at the same offset:
	// the she-state's output set must carry "he" via its fail link.
	a := build(t, "he", "she", "hers")
	got := mustMatch(t, a, "ushers")
	assert.Contains(t, got, "she")
	assert.Contains(t, got, "he")
	assert.Contains(t, got, "hers")
	assert.Equal(t, []string{"she", "he", "hers"}, got)
}

func TestMatch_NestedPatterns(t *testing.T) {
	// "a" ends at every position; "aa" at the last two. The aa-state reports
	// both its own pattern and the fallback-inherited "a", own first.
	a := build(t, "a", "aa")
	assert.Equal(t, []string{"a", "aa", "a", "aa", "a"}, mustMatch(t, a, "aaa"))
}

func TestMatch_EmptyText(t *testing.T) {
	a := build(t, "cat", "dog")
	assert.Nil(t, mustMatch(t, a, ""))
}

func TestMatch_NoPatterns(t *testing.T) {
	a := New()
	require.NoError(t, a.Build())
	assert.Nil(t, mustMatch(t, a, "anything at all"))
}

func TestMatch_NoOccurrences(t *testing.T) {
	a := build(t, "auth")
	assert.Nil(t, mustMatch(t, a, "hello world"))
}

func TestMatch_CaseSensitive(t *testing.T) {
	a := build(t, "login")
	assert.Nil(t, mustMatch(t, a, "Login page"))
}

func TestMatch_Unicode(t *testing.T) {
	a := build(t, "拼音", "音是")
	got := mustMatch(t, a, "测试拼音是否匹配")
	assert.Equal(t, []string{"拼音", "音是"}, got)
}

func TestMatch_RepeatedCallsAreIdentical(t *testing.T) {
	a := build(t, "he", "she", "hers")
	first := mustMatch(t, a, "ushers ushers")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, mustMatch(t, a, "ushers ushers"))
	}
}

func TestMatch_InsertionOrderInvariantContent(t *testing.T) {
	// The multiset of occurrences must not depend on insertion order.
	text := "she sells seashells on the seashore"
	a := build(t, "she", "sea", "he", "ell")
	b := build(t, "ell", "he", "sea", "she")

	am := mustMatch(t, a, text)
	bm := mustMatch(t, b, text)
	assert.ElementsMatch(t, am, bm)
}

func TestMatch_DuplicatePatternKeepsMultiplicity(t *testing.T) {
	// Inserting the same literal twice reports it twice per occurrence.
	a := New()
	require.NoError(t, a.AddPattern("cat"))
	require.NoError(t, a.AddPattern("cat"))
	require.NoError(t, a.Build())
	assert.Equal(t, []string{"cat", "cat"}, mustMatch(t, a, "a cat"))
}

func TestAddPattern_Empty(t *testing.T) {
	a := New()
	assert.ErrorIs(t, a.AddPattern(""), ErrEmptyPattern)
}

func TestAddPattern_AfterBuild(t *testing.T) {
	a := build(t, "cat")
	assert.ErrorIs(t, a.AddPattern("dog"), ErrAlreadyBuilt)
}

func TestBuild_Twice(t *testing.T) {
	a := build(t, "cat")
	assert.ErrorIs(t, a.Build(), ErrAlreadyBuilt)
}

func TestMatch_BeforeBuild(t *testing.T) {
	a := New()
	require.NoError(t, a.AddPattern("cat"))
	_, err := a.Match("cat")
	assert.ErrorIs(t, err, ErrNotBuilt)
	_, err = a.Find("cat")
	assert.ErrorIs(t, err, ErrNotBuilt)
}

func TestFind_Offsets(t *testing.T) {
	a := build(t, "he", "she", "hers")
	got, err := a.Find("ushers")
	require.NoError(t, err)
	assert.Equal(t, []Match{
		{Pattern: "she", Index: 1, Start: 1, End: 4},
		{Pattern: "he", Index: 0, Start: 2, End: 4},
		{Pattern: "hers", Index: 2, Start: 2, End: 6},
	}, got)
}

func TestFind_UnicodeOffsetsAreByteOffsets(t *testing.T) {
	a := build(t, "拼音")
	got, err := a.Find("x拼音y")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Start)
	assert.Equal(t, 7, got[0].End)
	assert.Equal(t, "拼音", "x拼音y"[got[0].Start:got[0].End])
}

func TestFind_EverySubstringOccurrence(t *testing.T) {
	// Cross-check Find against naive substring search on a worst-case text.
	patterns := []string{"ab", "aba", "bab", "a"}
	text := strings.Repeat("ab", 20) + "a"

	a := build(t, patterns...)
	got, err := a.Find(text)
	require.NoError(t, err)

	type occ struct {
		pattern string
		start   int
	}
	want := map[occ]int{}
	for _, p := range patterns {
		for i := 0; i+len(p) <= len(text); i++ {
			if text[i:i+len(p)] == p {
				want[occ{p, i}]++
			}
		}
	}
	have := map[occ]int{}
	for _, m := range got {
		assert.Equal(t, m.Pattern, text[m.Start:m.End], "false positive at %d", m.Start)
		have[occ{m.Pattern, m.Start}]++
	}
	assert.Equal(t, want, have)
}

func TestPatternAccessors(t *testing.T) {
	a := build(t, "he", "she")
	assert.Equal(t, 2, a.PatternCount())
	assert.Equal(t, "he", a.Pattern(0))
	assert.Equal(t, "she", a.Pattern(1))
	assert.Equal(t, "", a.Pattern(7))
	assert.True(t, a.Built())
}

func BenchmarkMatch(b *testing.B) {
	a := New()
	for _, p := range []string{"login", "auth", "session", "token", "password",
		"handler", "request", "response", "cookie", "redirect"} {
		if err := a.AddPattern(p); err != nil {
			b.Fatal(err)
		}
	}
	if err := a.Build(); err != nil {
		b.Fatal(err)
	}
	text := strings.Repeat("the auth handler sets a session cookie after login ", 20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.Match(text); err != nil {
			b.Fatal(err)
		}
	}
}
