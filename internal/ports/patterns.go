package ports

// PatternMatcher finds patterns in content using multi-pattern matching
// (Aho-Corasick). A single pass over the content finds all matching patterns
// simultaneously, regardless of how many patterns are in the set. This is
// O(n + m + z) where n=content length, m=total pattern length, z=matches.
//
// The matcher must be rebuilt when the pattern set changes (e.g., after the
// watched dictionary file is edited). Rebuild swaps in a freshly built frozen
// automaton; a built automaton is never mutated, so Match/Find stay safe to
// call concurrently with each other.
type PatternMatcher interface {
	// Match returns the distinct patterns found in content, in order of first
	// occurrence. Returns nil if nothing matches. Content is matched as-is
	// (caller normalizes case if wanted).
	Match(content string) []string

	// Find returns every occurrence of every pattern with byte offsets,
	// overlapping occurrences included, in scan order.
	Find(content string) []TextMatch

	// Rebuild replaces the entire pattern set and reconstructs the automaton.
	// Previous patterns are discarded. Returns an error if the pattern set is
	// invalid (e.g., contains an empty string).
	Rebuild(patterns []string) error

	// Patterns returns the current pattern set.
	Patterns() []string
}

// TextMatch is a single pattern occurrence with byte offsets.
type TextMatch struct {
	Pattern string
	Start   int // byte offset start (inclusive)
	End     int // byte offset end (exclusive)
}
