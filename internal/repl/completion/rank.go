package completion

import (
	"strings"
	"unicode/utf8"
)

// MatchKind says how a candidate matched the token being completed.
type MatchKind int

const (
	// ExactPrefix candidates start with the token.
	ExactPrefix MatchKind = iota
	// FuzzySubsequence candidates contain the token's characters in order.
	FuzzySubsequence
)

func (k MatchKind) String() string {
	switch k {
	case ExactPrefix:
		return "exact-prefix"
	case FuzzySubsequence:
		return "fuzzy-subsequence"
	default:
		return "unknown"
	}
}

// Candidate is a qualifying completion and how it matched.
type Candidate struct {
	Text  string
	Match MatchKind
}

// Match classifies candidate against token. An empty token matches nothing.
func Match(token, candidate string) (MatchKind, bool) {
	if token == "" {
		return 0, false
	}
	if strings.HasPrefix(candidate, token) {
		return ExactPrefix, true
	}
	if isSubsequence(token, candidate) {
		return FuzzySubsequence, true
	}
	return 0, false
}

// isSubsequence reports whether the runes of pattern occur in text in order,
// not necessarily contiguously. Matching is case-sensitive.
func isSubsequence(pattern, text string) bool {
	for _, want := range pattern {
		idx := strings.IndexRune(text, want)
		if idx < 0 {
			return false
		}
		text = text[idx+utf8.RuneLen(want):]
	}
	return true
}

// BestCandidate picks the winning completion for token. Any exact-prefix
// match beats every fuzzy match; within a kind the shortest candidate wins
// and remaining ties go to the lexicographically smallest.
func BestCandidate(token string, candidates []string) (Candidate, bool) {
	var best Candidate
	bestLen := 0
	found := false

	for _, text := range candidates {
		kind, ok := Match(token, text)
		if !ok {
			continue
		}
		length := utf8.RuneCountInString(text)

		if !found || better(kind, length, text, best.Match, bestLen, best.Text) {
			best = Candidate{Text: text, Match: kind}
			bestLen = length
			found = true
		}
	}

	return best, found
}

func better(kind MatchKind, length int, text string, bestKind MatchKind, bestLen int, bestText string) bool {
	if kind != bestKind {
		return kind < bestKind
	}
	if length != bestLen {
		return length < bestLen
	}
	return text < bestText
}
