package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		candidate string
		kind      MatchKind
		ok        bool
	}{
		{"prefix", "gi", "git", ExactPrefix, true},
		{"equal", "git", "git", ExactPrefix, true},
		{"subsequence", "gst", "git-status", FuzzySubsequence, true},
		{"out of order", "tg", "git", 0, false},
		{"case sensitive", "G", "git", 0, false},
		{"empty token", "", "git", 0, false},
		{"multibyte subsequence", "éo", "héllo", FuzzySubsequence, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := Match(tt.token, tt.candidate)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.kind, kind)
			}
		})
	}
}

func TestBestCandidate(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		candidates []string
		expected   Candidate
		ok         bool
	}{
		{
			name:       "prefix beats shorter fuzzy",
			token:      "mk",
			candidates: []string{"mk-very-long-tool", "mak"},
			expected:   Candidate{Text: "mk-very-long-tool", Match: ExactPrefix},
			ok:         true,
		},
		{
			name:       "shortest prefix wins",
			token:      "gi",
			candidates: []string{"gitk", "git", "git-lfs"},
			expected:   Candidate{Text: "git", Match: ExactPrefix},
			ok:         true,
		},
		{
			name:       "lexicographic tie break",
			token:      "c",
			candidates: []string{"cp", "cd", "cat"},
			expected:   Candidate{Text: "cd", Match: ExactPrefix},
			ok:         true,
		},
		{
			name:       "shortest fuzzy wins",
			token:      "dk",
			candidates: []string{"docker-compose", "dark"},
			expected:   Candidate{Text: "dark", Match: FuzzySubsequence},
			ok:         true,
		},
		{
			name:       "length counts characters",
			token:      "é",
			candidates: []string{"éa", "éèè"},
			expected:   Candidate{Text: "éa", Match: ExactPrefix},
			ok:         true,
		},
		{
			name:       "no qualifying candidate",
			token:      "zz",
			candidates: []string{"git", "ls"},
			ok:         false,
		},
		{
			name:       "empty token",
			token:      "",
			candidates: []string{"git"},
			ok:         false,
		},
		{
			name:  "no candidates",
			token: "g",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, ok := BestCandidate(tt.token, tt.candidates)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, best)
			}
		})
	}
}

func TestBestCandidate_OrderIndependent(t *testing.T) {
	candidates := []string{"gitk", "git", "gist", "grep", "igt"}
	reversed := []string{"igt", "grep", "gist", "git", "gitk"}

	a, _ := BestCandidate("gt", candidates)
	b, _ := BestCandidate("gt", reversed)
	assert.Equal(t, a, b)
}
