package input

import (
	"sort"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// HistorySearchState manages reverse history search (Ctrl+R).
type HistorySearchState struct {
	active bool
	query  string

	// candidates are the distinct history entries, newest first
	candidates []string

	// matches contains the matching entries, best first
	matches    []string
	matchIndex int

	originalInput     string
	originalCursorPos int
}

// NewHistorySearchState creates a new history search state.
func NewHistorySearchState() *HistorySearchState {
	return &HistorySearchState{}
}

func (s *HistorySearchState) IsActive() bool {
	return s.active
}

func (s *HistorySearchState) Query() string {
	return s.query
}

// CurrentMatch returns the selected match, or "" if there are no matches.
func (s *HistorySearchState) CurrentMatch() string {
	if s.matchIndex < 0 || s.matchIndex >= len(s.matches) {
		return ""
	}
	return s.matches[s.matchIndex]
}

func (s *HistorySearchState) MatchIndex() int {
	return s.matchIndex
}

func (s *HistorySearchState) MatchCount() int {
	return len(s.matches)
}

// Start begins a search over entries (oldest first, as stored in history),
// saving the current input so it can be restored on cancel.
func (s *HistorySearchState) Start(entries []string, currentInput string, cursorPos int) {
	s.active = true
	s.query = ""
	s.candidates = lo.Uniq(lo.Reverse(append([]string(nil), entries...)))
	s.originalInput = currentInput
	s.originalCursorPos = cursorPos
	s.refresh()
}

// SetQuery replaces the query and recomputes matches.
func (s *HistorySearchState) SetQuery(query string) {
	s.query = query
	s.refresh()
}

// AddText appends text to the query.
func (s *HistorySearchState) AddText(text string) {
	s.SetQuery(s.query + text)
}

// DeleteChar removes the last character from the query.
// Returns true if a character was deleted.
func (s *HistorySearchState) DeleteChar() bool {
	runes := []rune(s.query)
	if len(runes) == 0 {
		return false
	}
	s.SetQuery(string(runes[:len(runes)-1]))
	return true
}

// refresh ranks candidates against the query. An empty query matches every
// entry, newest first. Otherwise entries are fuzzy-matched and ordered by
// score; equal scores keep the newer entry first.
func (s *HistorySearchState) refresh() {
	s.matchIndex = 0
	if s.query == "" {
		s.matches = s.candidates
		return
	}

	found := fuzzy.Find(s.query, s.candidates)
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Score != found[j].Score {
			return found[i].Score > found[j].Score
		}
		return found[i].Index < found[j].Index
	})

	s.matches = make([]string, len(found))
	for i, m := range found {
		s.matches[i] = m.Str
	}
}

// NextMatch moves to the next (lower ranked) match.
// Returns true if the index changed.
func (s *HistorySearchState) NextMatch() bool {
	if s.matchIndex < len(s.matches)-1 {
		s.matchIndex++
		return true
	}
	return false
}

// PrevMatch moves to the previous (higher ranked) match.
// Returns true if the index changed.
func (s *HistorySearchState) PrevMatch() bool {
	if s.matchIndex > 0 {
		s.matchIndex--
		return true
	}
	return false
}

// Cancel exits history search and returns the input to restore.
func (s *HistorySearchState) Cancel() (originalInput string, originalCursorPos int) {
	originalInput = s.originalInput
	originalCursorPos = s.originalCursorPos
	s.Reset()
	return
}

// Accept exits history search, returning the selected match or the original
// input when nothing matched.
func (s *HistorySearchState) Accept() string {
	result := s.CurrentMatch()
	if result == "" {
		result = s.originalInput
	}
	s.Reset()
	return result
}

// Reset clears the history search state.
func (s *HistorySearchState) Reset() {
	*s = HistorySearchState{}
}
