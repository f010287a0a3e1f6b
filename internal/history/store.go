// Package history holds the bounded command history used for suggestions,
// completion and bang expansion, its plain-text persistence, and the SQLite
// command journal.
package history

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Store is an ordered, bounded log of entered commands, oldest first.
// No two consecutive entries are equal; when full, the oldest entry is evicted.
type Store struct {
	capacity int
	entries  []string
	logger   *zap.Logger
}

// NewStore creates an empty store holding at most capacity entries.
func NewStore(capacity int, logger *zap.Logger) *Store {
	if capacity <= 0 {
		capacity = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		capacity: capacity,
		entries:  make([]string, 0, capacity),
		logger:   logger,
	}
}

// Add records command. Empty, whitespace-only and comment (#) input is ignored,
// as is a repeat of the most recent entry. It reports whether anything was stored.
func (s *Store) Add(command string) bool {
	command = strings.TrimSpace(command)
	if command == "" || strings.HasPrefix(command, "#") {
		return false
	}
	if last, ok := s.Last(); ok && last == command {
		return false
	}

	if len(s.entries) >= s.capacity {
		copy(s.entries, s.entries[1:])
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.entries = append(s.entries, command)
	return true
}

// Last returns the most recent entry.
func (s *Store) Last() (string, bool) {
	if len(s.entries) == 0 {
		return "", false
	}
	return s.entries[len(s.entries)-1], true
}

// Get returns the entry at the 1-based position n.
func (s *Store) Get(n int) (string, bool) {
	if n < 1 || n > len(s.entries) {
		return "", false
	}
	return s.entries[n-1], true
}

func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) Capacity() int {
	return s.capacity
}

// Entries returns a copy of the entries, oldest first.
func (s *Store) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Newest calls fn for each entry from newest to oldest until fn returns false.
func (s *Store) Newest(fn func(entry string) bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if !fn(s.entries[i]) {
			return
		}
	}
}

// Print writes every entry with its 1-based index, the way the history
// builtin lists them.
func (s *Store) Print(w io.Writer) error {
	for i, entry := range s.entries {
		if _, err := fmt.Fprintf(w, " %4d  %s\n", i+1, entry); err != nil {
			return err
		}
	}
	return nil
}
