package history

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Expand resolves bash-style history references in command. The forms are
// tried in a fixed order and the first that applies wins:
//
//	!!            most recent entry
//	...!$...      last word of the most recent entry
//	...!^...      first argument of the most recent entry
//	...!*...      all arguments of the most recent entry
//	!n            entry n (1-based)
//	!-n           n entries back (1 = most recent)
//	!prefix       newest entry starting with prefix
//	!?substring?  newest entry containing substring
//
// When nothing applies the input is returned unchanged.
func (s *Store) Expand(command string) string {
	trimmed := strings.TrimSpace(command)

	if trimmed == "!!" {
		last, _ := s.Last()
		return last
	}

	last, hasLast := s.Last()
	if hasLast {
		words := strings.Fields(last)

		if strings.Contains(trimmed, "!$") {
			return strings.ReplaceAll(trimmed, "!$", words[len(words)-1])
		}
		if strings.Contains(trimmed, "!^") && len(words) > 1 {
			return strings.ReplaceAll(trimmed, "!^", words[1])
		}
		if strings.Contains(trimmed, "!*") && len(words) > 1 {
			return strings.ReplaceAll(trimmed, "!*", strings.Join(words[1:], " "))
		}
	}

	if !strings.HasPrefix(trimmed, "!") || len(trimmed) < 2 {
		return command
	}
	rest := trimmed[1:]

	if n, err := strconv.Atoi(rest); err == nil && n > 0 {
		if entry, ok := s.Get(n); ok {
			return entry
		}
	}

	if strings.HasPrefix(rest, "-") {
		if n, err := strconv.Atoi(rest[1:]); err == nil && n > 0 {
			if entry, ok := s.Get(s.Len() - n + 1); ok {
				return entry
			}
		}
	}

	first, _ := utf8.DecodeRuneInString(rest)
	if first != '-' && first != '?' && !unicode.IsDigit(first) {
		if entry, ok := s.findNewest(func(e string) bool { return strings.HasPrefix(e, rest) }); ok {
			return entry
		}
	}

	if strings.HasPrefix(rest, "?") && len(rest) > 1 {
		pattern := strings.TrimSuffix(rest[1:], "?")
		if entry, ok := s.findNewest(func(e string) bool { return strings.Contains(e, pattern) }); ok {
			return entry
		}
	}

	return command
}

func (s *Store) findNewest(match func(entry string) bool) (string, bool) {
	var found string
	ok := false
	s.Newest(func(entry string) bool {
		if match(entry) {
			found, ok = entry, true
			return false
		}
		return true
	})
	return found, ok
}
