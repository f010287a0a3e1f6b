package history

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Load appends the entries of each source file in order, applying the same
// rules as Add. Later sources are appended after earlier ones so they win
// recency lookups. Missing files are skipped; any other failure is collected
// into the returned error, which callers should treat as a warning.
func (s *Store) Load(sources ...string) error {
	var result *multierror.Error

	for _, source := range sources {
		lines, err := readLines(source)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				s.logger.Debug("history source not found", zap.String("path", source))
				continue
			}
			result = multierror.Append(result, fmt.Errorf("load history %s: %w", source, err))
			continue
		}

		commands := lo.Filter(lines, func(line string, _ int) bool {
			line = strings.TrimSpace(line)
			return line != "" && !strings.HasPrefix(line, "#")
		})
		for _, command := range commands {
			s.Add(command)
		}

		s.logger.Debug("loaded history source",
			zap.String("path", source),
			zap.Int("commands", len(commands)),
			zap.Int("entries", s.Len()),
		)
	}

	return result.ErrorOrNil()
}

// LoadSeeded loads path. When path does not exist yet, seed is loaded in its
// place so the first save copies it over; later sessions ignore seed. An
// empty seed disables seeding.
func (s *Store) LoadSeeded(path, seed string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return s.Load(path)
	case errors.Is(err, os.ErrNotExist):
		if seed == "" {
			return nil
		}
		s.logger.Debug("seeding history", zap.String("path", path), zap.String("seed", seed))
		return s.Load(seed)
	default:
		return fmt.Errorf("load history %s: %w", path, err)
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// Save replaces path with the full in-memory history, one entry per line.
// The content is written to a temporary file in the same directory and
// renamed over the target, so a failed write leaves the old file intact.
func (s *Store) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	for _, entry := range s.entries {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("write history: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("chmod history: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}

	s.logger.Debug("saved history", zap.String("path", path), zap.Int("entries", len(s.entries)))
	return nil
}
