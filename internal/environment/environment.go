// Package environment abstracts the process-wide state the line editor reads:
// the home directory, environment variables, the search path and the current
// working directory. Components receive a Provider at construction so tests
// can substitute a deterministic fixture.
package environment

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Provider is the environment capability injected into the history store,
// the completion engine and the highlighter.
type Provider interface {
	HomeDir() string
	Getenv(name string) string
	Getwd() (string, error)
	Chdir(dir string) error
	// SearchPath returns the directories of PATH in lookup order.
	SearchPath() []string
}

// OS is the Provider backed by the real process environment.
type OS struct{}

var _ Provider = OS{}

func (OS) HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func (OS) Getenv(name string) string {
	return os.Getenv(name)
}

func (OS) Getwd() (string, error) {
	return os.Getwd()
}

func (OS) Chdir(dir string) error {
	return os.Chdir(dir)
}

func (o OS) SearchPath() []string {
	return SplitPath(o.Getenv("PATH"))
}

// SplitPath splits a PATH-style value using the platform list separator
// (';' on Windows, ':' elsewhere). Empty elements are dropped.
func SplitPath(value string) []string {
	if value == "" {
		return nil
	}

	var dirs []string
	for _, dir := range strings.Split(value, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

// Static is an in-memory Provider. Chdir only accepts existing directories,
// mirroring the OS behaviour without touching the process state.
type Static struct {
	Home string
	Env  map[string]string
	Dir  string
	Path []string
}

var _ Provider = (*Static)(nil)

func (s *Static) HomeDir() string {
	return s.Home
}

func (s *Static) Getenv(name string) string {
	if name == "PATH" && s.Path != nil {
		return strings.Join(s.Path, string(os.PathListSeparator))
	}
	return s.Env[name]
}

func (s *Static) Getwd() (string, error) {
	if s.Dir == "" {
		return "", fmt.Errorf("working directory not set")
	}
	return s.Dir, nil
}

func (s *Static) Chdir(dir string) error {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.Dir, dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}
	s.Dir = filepath.Clean(dir)
	return nil
}

func (s *Static) SearchPath() []string {
	if s.Path != nil {
		return s.Path
	}
	return SplitPath(s.Env["PATH"])
}

// GetLogLevel resolves the log level from GHOSTSH_LOG_LEVEL, falling back to
// the configured level and finally to info.
func GetLogLevel(p Provider, configured string) zap.AtomicLevel {
	value := p.Getenv("GHOSTSH_LOG_LEVEL")
	if value == "" {
		value = configured
	}

	level, err := zapcore.ParseLevel(value)
	if err != nil {
		level = zapcore.InfoLevel
	}
	return zap.NewAtomicLevelAt(level)
}

// ShouldCleanLogFile reports whether the log file should be truncated at startup.
func ShouldCleanLogFile(p Provider) bool {
	switch strings.ToLower(p.Getenv("GHOSTSH_CLEAN_LOG")) {
	case "1", "true", "yes":
		return true
	}
	return false
}
