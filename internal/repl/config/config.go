// Package config provides configuration management for the ghostsh REPL.
// It handles loading and parsing of the YAML configuration file and
// filling in defaults for anything the file leaves out.
package config

import (
	"path/filepath"
	"strings"
)

// Executor names accepted by the `executor` key.
const (
	ExecutorShell = "sh"
	ExecutorBash  = "bash"
)

const (
	DefaultHistorySize = 1000
	DefaultPromptArrow = "❱"
	DefaultLocator     = "zoxide"
)

// Config holds all REPL configuration read from ~/.ghostsh/config.yaml.
type Config struct {
	// HistorySize is the capacity of the in-memory history store.
	HistorySize int `yaml:"history_size"`

	// HistoryFile overrides the history save target. Empty means the default
	// path under the data directory.
	HistoryFile string `yaml:"history_file"`

	// ImportBashHistory loads ~/.bash_history before the ghostsh history file.
	ImportBashHistory *bool `yaml:"import_bash_history"`

	LogLevel string `yaml:"log_level"`

	// Executor selects how command lines run: "sh" uses the embedded
	// interpreter, "bash" spawns `bash -ic`.
	Executor string `yaml:"executor"`

	ExitKeywords      []string `yaml:"exit_keywords"`
	DirectoryCommands []string `yaml:"directory_commands"`

	// Locator is the external directory-jump tool queried by the `z` builtin.
	Locator string `yaml:"locator"`

	PromptArrow string `yaml:"prompt_arrow"`

	// Journal enables the SQLite command journal.
	Journal *bool `yaml:"journal"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	enabled := true
	journal := true
	return &Config{
		HistorySize:       DefaultHistorySize,
		ImportBashHistory: &enabled,
		LogLevel:          "info",
		Executor:          ExecutorShell,
		ExitKeywords:      []string{"exit", "quit"},
		DirectoryCommands: []string{"cd", "rmdir", "pushd"},
		Locator:           DefaultLocator,
		PromptArrow:       DefaultPromptArrow,
		Journal:           &journal,
	}
}

// ShouldImportBashHistory reports whether ~/.bash_history is loaded at startup.
func (c *Config) ShouldImportBashHistory() bool {
	return c.ImportBashHistory == nil || *c.ImportBashHistory
}

// JournalEnabled reports whether executed commands are journaled.
func (c *Config) JournalEnabled() bool {
	return c.Journal == nil || *c.Journal
}

// IsExitKeyword reports whether the trimmed line terminates the session.
func (c *Config) IsExitKeyword(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, keyword := range c.ExitKeywords {
		if trimmed == keyword {
			return true
		}
	}
	return false
}

// ResolveHistoryFile returns the configured history file, expanding a leading
// "~" against homeDir, or fallback when none is configured.
func (c *Config) ResolveHistoryFile(homeDir, fallback string) string {
	path := c.HistoryFile
	if path == "" {
		return fallback
	}
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
