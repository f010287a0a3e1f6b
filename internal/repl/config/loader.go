package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of config.yaml files.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger: logger,
	}
}

// LoadResult contains the result of loading a configuration file.
type LoadResult struct {
	Config *Config
	Errors []error
}

// LoadFromFile loads configuration from a YAML file.
// Returns the configuration and any non-fatal errors encountered.
// If the file doesn't exist, returns default configuration with no error.
func (l *Loader) LoadFromFile(path string) (*LoadResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadResult{Config: DefaultConfig(), Errors: []error{}}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return l.LoadFromString(string(content))
}

// LoadFromString loads configuration from YAML source. Parse errors are
// reported in the result and leave the defaults in place.
func (l *Loader) LoadFromString(source string) (*LoadResult, error) {
	result := &LoadResult{
		Config: DefaultConfig(),
		Errors: []error{},
	}

	if strings.TrimSpace(source) == "" {
		return result, nil
	}

	parsed := DefaultConfig()
	if err := yaml.Unmarshal([]byte(source), parsed); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("parse error: %w", err))
		return result, nil
	}

	l.validate(parsed, result)
	return result, nil
}

// validate copies parsed values into result.Config, replacing invalid ones
// with defaults and recording why.
func (l *Loader) validate(parsed *Config, result *LoadResult) {
	cfg := parsed
	defaults := DefaultConfig()

	if cfg.HistorySize <= 0 {
		result.Errors = append(result.Errors, fmt.Errorf("history_size must be positive, got %d", cfg.HistorySize))
		cfg.HistorySize = defaults.HistorySize
	}

	switch cfg.Executor {
	case ExecutorShell, ExecutorBash:
	default:
		result.Errors = append(result.Errors, fmt.Errorf("executor must be %q or %q, got %q", ExecutorShell, ExecutorBash, cfg.Executor))
		cfg.Executor = defaults.Executor
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
		cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	default:
		result.Errors = append(result.Errors, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", cfg.LogLevel))
		cfg.LogLevel = defaults.LogLevel
	}

	if len(cfg.ExitKeywords) == 0 {
		cfg.ExitKeywords = defaults.ExitKeywords
	}
	if len(cfg.DirectoryCommands) == 0 {
		cfg.DirectoryCommands = defaults.DirectoryCommands
	}
	if cfg.Locator == "" {
		cfg.Locator = defaults.Locator
	}
	if cfg.PromptArrow == "" {
		cfg.PromptArrow = defaults.PromptArrow
	}

	for _, err := range result.Errors {
		l.logger.Debug("config value replaced with default", zap.Error(err))
	}

	result.Config = cfg
}
