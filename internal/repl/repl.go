// Package repl provides the main interactive shell loop for ghostsh. It ties
// the line editor, history, completion and suggestions together, and hands
// submitted lines to the builtins or the configured command executor.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/atinylittleshell/ghostsh/internal/core"
	"github.com/atinylittleshell/ghostsh/internal/environment"
	"github.com/atinylittleshell/ghostsh/internal/history"
	"github.com/atinylittleshell/ghostsh/internal/repl/completion"
	"github.com/atinylittleshell/ghostsh/internal/repl/completion/completers"
	"github.com/atinylittleshell/ghostsh/internal/repl/config"
	"github.com/atinylittleshell/ghostsh/internal/repl/executor"
	"github.com/atinylittleshell/ghostsh/internal/repl/input"
	"github.com/atinylittleshell/ghostsh/internal/repl/locator"
	"github.com/atinylittleshell/ghostsh/internal/repl/predict"
	"github.com/atinylittleshell/ghostsh/internal/repl/render"
	"github.com/atinylittleshell/ghostsh/internal/styles"
)

// timeNow is mocked in tests.
var timeNow = time.Now

// REPL is the interactive shell session.
type REPL struct {
	config *config.Config
	env    environment.Provider
	logger *zap.Logger

	history     *history.Store
	historyPath string
	journal     *history.Journal

	commands    *completers.CommandCompleter
	builtins    *completers.BuiltinCompleter
	completion  *completion.Engine
	editor      *input.Editor
	keymap      *input.KeyMap
	highlighter *input.Highlighter

	executor executor.CommandExecutor
	locator  locator.DirectoryLocator

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	buildVersion string

	lastExitCode   int
	lastDurationMs int64
}

// Options holds configuration options for creating a new REPL. Empty paths
// fall back to the defaults under ~/.ghostsh.
type Options struct {
	ConfigPath      string
	HistoryPath     string
	BashHistoryPath string
	JournalPath     string

	// Config is used as-is when set; ConfigPath is then ignored.
	Config *config.Config

	Env environment.Provider

	// Executor and Locator replace the configured implementations.
	Executor executor.CommandExecutor
	Locator  locator.DirectoryLocator

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	BuildVersion string
	Logger       *zap.Logger
}

// NewREPL creates a new REPL instance.
func NewREPL(opts Options) (*REPL, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	env := opts.Env
	if env == nil {
		env = environment.OS{}
	}
	stdin, stdout, stderr := opts.Stdin, opts.Stdout, opts.Stderr
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = LoadConfig(opts.ConfigPath, logger)
		if err != nil {
			return nil, err
		}
	}

	historyPath := opts.HistoryPath
	if historyPath == "" {
		historyPath = cfg.ResolveHistoryFile(env.HomeDir(), core.HistoryFile())
	}
	store := history.NewStore(cfg.HistorySize, logger)
	var seed string
	if cfg.ShouldImportBashHistory() {
		seed = opts.BashHistoryPath
		if seed == "" {
			seed = core.BashHistoryFile()
		}
	}
	if err := store.LoadSeeded(historyPath, seed); err != nil {
		logger.Warn("failed to load some history", zap.Error(err))
		fmt.Fprintln(stderr, styles.WARNING(fmt.Sprintf("history: %v", err)))
	}

	var journal *history.Journal
	if cfg.JournalEnabled() {
		journalPath := opts.JournalPath
		if journalPath == "" {
			journalPath = core.JournalFile()
		}
		var err error
		journal, err = history.OpenJournal(journalPath)
		if err != nil {
			logger.Warn("command journal disabled", zap.Error(err))
			fmt.Fprintln(stderr, styles.WARNING(fmt.Sprintf("journal disabled: %v", err)))
			journal = nil
		}
	}

	commands := completers.NewCommandCompleter(env, logger)
	if err := commands.Watch(); err != nil {
		logger.Warn("PATH watcher unavailable, rescanning on demand", zap.Error(err))
	}
	builtins := completers.NewBuiltinCompleter()

	engine := completion.NewEngine(completion.Options{
		Env:               env,
		History:           store,
		Commands:          commands,
		Builtins:          builtins,
		DirectoryCommands: cfg.DirectoryCommands,
		Logger:            logger,
	})

	editor := input.NewEditor(input.EditorConfig{
		Predictor: predict.NewHistoryPredictor(store, logger),
		Completer: engine,
		History:   store,
		Logger:    logger,
	})

	exec := opts.Executor
	if exec == nil {
		var err error
		exec, err = executor.New(cfg.Executor, executor.Options{
			Env:    env,
			Stdin:  stdin,
			Stdout: stdout,
			Stderr: stderr,
			Logger: logger,
		})
		if err != nil {
			commands.Close()
			if journal != nil {
				journal.Close()
			}
			return nil, err
		}
	}

	loc := opts.Locator
	if loc == nil {
		loc = locator.NewZoxide(cfg.Locator, logger)
	}

	logger.Debug("repl initialized",
		zap.String("executor", cfg.Executor),
		zap.Int("history", store.Len()),
		zap.Bool("journal", journal != nil),
	)

	return &REPL{
		config:       cfg,
		env:          env,
		logger:       logger,
		history:      store,
		historyPath:  historyPath,
		journal:      journal,
		commands:     commands,
		builtins:     builtins,
		completion:   engine,
		editor:       editor,
		keymap:       input.DefaultKeyMap(),
		highlighter:  input.NewHighlighter(input.NewClassifier(engine, env)),
		executor:     exec,
		locator:      loc,
		stdin:        stdin,
		stdout:       stdout,
		stderr:       stderr,
		buildVersion: opts.BuildVersion,
	}, nil
}

// LoadConfig reads the configuration file at path, core.ConfigFile() when
// empty. Invalid values are logged and replaced with defaults.
func LoadConfig(path string, logger *zap.Logger) (*config.Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		path = core.ConfigFile()
	}

	result, err := config.NewLoader(logger).LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	for _, cfgErr := range result.Errors {
		logger.Warn("config error", zap.String("path", path), zap.Error(cfgErr))
	}
	return result.Config, nil
}

// Run starts the interactive loop. It returns nil when the user leaves with an
// exit keyword or end-of-input, and ctx.Err() when ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.showWelcomeScreen()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := input.ReadLine(ctx, input.Config{
			Prompt:      r.prompt(),
			Editor:      r.editor,
			KeyMap:      r.keymap,
			Highlighter: r.highlighter,
			Width:       r.terminalWidth(),
			Logger:      r.logger,
		}, tea.WithInput(r.stdin), tea.WithOutput(r.stdout))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		switch result.Type {
		case input.ResultInterrupt:
			continue
		case input.ResultEOF:
			r.logger.Debug("end of input")
			return nil
		case input.ResultSubmit:
			if err := r.processCommand(ctx, result.Value); err != nil {
				if errors.Is(err, ErrExit) {
					return nil
				}
				return err
			}
		}
	}
}

// RunCommand submits one line non-interactively and returns its exit code.
func (r *REPL) RunCommand(ctx context.Context, line string) (int, error) {
	if err := r.processCommand(ctx, line); err != nil && !errors.Is(err, ErrExit) {
		return 1, err
	}
	return r.lastExitCode, nil
}

// RunLines submits each line of in, in order, until an exit keyword or the
// end of the input. It returns the exit code of the last command.
func (r *REPL) RunLines(ctx context.Context, in io.Reader) (int, error) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return 1, err
		}
		if err := r.processCommand(ctx, scanner.Text()); err != nil {
			if errors.Is(err, ErrExit) {
				break
			}
			return 1, err
		}
	}
	if err := scanner.Err(); err != nil {
		return 1, fmt.Errorf("failed to read input: %w", err)
	}
	return r.lastExitCode, nil
}

// processCommand runs one submitted line: exit keywords, history, bang
// expansion, builtins, then the executor. A non-zero exit is reported but
// never returned as an error.
func (r *REPL) processCommand(ctx context.Context, line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	if r.config.IsExitKeyword(trimmed) {
		return ErrExit
	}

	// References resolve against history as it was before this line.
	expanded := strings.TrimSpace(r.history.Expand(trimmed))
	r.history.Add(line)
	if expanded == "" {
		return nil
	}
	if expanded != trimmed {
		fmt.Fprintln(r.stdout, expanded)
	}

	if handled, err := r.handleBuiltinCommand(ctx, expanded); handled {
		return err
	}

	return r.executeCommand(ctx, expanded)
}

func (r *REPL) executeCommand(ctx context.Context, line string) error {
	dir, _ := r.env.Getwd()

	var entry *history.JournalEntry
	if r.journal != nil {
		var err error
		entry, err = r.journal.StartCommand(line, dir)
		if err != nil {
			r.logger.Warn("failed to journal command", zap.Error(err))
		}
	}

	start := timeNow()
	exitCode, err := r.executor.Execute(ctx, line)
	duration := timeNow().Sub(start)

	r.lastExitCode = exitCode
	r.lastDurationMs = duration.Milliseconds()

	if entry != nil {
		if _, jerr := r.journal.FinishCommand(entry, exitCode, duration); jerr != nil {
			r.logger.Warn("failed to journal command result", zap.Error(jerr))
		}
	}

	r.logger.Debug("command finished",
		zap.String("command", line),
		zap.Int("exitCode", exitCode),
		zap.Int64("durationMs", r.lastDurationMs),
	)

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintln(r.stderr, styles.ERROR(fmt.Sprintf("ghostsh: %v", err)))
		return nil
	}
	if exitCode != 0 {
		fmt.Fprintln(r.stderr, styles.DIM(fmt.Sprintf("[exit %d]", exitCode)))
	}
	return nil
}

func (r *REPL) prompt() string {
	cwd, _ := r.env.Getwd()
	return render.Prompt(render.PromptInfo{
		Cwd:          cwd,
		HomeDir:      r.env.HomeDir(),
		Arrow:        r.config.PromptArrow,
		LastExitCode: r.lastExitCode,
	})
}

func (r *REPL) terminalWidth() int {
	if f, ok := r.stdout.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

// showWelcomeScreen displays the welcome screen with session info.
func (r *REPL) showWelcomeScreen() {
	render.RenderWelcome(r.stdout, render.WelcomeInfo{
		Version:        r.buildVersion,
		HistoryEntries: r.history.Len(),
		Executor:       r.config.Executor,
	}, r.terminalWidth())
}

// Config returns the loaded configuration.
func (r *REPL) Config() *config.Config {
	return r.config
}

// Executor returns the command executor.
func (r *REPL) Executor() executor.CommandExecutor {
	return r.executor
}

// History returns the history store.
func (r *REPL) History() *history.Store {
	return r.history
}

// Journal returns the command journal, or nil when it is disabled.
func (r *REPL) Journal() *history.Journal {
	return r.journal
}

// LastExitCode returns the exit status of the most recent external command.
func (r *REPL) LastExitCode() int {
	return r.lastExitCode
}

// Close saves history and releases resources.
func (r *REPL) Close() error {
	var result *multierror.Error

	if err := r.history.Save(r.historyPath); err != nil {
		r.logger.Warn("failed to save history", zap.String("path", r.historyPath), zap.Error(err))
		result = multierror.Append(result, err)
	}
	if r.journal != nil {
		if err := r.journal.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close journal: %w", err))
		}
		r.journal = nil
	}
	if err := r.commands.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close PATH watcher: %w", err))
	}

	return result.ErrorOrNil()
}
