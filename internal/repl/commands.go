package repl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/shell"

	"github.com/atinylittleshell/ghostsh/internal/history"
	"github.com/atinylittleshell/ghostsh/internal/repl/locator"
	"github.com/atinylittleshell/ghostsh/internal/styles"
)

// ErrExit is returned when the user requests to exit the REPL.
var ErrExit = errors.New("exit requested")

const defaultJournalLimit = 10

// Lines using any of these are compound shell commands and go to the executor.
const shellOperators = ";|&<>()`"

// handleBuiltinCommand handles built-in REPL commands.
// Returns true if the command was handled, and an error if the REPL should exit.
// Builtin failures are printed and never returned.
func (r *REPL) handleBuiltinCommand(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	name := line
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		name = line[:i]
	}
	rest := strings.TrimSpace(line[len(name):])
	if !r.builtins.IsBuiltin(name) || strings.ContainsAny(rest, shellOperators) {
		return false, nil
	}

	args, err := r.splitArgs(rest)
	if err != nil {
		r.printError(fmt.Sprintf("%s: %v", name, err))
		return true, nil
	}

	switch name {
	case "exit", "quit":
		if len(args) > 0 {
			code, err := strconv.Atoi(args[0])
			if err != nil {
				r.printError(fmt.Sprintf("%s: %s: numeric argument required", name, args[0]))
				return true, nil
			}
			r.lastExitCode = code
		}
		return true, ErrExit
	case "cd":
		r.handleCd(args)
	case "z":
		r.handleZ(ctx, args)
	case "history":
		if err := r.history.Print(r.stdout); err != nil {
			r.logger.Warn("failed to print history", zap.Error(err))
		}
	case "journal":
		r.handleJournal(args)
	case "keys":
		r.handleKeys()
	case "clear":
		termenv.NewOutput(r.stdout).ClearScreen()
	default:
		return false, nil
	}

	r.logger.Debug("builtin handled", zap.String("name", name), zap.Strings("args", args))
	return true, nil
}

// splitArgs splits builtin arguments with shell quoting rules, expanding
// variables from the environment.
func (r *REPL) splitArgs(rest string) ([]string, error) {
	if strings.TrimSpace(rest) == "" {
		return nil, nil
	}
	return shell.Fields(rest, r.env.Getenv)
}

// handleCd changes directory. No argument means the home directory; "~" and
// "~/rest" are expanded against it and anything else is used as given.
func (r *REPL) handleCd(args []string) {
	home := r.env.HomeDir()

	target := home
	if len(args) > 0 {
		target = expandHome(args[0], home)
	}
	if target == "" {
		r.printError("cd: home directory unknown")
		return
	}

	if err := r.env.Chdir(target); err != nil {
		r.printError(fmt.Sprintf("cd: %s: %s", target, describePathError(err)))
	}
}

func expandHome(path, home string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	}
	return path
}

// handleZ jumps to the directory reported by the external locator.
func (r *REPL) handleZ(ctx context.Context, args []string) {
	dir, err := r.locator.Locate(ctx, args)
	if err != nil {
		if !errors.Is(err, locator.ErrNotFound) {
			r.logger.Warn("directory locator failed", zap.Error(err))
		}
		r.printError(fmt.Sprintf("z: %v", err))
		return
	}

	if err := r.env.Chdir(dir); err != nil {
		r.printError(fmt.Sprintf("z: %s: %s", dir, describePathError(err)))
		return
	}
	fmt.Fprintln(r.stdout, styles.INFO(dir))
}

// handleJournal prints the last n journaled commands, 10 by default.
// "journal clear" deletes every entry.
func (r *REPL) handleJournal(args []string) {
	if r.journal == nil {
		r.printError("journal: command journal is disabled")
		return
	}

	if len(args) > 0 && args[0] == "clear" {
		if err := r.journal.Reset(); err != nil {
			r.printError(fmt.Sprintf("journal: %v", err))
		}
		return
	}

	limit := defaultJournalLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			r.printError(fmt.Sprintf("journal: invalid count %q", args[0]))
			return
		}
		limit = n
	}

	entries, err := r.journal.GetRecentEntries("", limit)
	if err != nil {
		r.printError(fmt.Sprintf("journal: %v", err))
		return
	}
	if err := history.PrintJournal(r.stdout, entries, timeNow()); err != nil {
		r.logger.Warn("failed to print journal", zap.Error(err))
	}
}

// handleKeys lists every key binding with its help text.
func (r *REPL) handleKeys() {
	h := help.New()
	h.ShowAll = true
	fmt.Fprintln(r.stdout, h.View(r.keymap))
}

func (r *REPL) printError(msg string) {
	fmt.Fprintln(r.stderr, styles.ERROR(msg))
}

// describePathError strips the operation and path from a *PathError so the
// message reads like the shell's own.
func describePathError(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
