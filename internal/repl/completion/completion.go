// Package completion provides tab completion for the ghostsh REPL: it
// classifies the token under the cursor, gathers candidates for that class
// and replaces the token with the best-ranked one.
package completion

import (
	"strings"
	"unicode"

	"github.com/atinylittleshell/ghostsh/internal/environment"
	"github.com/atinylittleshell/ghostsh/internal/repl/completion/completers"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Kind is the class of the token being completed.
type Kind int

const (
	KindNone Kind = iota
	KindCommand
	KindDirectory
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "none"
	}
}

// CursorToken is the token ending at the cursor. Start and End are rune offsets.
type CursorToken struct {
	Kind  Kind
	Start int
	End   int
	Text  string
}

// HistorySource provides the history entries whose first words are offered
// as command candidates.
type HistorySource interface {
	Entries() []string
}

// Result is a completed line and where the cursor goes (rune offset).
type Result struct {
	Line      string
	Cursor    int
	Candidate Candidate
}

type Options struct {
	Env      environment.Provider
	History  HistorySource
	Commands *completers.CommandCompleter
	Builtins *completers.BuiltinCompleter
	// DirectoryCommands take directory arguments (cd, rmdir, pushd).
	DirectoryCommands []string
	Logger            *zap.Logger
}

// Engine implements completion for the line editor.
type Engine struct {
	env               environment.Provider
	history           HistorySource
	commands          *completers.CommandCompleter
	builtins          *completers.BuiltinCompleter
	directoryCommands []string
	logger            *zap.Logger
}

// NewEngine creates an Engine. Missing collaborators get defaults.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	env := opts.Env
	if env == nil {
		env = environment.OS{}
	}
	commands := opts.Commands
	if commands == nil {
		commands = completers.NewCommandCompleter(env, logger)
	}
	builtins := opts.Builtins
	if builtins == nil {
		builtins = completers.NewBuiltinCompleter()
	}
	dirCommands := opts.DirectoryCommands
	if dirCommands == nil {
		dirCommands = []string{"cd", "rmdir", "pushd"}
	}

	return &Engine{
		env:               env,
		history:           opts.History,
		commands:          commands,
		builtins:          builtins,
		directoryCommands: dirCommands,
		logger:            logger,
	}
}

// ClassifyCursorToken finds the token that ends at cursor (a rune offset) and
// decides what kind of completion applies. The first token is a command; later
// tokens are directories when the line starts with a directory-taking command
// and files otherwise. There is no token when the text before the cursor is
// empty or ends in whitespace.
func (e *Engine) ClassifyCursorToken(line string, cursor int) CursorToken {
	runes := []rune(line)
	cursor = max(0, min(cursor, len(runes)))
	before := runes[:cursor]

	if len(before) == 0 || unicode.IsSpace(before[len(before)-1]) {
		return CursorToken{Kind: KindNone, Start: cursor, End: cursor}
	}

	start := 0
	for i := len(before) - 1; i >= 0; i-- {
		if unicode.IsSpace(before[i]) {
			start = i + 1
			break
		}
	}

	token := CursorToken{Start: start, End: cursor, Text: string(before[start:])}
	if start == 0 {
		token.Kind = KindCommand
		return token
	}

	first := strings.Fields(string(before))[0]
	if lo.Contains(e.directoryCommands, first) {
		token.Kind = KindDirectory
	} else {
		token.Kind = KindFile
	}
	return token
}

// Candidates returns the completion candidates for token, deduplicated.
func (e *Engine) Candidates(token CursorToken) []string {
	switch token.Kind {
	case KindCommand:
		return e.commandCandidates()
	case KindDirectory:
		return e.listEntries(token.Text, true)
	case KindFile:
		return e.listEntries(token.Text, false)
	default:
		return nil
	}
}

func (e *Engine) commandCandidates() []string {
	var historyWords []string
	if e.history != nil {
		historyWords = lo.FilterMap(e.history.Entries(), func(entry string, _ int) (string, bool) {
			fields := strings.Fields(entry)
			if len(fields) == 0 {
				return "", false
			}
			return fields[0], true
		})
	}

	return lo.Uniq(lo.Flatten([][]string{
		e.commands.Commands(),
		historyWords,
		e.builtins.Names(),
	}))
}

// Complete replaces the token at cursor with the best candidate. It reports
// false when there is no token or no candidate qualifies.
func (e *Engine) Complete(line string, cursor int) (Result, bool) {
	token := e.ClassifyCursorToken(line, cursor)
	if token.Kind == KindNone || token.Text == "" {
		return Result{}, false
	}

	best, ok := BestCandidate(token.Text, e.Candidates(token))
	if !ok {
		e.logger.Debug("no completion", zap.String("token", token.Text), zap.Stringer("kind", token.Kind))
		return Result{}, false
	}

	runes := []rune(line)
	replacement := []rune(best.Text)

	out := make([]rune, 0, len(runes)-(token.End-token.Start)+len(replacement))
	out = append(out, runes[:token.Start]...)
	out = append(out, replacement...)
	out = append(out, runes[token.End:]...)

	e.logger.Debug("completed token",
		zap.String("token", token.Text),
		zap.String("candidate", best.Text),
		zap.Stringer("match", best.Match),
	)

	return Result{
		Line:      string(out),
		Cursor:    token.Start + len(replacement),
		Candidate: best,
	}, true
}

// IsCommand reports whether name is a builtin or an executable on the search
// path. The highlighter uses it to validate the first token.
func (e *Engine) IsCommand(name string) bool {
	return e.builtins.IsBuiltin(name) || e.commands.IsExecutable(name)
}
