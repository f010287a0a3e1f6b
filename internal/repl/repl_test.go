package repl

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/atinylittleshell/ghostsh/internal/environment"
	"github.com/atinylittleshell/ghostsh/internal/repl/executor"
	"github.com/atinylittleshell/ghostsh/internal/repl/locator"
)

type fakeExecutor struct {
	lines []string
	codes map[string]int
	err   error
}

func (f *fakeExecutor) Execute(_ context.Context, line string) (int, error) {
	f.lines = append(f.lines, line)
	return f.codes[line], f.err
}

type fakeLocator struct {
	dir  string
	err  error
	args []string
}

func (f *fakeLocator) Locate(_ context.Context, args []string) (string, error) {
	f.args = args
	return f.dir, f.err
}

type testREPL struct {
	*REPL
	exec   *fakeExecutor
	loc    *fakeLocator
	env    *environment.Static
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	dir    string
}

func newTestREPL(t *testing.T, configContent string) *testREPL {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if configContent != "" {
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	}

	env := &environment.Static{
		Home: tmpDir,
		Env:  map[string]string{"HOME": tmpDir},
		Dir:  tmpDir,
		Path: []string{},
	}
	exec := &fakeExecutor{codes: map[string]int{}}
	loc := &fakeLocator{}
	var stdout, stderr bytes.Buffer

	repl, err := NewREPL(Options{
		ConfigPath:      configPath,
		HistoryPath:     filepath.Join(tmpDir, "history"),
		BashHistoryPath: filepath.Join(tmpDir, ".bash_history"),
		JournalPath:     filepath.Join(tmpDir, "journal.db"),
		Env:             env,
		Executor:        exec,
		Locator:         loc,
		Stdin:           strings.NewReader(""),
		Stdout:          &stdout,
		Stderr:          &stderr,
		Logger:          zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repl.Close() })

	return &testREPL{
		REPL:   repl,
		exec:   exec,
		loc:    loc,
		env:    env,
		stdout: &stdout,
		stderr: &stderr,
		dir:    tmpDir,
	}
}

func TestNewREPL_DefaultOptions(t *testing.T) {
	r := newTestREPL(t, "")

	assert.Equal(t, 1000, r.Config().HistorySize)
	assert.Equal(t, "info", r.Config().LogLevel)
	assert.NotNil(t, r.Executor())
	assert.NotNil(t, r.History())
	assert.NotNil(t, r.Journal(), "journal is enabled by default")
}

func TestNewREPL_WithConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("history_size: 5\nexecutor: bash\njournal: false\n"), 0644))

	repl, err := NewREPL(Options{
		ConfigPath:      configPath,
		HistoryPath:     filepath.Join(tmpDir, "history"),
		BashHistoryPath: filepath.Join(tmpDir, ".bash_history"),
		Env:             &environment.Static{Home: tmpDir, Dir: tmpDir, Path: []string{}},
		Logger:          zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	defer repl.Close()

	assert.Equal(t, 5, repl.Config().HistorySize)
	assert.Equal(t, 5, repl.History().Capacity())
	assert.IsType(t, &executor.BashExecutor{}, repl.Executor())
	assert.Nil(t, repl.Journal())
}

func TestNewREPL_LoadsHistorySources(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		existing string
		expected []string
	}{
		{"bash history seeds a new file", "", "", []string{"ls", "make"}},
		{"existing file ignores bash history", "", "git status\n", []string{"git status"}},
		{"bash import disabled", "import_bash_history: false\n", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			bashHistory := filepath.Join(tmpDir, ".bash_history")
			ghostHistory := filepath.Join(tmpDir, "history")
			configPath := filepath.Join(tmpDir, "config.yaml")
			require.NoError(t, os.WriteFile(bashHistory, []byte("ls\n#1700000000\nmake\n"), 0644))
			require.NoError(t, os.WriteFile(configPath, []byte(tt.config), 0644))
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(ghostHistory, []byte(tt.existing), 0644))
			}

			repl, err := NewREPL(Options{
				ConfigPath:      configPath,
				HistoryPath:     ghostHistory,
				BashHistoryPath: bashHistory,
				JournalPath:     filepath.Join(tmpDir, "journal.db"),
				Env:             &environment.Static{Home: tmpDir, Dir: tmpDir, Path: []string{}},
				Executor:        &fakeExecutor{},
				Logger:          zaptest.NewLogger(t),
			})
			require.NoError(t, err)
			defer repl.Close()

			if tt.expected == nil {
				assert.Empty(t, repl.History().Entries())
			} else {
				assert.Equal(t, tt.expected, repl.History().Entries())
			}
		})
	}
}

func TestNewREPL_HistoryAcrossSessions(t *testing.T) {
	tmpDir := t.TempDir()
	bashHistory := filepath.Join(tmpDir, ".bash_history")
	require.NoError(t, os.WriteFile(bashHistory, []byte("ls\nmake\n"), 0644))

	opts := Options{
		ConfigPath:      filepath.Join(tmpDir, "config.yaml"),
		HistoryPath:     filepath.Join(tmpDir, "history"),
		BashHistoryPath: bashHistory,
		JournalPath:     filepath.Join(tmpDir, "journal.db"),
		Env:             &environment.Static{Home: tmpDir, Dir: tmpDir, Path: []string{}},
		Executor:        &fakeExecutor{},
		Logger:          zaptest.NewLogger(t),
	}

	session := func(lines ...string) []string {
		repl, err := NewREPL(opts)
		require.NoError(t, err)
		for _, line := range lines {
			require.NoError(t, repl.processCommand(context.Background(), line))
		}
		entries := repl.History().Entries()
		require.NoError(t, repl.Close())
		return entries
	}

	session("git status")
	session()
	assert.Equal(t, []string{"ls", "make", "git status"}, session(), "bash history is imported only once")
}

func TestNewREPL_WarnsOnUnreadableHistory(t *testing.T) {
	tmpDir := t.TempDir()
	historyDir := filepath.Join(tmpDir, "history")
	require.NoError(t, os.Mkdir(historyDir, 0755))
	var stderr bytes.Buffer

	repl, err := NewREPL(Options{
		ConfigPath:  filepath.Join(tmpDir, "config.yaml"),
		HistoryPath: historyDir,
		JournalPath: filepath.Join(tmpDir, "journal.db"),
		Env:         &environment.Static{Home: tmpDir, Dir: tmpDir, Path: []string{}},
		Executor:    &fakeExecutor{},
		Stderr:      &stderr,
		Logger:      zaptest.NewLogger(t),
	})
	require.NoError(t, err, "history failures do not stop the session")
	defer repl.Close()

	assert.Contains(t, stderr.String(), "history: ")
	assert.Contains(t, stderr.String(), historyDir)
}

func TestProcessCommand(t *testing.T) {
	tests := []struct {
		name         string
		lines        []string
		wantExecuted []string
		wantHistory  []string
	}{
		{
			name:         "empty and whitespace lines are ignored",
			lines:        []string{"", "   ", "\t"},
			wantExecuted: nil,
			wantHistory:  []string{},
		},
		{
			name:         "line is trimmed before execution",
			lines:        []string{"  echo hello  "},
			wantExecuted: []string{"echo hello"},
			wantHistory:  []string{"echo hello"},
		},
		{
			name:         "bang bang reruns the previous command",
			lines:        []string{"make test", "!!"},
			wantExecuted: []string{"make test", "make test"},
			wantHistory:  []string{"make test", "!!"},
		},
		{
			name:         "repeated bang bang refers to the recorded text",
			lines:        []string{"ls", "!!", "!!"},
			wantExecuted: []string{"ls", "ls", "!!"},
			wantHistory:  []string{"ls", "!!"},
		},
		{
			name:         "numbered reference",
			lines:        []string{"ls -la", "git status", "!1"},
			wantExecuted: []string{"ls -la", "git status", "ls -la"},
			wantHistory:  []string{"ls -la", "git status", "!1"},
		},
		{
			name:         "last argument reference",
			lines:        []string{"mkdir build", "ls !$"},
			wantExecuted: []string{"mkdir build", "ls build"},
			wantHistory:  []string{"mkdir build", "ls !$"},
		},
		{
			name:         "bang bang on empty history runs nothing",
			lines:        []string{"!!"},
			wantExecuted: nil,
			wantHistory:  []string{"!!"},
		},
		{
			name:         "compound commands go to the executor",
			lines:        []string{"cd /tmp && ls"},
			wantExecuted: []string{"cd /tmp && ls"},
			wantHistory:  []string{"cd /tmp && ls"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestREPL(t, "")
			for _, line := range tt.lines {
				require.NoError(t, r.processCommand(context.Background(), line))
			}
			assert.Equal(t, tt.wantExecuted, r.exec.lines)
			assert.Equal(t, tt.wantHistory, r.History().Entries())
		})
	}
}

func TestProcessCommand_ExitKeywords(t *testing.T) {
	r := newTestREPL(t, "exit_keywords: [bye]\n")

	assert.ErrorIs(t, r.processCommand(context.Background(), "  bye "), ErrExit)
	assert.Empty(t, r.exec.lines)
	assert.Equal(t, 0, r.History().Len(), "exit keywords are not recorded")

	assert.ErrorIs(t, r.processCommand(context.Background(), "exit"), ErrExit, "exit builtin still applies")
}

func TestProcessCommand_ExitCodeTracking(t *testing.T) {
	r := newTestREPL(t, "")
	r.exec.codes["false"] = 1

	originalTimeNow := timeNow
	defer func() { timeNow = originalTimeNow }()

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	timeNow = func() time.Time {
		calls++
		if calls%2 == 1 {
			return start
		}
		return start.Add(250 * time.Millisecond)
	}

	require.NoError(t, r.processCommand(context.Background(), "false"))
	assert.Equal(t, 1, r.lastExitCode)
	assert.Equal(t, int64(250), r.lastDurationMs)
	assert.Contains(t, r.stderr.String(), "[exit 1]")

	require.NoError(t, r.processCommand(context.Background(), "true"))
	assert.Equal(t, 0, r.LastExitCode())
}

func TestProcessCommand_ExecutorError(t *testing.T) {
	r := newTestREPL(t, "")
	r.exec.err = assert.AnError
	r.exec.codes["broken"] = 1

	err := r.processCommand(context.Background(), "broken")
	assert.NoError(t, err, "executor failures are reported, not fatal")
	assert.Contains(t, r.stderr.String(), assert.AnError.Error())
	assert.Equal(t, 1, r.lastExitCode)
}

func TestProcessCommand_Journal(t *testing.T) {
	r := newTestREPL(t, "")
	r.exec.codes["make"] = 2

	require.NoError(t, r.processCommand(context.Background(), "make"))
	require.NoError(t, r.processCommand(context.Background(), "cd ."), "builtins are not journaled")

	entries, err := r.Journal().GetRecentEntries("", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "make", entries[0].Command)
	assert.Equal(t, r.dir, entries[0].Directory)
	assert.Equal(t, int32(2), entries[0].ExitCode.Int32)
	assert.Equal(t, r.Journal().SessionID(), entries[0].SessionID)

	r.stdout.Reset()
	require.NoError(t, r.processCommand(context.Background(), "journal 5"))
	assert.Contains(t, r.stdout.String(), "[2]")
	assert.Contains(t, r.stdout.String(), "make")

	require.NoError(t, r.processCommand(context.Background(), "journal clear"))
	entries, err = r.Journal().GetRecentEntries("", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuiltin_Cd(t *testing.T) {
	r := newTestREPL(t, "")
	sub := filepath.Join(r.dir, "sub")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "deeper"), 0755))

	tests := []struct {
		name    string
		line    string
		wantDir string
		wantErr string
	}{
		{"relative", "cd sub", sub, ""},
		{"quoted argument", `cd "deeper"`, filepath.Join(sub, "deeper"), ""},
		{"home", "cd", r.dir, ""},
		{"tilde subpath", "cd ~/sub", sub, ""},
		{"tilde", "cd ~", r.dir, ""},
		{"missing directory", "cd nope", r.dir, "cd: nope: no such file or directory"},
		{"tab separated", "cd\tsub", sub, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.stderr.Reset()
			require.NoError(t, r.processCommand(context.Background(), tt.line))

			wd, err := r.env.Getwd()
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, wd)
			if tt.wantErr != "" {
				assert.Contains(t, r.stderr.String(), tt.wantErr)
			} else {
				assert.Empty(t, r.stderr.String())
			}
		})
	}

	assert.Empty(t, r.exec.lines, "cd never reaches the executor")
}

func TestBuiltin_Z(t *testing.T) {
	r := newTestREPL(t, "")
	target := filepath.Join(r.dir, "projects", "ghostsh")
	require.NoError(t, os.MkdirAll(target, 0755))

	r.loc.dir = target
	require.NoError(t, r.processCommand(context.Background(), "z ghost sh"))
	assert.Equal(t, []string{"ghost", "sh"}, r.loc.args)
	wd, _ := r.env.Getwd()
	assert.Equal(t, target, wd)

	r.loc.dir = ""
	r.loc.err = locator.ErrNotFound
	require.NoError(t, r.processCommand(context.Background(), "z missing"))
	assert.Contains(t, r.stderr.String(), "z: no matching directory")
	wd, _ = r.env.Getwd()
	assert.Equal(t, target, wd, "failed lookup keeps the directory")

	assert.Empty(t, r.exec.lines)
}

func TestBuiltin_History(t *testing.T) {
	r := newTestREPL(t, "")
	require.NoError(t, r.processCommand(context.Background(), "ls"))
	require.NoError(t, r.processCommand(context.Background(), "pwd"))

	r.stdout.Reset()
	require.NoError(t, r.processCommand(context.Background(), "history"))
	assert.Equal(t, "    1  ls\n    2  pwd\n    3  history\n", r.stdout.String())
}

func TestBuiltin_Keys(t *testing.T) {
	r := newTestREPL(t, "")
	require.NoError(t, r.processCommand(context.Background(), "keys"))

	out := r.stdout.String()
	assert.Contains(t, out, "ctrl+r")
	assert.Contains(t, out, "search history")
	assert.Empty(t, r.exec.lines)
}

func TestBuiltin_JournalErrors(t *testing.T) {
	r := newTestREPL(t, "")
	require.NoError(t, r.processCommand(context.Background(), "journal abc"))
	assert.Contains(t, r.stderr.String(), `journal: invalid count "abc"`)

	disabled := newTestREPL(t, "journal: false\n")
	require.NoError(t, disabled.processCommand(context.Background(), "journal"))
	assert.Contains(t, disabled.stderr.String(), "command journal is disabled")
}

func TestRunCommand(t *testing.T) {
	r := newTestREPL(t, "")
	r.exec.codes["false"] = 1

	code, err := r.RunCommand(context.Background(), "false")
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	code, err = r.RunCommand(context.Background(), "quit")
	require.NoError(t, err)
	assert.Equal(t, 1, code, "exit keeps the last status")

	code, err = r.RunCommand(context.Background(), "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, []string{"false"}, r.exec.lines)
}

func TestRunLines(t *testing.T) {
	r := newTestREPL(t, "")
	r.exec.codes["false"] = 1

	code, err := r.RunLines(context.Background(), strings.NewReader("echo a\n\nfalse\nexit\necho b\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, []string{"echo a", "false"}, r.exec.lines)
}

func TestRun_CancelledContext(t *testing.T) {
	r := newTestREPL(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClose_SavesHistory(t *testing.T) {
	r := newTestREPL(t, "")
	require.NoError(t, r.processCommand(context.Background(), "echo one"))
	require.NoError(t, r.processCommand(context.Background(), "echo two"))
	require.NoError(t, r.Close())

	content, err := os.ReadFile(filepath.Join(r.dir, "history"))
	require.NoError(t, err)
	assert.Equal(t, "echo one\necho two\n", string(content))
}
