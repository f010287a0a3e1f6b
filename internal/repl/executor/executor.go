// Package executor runs resolved command lines for the ghostsh REPL. Lines
// go either to an embedded POSIX shell interpreter or to an external
// interactive bash.
package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atinylittleshell/ghostsh/internal/environment"
	"github.com/atinylittleshell/ghostsh/internal/repl/config"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// killTimeout is how long an interrupted command gets before SIGKILL.
const killTimeout = 2 * time.Second

// CommandExecutor runs one fully expanded command line with the terminal's
// standard streams and returns its exit status. A non-zero status is not an
// error; err is reserved for lines that could not be run at all.
type CommandExecutor interface {
	Execute(ctx context.Context, line string) (int, error)
}

// ExecMiddleware wraps an ExecHandlerFunc to intercept commands the shell
// interpreter is about to run.
type ExecMiddleware = func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc

// Options configures an executor. Zero values fall back to the process
// environment and standard streams.
type Options struct {
	Env    environment.Provider
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

func (o *Options) setDefaults() {
	if o.Env == nil {
		o.Env = environment.OS{}
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// New returns the executor named by kind (config.ExecutorShell or
// config.ExecutorBash).
func New(kind string, opts Options) (CommandExecutor, error) {
	switch kind {
	case config.ExecutorShell, "":
		return NewShellExecutor(opts)
	case config.ExecutorBash:
		return NewBashExecutor(opts), nil
	default:
		return nil, fmt.Errorf("unknown executor %q", kind)
	}
}

// ShellExecutor runs lines with the mvdan/sh interpreter. Shell variables
// persist between lines, and a directory change made by the line is applied
// to the environment afterwards.
type ShellExecutor struct {
	runner *interp.Runner
	env    environment.Provider
	logger *zap.Logger
}

var _ CommandExecutor = (*ShellExecutor)(nil)

// NewShellExecutor creates a ShellExecutor. The execHandlers are optional
// middleware for intercepting command execution.
func NewShellExecutor(opts Options, execHandlers ...ExecMiddleware) (*ShellExecutor, error) {
	opts.setDefaults()

	handlers := append([]ExecMiddleware{logCommands(opts.Logger)}, execHandlers...)
	handlers = append(handlers, foregroundExec(killTimeout))
	runner, err := interp.New(
		interp.Interactive(true),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(opts.Stdin, opts.Stdout, opts.Stderr),
		interp.ExecHandlers(handlers...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create shell runner: %w", err)
	}

	return &ShellExecutor{
		runner: runner,
		env:    opts.Env,
		logger: opts.Logger,
	}, nil
}

func logCommands(logger *zap.Logger) ExecMiddleware {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			logger.Debug("exec", zap.Strings("args", args))
			return next(ctx, args)
		}
	}
}

// foregroundExec runs external commands through runForeground when stdin is
// a terminal. Otherwise the interpreter's default handler runs them.
func foregroundExec(killTimeout time.Duration) ExecMiddleware {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			hc := interp.HandlerCtx(ctx)
			if terminalFd(hc.Stdin) < 0 {
				return next(ctx, args)
			}

			path, err := interp.LookPathDir(hc.Dir, hc.Env, args[0])
			if err != nil {
				fmt.Fprintln(hc.Stderr, err)
				return interp.NewExitStatus(127)
			}

			cmd := &exec.Cmd{
				Path:   path,
				Args:   args,
				Dir:    hc.Dir,
				Env:    execEnv(hc.Env),
				Stdin:  hc.Stdin,
				Stdout: hc.Stdout,
				Stderr: hc.Stderr,
			}
			err = runForeground(ctx, cmd, killTimeout)
			if code, ok := exitCode(err); ok {
				return interp.NewExitStatus(uint8(code))
			}
			return err
		}
	}
}

// execEnv returns the exported shell variables in exec.Cmd form.
func execEnv(env expand.Environ) []string {
	var result []string
	env.Each(func(name string, vr expand.Variable) bool {
		if vr.Exported {
			result = append(result, name+"="+vr.String())
		}
		return true
	})
	return result
}

// Execute implements CommandExecutor.
func (e *ShellExecutor) Execute(ctx context.Context, line string) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		return 1, fmt.Errorf("failed to parse command: %w", err)
	}

	if wd, err := e.env.Getwd(); err == nil {
		e.runner.Dir = wd
	}
	startDir := e.runner.Dir

	err = e.runner.Run(ctx, prog)
	e.syncDir(startDir)

	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), nil
		}
		return 1, err
	}
	return 0, nil
}

func (e *ShellExecutor) syncDir(startDir string) {
	if e.runner.Dir == startDir {
		return
	}
	if err := e.env.Chdir(e.runner.Dir); err != nil {
		e.logger.Warn("failed to follow directory change", zap.String("dir", e.runner.Dir), zap.Error(err))
	}
}

// BashExecutor runs each line in a fresh `bash -ic` so the user's bashrc
// aliases and functions are available.
type BashExecutor struct {
	opts Options
	bash string
}

var _ CommandExecutor = (*BashExecutor)(nil)

// NewBashExecutor creates a BashExecutor.
func NewBashExecutor(opts Options) *BashExecutor {
	opts.setDefaults()
	return &BashExecutor{opts: opts, bash: "bash"}
}

// Execute implements CommandExecutor.
func (e *BashExecutor) Execute(ctx context.Context, line string) (int, error) {
	cmd := exec.Command(e.bash, "-ic", line)
	cmd.Stdin = e.opts.Stdin
	cmd.Stdout = e.opts.Stdout
	cmd.Stderr = e.opts.Stderr
	if wd, err := e.opts.Env.Getwd(); err == nil {
		cmd.Dir = wd
	}

	err := runForeground(ctx, cmd, killTimeout)
	if err == nil {
		return 0, nil
	}

	if code, ok := exitCode(err); ok {
		return code, nil
	}
	return 1, fmt.Errorf("failed to run %s: %w", e.bash, err)
}
