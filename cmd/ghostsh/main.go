package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/atinylittleshell/ghostsh/internal/core"
	"github.com/atinylittleshell/ghostsh/internal/environment"
	"github.com/atinylittleshell/ghostsh/internal/repl"
	"github.com/atinylittleshell/ghostsh/internal/styles"
)

var BUILD_VERSION = "dev"

var command = flag.String("c", "", "run a command")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

const helpText = `ghostsh - An interactive shell with history suggestions

USAGE:
  ghostsh [options]

MODES:
  ghostsh                 Start an interactive shell
  ghostsh -c "command"    Run one command line and exit
  ... | ghostsh           Run each line of standard input in order

Settings are read from ~/.ghostsh/config.yaml.

OPTIONS:
`

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Print(helpText)
		flag.PrintDefaults()
		return
	}

	env := environment.OS{}

	cfg, err := repl.LoadConfig("", nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		os.Exit(1)
	}

	logger, err := initializeLogger(env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	logger.Info("-------- new ghostsh session --------", zap.Any("args", os.Args))

	exitCode, err := run(context.Background(), repl.Options{
		Config:       cfg,
		Env:          env,
		BuildVersion: BUILD_VERSION,
		Logger:       logger,
	}, *command, os.Stdin)
	if err != nil {
		logger.Error("unhandled error", zap.Error(err))
		fmt.Fprintln(os.Stderr, styles.ERROR(fmt.Sprintf("ghostsh: %v", err)))
		exitCode = 1
	}

	_ = logger.Sync()
	os.Exit(exitCode)
}

// run picks the session mode: a single -c line, the interactive editor when
// stdin is a terminal, or line-by-line submission of piped input.
func run(ctx context.Context, opts repl.Options, command string, stdin io.Reader) (int, error) {
	opts.Stdin = stdin

	r, err := repl.NewREPL(opts)
	if err != nil {
		return 1, fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer r.Close()

	// ghostsh -c "echo hello"
	if command != "" {
		return r.RunCommand(ctx, command)
	}

	if isTerminal(stdin) {
		if err := r.Run(ctx); err != nil {
			return 1, err
		}
		return r.LastExitCode(), nil
	}

	return r.RunLines(ctx, stdin)
}

func isTerminal(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func initializeLogger(env environment.Provider, configuredLevel string) (*zap.Logger, error) {
	logLevel := environment.GetLogLevel(env, configuredLevel)
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	if environment.ShouldCleanLogFile(env) {
		os.Remove(core.LogFile())
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	// The line editor owns the terminal; use `tail -f ~/.ghostsh/ghostsh.log`.
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}

	return loggerConfig.Build()
}
