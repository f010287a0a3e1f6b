// Package locator resolves fuzzy directory names for the z builtin by asking
// an external jump tool such as zoxide.
package locator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the locator has no directory for the query.
var ErrNotFound = errors.New("no matching directory")

// DirectoryLocator resolves query arguments to a directory.
type DirectoryLocator interface {
	Locate(ctx context.Context, args []string) (string, error)
}

// Zoxide runs `<binary> query <args>` and uses its single line of output.
type Zoxide struct {
	binary string
	logger *zap.Logger
}

var _ DirectoryLocator = (*Zoxide)(nil)

// NewZoxide creates a locator that runs binary, "zoxide" when empty.
func NewZoxide(binary string, logger *zap.Logger) *Zoxide {
	if binary == "" {
		binary = "zoxide"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Zoxide{binary: binary, logger: logger}
}

// Locate implements DirectoryLocator. A failing query returns an error
// wrapping ErrNotFound with the tool's stderr as the message.
func (z *Zoxide) Locate(ctx context.Context, args []string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, z.binary, append([]string{"query"}, args...)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("failed to run %s: %w", z.binary, err)
		}
		msg := strings.TrimSpace(stderr.String())
		z.logger.Debug("locator query failed", zap.Strings("args", args), zap.String("stderr", msg))
		if msg == "" {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, msg)
	}

	dir, _, _ := strings.Cut(strings.TrimSpace(stdout.String()), "\n")
	if dir == "" {
		return "", ErrNotFound
	}
	return dir, nil
}
