//go:build windows

package executor

import (
	"context"
	"errors"
	"os/exec"
	"time"
)

// runForeground runs cmd, killing it when ctx is cancelled. Windows has no
// Unix process groups, so there is no terminal handoff.
func runForeground(ctx context.Context, cmd *exec.Cmd, killTimeout time.Duration) error {
	if err := cmd.Start(); err != nil {
		return err
	}

	waitDone := make(chan error, 1)
	go func() {
		waitDone <- cmd.Wait()
	}()

	select {
	case err := <-waitDone:
		return err
	case <-ctx.Done():
		if killTimeout > 0 {
			select {
			case err := <-waitDone:
				return err
			case <-time.After(killTimeout):
			}
		}
		_ = cmd.Process.Kill()
		return <-waitDone
	}
}

func terminalFd(any) int {
	return -1
}

func exitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 0, false
	}
	return exitErr.ExitCode(), true
}
