//go:build !windows

package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/term"
)

var ignoreTTOU sync.Once

// runForeground runs cmd with proper job control when its stdin is a
// terminal. The child is placed in its own process group and made the
// foreground process group of the terminal, so Ctrl+C reaches the child and
// ghostsh keeps running after it exits. Without a terminal cmd simply runs.
//
// When ctx is cancelled the child's group gets SIGINT, then SIGKILL after
// killTimeout (immediately when negative).
func runForeground(ctx context.Context, cmd *exec.Cmd, killTimeout time.Duration) error {
	ttyFd := terminalFd(cmd.Stdin)
	if ttyFd < 0 {
		return runWithContext(ctx, cmd, killTimeout, func(sig syscall.Signal) {
			_ = cmd.Process.Signal(sig)
		})
	}

	// Taking the terminal back from a background group raises SIGTTOU.
	ignoreTTOU.Do(func() { signal.Ignore(syscall.SIGTTOU) })

	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	originalPgrp, _ := tcgetpgrp(ttyFd)

	err := runWithContext(ctx, cmd, killTimeout, func(sig syscall.Signal) {
		_ = syscall.Kill(-cmd.Process.Pid, sig)
	}, func() {
		_ = tcsetpgrp(ttyFd, cmd.Process.Pid)
	})

	if originalPgrp > 0 {
		_ = tcsetpgrp(ttyFd, originalPgrp)
	}
	return err
}

func runWithContext(ctx context.Context, cmd *exec.Cmd, killTimeout time.Duration, kill func(syscall.Signal), started ...func()) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	for _, fn := range started {
		fn()
	}

	waitDone := make(chan error, 1)
	go func() {
		waitDone <- cmd.Wait()
	}()

	select {
	case err := <-waitDone:
		return err
	case <-ctx.Done():
		if killTimeout < 0 {
			kill(syscall.SIGKILL)
			return <-waitDone
		}
		kill(syscall.SIGINT)
		select {
		case err := <-waitDone:
			return err
		case <-time.After(killTimeout):
			kill(syscall.SIGKILL)
			return <-waitDone
		}
	}
}

func terminalFd(stdin any) int {
	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return -1
	}
	return int(f.Fd())
}

// exitCode maps a finished command's error onto a shell exit status. Death by
// signal is reported as 128+signal.
func exitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 0, false
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal()), true
	}
	return exitErr.ExitCode(), true
}

// tcgetpgrp returns the foreground process group ID of the terminal.
func tcgetpgrp(fd int) (int, error) {
	var pgrp int32
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), syscall.TIOCGPGRP, uintptr(unsafe.Pointer(&pgrp)))
	if errno != 0 {
		return 0, errno
	}
	return int(pgrp), nil
}

// tcsetpgrp sets the foreground process group ID of the terminal.
func tcsetpgrp(fd int, pgrp int) error {
	pgrp32 := int32(pgrp)
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), syscall.TIOCSPGRP, uintptr(unsafe.Pointer(&pgrp32)))
	if errno != 0 {
		return errno
	}
	return nil
}
