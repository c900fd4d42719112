package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Command is one process to spawn inside a workspace.
type Command struct {
	Argv  []string
	Dir   string
	Env   []string
	Stdin string

	Constraints Constraints
}

// Runner spawns processes under resource constraints.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Outcome, error)
}

// Local runs children directly on this host.
type Local struct{}

func NewLocal() *Local { return &Local{} }

// grace is how long Wait may keep draining pipes after the process group
// was killed.
const grace = 500 * time.Millisecond

// Run starts the command and waits for it to finish or to exhaust its wall
// time. The returned error is non-nil only when the process could not be
// started at all.
func (l *Local) Run(ctx context.Context, command Command) (*Outcome, error) {
	if len(command.Argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	c := command.Constraints
	if c.WallTime <= 0 {
		return nil, fmt.Errorf("wall time limit must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, c.WallTime)
	defer cancel()

	argv := c.wrap(command.Argv)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = command.Dir
	cmd.Env = command.Env
	if cmd.Env == nil {
		cmd.Env = Environ("", nil)
	}
	cmd.Stdin = strings.NewReader(command.Stdin)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = grace

	stdout := &cappedBuffer{limit: c.outputCap()}
	stderr := &cappedBuffer{limit: c.outputCap()}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	slog.Debug("starting process", "argv", command.Argv, "dir", command.Dir,
		"wall", c.WallTime, "as_kib", c.AddressSpaceKiB())

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", command.Argv[0], err)
	}
	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	// reap anything the child left behind in its group
	_ = unix.Kill(-cmd.Process.Pid, unix.SIGKILL)

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, fmt.Errorf("run of %s was cancelled: %w", command.Argv[0], ctx.Err())
	}
	if cmd.ProcessState == nil {
		return nil, fmt.Errorf("failed to wait for %s: %w", command.Argv[0], waitErr)
	}

	out := &Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Elapsed:  elapsed,
		TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
	}

	if ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus); ok {
		out.ExitCode = ws.ExitStatus()
		if ws.Signaled() {
			sig := ws.Signal()
			out.Signal = &sig
		}
	} else {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) && !out.TimedOut {
			return nil, fmt.Errorf("failed to wait for %s: %w", command.Argv[0], waitErr)
		}
	}

	slog.Debug("process finished", "argv0", command.Argv[0], "exit", out.ExitCode,
		"signal", out.Signal, "timed_out", out.TimedOut, "elapsed", elapsed)
	return out, nil
}
