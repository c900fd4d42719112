package executor

import (
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/programme-lv/judge/api"
	"golang.org/x/sys/unix"
)

// Outcome is the raw result of one process.
type Outcome struct {
	ExitCode int
	Signal   *syscall.Signal
	Stdout   string
	Stderr   string
	Elapsed  time.Duration
	TimedOut bool
}

// Fixed diagnostics reported instead of process output.
const (
	MsgTimeLimit      = "Time Limit Exceeded"
	MsgMemoryLimit    = "Memory Limit Exceeded"
	MsgNoErrorMessage = "Runtime error (no error message)"
)

// allocFailureMarkers are printed by runtimes that fail an allocation
// against the address space ceiling instead of being killed.
var allocFailureMarkers = []string{
	"std::bad_alloc",
	"MemoryError",
	"java.lang.OutOfMemoryError",
	"JavaScript heap out of memory",
	"runtime: out of memory",
	"runtime: cannot allocate memory",
}

func (o *Outcome) memoryExhausted() bool {
	if o.Signal != nil && (*o.Signal == unix.SIGKILL || *o.Signal == unix.SIGSEGV) {
		return true
	}
	for _, marker := range allocFailureMarkers {
		if strings.Contains(o.Stderr, marker) {
			return true
		}
	}
	return false
}

// ClassifyRun maps a run phase outcome to a verdict. Accepted is provisional
// and carries the raw stdout for comparison.
func ClassifyRun(o *Outcome) (api.Verdict, string) {
	switch {
	case o.TimedOut:
		return api.TimeLimitExceeded, MsgTimeLimit
	case o.ExitCode == 0 && o.Signal == nil:
		return api.Accepted, o.Stdout
	case o.memoryExhausted():
		return api.MemoryLimitExceeded, MsgMemoryLimit
	}
	msg := strings.TrimSpace(o.Stderr)
	if msg == "" {
		msg = MsgNoErrorMessage
	}
	return api.RuntimeError, msg
}

// ClassifyCompile reports whether a compile step succeeded and, if not, the
// diagnostic to show.
func ClassifyCompile(o *Outcome, timeout time.Duration) (ok bool, msg string) {
	if o.TimedOut {
		return false, fmt.Sprintf("Compilation timeout (%gs exceeded)", timeout.Seconds())
	}
	if o.ExitCode == 0 && o.Signal == nil {
		return true, ""
	}
	if o.Stderr != "" {
		return false, o.Stderr
	}
	if o.Stdout != "" {
		return false, o.Stdout
	}
	return false, fmt.Sprintf("Compilation failed with exit code %d", o.ExitCode)
}
