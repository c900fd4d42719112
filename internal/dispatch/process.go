package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/programme-lv/judge/api"
)

// Dispatcher provisions one isolated instance per submission.
type Dispatcher interface {
	Dispatch(ctx context.Context, subm api.Submission) error
}

// Process starts a fresh judge process per submission with the submission
// injected through its environment. The child judges exactly one submission
// and exits.
type Process struct {
	// Argv launches the single-submission mode, e.g. ["judge", "once"].
	Argv []string
	// BaseEnv is passed to every instance in addition to the submission.
	// Variables that collide with submission fields are dropped.
	BaseEnv []string

	wg sync.WaitGroup
}

func NewProcess(argv []string, baseEnv []string) *Process {
	return &Process{Argv: argv, BaseEnv: baseEnv}
}

// NewSelfProcess dispatches to this very binary's "once" command.
func NewSelfProcess(baseEnv []string) (*Process, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate own executable: %w", err)
	}
	return NewProcess([]string{self, "once"}, baseEnv), nil
}

func (p *Process) Dispatch(ctx context.Context, subm api.Submission) error {
	if len(p.Argv) == 0 {
		return fmt.Errorf("dispatch command is empty")
	}
	cmd := exec.Command(p.Argv[0], p.Argv[1:]...)
	cmd.Env = append(filterEnv(p.BaseEnv), ToEnv(subm)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start instance: %w", err)
	}
	slog.Info("started judge instance", "submission", subm.SubmissionId, "pid", cmd.Process.Pid)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := cmd.Wait(); err != nil {
			slog.Error("judge instance failed", "submission", subm.SubmissionId, "error", err)
		}
	}()
	return nil
}

// Wait blocks until every dispatched instance has exited.
func (p *Process) Wait() {
	p.wg.Wait()
}

var descriptorVars = map[string]bool{
	EnvSubmissionId: true, EnvSourceCode: true, EnvLanguage: true, EnvInput: true,
	EnvExpectedOutput: true, EnvCallbackURL: true, EnvTimeLimit: true, EnvMemoryLimit: true,
}

func filterEnv(env []string) []string {
	res := make([]string, 0, len(env))
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		if descriptorVars[name] {
			continue
		}
		res = append(res, kv)
	}
	return res
}
