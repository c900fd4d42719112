package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/executor"
	"github.com/programme-lv/judge/internal/langs"
	"github.com/programme-lv/judge/internal/verdict"
	"github.com/programme-lv/judge/pkg/messaging/statuses"
)

// Judge runs one submission through its whole lifecycle and always returns a
// terminal result. Cancelling ctx does not interrupt it; only the time
// limits do.
func (e *Engine) Judge(ctx context.Context, subm api.Submission) *api.Result {
	ctx = context.WithoutCancel(ctx)
	subm = subm.WithDefaults(e.cfg.DefaultTimeLimitSeconds, e.cfg.DefaultMemoryLimitMb)
	log := slog.With("submission", subm.SubmissionId, "language", subm.Language)

	if err := e.cfg.Status.SetStatus(ctx, subm.SubmissionId, statuses.Processing); err != nil {
		log.Error("failed to set processing status", "error", err)
	}

	start := time.Now()
	v, output := e.evaluate(ctx, subm, log)
	log.Info("judged submission", "verdict", v, "elapsed", time.Since(start).Round(time.Millisecond))

	res := assemble(subm, v, output, e.cfg.MaxOutput)
	e.emit(ctx, res, log)
	return res
}

// emit publishes the result and then writes the terminal status.
func (e *Engine) emit(ctx context.Context, res *api.Result, log *slog.Logger) {
	if err := e.cfg.Sink.Publish(ctx, res); err != nil {
		log.Error("failed to publish result", "error", err)
	}
	if err := e.cfg.Status.SetFinal(ctx, res.SubmissionId, res.Verdict, res.Output); err != nil {
		log.Error("failed to set final status", "error", err)
	}
}

// evaluate never panics; faults turn into runtime errors.
func (e *Engine) evaluate(ctx context.Context, subm api.Submission, log *slog.Logger) (v api.Verdict, output string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic while judging", "panic", r, "stack", string(debug.Stack()))
			v, output = api.RuntimeError, fmt.Sprint(r)
		}
	}()

	adapter, err := e.cfg.Languages.Resolve(subm.Language)
	if err != nil {
		if errors.Is(err, langs.ErrNotFound) {
			return api.RuntimeError, fmt.Sprintf("Unsupported language: %s", subm.Language)
		}
		return api.RuntimeError, err.Error()
	}

	log.Debug("creating workspace")
	ws, err := e.cfg.Workspaces.Acquire(adapter.SourceFname, subm.SourceCode)
	if err != nil {
		return api.RuntimeError, err.Error()
	}
	defer e.cfg.Workspaces.Release(ws)
	log = log.With("workspace", ws.ID())

	env := executor.Environ(e.cfg.SandboxPath, adapter.Environ(ws.Dir()))

	if adapter.Compiled() {
		log.Debug("compiling")
		out, err := e.cfg.Runner.Run(ctx, executor.Command{
			Argv: adapter.CompileArgv(ws.Dir()),
			Dir:  ws.Dir(),
			Env:  env,
			Constraints: executor.Constraints{
				WallTime: adapter.CompileTimeout,
			},
		})
		if err != nil {
			return api.RuntimeError, err.Error()
		}
		log.Debug("compiled", "exit_code", out.ExitCode, "elapsed", out.Elapsed.Round(time.Millisecond))
		if ok, msg := executor.ClassifyCompile(out, adapter.CompileTimeout); !ok {
			return api.CompilationError, msg
		}
	}

	log.Debug("running")
	out, err := e.cfg.Runner.Run(ctx, executor.Command{
		Argv:  adapter.RunArgv(ws.Dir(), subm.MemoryLimitMb),
		Dir:   ws.Dir(),
		Env:   env,
		Stdin: subm.Stdin,
		Constraints: executor.Constraints{
			WallTime:               subm.TimeLimit(),
			MemoryLimitMb:          subm.MemoryLimitMb,
			AddressSpaceHeadroomMb: adapter.AddressSpaceHeadroomMb,
		},
	})
	if err != nil {
		return api.RuntimeError, err.Error()
	}

	log.Debug("ran", "exit_code", out.ExitCode, "timed_out", out.TimedOut, "elapsed", out.Elapsed.Round(time.Millisecond))
	provisional, output := executor.ClassifyRun(out)
	return verdict.Settle(provisional, output, subm.ExpectedOutput)
}
