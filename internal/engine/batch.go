package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/pkg/messaging/statuses"
)

// JudgeBatch judges submissions strictly one after another. Once ctx is
// cancelled the submission in progress is finished and the rest are left
// untouched, so the returned slice may be shorter than subms.
func (e *Engine) JudgeBatch(ctx context.Context, subms []api.Submission) []*api.Result {
	results := make([]*api.Result, 0, len(subms))
	for i, subm := range subms {
		if ctx.Err() != nil {
			slog.Warn("batch interrupted", "judged", i, "skipped", len(subms)-i)
			break
		}
		slog.Info("judging batch item", "index", i+1, "of", len(subms), "submission", subm.SubmissionId)
		results = append(results, e.Judge(ctx, subm))
	}
	return results
}

// Submit judges the submission here, or hands it to the dispatcher when one
// is configured. A submission that cannot be dispatched still gets a terminal
// result. The returned result is nil when the submission was dispatched.
func (e *Engine) Submit(ctx context.Context, subm api.Submission) *api.Result {
	if e.cfg.Dispatcher == nil {
		return e.Judge(ctx, subm)
	}

	log := slog.With("submission", subm.SubmissionId, "language", subm.Language)
	if err := e.cfg.Status.SetStatus(ctx, subm.SubmissionId, statuses.Pending); err != nil {
		log.Error("failed to set pending status", "error", err)
	}
	if err := e.cfg.Dispatcher.Dispatch(ctx, subm); err != nil {
		log.Error("failed to dispatch submission", "error", err)
		res := assemble(subm, api.RuntimeError, fmt.Sprintf("failed to dispatch: %v", err), e.cfg.MaxOutput)
		e.emit(context.WithoutCancel(ctx), res, log)
		return res
	}
	log.Info("dispatched submission")
	return nil
}
