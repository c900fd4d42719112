package engine

import (
	"context"
	"fmt"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/dispatch"
	"github.com/programme-lv/judge/internal/executor"
	"github.com/programme-lv/judge/internal/langs"
	"github.com/programme-lv/judge/internal/workspace"
	"github.com/programme-lv/judge/pkg/messaging/statuses"
)

// StatusStore records where a submission is in its lifecycle.
type StatusStore interface {
	SetStatus(ctx context.Context, id string, status statuses.Status) error
	SetFinal(ctx context.Context, id string, verdict api.Verdict, output string) error
}

// ResultSink receives every terminal result. Delivery guarantees belong to
// the sink; the engine logs a failed publish and moves on.
type ResultSink interface {
	Publish(ctx context.Context, res *api.Result) error
}

const DefaultMaxOutput = 1000

type Config struct {
	Languages  *langs.Registry
	Workspaces *workspace.Manager
	Runner     executor.Runner
	Status     StatusStore
	Sink       ResultSink

	// Dispatcher, when set, makes Submit hand submissions to a separate
	// instance instead of judging them here.
	Dispatcher dispatch.Dispatcher

	// MaxOutput is the rune length results are cut to.
	MaxOutput int

	DefaultTimeLimitSeconds float64
	DefaultMemoryLimitMb    int

	// SandboxPath is the PATH handed to child processes.
	SandboxPath string
}

func (c *Config) validate() error {
	if c.Languages == nil {
		return fmt.Errorf("language registry is required")
	}
	if c.Workspaces == nil {
		return fmt.Errorf("workspace manager is required")
	}
	if c.Runner == nil {
		return fmt.Errorf("runner is required")
	}
	if c.Status == nil {
		return fmt.Errorf("status store is required")
	}
	if c.Sink == nil {
		return fmt.Errorf("result sink is required")
	}
	return nil
}

// Engine judges submissions one at a time.
type Engine struct {
	cfg Config
}

func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MaxOutput <= 0 {
		cfg.MaxOutput = DefaultMaxOutput
	}
	if cfg.DefaultTimeLimitSeconds <= 0 {
		cfg.DefaultTimeLimitSeconds = api.DefaultTimeLimitSeconds
	}
	if cfg.DefaultMemoryLimitMb <= 0 {
		cfg.DefaultMemoryLimitMb = api.DefaultMemoryLimitMb
	}
	if cfg.SandboxPath == "" {
		cfg.SandboxPath = executor.DefaultSandboxPath
	}
	return &Engine{cfg: cfg}, nil
}
