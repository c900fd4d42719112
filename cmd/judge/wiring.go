package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/programme-lv/judge/internal/dispatch"
	"github.com/programme-lv/judge/internal/engine"
	"github.com/programme-lv/judge/internal/environment"
	"github.com/programme-lv/judge/internal/executor"
	"github.com/programme-lv/judge/internal/gatherer"
	"github.com/programme-lv/judge/internal/gatherer/natsgath"
	"github.com/programme-lv/judge/internal/gatherer/respbuilder"
	"github.com/programme-lv/judge/internal/gatherer/termgath"
	"github.com/programme-lv/judge/internal/langs"
	"github.com/programme-lv/judge/internal/statusstore"
	"github.com/programme-lv/judge/internal/workspace"
	"github.com/programme-lv/judge/sqsgath"
)

type wiring struct {
	engine    *engine.Engine
	collected *respbuilder.Builder
	closers   []func()
}

func (w *wiring) Close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		w.closers[i]()
	}
}

type wireOpts struct {
	print      bool
	dispatcher dispatch.Dispatcher
}

func loadLanguages(cfg *environment.EnvConfig) (*langs.Registry, error) {
	if cfg.LanguagesFile == "" {
		return langs.Default(), nil
	}
	slog.Info("loading language table", "file", cfg.LanguagesFile)
	return langs.LoadFile(cfg.LanguagesFile)
}

func redisOptions(cfg *environment.EnvConfig) []statusstore.RedisOption {
	var opts []statusstore.RedisOption
	if cfg.StatusKeyPrefix != "" {
		opts = append(opts, statusstore.WithKeyPrefix(cfg.StatusKeyPrefix))
	}
	if cfg.StatusTTL > 0 {
		opts = append(opts, statusstore.WithTTL(cfg.StatusTTL))
	}
	return opts
}

func wire(ctx context.Context, cfg *environment.EnvConfig, opts wireOpts) (*wiring, error) {
	w := &wiring{collected: respbuilder.New()}
	ok := false
	defer func() {
		if !ok {
			w.Close()
		}
	}()

	registry, err := loadLanguages(cfg)
	if err != nil {
		return nil, err
	}

	wm, err := workspace.NewManager(cfg.WorkspaceRoot)
	if err != nil {
		return nil, err
	}

	var status engine.StatusStore = statusstore.NewMemory()
	if cfg.RedisAddr != "" {
		slog.Info("connecting to redis", "addr", cfg.RedisAddr)
		rs, err := statusstore.Dial(ctx, cfg.RedisAddr, redisOptions(cfg)...)
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, func() { _ = rs.Close() })
		status = rs
	}

	sinks := gatherer.Fanout{w.collected}
	if cfg.ResultQueueUrl != "" {
		sg, err := sqsgath.NewSqsResultQueueGatherer(ctx, cfg.AwsRegion, cfg.ResultQueueUrl)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sg)
	}
	if cfg.NatsUrl != "" {
		slog.Info("connecting to nats", "url", cfg.NatsUrl)
		ng, closeFn, err := natsgath.Connect(cfg.NatsUrl, cfg.NatsSubject)
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, closeFn)
		sinks = append(sinks, ng)
	}
	if opts.print {
		sinks = append(sinks, termgath.New())
	}

	w.engine, err = engine.New(engine.Config{
		Languages:               registry,
		Workspaces:              wm,
		Runner:                  executor.NewLocal(),
		Status:                  status,
		Sink:                    sinks,
		Dispatcher:              opts.dispatcher,
		MaxOutput:               cfg.MaxOutput,
		DefaultTimeLimitSeconds: cfg.DefaultTimeLimitSeconds,
		DefaultMemoryLimitMb:    cfg.DefaultMemoryLimitMb,
		SandboxPath:             cfg.SandboxPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	ok = true
	return w, nil
}
