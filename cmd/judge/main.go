package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/programme-lv/judge/internal/environment"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("judge failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "judge",
		Usage: "compile, run and judge submitted programs",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "env-file", Usage: "extra .env files to load"},
			&cli.StringFlag{Name: "workspace-root", Usage: "directory for per-submission workspaces"},
			&cli.StringFlag{Name: "languages", Usage: "TOML file overriding the language table"},
			&cli.IntFlag{Name: "max-output", Usage: "maximum result output length in characters"},
			&cli.StringFlag{Name: "redis", Usage: "redis address for the status store"},
			&cli.StringFlag{Name: "result-queue", Usage: "SQS queue URL results are published to"},
			&cli.StringFlag{Name: "nats-url", Usage: "NATS server results are published to"},
			&cli.BoolFlag{Name: "print", Usage: "print results to the terminal"},
		},
		Before: setup,
		Commands: []*cli.Command{
			onceCommand(),
			batchCommand(),
			pollCommand(),
			dispatchCommand(),
			behaveCommand(),
			healthCommand(),
		},
	}
}

type cfgKey struct{}

// setup reads the environment, applies flag overrides and installs the
// default logger.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := environment.ReadEnvConfig(cmd.StringSlice("env-file")...)
	if err != nil {
		return ctx, err
	}
	if cmd.IsSet("workspace-root") {
		cfg.WorkspaceRoot = cmd.String("workspace-root")
	}
	if cmd.IsSet("languages") {
		cfg.LanguagesFile = cmd.String("languages")
	}
	if cmd.IsSet("max-output") {
		cfg.MaxOutput = cmd.Int("max-output")
	}
	if cmd.IsSet("redis") {
		cfg.RedisAddr = cmd.String("redis")
	}
	if cmd.IsSet("result-queue") {
		cfg.ResultQueueUrl = cmd.String("result-queue")
	}
	if cmd.IsSet("nats-url") {
		cfg.NatsUrl = cmd.String("nats-url")
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel,
		AddSource:  true,
		TimeFormat: time.DateTime,
	})))

	return context.WithValue(ctx, cfgKey{}, cfg), nil
}

func configFrom(ctx context.Context) (*environment.EnvConfig, error) {
	cfg, ok := ctx.Value(cfgKey{}).(*environment.EnvConfig)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}
