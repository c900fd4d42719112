package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/dispatch"
	"github.com/programme-lv/judge/internal/intake"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func onceCommand() *cli.Command {
	return &cli.Command{
		Name:  "once",
		Usage: "judge the single submission described by SUBMISSION_ID, SOURCE_CODE, LANGUAGE, ... and exit",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFrom(ctx)
			if err != nil {
				return err
			}
			subm, err := dispatch.FromEnv(os.LookupEnv)
			if err != nil {
				return err
			}
			slog.Info("judging single submission", "submission", subm.SubmissionId, "language", subm.Language,
				"source_len", len(subm.SourceCode), "input_len", len(subm.Stdin))

			w, err := wire(ctx, cfg, wireOpts{print: cmd.Bool("print")})
			if err != nil {
				return err
			}
			defer w.Close()

			res := w.engine.Judge(ctx, *subm)
			return printJSON(os.Stdout, res)
		},
	}
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "judge submissions from a JSON array or JSON lines file one after another",
		ArgsUsage: "<file|->",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFrom(ctx)
			if err != nil {
				return err
			}
			subms, err := readSubmissions(cmd.Args().First())
			if err != nil {
				return err
			}

			w, err := wire(ctx, cfg, wireOpts{print: cmd.Bool("print")})
			if err != nil {
				return err
			}
			defer w.Close()

			results := w.engine.JudgeBatch(ctx, subms)
			slog.Info("batch finished", "count", len(results), "summary", w.collected.Summary())
			return printJSON(os.Stdout, results)
		},
	}
}

func pollCommand() *cli.Command {
	return &cli.Command{
		Name:  "poll",
		Usage: "long-poll the submission queue and judge what arrives",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "queue", Usage: "SQS submission queue URL (default SUBMISSION_QUEUE_URL)"},
			&cli.BoolFlag{Name: "dispatch", Usage: "judge every submission in its own child process"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFrom(ctx)
			if err != nil {
				return err
			}
			queueUrl := cfg.SubmissionQueueUrl
			if cmd.IsSet("queue") {
				queueUrl = cmd.String("queue")
			}
			if queueUrl == "" {
				return fmt.Errorf("submission queue URL is required")
			}

			var proc *dispatch.Process
			opts := wireOpts{print: cmd.Bool("print")}
			if cmd.Bool("dispatch") {
				proc, err = dispatch.NewSelfProcess(os.Environ())
				if err != nil {
					return err
				}
				opts.dispatcher = proc
			}

			w, err := wire(ctx, cfg, opts)
			if err != nil {
				return err
			}
			defer w.Close()

			awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.AwsRegion))
			if err != nil {
				return fmt.Errorf("unable to load SDK config: %w", err)
			}
			poller := intake.NewPoller(sqs.NewFromConfig(awsCfg), queueUrl, w.engine)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return poller.Run(gctx) })
			err = g.Wait()
			if proc != nil {
				slog.Info("waiting for dispatched instances")
				proc.Wait()
			}
			return err
		},
	}
}

func dispatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "dispatch",
		Usage:     "start one judge instance per submission in the file",
		ArgsUsage: "<file|->",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFrom(ctx)
			if err != nil {
				return err
			}
			subms, err := readSubmissions(cmd.Args().First())
			if err != nil {
				return err
			}
			proc, err := dispatch.NewSelfProcess(os.Environ())
			if err != nil {
				return err
			}

			w, err := wire(ctx, cfg, wireOpts{print: cmd.Bool("print"), dispatcher: proc})
			if err != nil {
				return err
			}
			defer w.Close()

			for _, subm := range subms {
				w.engine.Submit(ctx, subm)
			}
			proc.Wait()
			return nil
		},
	}
}

func readSubmissions(path string) ([]api.Submission, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open submissions: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}
	return parseSubmissions(data)
}

// parseSubmissions accepts either a JSON array or one JSON object per line.
func parseSubmissions(data []byte) ([]api.Submission, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var subms []api.Submission
		if err := json.Unmarshal(trimmed, &subms); err != nil {
			return nil, fmt.Errorf("failed to parse submissions: %w", err)
		}
		return subms, nil
	}

	var subms []api.Submission
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		subm, err := api.DecodeSubmission([]byte(text), api.EncodingJSON)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		subms = append(subms, *subm)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan submissions: %w", err)
	}
	return subms, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
