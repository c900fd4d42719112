package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/programme-lv/judge/internal/behave"
	"github.com/urfave/cli/v3"
)

func behaveCommand() *cli.Command {
	return &cli.Command{
		Name:      "behave",
		Usage:     "run behaviour scenarios and compare verdicts",
		ArgsUsage: "<scenarios.toml>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFrom(ctx)
			if err != nil {
				return err
			}
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one scenario file")
			}
			cases, err := behave.Parse(cmd.Args().First())
			if err != nil {
				return err
			}

			w, err := wire(ctx, cfg, wireOpts{print: cmd.Bool("print")})
			if err != nil {
				return err
			}
			defer w.Close()

			failed := 0
			for _, o := range behave.Run(ctx, w.engine, cases) {
				if o.Passed() {
					fmt.Printf("%s %s\n", color.GreenString("PASS"), o.Case.Name)
					continue
				}
				failed++
				fmt.Printf("%s %s: expected %s, got %s\n", color.RedString("FAIL"), o.Case.Name, o.Case.Expect, o.Result.Verdict)
				if o.Result.Output != "" {
					fmt.Printf("     output: %s\n", o.Result.Output)
				}
			}
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d scenarios failed", failed, len(cases)), 1)
			}
			return nil
		},
	}
}
