package main

import (
	"context"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/judge/internal/executor"
	"github.com/programme-lv/judge/internal/langs"
	"github.com/urfave/cli/v3"
)

type feedbackRow struct {
	lang    string
	tool    string
	healthy bool
	message string
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check that every registered language's toolchain is installed",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFrom(ctx)
			if err != nil {
				return err
			}
			registry, err := loadLanguages(cfg)
			if err != nil {
				return err
			}
			sandboxPath := cfg.SandboxPath
			if sandboxPath == "" {
				sandboxPath = executor.DefaultSandboxPath
			}

			rows := checkLanguages(registry, sandboxPath)
			outputFeedback(rows)
			for _, r := range rows {
				if !r.healthy {
					return cli.Exit("some toolchains are missing", 1)
				}
			}
			return nil
		},
	}
}

func checkLanguages(registry *langs.Registry, sandboxPath string) []feedbackRow {
	var rows []feedbackRow
	for _, id := range registry.IDs() {
		a, _ := registry.Resolve(id)
		tools := []string{}
		if a.Compiled() {
			tools = append(tools, a.CompileCmd[0])
		}
		if !strings.HasPrefix(a.RunCmd[0], "./") && (len(tools) == 0 || tools[0] != a.RunCmd[0]) {
			tools = append(tools, a.RunCmd[0])
		}
		for _, tool := range tools {
			path, err := executor.LookPath(tool, sandboxPath)
			row := feedbackRow{lang: id, tool: tool, healthy: err == nil, message: path}
			if err != nil {
				row.message = err.Error()
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func outputFeedback(rows []feedbackRow) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Language", "Tool", "Status", "Details"})
	for _, r := range rows {
		status := text.FgGreen.Sprint("OK")
		if !r.healthy {
			status = text.FgRed.Sprint("MISSING")
		}
		t.AppendRow(table.Row{r.lang, r.tool, status, r.message})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
