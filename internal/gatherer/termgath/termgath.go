package termgath

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/programme-lv/judge/api"
)

const (
	maxPreviewHeight = 10
	maxPreviewWidth  = 80
)

// TerminalGatherer prints results as they arrive.
type TerminalGatherer struct {
	mu  sync.Mutex
	out io.Writer
}

func New() *TerminalGatherer { return &TerminalGatherer{out: os.Stdout} }

func NewWriter(w io.Writer) *TerminalGatherer { return &TerminalGatherer{out: w} }

var verdictColors = map[api.Verdict]*color.Color{
	api.Accepted:            color.New(color.FgGreen, color.Bold),
	api.WrongAnswer:         color.New(color.FgRed, color.Bold),
	api.RuntimeError:        color.New(color.FgRed),
	api.CompilationError:    color.New(color.FgMagenta),
	api.TimeLimitExceeded:   color.New(color.FgYellow),
	api.MemoryLimitExceeded: color.New(color.FgYellow),
}

// Publish implements engine.ResultSink.
func (t *TerminalGatherer) Publish(_ context.Context, res *api.Result) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := verdictColors[res.Verdict]
	if !ok {
		c = color.New(color.Reset)
	}
	fmt.Fprintf(t.out, "== %s: %s ==\n", res.SubmissionId, c.Sprint(res.Verdict))
	if res.Output != "" {
		for _, line := range strings.Split(trimStrToRect(res.Output, maxPreviewHeight, maxPreviewWidth), "\n") {
			fmt.Fprintf(t.out, "  %s\n", line)
		}
	}
	if res.CallbackTarget != nil {
		fmt.Fprintf(t.out, "  callback: %s\n", *res.CallbackTarget)
	}
	return nil
}

func trimStrToRect(s string, maxHeight int, maxWidth int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
		lines = append(lines, "[...]")
	}
	for i, line := range lines {
		if len(line) > maxWidth {
			lines[i] = line[:maxWidth] + "[...]"
		}
	}
	return strings.Join(lines, "\n")
}
