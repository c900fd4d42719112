package statusstore

import (
	"context"
	"slices"
	"time"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/pkg/messaging/statuses"
	"github.com/puzpuzpuz/xsync/v3"
)

// Memory keeps statuses in process. Used by the CLI batch mode and tests.
type Memory struct {
	entries *xsync.MapOf[string, Entry]
}

func NewMemory() *Memory {
	return &Memory{entries: xsync.NewMapOf[string, Entry]()}
}

func (m *Memory) SetStatus(_ context.Context, id string, status statuses.Status) error {
	m.entries.Compute(id, func(old Entry, _ bool) (Entry, bool) {
		old.Status = status
		old.UpdatedAt = time.Now()
		old.History = append(slices.Clone(old.History), status)
		return old, false
	})
	return nil
}

func (m *Memory) SetFinal(_ context.Context, id string, verdict api.Verdict, output string) error {
	status := statuses.FromVerdict(verdict)
	m.entries.Compute(id, func(old Entry, _ bool) (Entry, bool) {
		old.Status = status
		old.Output = output
		old.UpdatedAt = time.Now()
		old.History = append(slices.Clone(old.History), status)
		return old, false
	})
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*Entry, bool, error) {
	e, ok := m.entries.Load(id)
	if !ok {
		return nil, false, nil
	}
	e.History = slices.Clone(e.History)
	return &e, true, nil
}
