package respbuilder

import (
	"context"
	"sync"

	"github.com/programme-lv/judge/api"
)

// Builder gathers published results in memory.
type Builder struct {
	mu      sync.Mutex
	results []*api.Result
}

func New() *Builder {
	return &Builder{}
}

// Publish implements engine.ResultSink.
func (b *Builder) Publish(_ context.Context, res *api.Result) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := *res
	b.results = append(b.results, &cp)
	return nil
}

// Results returns the gathered results in publish order.
func (b *Builder) Results() []*api.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	res := make([]*api.Result, len(b.results))
	copy(res, b.results)
	return res
}

// Summary counts results per verdict.
func (b *Builder) Summary() map[api.Verdict]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	counts := make(map[api.Verdict]int)
	for _, r := range b.results {
		counts[r.Verdict]++
	}
	return counts
}
