package gatherer

import (
	"context"
	"errors"

	"github.com/programme-lv/judge/api"
	"golang.org/x/sync/errgroup"
)

// Sink is the engine's result sink contract.
type Sink interface {
	Publish(ctx context.Context, res *api.Result) error
}

// Fanout publishes every result to all sinks concurrently.
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, res *api.Result) error {
	errs := make([]error, len(f))
	var g errgroup.Group
	for i, s := range f {
		g.Go(func() error {
			errs[i] = s.Publish(ctx, res)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
