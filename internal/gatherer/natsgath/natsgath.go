package natsgath

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/judge/api"
)

// publisher is the part of *nats.Conn the gatherer needs.
type publisher interface {
	Publish(subj string, data []byte) error
}

type natsGatherer struct {
	nc      publisher
	subject string
}

// New creates a gatherer that publishes results to the given subject.
func New(nc *nats.Conn, subject string) *natsGatherer {
	return &natsGatherer{nc: nc, subject: subject}
}

func newWithPublisher(p publisher, subject string) *natsGatherer {
	return &natsGatherer{nc: p, subject: subject}
}

// Connect dials the server and returns a gatherer owning the connection.
func Connect(url string, subject string) (*natsGatherer, func(), error) {
	nc, err := nats.Connect(url, nats.Name("judge"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}
	return New(nc, subject), closeFn, nil
}

// Publish implements engine.ResultSink.
func (g *natsGatherer) Publish(_ context.Context, res *api.Result) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := g.nc.Publish(g.subject, b); err != nil {
		return fmt.Errorf("failed to publish result to NATS: %w", err)
	}
	return nil
}
