package statusstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/pkg/messaging/statuses"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "judge:submission:"

	fieldStatus    = "status"
	fieldOutput    = "output"
	fieldUpdatedAt = "updatedAt"
)

// Redis keeps one hash per submission.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

type RedisOption func(*Redis)

// WithTTL expires submission hashes after d. Zero keeps them forever.
func WithTTL(d time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = d }
}

func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dial connects to a single redis node and checks that it answers.
func Dial(ctx context.Context, addr string, opts ...RedisOption) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return NewRedis(client, opts...), nil
}

func (r *Redis) key(id string) string {
	return r.prefix + id
}

func (r *Redis) SetStatus(ctx context.Context, id string, status statuses.Status) error {
	return r.write(ctx, id, fieldStatus, string(status))
}

// SetFinal writes the verdict and output in one transaction so readers never
// see a terminal status without its output.
func (r *Redis) SetFinal(ctx context.Context, id string, verdict api.Verdict, output string) error {
	return r.write(ctx, id,
		fieldStatus, string(statuses.FromVerdict(verdict)),
		fieldOutput, output,
	)
}

func (r *Redis) write(ctx context.Context, id string, fields ...any) error {
	key := r.key(id)
	fields = append(fields, fieldUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano))
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields...)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write status of %s: %w", id, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (*Entry, bool, error) {
	vals, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read status of %s: %w", id, err)
	}
	if len(vals) == 0 {
		return nil, false, nil
	}
	e := &Entry{
		Status: statuses.Status(vals[fieldStatus]),
		Output: vals[fieldOutput],
	}
	if ts, ok := vals[fieldUpdatedAt]; ok {
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return e, true, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
