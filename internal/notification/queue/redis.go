package queue

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPoll = time.Second

// Redis queues jobs on a list: producers LPUSH, workers BRPOP, so the oldest
// job is served first. The client is owned by the caller.
type Redis struct {
	client redis.Cmdable
	key    string
	poll   time.Duration
	closed atomic.Bool
}

// NewRedis builds a Redis list queue. poll bounds each BRPOP so Dequeue
// notices Close and cancellation; zero means one second.
func NewRedis(client redis.Cmdable, key string, poll time.Duration) *Redis {
	if poll <= 0 {
		poll = defaultRedisPoll
	}
	return &Redis{client: client, key: key, poll: poll}
}

func (q *Redis) Enqueue(ctx context.Context, job Job) error {
	if q.closed.Load() {
		return ErrClosed
	}
	payload, err := encode(job)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("redis lpush: %w", err)
	}
	return nil
}

func (q *Redis) Dequeue(ctx context.Context) (Job, error) {
	for {
		if q.closed.Load() {
			return Job{}, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return Job{}, err
		}

		res, err := q.client.BRPop(ctx, q.poll, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Job{}, ctxErr
			}
			return Job{}, fmt.Errorf("redis brpop: %w", err)
		}
		// BRPOP replies with [key, value].
		if len(res) != 2 {
			return Job{}, fmt.Errorf("redis brpop: unexpected reply length %d: %w", len(res), ErrMalformed)
		}
		return decode([]byte(res[1]))
	}
}

// Len reports queued jobs.
func (q *Redis) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

func (q *Redis) Close() error {
	q.closed.Store(true)
	return nil
}
