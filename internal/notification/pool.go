package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"petitions/internal/notification/metrics"
	"petitions/internal/notification/queue"
)

const (
	defaultWorkers   = 4
	errorBackoff     = 500 * time.Millisecond
	defaultJobBudget = 30 * time.Second
)

// ConfirmationSender is what a worker does with each job.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, signatureID int64) Outcome
}

// Pool runs workers that drain a queue. Jobs are processed at most once and
// in no particular order.
type Pool struct {
	queue     queue.Queue
	sender    ConfirmationSender
	workers   int
	jobBudget time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type PoolOption func(*Pool)

func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithPoolLogger(logger *slog.Logger) PoolOption {
	return func(p *Pool) { p.logger = logger }
}

func WithPoolMetrics(m *metrics.Metrics) PoolOption {
	return func(p *Pool) { p.metrics = m }
}

// WithJobTimeout bounds a single confirmation attempt.
func WithJobTimeout(d time.Duration) PoolOption {
	return func(p *Pool) {
		if d > 0 {
			p.jobBudget = d
		}
	}
}

func NewPool(q queue.Queue, sender ConfirmationSender, opts ...PoolOption) *Pool {
	p := &Pool{
		queue:     q,
		sender:    sender,
		workers:   defaultWorkers,
		jobBudget: defaultJobBudget,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run blocks until ctx is cancelled or the queue is closed. A job already
// taken by a worker finishes before Run returns.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		worker := i
		g.Go(func() error {
			return p.work(ctx, worker)
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, queue.ErrClosed) {
		return nil
	}
	return err
}

func (p *Pool) work(ctx context.Context, worker int) error {
	for {
		job, err := p.queue.Dequeue(ctx)
		switch {
		case err == nil:
		case errors.Is(err, queue.ErrClosed), ctx.Err() != nil:
			return nil
		case errors.Is(err, queue.ErrMalformed):
			p.logger.WarnContext(ctx, "skipping malformed notification job", "worker", worker, "error", err)
			continue
		default:
			p.logger.ErrorContext(ctx, "notification queue error", "worker", worker, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(errorBackoff):
			}
			continue
		}

		p.process(ctx, worker, job)
	}
}

// process runs one attempt detached from ctx cancellation so shutdown does
// not abort a send halfway.
func (p *Pool) process(ctx context.Context, worker int, job queue.Job) {
	p.metrics.JobStarted()
	defer p.metrics.JobFinished()

	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.jobBudget)
	defer cancel()

	outcome := p.sender.SendConfirmation(jobCtx, job.SignatureID)
	level := slog.LevelInfo
	if outcome.Status != StatusSent {
		level = slog.LevelWarn
	}
	p.logger.Log(ctx, level, outcome.Message,
		"worker", worker,
		"signature_id", job.SignatureID,
		"status", string(outcome.Status),
	)
}
