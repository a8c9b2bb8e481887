package queue

import (
	"context"
	"sync"
)

const DefaultCapacity = 1024

// Memory is a bounded in-process queue backed by a buffered channel.
type Memory struct {
	jobs      chan Job
	done      chan struct{}
	closeOnce sync.Once
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		jobs: make(chan Job, capacity),
		done: make(chan struct{}),
	}
}

// Enqueue never blocks; a full buffer yields ErrFull.
func (q *Memory) Enqueue(ctx context.Context, job Job) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrFull
	}
}

func (q *Memory) Dequeue(ctx context.Context) (Job, error) {
	select {
	case <-ctx.Done():
		return Job{}, ctx.Err()
	case <-q.done:
		return Job{}, ErrClosed
	case job := <-q.jobs:
		return job, nil
	}
}

// Len reports buffered jobs.
func (q *Memory) Len() int {
	return len(q.jobs)
}

func (q *Memory) Close() error {
	q.closeOnce.Do(func() { close(q.done) })
	return nil
}
