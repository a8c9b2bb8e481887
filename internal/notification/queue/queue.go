// Package queue carries confirmation jobs from the request path to the
// notification workers. Delivery is at-most-once and unordered: a job that
// cannot be queued, or that a worker fails to process, is not retried.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrFull is returned by Enqueue when a bounded queue has no room. The job
	// is dropped.
	ErrFull = errors.New("queue full")
	// ErrClosed is returned once Close has been called.
	ErrClosed = errors.New("queue closed")
	// ErrMalformed is returned by Dequeue for a payload that is not a job.
	// The payload is consumed; callers should skip it and keep going.
	ErrMalformed = errors.New("malformed job")
)

// Job asks for a confirmation email for one signature.
type Job struct {
	SignatureID int64 `json:"signature_id"`
}

// Queue is implemented by every backend. Enqueue must not block on consumers.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Dequeue(ctx context.Context) (Job, error)
	Close() error
}

func encode(job Job) ([]byte, error) {
	return json.Marshal(job)
}

func decode(data []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("decode job: %w: %w", ErrMalformed, err)
	}
	if job.SignatureID <= 0 {
		return Job{}, fmt.Errorf("decode job: missing signature_id: %w", ErrMalformed)
	}
	return job, nil
}
