package service

import (
	"context"
	"sync"
	"time"

	dErrors "petitions/pkg/domain-errors"
)

// PetitionStoreTx provides a transactional boundary for store mutations.
// Implementations may wrap a database transaction or, in memory, a lock.
// fn must use the ctx and store it is handed.
type PetitionStoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// numPetitionShards spreads in-memory transactions across locks keyed by
// petition id, so signers of different petitions do not contend.
const numPetitionShards = 64

// defaultTxTimeout is the maximum duration for a petition transaction.
const defaultTxTimeout = 5 * time.Second

type shardedPetitionTx struct {
	shards  [numPetitionShards]sync.Mutex
	store   Store
	timeout time.Duration
}

// NewShardedTx serializes transactions per petition over a store that has no
// transactions of its own.
func NewShardedTx(store Store) PetitionStoreTx {
	return &shardedPetitionTx{store: store}
}

func (t *shardedPetitionTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := t.selectShard(ctx)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx, t.store)
}

// selectShard picks a shard from the petition id in context, or shard 0.
func (t *shardedPetitionTx) selectShard(ctx context.Context) int {
	if petitionID, ok := ctx.Value(txPetitionKeyCtx).(int64); ok && petitionID > 0 {
		return int(petitionID % numPetitionShards)
	}
	return 0
}

type txPetitionKey struct{}

var txPetitionKeyCtx = txPetitionKey{}

// withPetitionKey tags ctx so the in-memory tx locks the petition's shard.
func withPetitionKey(ctx context.Context, petitionID int64) context.Context {
	return context.WithValue(ctx, txPetitionKeyCtx, petitionID)
}
