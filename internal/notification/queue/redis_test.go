package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisQueueSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	queue  *Redis
}

func TestRedisQueueSuite(t *testing.T) {
	suite.Run(t, new(RedisQueueSuite))
}

func (s *RedisQueueSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.queue = NewRedis(s.client, "petitions:notifications", 50*time.Millisecond)
}

func (s *RedisQueueSuite) TearDownTest() {
	_ = s.client.Close()
}

func (s *RedisQueueSuite) TestFirstInFirstOut() {
	ctx := context.Background()
	s.Require().NoError(s.queue.Enqueue(ctx, Job{SignatureID: 1}))
	s.Require().NoError(s.queue.Enqueue(ctx, Job{SignatureID: 2}))

	n, err := s.queue.Len(ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	job, err := s.queue.Dequeue(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), job.SignatureID)

	job, err = s.queue.Dequeue(ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), job.SignatureID)
}

func (s *RedisQueueSuite) TestPayloadIsJSON() {
	s.Require().NoError(s.queue.Enqueue(context.Background(), Job{SignatureID: 7}))

	items, err := s.mr.List("petitions:notifications")
	s.Require().NoError(err)
	s.Equal([]string{`{"signature_id":7}`}, items)
}

func (s *RedisQueueSuite) TestMalformedPayload() {
	_, err := s.mr.Lpush("petitions:notifications", `{"nope":true}`)
	s.Require().NoError(err)

	_, err = s.queue.Dequeue(context.Background())
	s.ErrorIs(err, ErrMalformed)

	n, err := s.queue.Len(context.Background())
	s.Require().NoError(err)
	s.Zero(n, "malformed payload is consumed")
}

func (s *RedisQueueSuite) TestDequeueStopsOnCancel() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	_, err := s.queue.Dequeue(ctx)
	s.Error(err)
}

func (s *RedisQueueSuite) TestClose() {
	s.Require().NoError(s.queue.Close())
	s.ErrorIs(s.queue.Enqueue(context.Background(), Job{SignatureID: 1}), ErrClosed)
	_, err := s.queue.Dequeue(context.Background())
	s.ErrorIs(err, ErrClosed)
}

func (s *RedisQueueSuite) TestEnqueueFailsWhenRedisIsDown() {
	s.mr.Close()
	err := s.queue.Enqueue(context.Background(), Job{SignatureID: 1})
	s.Error(err)
}
