//go:build integration

package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"petitions/internal/notification/queue"
	"petitions/pkg/testutil/containers"
)

type KafkaQueueSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaQueueSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaQueueSuite))
}

func (s *KafkaQueueSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaQueueSuite) newQueue(topic string) *queue.Kafka {
	q, err := queue.NewKafka(queue.KafkaConfig{
		Brokers: []string{s.redpanda.Broker},
		Topic:   topic,
		Group:   topic + "-workers",
		OnProduceError: func(job queue.Job, err error) {
			s.T().Errorf("produce job %d: %v", job.SignatureID, err)
		},
	})
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = q.Close() })
	return q
}

func (s *KafkaQueueSuite) TestRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	topic := fmt.Sprintf("petition-notifications-%d", time.Now().UnixNano())
	q := s.newQueue(topic)
	s.Require().NoError(q.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(q.EnsureTopic(ctx, 1, 1), "ensuring an existing topic is a no-op")

	for id := int64(1); id <= 3; id++ {
		s.Require().NoError(q.Enqueue(ctx, queue.Job{SignatureID: id}))
	}

	seen := make(map[int64]bool)
	for len(seen) < 3 {
		job, err := q.Dequeue(ctx)
		s.Require().NoError(err)
		seen[job.SignatureID] = true
	}
	s.Equal(map[int64]bool{1: true, 2: true, 3: true}, seen)
}

func (s *KafkaQueueSuite) TestCloseStopsDequeue() {
	q := s.newQueue(fmt.Sprintf("petition-close-%d", time.Now().UnixNano()))
	s.Require().NoError(q.Close())

	_, err := q.Dequeue(context.Background())
	s.ErrorIs(err, queue.ErrClosed)
	s.ErrorIs(q.Enqueue(context.Background(), queue.Job{SignatureID: 1}), queue.ErrClosed)
}
