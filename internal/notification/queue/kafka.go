package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaConfig configures the Kafka queue.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
	// OnProduceError observes asynchronous produce failures. The job is lost.
	OnProduceError func(job Job, err error)
}

// Kafka publishes jobs to one topic and consumes them as a consumer group.
// Offsets are auto-committed, so a job handed to a worker is not redelivered.
type Kafka struct {
	client  *kgo.Client
	topic   string
	onError func(Job, error)
	closed  atomic.Bool

	mu      sync.Mutex
	pending []*kgo.Record
}

// NewKafka connects to the brokers and joins the consumer group.
func NewKafka(cfg KafkaConfig, opts ...kgo.Opt) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka queue: no brokers")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka queue: no topic")
	}
	base := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ConsumeTopics(cfg.Topic),
	}
	if cfg.Group != "" {
		base = append(base, kgo.ConsumerGroup(cfg.Group))
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	onError := cfg.OnProduceError
	if onError == nil {
		onError = func(Job, error) {}
	}
	return &Kafka{client: client, topic: cfg.Topic, onError: onError}, nil
}

// EnsureTopic creates the topic when it does not exist yet.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32, replicationFactor int16) error {
	if partitions <= 0 {
		partitions = 1
	}
	if replicationFactor <= 0 {
		replicationFactor = 1
	}
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, partitions, replicationFactor, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// EnsureTopic creates the queue's topic if needed.
func (q *Kafka) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	return EnsureTopic(ctx, q.client, q.topic, partitions, replicationFactor)
}

// Enqueue hands the record to the producer buffer without waiting for the
// broker. Delivery failures, including a full buffer, reach OnProduceError.
func (q *Kafka) Enqueue(ctx context.Context, job Job) error {
	if q.closed.Load() {
		return ErrClosed
	}
	payload, err := encode(job)
	if err != nil {
		return err
	}
	record := &kgo.Record{
		Topic: q.topic,
		Key:   []byte(strconv.FormatInt(job.SignatureID, 10)),
		Value: payload,
	}
	q.client.TryProduce(context.WithoutCancel(ctx), record, func(_ *kgo.Record, err error) {
		if err != nil {
			q.onError(job, err)
		}
	})
	return nil
}

func (q *Kafka) Dequeue(ctx context.Context) (Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) == 0 {
		if q.closed.Load() {
			return Job{}, ErrClosed
		}
		fetches := q.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return Job{}, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return Job{}, err
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			fe := errs[0]
			return Job{}, fmt.Errorf("kafka fetch %s/%d: %w", fe.Topic, fe.Partition, fe.Err)
		}
		fetches.EachRecord(func(r *kgo.Record) {
			q.pending = append(q.pending, r)
		})
	}

	record := q.pending[0]
	q.pending = q.pending[1:]
	return decode(record.Value)
}

// Ping checks broker connectivity.
func (q *Kafka) Ping(ctx context.Context) error {
	return q.client.Ping(ctx)
}

func (q *Kafka) Close() error {
	if q.closed.Swap(true) {
		return nil
	}
	q.client.Close()
	return nil
}
