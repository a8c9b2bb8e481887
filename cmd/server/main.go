package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"petitions/internal/notification"
	"petitions/internal/notification/email"
	notificationmetrics "petitions/internal/notification/metrics"
	"petitions/internal/notification/queue"
	"petitions/internal/petition/handler"
	petitionmetrics "petitions/internal/petition/metrics"
	"petitions/internal/petition/service"
	"petitions/internal/petition/store"
	"petitions/internal/platform/config"
	"petitions/internal/platform/httpserver"
	"petitions/internal/platform/logger"
	"petitions/internal/platform/metrics"
	"petitions/internal/platform/middleware"
	"petitions/internal/platform/postgres"
	platformredis "petitions/internal/platform/redis"
	httptransport "petitions/internal/transport/http"
	"petitions/pkg/platform/circuit"
)

const redisPollInterval = time.Second

// petitionStore is what both the service and the confirmation dispatcher
// need from storage.
type petitionStore interface {
	service.Store
	notification.SignatureFinder
}

// main wires the store, queue, email transport and HTTP router, then runs the
// server and the notification workers until a signal arrives.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checks := map[string]httptransport.HealthCheck{}

	st, txOpts, cleanup, err := openStore(ctx, cfg.Database, log, checks)
	if err != nil {
		return err
	}
	defer cleanup()

	q, err := openQueue(ctx, cfg, log, checks)
	if err != nil {
		return err
	}

	sender, err := newSender(ctx, cfg.Email, log)
	if err != nil {
		return err
	}

	notifyMetrics := notificationmetrics.New(reg)
	dispatcher := notification.NewDispatcher(st, sender, cfg.Email.From,
		notification.WithDispatcherLogger(log),
		notification.WithDispatcherMetrics(notifyMetrics),
	)
	pool := notification.NewPool(q, dispatcher,
		notification.WithWorkers(cfg.Notification.Workers),
		notification.WithPoolLogger(log),
		notification.WithPoolMetrics(notifyMetrics),
	)

	svc := service.New(st, append(txOpts,
		service.WithLogger(log),
		service.WithMetrics(petitionmetrics.New(reg)),
		service.WithNotifier(q),
	)...)

	var editor *middleware.EditorValidator
	if cfg.EditorJWTSecret != "" {
		editor = middleware.NewEditorValidator(cfg.EditorJWTSecret)
	} else {
		log.Warn("EDITOR_JWT_SECRET not set; editor routes are unauthenticated")
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:      log,
		Metrics:     metrics.New(reg),
		Gatherer:    reg,
		CORSOrigins: cfg.CORSOrigins,
		Checks:      checks,
	}, handler.New(svc, log, editor))
	srv := httpserver.New(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting petitions service",
			"addr", cfg.Addr,
			"queue", cfg.Notification.Queue,
			"email_transport", cfg.Email.Transport,
			"workers", cfg.Notification.Workers,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return pool.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	if cerr := q.Close(); cerr != nil {
		log.Error("failed to close notification queue", "error", cerr)
	}
	return err
}

// openStore returns Postgres when a database URL is configured and the
// in-memory store otherwise.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger, checks map[string]httptransport.HealthCheck) (petitionStore, []service.Option, func(), error) {
	if cfg.URL == "" {
		log.Warn("DATABASE_URL not set; using in-memory store")
		return store.NewInMemory(), nil, func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Migrate {
		if err := postgres.Migrate(db, log); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
	}
	checks["database"] = db.PingContext

	pg := store.NewPostgres(db)
	opts := []service.Option{service.WithTx(store.NewPostgresTx(db, pg))}
	return pg, opts, closeDB(db, log), nil
}

func closeDB(db *sql.DB, log *slog.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}
}

func openQueue(ctx context.Context, cfg config.Server, log *slog.Logger, checks map[string]httptransport.HealthCheck) (queue.Queue, error) {
	switch cfg.Notification.Queue {
	case config.QueueRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		checks["redis"] = client.Health
		return &redisQueue{Redis: queue.NewRedis(client, cfg.Redis.QueueKey, redisPollInterval), client: client}, nil

	case config.QueueKafka:
		q, err := queue.NewKafka(queue.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Group:   cfg.Kafka.Group,
			OnProduceError: func(job queue.Job, err error) {
				log.Error("failed to publish confirmation job", "signature_id", job.SignatureID, "error", err)
			},
		})
		if err != nil {
			return nil, err
		}
		if err := q.EnsureTopic(ctx, int32(cfg.Kafka.Partitions), int16(cfg.Kafka.ReplicationFactor)); err != nil {
			_ = q.Close()
			return nil, err
		}
		checks["kafka"] = q.Ping
		return q, nil

	default:
		return queue.NewMemory(cfg.Notification.QueueCapacity), nil
	}
}

// redisQueue closes the Redis connection along with the queue.
type redisQueue struct {
	*queue.Redis
	client *platformredis.Client
}

func (q *redisQueue) Close() error {
	return errors.Join(q.Redis.Close(), q.client.Close())
}

func newSender(ctx context.Context, cfg config.EmailConfig, log *slog.Logger) (email.Sender, error) {
	var transport email.Sender
	switch cfg.Transport {
	case config.EmailSMTP:
		transport = email.NewSMTPSender(cfg.SMTP)
	case config.EmailSES:
		ses, err := email.NewSESSender(ctx, cfg.SES)
		if err != nil {
			return nil, err
		}
		transport = ses
	default:
		return email.NewLogSender(log), nil
	}
	breaker := circuit.New(cfg.Transport,
		circuit.WithFailureThreshold(cfg.CircuitFailures),
		circuit.WithCooldown(cfg.CircuitCooldown),
	)
	return email.NewBreakerSender(transport, breaker, log), nil
}
