package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Queue backends.
const (
	QueueMemory = "memory"
	QueueRedis  = "redis"
	QueueKafka  = "kafka"
)

// Email transports.
const (
	EmailLog  = "log"
	EmailSMTP = "smtp"
	EmailSES  = "ses"
)

// Server captures process level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// EditorJWTSecret enables bearer-token protection of editor routes.
	EditorJWTSecret string   `yaml:"editor_jwt_secret"`
	CORSOrigins     []string `yaml:"cors_origins"`

	Log          LogConfig          `yaml:"log"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Kafka        KafkaConfig        `yaml:"kafka"`
	Notification NotificationConfig `yaml:"notification"`
	Email        EmailConfig        `yaml:"email"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig selects Postgres when URL is set; otherwise the in-memory
// store is used.
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	Migrate         bool          `yaml:"migrate"`
}

type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	QueueKey     string        `yaml:"queue_key"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Group   string   `yaml:"group"`
	// Partitions and ReplicationFactor apply when the topic is created at
	// startup.
	Partitions        int `yaml:"partitions"`
	ReplicationFactor int `yaml:"replication_factor"`
}

type NotificationConfig struct {
	Queue         string `yaml:"queue"`
	QueueCapacity int    `yaml:"queue_capacity"`
	Workers       int    `yaml:"workers"`
}

type EmailConfig struct {
	Transport string     `yaml:"transport"`
	From      string     `yaml:"from"`
	SMTP      SMTPConfig `yaml:"smtp"`
	SES       SESConfig  `yaml:"ses"`
	// The SMTP and SES transports stop being called for CircuitCooldown
	// after CircuitFailures consecutive failures.
	CircuitFailures int           `yaml:"circuit_failures"`
	CircuitCooldown time.Duration `yaml:"circuit_cooldown"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type SESConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Default returns the development configuration: in-memory store and queue,
// log email transport.
func Default() Server {
	return Server{
		Addr:            ":8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			Migrate:         true,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			QueueKey:     "petitions:notifications",
		},
		Kafka: KafkaConfig{
			Topic:             "petition-notifications",
			Group:             "petition-notifier",
			Partitions:        3,
			ReplicationFactor: 1,
		},
		Notification: NotificationConfig{
			Queue:         QueueMemory,
			QueueCapacity: 1024,
			Workers:       4,
		},
		Email: EmailConfig{
			Transport:       EmailLog,
			From:            "petitions@example.com",
			SMTP:            SMTPConfig{Port: 587},
			CircuitFailures: 5,
			CircuitCooldown: 30 * time.Second,
		},
	}
}

// Load starts from Default, overlays the YAML file named by PETITIONS_CONFIG
// if any, then applies environment variables.
func Load() (Server, error) {
	cfg := Default()
	if path := os.Getenv("PETITIONS_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Server{}, err
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// FromEnv builds a Server config from environment variables only.
func FromEnv() Server {
	cfg := Default()
	cfg.applyEnv(os.Getenv)
	return cfg
}

func (c *Server) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return c.overlay(data)
}

func (c *Server) overlay(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Server) applyEnv(getenv func(string) string) {
	setString(&c.Addr, getenv("PETITIONS_ADDR"))
	setString(&c.EditorJWTSecret, getenv("EDITOR_JWT_SECRET"))
	setList(&c.CORSOrigins, getenv("CORS_ALLOWED_ORIGINS"))

	setString(&c.Log.Level, getenv("LOG_LEVEL"))
	setString(&c.Log.Format, getenv("LOG_FORMAT"))

	setString(&c.Database.URL, getenv("DATABASE_URL"))
	setInt(&c.Database.MaxOpenConns, getenv("DATABASE_MAX_OPEN_CONNS"))
	if v := getenv("DATABASE_MIGRATE"); v != "" {
		c.Database.Migrate = v == "true"
	}

	setString(&c.Redis.URL, getenv("REDIS_URL"))
	setString(&c.Redis.QueueKey, getenv("REDIS_QUEUE_KEY"))

	setList(&c.Kafka.Brokers, getenv("KAFKA_BROKERS"))
	setString(&c.Kafka.Topic, getenv("KAFKA_TOPIC"))
	setString(&c.Kafka.Group, getenv("KAFKA_GROUP"))
	setInt(&c.Kafka.Partitions, getenv("KAFKA_PARTITIONS"))
	setInt(&c.Kafka.ReplicationFactor, getenv("KAFKA_REPLICATION_FACTOR"))

	setString(&c.Notification.Queue, getenv("NOTIFICATION_QUEUE"))
	setInt(&c.Notification.QueueCapacity, getenv("NOTIFICATION_QUEUE_CAPACITY"))
	setInt(&c.Notification.Workers, getenv("NOTIFICATION_WORKERS"))

	setString(&c.Email.Transport, getenv("EMAIL_TRANSPORT"))
	setString(&c.Email.From, getenv("EMAIL_FROM"))
	setString(&c.Email.SMTP.Host, getenv("SMTP_HOST"))
	setInt(&c.Email.SMTP.Port, getenv("SMTP_PORT"))
	setString(&c.Email.SMTP.Username, getenv("SMTP_USERNAME"))
	setString(&c.Email.SMTP.Password, getenv("SMTP_PASSWORD"))
	setString(&c.Email.SES.Region, getenv("AWS_REGION"))
	setString(&c.Email.SES.AccessKeyID, getenv("AWS_ACCESS_KEY_ID"))
	setString(&c.Email.SES.SecretAccessKey, getenv("AWS_SECRET_ACCESS_KEY"))
	setInt(&c.Email.CircuitFailures, getenv("EMAIL_CIRCUIT_FAILURES"))
	setDuration(&c.Email.CircuitCooldown, getenv("EMAIL_CIRCUIT_COOLDOWN"))
}

// Validate rejects combinations that cannot be wired.
func (c Server) Validate() error {
	switch c.Notification.Queue {
	case QueueMemory:
	case QueueRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("config: redis queue requires REDIS_URL")
		}
	case QueueKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka queue requires KAFKA_BROKERS")
		}
	default:
		return fmt.Errorf("config: unknown notification queue %q", c.Notification.Queue)
	}

	switch c.Email.Transport {
	case EmailLog:
	case EmailSMTP:
		if c.Email.SMTP.Host == "" {
			return fmt.Errorf("config: smtp transport requires SMTP_HOST")
		}
	case EmailSES:
		if c.Email.SES.Region == "" {
			return fmt.Errorf("config: ses transport requires AWS_REGION")
		}
	default:
		return fmt.Errorf("config: unknown email transport %q", c.Email.Transport)
	}

	if c.Notification.Workers < 1 {
		return fmt.Errorf("config: notification workers must be at least 1")
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v string) {
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}

// setList splits a comma separated value, dropping blanks and duplicates.
func setList(dst *[]string, v string) {
	if v == "" {
		return
	}
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if _, dup := seen[part]; dup || part == "" {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	*dst = out
}
