package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, QueueMemory, cfg.Notification.Queue)
	assert.Equal(t, EmailLog, cfg.Email.Transport)
	assert.Empty(t, cfg.Database.URL)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.applyEnv(envMap(map[string]string{
		"PETITIONS_ADDR":         ":9090",
		"DATABASE_URL":           "postgres://localhost/petitions",
		"DATABASE_MIGRATE":       "false",
		"KAFKA_BROKERS":          "a:9092, b:9092,,a:9092",
		"NOTIFICATION_QUEUE":     QueueKafka,
		"NOTIFICATION_WORKERS":   "8",
		"SMTP_PORT":              "not-a-number",
		"CORS_ALLOWED_ORIGINS":   "https://example.org",
		"EMAIL_CIRCUIT_COOLDOWN": "1m",
	}))

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres://localhost/petitions", cfg.Database.URL)
	assert.False(t, cfg.Database.Migrate)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 8, cfg.Notification.Workers)
	assert.Equal(t, 587, cfg.Email.SMTP.Port, "unparsable ints keep the default")
	assert.Equal(t, []string{"https://example.org"}, cfg.CORSOrigins)
	assert.Equal(t, time.Minute, cfg.Email.CircuitCooldown)
	assert.Equal(t, 5, cfg.Email.CircuitFailures)
	require.NoError(t, cfg.Validate())
}

func TestOverlayYAML(t *testing.T) {
	cfg := Default()
	err := cfg.overlay([]byte(`
addr: ":7000"
shutdown_timeout: 3s
notification:
  queue: redis
  workers: 2
redis:
  url: redis://localhost:6379/0
email:
  transport: smtp
  from: campaigns@example.org
  smtp:
    host: mail.example.org
`))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, QueueRedis, cfg.Notification.Queue)
	assert.Equal(t, 2, cfg.Notification.Workers)
	assert.Equal(t, 1024, cfg.Notification.QueueCapacity, "fields absent from the file keep defaults")
	assert.Equal(t, "campaigns@example.org", cfg.Email.From)
	assert.Equal(t, 587, cfg.Email.SMTP.Port)
	require.NoError(t, cfg.Validate())
}

func TestOverlayRejectsMalformedYAML(t *testing.T) {
	cfg := Default()
	err := cfg.overlay([]byte("addr: [unterminated"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Server)
	}{
		{"redis queue without url", func(c *Server) { c.Notification.Queue = QueueRedis }},
		{"kafka queue without brokers", func(c *Server) { c.Notification.Queue = QueueKafka }},
		{"unknown queue", func(c *Server) { c.Notification.Queue = "sqs" }},
		{"smtp without host", func(c *Server) { c.Email.Transport = EmailSMTP }},
		{"ses without region", func(c *Server) { c.Email.Transport = EmailSES }},
		{"unknown transport", func(c *Server) { c.Email.Transport = "pigeon" }},
		{"no workers", func(c *Server) { c.Notification.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
