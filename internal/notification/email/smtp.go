package email

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"petitions/internal/platform/config"
)

const defaultSMTPTimeout = 30 * time.Second

// SMTPSender delivers over SMTP, upgrading with STARTTLS when the server
// offers it and authenticating with PLAIN when credentials are configured.
// Each Send opens its own session so workers never share a connection.
type SMTPSender struct {
	host    string
	port    int
	options []mail.Option
	now     func() time.Time
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	options := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(defaultSMTPTimeout),
	}
	if cfg.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return &SMTPSender{host: cfg.Host, port: port, options: options, now: time.Now}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	m, err := s.compose(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host, s.options...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Send(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// compose builds a UTF-8 text/plain message; go-mail picks the header and
// quoted-printable body encodings.
func (s *SMTPSender) compose(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("smtp from %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDateWithValue(s.now())
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
