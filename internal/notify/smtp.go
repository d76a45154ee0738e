package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/logging"
)

// DefaultTimeout bounds one delivery when ctx has no deadline.
const DefaultTimeout = 30 * time.Second

// SMTPConfig holds SMTP settings.
type SMTPConfig struct {
	Host string
	Port int

	// Username enables PLAIN auth when non-empty.
	Username string
	Password string

	From     string
	FromName string
	To       []string

	// StartTLS upgrades the connection before auth; the server must offer it.
	StartTLS bool

	// TLSConfig overrides the STARTTLS client config. Nil verifies Host.
	TLSConfig *tls.Config

	Timeout time.Duration
}

// SMTPSink mails reports as plain UTF-8 text.
type SMTPSink struct {
	config SMTPConfig
	now    func() time.Time
}

// NewSMTPSink creates a mail sender.
func NewSMTPSink(config SMTPConfig) *SMTPSink {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &SMTPSink{config: config, now: time.Now}
}

// Send mails subject and body to every recipient.
func (s *SMTPSink) Send(ctx context.Context, subject, body string) error {
	if len(s.config.To) == 0 {
		return inventory.DeliveryFailed("send report", errors.New("no recipients configured"))
	}

	msg := buildMessage(s.config, subject, body, s.now())
	if err := s.deliver(ctx, msg); err != nil {
		return inventory.DeliveryFailed("send report", err)
	}

	logging.FromContext(ctx).Info().
		Strs("recipients", s.config.To).
		Str("subject", subject).
		Msg("report sent")
	return nil
}

func (s *SMTPSink) deliver(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP handshake failed: %w", err)
	}
	defer c.Close()

	if s.config.StartTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return errors.New("server does not support STARTTLS")
		}
		tlsConfig := s.config.TLSConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{ServerName: s.config.Host}
		}
		if err := c.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	if s.config.Username != "" {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err := c.Mail(s.config.From); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	for _, rcpt := range s.config.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("RCPT TO failed for %s: %w", rcpt, err)
		}
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	return c.Quit()
}

// buildMessage constructs an RFC 5322 plain-text message.
func buildMessage(cfg SMTPConfig, subject, body string, date time.Time) []byte {
	from := (&mail.Address{Name: cfg.FromName, Address: cfg.From}).String()
	headers := []string{
		"From: " + from,
		"To: " + strings.Join(cfg.To, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"Date: " + date.Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Transfer-Encoding: 8bit",
	}

	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\n", "\r\n")
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body)
}
