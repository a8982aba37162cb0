// Package mailer delivers result files by mail over implicit-TLS SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
)

var (
	ErrNotConfigured  = errors.New("mail delivery is not configured")
	ErrInvalidAddress = errors.New("invalid email format")
)

var addressPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateAddress reports whether addr looks like a deliverable address.
func ValidateAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

const resultBody = "Hello, please find attached TOPSIS result file."

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

// ResultMessage builds the message that carries a result CSV.
func ResultMessage(to, subject, filename string, csv []byte) Message {
	return Message{
		To:      to,
		Subject: subject,
		Body:    resultBody,
		Attachment: &Attachment{
			Filename:    filename,
			ContentType: "text/csv",
			Data:        csv,
		},
	}
}

// Sender delivers a message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPClient struct {
	cfg    config.MailConfig
	logger *slog.Logger
	opts   []mail.Option
	now    func() time.Time
}

func NewSMTPClient(cfg config.MailConfig, logger *slog.Logger) *SMTPClient {
	return &SMTPClient{
		cfg:    cfg,
		logger: logger,
		opts: []mail.Option{
			mail.WithPort(cfg.Port),
			mail.WithSSL(),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
			mail.WithTimeout(30 * time.Second),
		},
		now: time.Now,
	}
}

// Send opens one SMTP session per message.
func (c *SMTPClient) Send(ctx context.Context, msg Message) error {
	if !c.cfg.Enabled() {
		return ErrNotConfigured
	}
	if !ValidateAddress(msg.To) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, msg.To)
	}

	m, err := newMsg(c.cfg.From, msg, c.now())
	if err != nil {
		return err
	}

	client, err := mail.NewClient(c.cfg.Host, c.opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail via %s: %w", c.cfg.Host, err)
	}

	c.logger.Info("mail sent", "to", msg.To, "attachment_bytes", attachmentSize(msg))
	return nil
}

// Compose renders msg as a multipart/mixed RFC 5322 message.
func Compose(from string, msg Message, date time.Time) ([]byte, error) {
	m, err := newMsg(from, msg, date)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render message: %w", err)
	}
	return buf.Bytes(), nil
}

func newMsg(from string, msg Message, date time.Time) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	m.Subject(msg.Subject)
	m.SetDateWithValue(date)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if a := msg.Attachment; a != nil {
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		if err := m.AttachReader(a.Filename, bytes.NewReader(a.Data), mail.WithFileContentType(mail.ContentType(ct))); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}
	return m, nil
}

func attachmentSize(msg Message) int {
	if msg.Attachment == nil {
		return 0
	}
	return len(msg.Attachment.Data)
}
