package mailer

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"
)

var ErrNoRecipient = errors.New("email recipient is required")

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// sendFunc matches mail.Client.DialAndSendWithContext so tests can capture outgoing mail.
type sendFunc func(ctx context.Context, msgs ...*mail.Msg) error

type SMTPMailer struct {
	cfg  Config
	send sendFunc
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create smtp client")
	}
	return &SMTPMailer{cfg: cfg, send: client.DialAndSendWithContext}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if msg == nil || strings.TrimSpace(msg.To) == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := m.compose(msg)
	if err != nil {
		return err
	}
	if err := m.send(ctx, out); err != nil {
		return errors.Wrapf(err, "failed to send email to %s", msg.To)
	}
	return nil
}

func (m *SMTPMailer) compose(msg *Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	from := out.From
	if m.cfg.FromName != "" {
		from = func(addr string) error { return out.FromFormat(m.cfg.FromName, addr) }
	}
	if err := from(m.cfg.FromEmail); err != nil {
		return nil, errors.Wrap(err, "invalid sender address")
	}
	if err := out.To(msg.To); err != nil {
		return nil, errors.Wrapf(err, "invalid recipient %s", msg.To)
	}
	out.Subject(msg.Subject)
	out.SetDate()
	out.SetMessageID()
	out.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return out, nil
}
