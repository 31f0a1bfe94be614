package mail

import (
	"context"
	"net/textproto"
	"strings"
	"time"

	"github.com/pkg/errors"
	gomail "github.com/wneessen/go-mail"
)

var (
	ErrNotConfigured = errors.New("email credentials not configured")
	ErrAuth          = errors.New("smtp authentication failed")
	ErrTransport     = errors.New("smtp transport error")
)

// Sender is the outbound transport primitive.
type Sender interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
	Configured() bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	Timeout  time.Duration
}

// SMTPSender opens one implicit-TLS connection per message.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Configured() bool {
	return strings.TrimSpace(s.cfg.Username) != "" && strings.TrimSpace(s.cfg.Password) != ""
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.Username); err != nil {
		return errors.Wrap(ErrTransport, err.Error())
	}
	if err := msg.To(to); err != nil {
		return errors.Wrapf(ErrTransport, "invalid recipient %q: %s", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, textBody)
	msg.AddAlternativeString(gomail.TypeTextHTML, htmlBody)

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(s.cfg.Timeout))
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return errors.Wrap(ErrTransport, err.Error())
	}

	return Classify(client.DialAndSendWithContext(ctx, msg))
}

// Classify maps a raw SMTP error onto ErrAuth or ErrTransport, keeping the
// original text in the message.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrAuth) || errors.Is(err, ErrTransport) {
		return err
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 530, 534, 535:
			return errors.Wrap(ErrAuth, err.Error())
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "auth") {
		return errors.Wrap(ErrAuth, err.Error())
	}
	return errors.Wrap(ErrTransport, err.Error())
}
