package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier delivers the verification link to a freshly registered address.
type Notifier interface {
	SendVerification(ctx context.Context, to, link string) error
}

const verificationSubject = "Email Verification"

var verificationBody = template.Must(template.New("verification").Parse(
	`<p>Thanks for signing up. Click the link below to verify your email address:</p>
<a href="{{.}}">Click Here to Verify Your Email</a>
<p>If you did not create an account, please ignore this email.</p>
`))

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From defaults to Username
	From string
}

// MailNotifier sends verification mails over SMTP
type MailNotifier struct {
	from   string
	dialer *gomail.Dialer
}

func NewMailNotifier(cfg MailConfig) (*MailNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("no smtp host provided")
	}

	if cfg.Port <= 0 {
		return nil, errors.New("invalid smtp port provided")
	}

	if cfg.Username == "" {
		return nil, errors.New("no smtp username provided")
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &MailNotifier{
		from:   from,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

func (n *MailNotifier) SendVerification(ctx context.Context, to, link string) error {
	m, err := buildVerificationMessage(n.from, to, link)
	if err != nil {
		return err
	}

	// gomail can't be cancelled once dialing starts
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification mail, %w", err)
	}

	return nil
}

func buildVerificationMessage(from, to, link string) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := verificationBody.Execute(&body, link); err != nil {
		return nil, fmt.Errorf("failed to render verification mail, %w", err)
	}

	m := gomail.NewMessage(gomail.SetEncoding(gomail.Unencoded))
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", verificationSubject)
	m.SetBody("text/html", body.String())

	return m, nil
}

// LogNotifier writes the verification link to the log instead of sending
// mail. Meant for local development only.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(l *zap.Logger) *LogNotifier {
	return &LogNotifier{log: l}
}

func (n *LogNotifier) SendVerification(_ context.Context, to, link string) error {
	n.log.Info("Verification email issued", zap.String("to", to), zap.String("link", link))
	return nil
}
