package email

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/leadhub/leadhub/internal/shared/logger"
	"github.com/leadhub/leadhub/internal/shared/utils"
)

var ErrEmailServiceNotConfigured = errors.New("email service not configured")

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// Sender delivers one multipart message.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody, plainBody string) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

// Send dials the relay for each message. gomail has no context support, so
// a cancelled ctx returns early while the dial finishes in the background.
func (s *SMTPEmailService) Send(ctx context.Context, to, subject, htmlBody, plainBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}

// LogOnlySender stands in when no SMTP host is configured. It fails every
// send so reminders stay pending until delivery is possible.
type LogOnlySender struct {
	logger logger.Interface
}

func NewLogOnlySender(logger logger.Interface) *LogOnlySender {
	return &LogOnlySender{logger: logger}
}

func (s *LogOnlySender) Send(_ context.Context, to, subject, _, _ string) error {
	s.logger.Warnw("email service not configured, dropping message", "to", utils.MaskEmail(to), "subject", subject)
	return ErrEmailServiceNotConfigured
}

// NewSender picks SMTP when a host is configured.
func NewSender(config SMTPConfig, logger logger.Interface) Sender {
	if config.Host == "" {
		return NewLogOnlySender(logger)
	}
	return NewSMTPEmailService(config)
}
