package email

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewSender returns an SMTP sender, or a logging sender when no host is set
func NewSender(cfg config.EmailConfig, logger *zap.Logger) Sender {
	if cfg.SMTPHost == "" {
		return &LogSender{logger: logger}
	}
	return &SMTPSender{cfg: cfg}
}

// SMTPSender delivers through an SMTP relay
type SMTPSender struct {
	cfg config.EmailConfig
}

// Send writes an HTML message to the relay
func (s *SMTPSender) Send(ctx context.Context, msg Email) error {
	if len(msg.To) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Email has no recipient")
	}
	addr := net.JoinHostPort(s.cfg.SMTPHost, strconv.Itoa(s.cfg.SMTPPort))

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, msg.From, msg.To, buildMessage(msg))
	}()
	select {
	case err := <-done:
		if err != nil {
			return shared.WrapDomainError("INTEGRATION_ERROR", "smtp delivery failed", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(msg Email) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// LogSender logs messages instead of delivering them
type LogSender struct {
	logger *zap.Logger
}

// Send logs the message envelope
func (s *LogSender) Send(_ context.Context, msg Email) error {
	s.logger.Info("Email not sent, SMTP is not configured",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template),
		zap.Int("body_bytes", len(msg.Body)),
	)
	return nil
}
