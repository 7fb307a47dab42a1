// Package mail delivers password reset messages.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tasker/config"
	"tasker/internal/domain/service"
	"tasker/internal/errors"
)

const resetSubject = "Reset your password"

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	addr     string
	auth     smtp.Auth
	from     string
	resetURL string
	send     sendFunc
	logger   *slog.Logger
}

// NewSMTPMailer sends reset mail through the relay described by cfg.
func NewSMTPMailer(cfg *config.MailConfig, logger *slog.Logger) service.ResetMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &smtpMailer{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth:     auth,
		from:     cfg.From,
		resetURL: cfg.ResetURL,
		send:     smtp.SendMail,
		logger:   logger,
	}
}

func (m *smtpMailer) SendPasswordReset(ctx context.Context, event *service.PasswordResetEvent) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	msg := m.compose(event)
	if err := m.send(m.addr, m.auth, m.from, []string{event.Email}, msg); err != nil {
		return classifySMTPError(err)
	}

	m.logger.InfoContext(ctx, "Password reset mail sent",
		slog.String("request_id", event.RequestID),
		slog.String("account_id", event.AccountID),
	)

	return nil
}

func (m *smtpMailer) compose(event *service.PasswordResetEvent) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", headerValue(m.from))
	fmt.Fprintf(&buf, "To: %s\r\n", headerValue(event.Email))
	fmt.Fprintf(&buf, "Subject: %s\r\n", resetSubject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "Hi %s,\r\n\r\n", event.Username)
	buf.WriteString("Someone asked to reset the password for your account.\r\n")
	fmt.Fprintf(&buf, "Use this link to choose a new one:\r\n\r\n%s\r\n\r\n", resetLink(m.resetURL, event.ResetToken))
	if !event.ExpiresAt.IsZero() {
		fmt.Fprintf(&buf, "The link expires at %s.\r\n", event.ExpiresAt.UTC().Format(time.RFC1123))
	}
	buf.WriteString("If you did not ask for this, you can ignore this message.\r\n")

	return buf.Bytes()
}

// resetLink appends the token to base. A base without a query placeholder
// gets a token parameter.
func resetLink(base, token string) string {
	escaped := url.QueryEscape(token)
	switch {
	case base == "":
		return escaped
	case strings.HasSuffix(base, "="):
		return base + escaped
	case strings.Contains(base, "?"):
		return base + "&token=" + escaped
	default:
		return base + "?token=" + escaped
	}
}

func headerValue(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}

// classifySMTPError marks 5xx replies as permanent. Everything else,
// including network failures, is worth retrying.
func classifySMTPError(err error) error {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) && protoErr.Code >= 500 {
		return errors.Join(service.ErrMailRejected, errors.WithStack(err))
	}

	return errors.Wrap(err, "send reset mail")
}
