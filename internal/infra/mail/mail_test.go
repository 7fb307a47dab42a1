package mail

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/smtp"
	"net/textproto"
	"testing"
	"time"

	"tasker/config"
	"tasker/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEvent() *service.PasswordResetEvent {
	return &service.PasswordResetEvent{
		AccountID:  "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed",
		Email:      "alice@example.com",
		Username:   "alice",
		ResetToken: "tok+en/==",
		IssuedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		ExpiresAt:  time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func newTestSMTPMailer(send sendFunc) *smtpMailer {
	m := NewSMTPMailer(&config.MailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "noreply@example.com",
		ResetURL: "https://app.example.com/reset?token=",
	}, discardLogger()).(*smtpMailer)
	m.send = send

	return m
}

func TestSMTPMailer_SendPasswordReset(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	m := newTestSMTPMailer(func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg

		return nil
	})

	require.NoError(t, m.SendPasswordReset(context.Background(), newEvent()))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)

	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Reset your password\r\n")
	assert.Contains(t, body, "Hi alice,")
	assert.Contains(t, body, "https://app.example.com/reset?token=tok%2Ben%2F%3D%3D")
	assert.Contains(t, body, "expires at Sun, 01 Mar 2026 09:30:00 UTC")
}

func TestSMTPMailer_ErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantPermanent bool
	}{
		{name: "mailbox unavailable", err: &textproto.Error{Code: 550, Msg: "no such user"}, wantPermanent: true},
		{name: "greylisted", err: &textproto.Error{Code: 451, Msg: "try later"}},
		{name: "network", err: errors.New("dial tcp: connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestSMTPMailer(func(string, smtp.Auth, string, []string, []byte) error {
				return tt.err
			})

			err := m.SendPasswordReset(context.Background(), newEvent())
			require.Error(t, err)
			assert.Equal(t, tt.wantPermanent, errors.Is(err, service.ErrMailRejected))
		})
	}
}

func TestSMTPMailer_StripsHeaderBreaks(t *testing.T) {
	var gotMsg []byte
	m := newTestSMTPMailer(func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = msg

		return nil
	})

	event := newEvent()
	event.Email = "alice@example.com\r\nBcc: mallory@example.com"
	require.NoError(t, m.SendPasswordReset(context.Background(), event))

	assert.NotContains(t, string(gotMsg), "\r\nBcc:")
}

func TestResetLink(t *testing.T) {
	assert.Equal(t, "https://a/reset?token=abc", resetLink("https://a/reset?token=", "abc"))
	assert.Equal(t, "https://a/reset?token=abc", resetLink("https://a/reset", "abc"))
	assert.Equal(t, "https://a/reset?lang=en&token=abc", resetLink("https://a/reset?lang=en", "abc"))
	assert.Equal(t, "abc", resetLink("", "abc"))
}

func TestLogMailer_NeverLogsToken(t *testing.T) {
	var logs bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewTextHandler(&logs, nil)))

	require.NoError(t, m.SendPasswordReset(context.Background(), newEvent()))

	assert.Contains(t, logs.String(), "password reset not sent")
	assert.NotContains(t, logs.String(), "tok+en")
}

func TestNewResetMailer(t *testing.T) {
	cfg := &config.Config{Mail: &config.MailConfig{}}
	assert.IsType(t, &logMailer{}, NewResetMailer(MailerParams{Config: cfg, Logger: discardLogger()}))

	cfg.Mail = &config.MailConfig{Host: "smtp.example.com", Port: 25}
	assert.IsType(t, &smtpMailer{}, NewResetMailer(MailerParams{Config: cfg, Logger: discardLogger()}))
}
