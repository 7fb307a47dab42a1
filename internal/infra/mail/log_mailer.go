package mail

import (
	"context"
	"log/slog"

	"tasker/internal/domain/service"
)

// logMailer records that a reset was requested without sending anything.
// The token itself is never written.
type logMailer struct {
	logger *slog.Logger
}

// NewLogMailer is used when no SMTP relay is configured.
func NewLogMailer(logger *slog.Logger) service.ResetMailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendPasswordReset(ctx context.Context, event *service.PasswordResetEvent) error {
	m.logger.WarnContext(ctx, "Mail delivery disabled, password reset not sent",
		slog.String("request_id", event.RequestID),
		slog.String("account_id", event.AccountID),
		slog.Time("expires_at", event.ExpiresAt),
	)

	return nil
}
