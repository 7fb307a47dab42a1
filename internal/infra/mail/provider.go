package mail

import (
	"log/slog"

	"tasker/config"
	"tasker/internal/domain/service"

	"go.uber.org/fx"
)

// MailerParams holds dependencies for NewResetMailer, injected by Fx.
type MailerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewResetMailer picks SMTP delivery when a relay host is configured.
func NewResetMailer(params MailerParams) service.ResetMailer {
	if params.Config.Mail == nil || params.Config.Mail.Host == "" {
		params.Logger.Warn("No mail host configured, reset mail will only be logged")

		return NewLogMailer(params.Logger)
	}

	return NewSMTPMailer(params.Config.Mail, params.Logger)
}
