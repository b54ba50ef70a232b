package mail

import (
	"context"

	"github.com/rs/zerolog"

	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/adapter"
	"paystack-billing/internal/infra/logging"
)

var _ adapter.Mailer = (*LogMailer)(nil)

// LogMailer records notifications in the log instead of delivering them.
// Recipients are redacted outside dev mode.
type LogMailer struct {
	log *zerolog.Logger
	dev bool
}

func NewLogMailer(logger *zerolog.Logger, dev bool) *LogMailer {
	return &LogMailer{log: logger, dev: dev}
}

func (m *LogMailer) Send(ctx context.Context, n *model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logging.With(ctx, m.log).Info().
		Str("notification_id", n.ID).
		Str("to", logging.Redact(n.To, m.dev)).
		Str("subject", n.Subject).
		Int("message_len", len(n.Message)).
		Msg("email notification queued")
	return nil
}
