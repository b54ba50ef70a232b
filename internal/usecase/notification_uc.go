package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/adapter"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

type NotificationUseCase interface {
	// Send accepts an e-mail request. All three fields are required.
	Send(ctx context.Context, in NotificationInput) (*model.Notification, error)
}

type NotificationInput struct {
	To      string `validate:"required"`
	Subject string `validate:"required"`
	Message string `validate:"required"`
}

type notificationUC struct {
	mailer   adapter.Mailer
	validate *validator.Validate
	log      *zerolog.Logger
}

func NewNotificationUseCase(mailer adapter.Mailer, logger *zerolog.Logger) *notificationUC {
	return &notificationUC{mailer: mailer, validate: validator.New(), log: logger}
}

func (n *notificationUC) Send(ctx context.Context, in NotificationInput) (*model.Notification, error) {
	if err := n.validate.StructCtx(ctx, in); err != nil {
		return nil, domain.ErrMissingFields
	}

	msg := model.NewNotification(in.To, in.Subject, in.Message)
	if err := n.mailer.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("send notification: %w", err)
	}
	n.log.Debug().Str("notification_id", msg.ID).Msg("notification accepted")
	return msg, nil
}
