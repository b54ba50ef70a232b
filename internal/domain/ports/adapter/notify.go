package adapter

import (
	"context"

	"paystack-billing/internal/domain/model"
)

// Mailer delivers outbound e-mail notifications.
type Mailer interface {
	Send(ctx context.Context, n *model.Notification) error
}

// Task is a unit of background work.
type Task func(ctx context.Context) error

// TaskRunner accepts background work. Submit fails fast when saturated.
type TaskRunner interface {
	Submit(task Task) error
}
