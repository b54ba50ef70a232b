package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Notification is an outbound e-mail request.
type Notification struct {
	ID          string
	To          string
	Subject     string
	Message     string
	RequestedAt time.Time
}

func NewNotification(to, subject, message string) *Notification {
	now := time.Now()
	return &Notification{
		ID:          ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		To:          to,
		Subject:     subject,
		Message:     message,
		RequestedAt: now,
	}
}
