//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/usecase"
)

func TestNotificationUseCase_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("should hand a complete request to the mailer", func(t *testing.T) {
		mailer := &MockMailer{}
		uc := usecase.NewNotificationUseCase(mailer, newTestLogger())

		n, err := uc.Send(ctx, usecase.NotificationInput{To: "a@b.test", Subject: "Hi", Message: "Welcome"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.ID == "" {
			t.Error("expected an id")
		}
		if len(mailer.Sent) != 1 || mailer.Sent[0].To != "a@b.test" {
			t.Errorf("unexpected mailer state %+v", mailer.Sent)
		}
	})

	t.Run("should reject any missing field", func(t *testing.T) {
		cases := []usecase.NotificationInput{
			{Subject: "Hi", Message: "x"},
			{To: "a@b.test", Message: "x"},
			{To: "a@b.test", Subject: "Hi"},
			{},
		}
		for _, in := range cases {
			mailer := &MockMailer{}
			uc := usecase.NewNotificationUseCase(mailer, newTestLogger())
			if _, err := uc.Send(ctx, in); !errors.Is(err, domain.ErrMissingFields) {
				t.Errorf("%+v: expected ErrMissingFields, got %v", in, err)
			}
			if len(mailer.Sent) != 0 {
				t.Errorf("%+v: mailer must not be called", in)
			}
		}
	})

	t.Run("should wrap mailer failures", func(t *testing.T) {
		boom := errors.New("smtp down")
		mailer := &MockMailer{SendFunc: func(ctx context.Context, n *model.Notification) error { return boom }}
		uc := usecase.NewNotificationUseCase(mailer, newTestLogger())
		if _, err := uc.Send(ctx, usecase.NotificationInput{To: "a", Subject: "b", Message: "c"}); !errors.Is(err, boom) {
			t.Errorf("expected mailer error, got %v", err)
		}
	})
}
