package mail_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/infra/adapters/mail"
)

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	m := mail.NewLogMailer(&l, false)

	n := model.NewNotification("owner@acme.test", "Welcome", "Hello there")
	if err := m.Send(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, n.ID) || !strings.Contains(out, `"subject":"Welcome"`) {
		t.Errorf("expected id and subject in log, got %s", out)
	}
	if strings.Contains(out, "owner@acme.test") {
		t.Errorf("recipient must be redacted, got %s", out)
	}
}

func TestLogMailer_CancelledContext(t *testing.T) {
	l := zerolog.Nop()
	m := mail.NewLogMailer(&l, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Send(ctx, model.NewNotification("a", "b", "c")); err == nil {
		t.Fatal("expected context error")
	}
}
