package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/adapter"
)

// EventChargeSuccess is the only webhook event acted upon.
const EventChargeSuccess = "charge.success"

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

type WebhookUseCase interface {
	// Handle authenticates the raw body and schedules verification for
	// successful charges. It does not wait for verification to finish.
	Handle(ctx context.Context, body []byte, signature string) (*WebhookResult, error)
}

type WebhookResult struct {
	Event     string
	Reference string
	Ignored   bool
}

type webhookUC struct {
	verifier adapter.WebhookVerifier
	payments PaymentUseCase
	runner   adapter.TaskRunner
	log      *zerolog.Logger
}

func NewWebhookUseCase(verifier adapter.WebhookVerifier, payments PaymentUseCase, runner adapter.TaskRunner, logger *zerolog.Logger) *webhookUC {
	return &webhookUC{verifier: verifier, payments: payments, runner: runner, log: logger}
}

func (w *webhookUC) Handle(ctx context.Context, body []byte, signature string) (*WebhookResult, error) {
	if !w.verifier.Verify(body, signature) {
		return nil, domain.ErrInvalidSignature
	}

	event, ref, err := parseWebhookEvent(body)
	if err != nil {
		return nil, err
	}
	if event != EventChargeSuccess {
		w.log.Debug().Str("event", event).Msg("webhook event ignored")
		return &WebhookResult{Event: event, Ignored: true}, nil
	}
	if ref == "" {
		return nil, domain.ErrMissingWebhookRef
	}

	task := w.verifyTask(ref)
	if w.runner == nil {
		_ = task(ctx)
	} else if err := w.runner.Submit(task); err != nil {
		// Saturated pool: verify on the request path rather than drop the event.
		w.log.Warn().Err(err).Str("reference", ref).Msg("webhook verify running inline")
		_ = task(ctx)
	}

	return &WebhookResult{Event: EventChargeSuccess, Reference: ref}, nil
}

// parseWebhookEvent accepts any JSON document. A non-string event or a
// non-object payload reads as empty; only undecodable bytes are an error.
func parseWebhookEvent(body []byte) (event, reference string, err error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", "", fmt.Errorf("decode webhook event: %w", err)
	}
	top, _ := doc.(map[string]any)
	event, _ = top["event"].(string)
	data, _ := top["data"].(map[string]any)
	return event, strings.TrimSpace(Stringify(data["reference"])), nil
}

func (w *webhookUC) verifyTask(ref string) adapter.Task {
	return func(ctx context.Context) error {
		out, err := w.payments.Verify(ctx, model.ServiceIdentity(), ref)
		if err != nil {
			w.log.Error().Err(err).Str("reference", ref).Msg("webhook verify failed")
			return err
		}
		w.log.Info().
			Str("reference", ref).
			Str("subscription_id", out.SubscriptionID).
			Msg("webhook verify completed")
		return nil
	}
}
