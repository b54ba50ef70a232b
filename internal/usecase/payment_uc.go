// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/adapter"
	"paystack-billing/internal/domain/ports/repository"
	"paystack-billing/internal/infra/logging"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// Initialize opens a gateway transaction for the caller's company and
	// records a pending payment reference.
	Initialize(ctx context.Context, caller *model.Identity, plan any) (*InitializeOutput, error)
	// Verify confirms a transaction at the gateway and, on success, grants
	// the subscription and records the payment.
	Verify(ctx context.Context, caller *model.Identity, reference string) (*VerifyOutput, error)
}

type InitializeOutput struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
	Plan             string
	Amount           int64 // minor units
}

type VerifyOutput struct {
	CompanyID      string
	Plan           string
	Status         model.SubscriptionStatus
	SubscriptionID string
	PaymentID      string
	Amount         int64 // minor units, as reported by the gateway
	Currency       string
}

// PaymentOptions carries the deployment-specific values the flows need.
type PaymentOptions struct {
	ReferencePrefix string
	Currency        string
}

type paymentUC struct {
	users     repository.UserRepository
	refs      repository.PaymentReferenceRepository
	subs      repository.SubscriptionRepository
	payments  repository.PaymentRepository
	companies repository.CompanyRepository
	gateway   adapter.PaymentGateway
	tm        repository.TransactionManager
	opts      PaymentOptions
	log       *zerolog.Logger
}

func NewPaymentUseCase(
	users repository.UserRepository,
	refs repository.PaymentReferenceRepository,
	subs repository.SubscriptionRepository,
	payments repository.PaymentRepository,
	companies repository.CompanyRepository,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	opts PaymentOptions,
	logger *zerolog.Logger,
) *paymentUC {
	if opts.ReferencePrefix == "" {
		opts.ReferencePrefix = "BBHR_"
	}
	if opts.Currency == "" {
		opts.Currency = "NGN"
	}
	return &paymentUC{
		users:     users,
		refs:      refs,
		subs:      subs,
		payments:  payments,
		companies: companies,
		gateway:   gateway,
		tm:        tm,
		opts:      opts,
		log:       logger,
	}
}

func (u *paymentUC) Initialize(ctx context.Context, caller *model.Identity, planInput any) (*InitializeOutput, error) {
	if caller.IsZero() || caller.IsService() {
		return nil, domain.ErrUnauthorized
	}
	plan := model.ResolvePlan(planInput)

	user, err := u.users.FindByAuthUserID(ctx, repository.NoTX, caller.Subject)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	email, companyID := caller.Email, ""
	if !user.IsZero() {
		if user.Email != "" {
			email = user.Email
		}
		companyID = user.CompanyID
	}

	reference := model.NewReference(u.opts.ReferencePrefix)
	meta := map[string]any{"plan": plan.Name}
	if companyID != "" {
		meta["company_id"] = companyID
	}

	res, err := u.gateway.Initialize(ctx, adapter.InitializeRequest{
		Email:     email,
		Amount:    plan.PriceMinor,
		Reference: reference,
		Metadata:  meta,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway initialize: %w", err)
	}
	if !res.Status {
		msg := res.Message
		if msg == "" {
			msg = "Paystack initialize failed"
		}
		return nil, &domain.GatewayError{Op: domain.GatewayOpInitialize, Message: msg}
	}

	ref := &model.PaymentReference{
		ID:               uuid.NewString(),
		Reference:        reference,
		CompanyID:        companyID,
		AccessCode:       res.AccessCode,
		AuthorizationURL: res.AuthorizationURL,
		Status:           model.ReferenceStatusPending,
		Amount:           plan.Price(),
		Currency:         u.opts.Currency,
		CreatedAt:        time.Now(),
	}
	if err := u.refs.Save(ctx, repository.NoTX, ref); err != nil {
		return nil, fmt.Errorf("save payment reference: %w", err)
	}

	ctx = logging.WithCompanyID(logging.WithReference(ctx, reference), companyID)
	logging.With(ctx, u.log).Info().
		Str("plan", plan.Name).
		Msg("payment initialized")

	return &InitializeOutput{
		AuthorizationURL: res.AuthorizationURL,
		AccessCode:       res.AccessCode,
		Reference:        reference,
		Plan:             plan.Name,
		Amount:           plan.PriceMinor,
	}, nil
}

// Verify writes the subscription, the payment, the reference update and the
// company refresh in one transaction, so a failure midway leaves nothing
// behind. It does not check whether the reference was already verified:
// two concurrent calls for one reference (client verify racing the webhook)
// each create their own subscription and payment.
func (u *paymentUC) Verify(ctx context.Context, caller *model.Identity, reference string) (*VerifyOutput, error) {
	if caller.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return nil, domain.ErrMissingReference
	}

	res, err := u.gateway.Verify(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("gateway verify: %w", err)
	}
	if !res.Succeeded() {
		return nil, &domain.GatewayError{Op: domain.GatewayOpVerify, Message: verifyFailureMessage(res)}
	}

	plan := Stringify(res.Metadata["plan"])
	if plan == "" {
		plan = model.PlanBasic
	}
	paidAt := time.Now()
	if res.PaidAt != nil && !res.PaidAt.IsZero() {
		paidAt = *res.PaidAt
	}
	currency := res.Currency
	if currency == "" {
		currency = u.opts.Currency
	}

	var out *VerifyOutput
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		row, err := u.refs.FindByReference(ctx, tx, ref)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("lookup payment reference: %w", err)
		}
		companyID := Stringify(res.Metadata["company_id"])
		if companyID == "" && row != nil {
			companyID = row.CompanyID
		}

		sub, err := model.NewSubscription(companyID, plan, paidAt)
		if err != nil {
			return err
		}
		if err := u.subs.Save(ctx, tx, sub); err != nil {
			return fmt.Errorf("save subscription: %w", err)
		}

		p := &model.Payment{
			ID:                    uuid.NewString(),
			CompanyID:             companyID,
			SubscriptionID:        sub.ID,
			Amount:                model.MinorToMajor(res.Amount),
			Currency:              currency,
			Provider:              model.ProviderPaystack,
			ProviderReference:     ref,
			ProviderTransactionID: res.TransactionID,
			Status:                model.PaymentStatusSuccess,
			PaidAt:                paidAt,
			RawResponse:           res.Raw,
			CreatedAt:             time.Now(),
		}
		if err := u.payments.Save(ctx, tx, p); err != nil {
			return fmt.Errorf("save payment: %w", err)
		}

		if err := u.refs.MarkVerified(ctx, tx, ref, sub.ID, time.Now()); err != nil {
			return fmt.Errorf("mark reference verified: %w", err)
		}

		if companyID != "" {
			if err := u.companies.RefreshSubscriptionStatus(ctx, tx, companyID); err != nil {
				return fmt.Errorf("refresh company subscription status: %w", err)
			}
		}

		out = &VerifyOutput{
			CompanyID:      companyID,
			Plan:           plan,
			Status:         sub.Status,
			SubscriptionID: sub.ID,
			PaymentID:      p.ID,
			Amount:         res.Amount,
			Currency:       currency,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = logging.WithCompanyID(logging.WithReference(ctx, ref), out.CompanyID)
	logging.With(ctx, u.log).Info().
		Str("plan", out.Plan).
		Str("subscription_id", out.SubscriptionID).
		Bool("service", caller.IsService()).
		Msg("payment verified")
	return out, nil
}

// verifyFailureMessage passes the gateway's envelope message through as-is,
// even when the envelope itself reports success.
func verifyFailureMessage(res *adapter.VerifyResult) string {
	switch {
	case res == nil:
		return "verification failed"
	case res.Message != "":
		return res.Message
	case res.Status && res.TxStatus != "":
		return "verification failed: transaction " + res.TxStatus
	default:
		return "verification failed"
	}
}
