//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/adapter"
	"paystack-billing/internal/domain/ports/repository"
)

// =============================
// Adapters
// =============================

// ---- Mock PaymentGateway ----

type MockPaymentGateway struct {
	mu sync.Mutex

	InitializeFunc func(ctx context.Context, req adapter.InitializeRequest) (*adapter.InitializeResult, error)
	VerifyFunc     func(ctx context.Context, reference string) (*adapter.VerifyResult, error)

	InitCalls   []adapter.InitializeRequest
	VerifyCalls []string
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) Initialize(ctx context.Context, req adapter.InitializeRequest) (*adapter.InitializeResult, error) {
	m.mu.Lock()
	m.InitCalls = append(m.InitCalls, req)
	m.mu.Unlock()
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, req)
	}
	return &adapter.InitializeResult{
		Status:           true,
		Message:          "Authorization URL created",
		AuthorizationURL: "https://checkout.paystack.com/" + req.Reference,
		AccessCode:       "AC_" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (m *MockPaymentGateway) Verify(ctx context.Context, reference string) (*adapter.VerifyResult, error) {
	m.mu.Lock()
	m.VerifyCalls = append(m.VerifyCalls, reference)
	m.mu.Unlock()
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, reference)
	}
	return &adapter.VerifyResult{Status: true, Message: "Verification successful", TxStatus: "abandoned", Reference: reference}, nil
}

func (m *MockPaymentGateway) verifyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.VerifyCalls)
}

// successfulVerify builds a gateway answer for a paid transaction.
func successfulVerify(plan, companyID string, amount int64, paidAt time.Time) func(ctx context.Context, reference string) (*adapter.VerifyResult, error) {
	return func(ctx context.Context, reference string) (*adapter.VerifyResult, error) {
		meta := map[string]any{}
		if plan != "" {
			meta["plan"] = plan
		}
		if companyID != "" {
			meta["company_id"] = companyID
		}
		return &adapter.VerifyResult{
			Status:        true,
			Message:       "Verification successful",
			TxStatus:      "success",
			TransactionID: "4099260516",
			Reference:     reference,
			Amount:        amount,
			Currency:      "NGN",
			PaidAt:        &paidAt,
			Metadata:      meta,
			Raw:           []byte(`{"status":true}`),
		}, nil
	}
}

// ---- Mock WebhookVerifier ----

type MockWebhookVerifier struct {
	Valid bool
}

var _ adapter.WebhookVerifier = (*MockWebhookVerifier)(nil)

func (m *MockWebhookVerifier) Verify(body []byte, signature string) bool { return m.Valid }

// ---- Mock TaskRunner ----

// MockTaskRunner runs submitted tasks synchronously unless SubmitErr is set.
type MockTaskRunner struct {
	mu        sync.Mutex
	Submitted int
	SubmitErr error
}

var _ adapter.TaskRunner = (*MockTaskRunner)(nil)

func (m *MockTaskRunner) Submit(task adapter.Task) error {
	if m.SubmitErr != nil {
		return m.SubmitErr
	}
	m.mu.Lock()
	m.Submitted++
	m.mu.Unlock()
	_ = task(context.Background())
	return nil
}

// ---- Mock Mailer ----

type MockMailer struct {
	mu   sync.Mutex
	Sent []*model.Notification

	SendFunc func(ctx context.Context, n *model.Notification) error
}

var _ adapter.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, n *model.Notification) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, n)
	return nil
}

// =============================
// Repositories
// =============================

// ---- In-memory UserRepository ----

type MockUserRepo struct {
	mu     sync.Mutex
	byAuth map[string]*model.User

	FindByAuthUserIDFunc func(ctx context.Context, tx repository.Tx, authUserID string) (*model.User, error)
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{byAuth: map[string]*model.User{}}
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func (m *MockUserRepo) Put(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.byAuth[u.AuthUserID] = &cp
}

func (m *MockUserRepo) FindByAuthUserID(ctx context.Context, tx repository.Tx, authUserID string) (*model.User, error) {
	if m.FindByAuthUserIDFunc != nil {
		return m.FindByAuthUserIDFunc(ctx, tx, authUserID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byAuth[authUserID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

// ---- In-memory PaymentReferenceRepository ----

type MockPaymentReferenceRepo struct {
	mu    sync.Mutex
	byRef map[string]*model.PaymentReference

	SaveFunc         func(ctx context.Context, tx repository.Tx, ref *model.PaymentReference) error
	MarkVerifiedFunc func(ctx context.Context, tx repository.Tx, reference, subscriptionID string, verifiedAt time.Time) error
}

func NewMockPaymentReferenceRepo() *MockPaymentReferenceRepo {
	return &MockPaymentReferenceRepo{byRef: map[string]*model.PaymentReference{}}
}

var _ repository.PaymentReferenceRepository = (*MockPaymentReferenceRepo)(nil)

func (m *MockPaymentReferenceRepo) Save(ctx context.Context, tx repository.Tx, ref *model.PaymentReference) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, ref)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *ref
	m.byRef[ref.Reference] = &cp
	return nil
}

func (m *MockPaymentReferenceRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.PaymentReference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.byRef[reference]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentReferenceRepo) MarkVerified(ctx context.Context, tx repository.Tx, reference, subscriptionID string, verifiedAt time.Time) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(ctx, tx, reference, subscriptionID, verifiedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Updating a missing row is a no-op, like the SQL UPDATE.
	if r, ok := m.byRef[reference]; ok {
		r.Status = model.ReferenceStatusSuccess
		sid := subscriptionID
		r.SubscriptionID = &sid
		at := verifiedAt
		r.VerifiedAt = &at
	}
	return nil
}

func (m *MockPaymentReferenceRepo) ListPendingBetween(ctx context.Context, tx repository.Tx, createdAfter, createdBefore time.Time, limit int) ([]*model.PaymentReference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PaymentReference
	for _, r := range m.byRef {
		if r.Status == model.ReferenceStatusPending && r.CreatedAt.Before(createdBefore) && !r.CreatedAt.Before(createdAfter) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockPaymentReferenceRepo) get(reference string) *model.PaymentReference {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byRef[reference]
}

// ---- In-memory SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Subscription

	SaveFunc func(ctx context.Context, tx repository.Tx, sub *model.Subscription) error
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{byID: map[string]*model.Subscription{}}
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func (m *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.byID[sub.ID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Subscription
	for _, s := range m.byID {
		if s.CompanyID == companyID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockSubscriptionRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// ---- In-memory PaymentRepository ----

type MockPaymentRepo struct {
	mu    sync.Mutex
	saved []*model.Payment

	SaveFunc func(ctx context.Context, tx repository.Tx, p *model.Payment) error
}

func NewMockPaymentRepo() *MockPaymentRepo { return &MockPaymentRepo{} }

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.saved = append(m.saved, &cp)
	return nil
}

func (m *MockPaymentRepo) ListByProviderReference(ctx context.Context, tx repository.Tx, reference string) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.saved {
		if p.ProviderReference == reference {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPaymentRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

// ---- Mock CompanyRepository ----

type MockCompanyRepo struct {
	mu        sync.Mutex
	Refreshed []string

	RefreshFunc func(ctx context.Context, tx repository.Tx, companyID string) error
}

var _ repository.CompanyRepository = (*MockCompanyRepo)(nil)

func (m *MockCompanyRepo) RefreshSubscriptionStatus(ctx context.Context, tx repository.Tx, companyID string) error {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, tx, companyID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshed = append(m.Refreshed, companyID)
	return nil
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	Calls      int
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs fn immediately with NoTX unless WithTxFunc overrides it.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.Calls++
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
