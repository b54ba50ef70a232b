// File: internal/infra/adapters/payment/paystack_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paystack-billing/internal/domain/ports/adapter"
	"paystack-billing/internal/infra/metrics"
)

var _ adapter.PaymentGateway = (*PaystackGateway)(nil)

const (
	DefaultBaseURL = "https://api.paystack.co"

	// maxResponseBytes bounds how much of a provider response is read.
	maxResponseBytes = 1 << 20
)

// PaystackGateway implements adapter.PaymentGateway over the Paystack REST
// API (transaction/initialize and transaction/verify).
type PaystackGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystackGateway(secretKey, baseURL string, timeout time.Duration) (*PaystackGateway, error) {
	if secretKey == "" {
		return nil, errors.New("paystack secret key empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid paystack base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PaystackGateway{
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (p *PaystackGateway) Name() string { return "paystack" }

// envelope is the common Paystack response shape.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize calls POST /transaction/initialize.
func (p *PaystackGateway) Initialize(ctx context.Context, in adapter.InitializeRequest) (res *adapter.InitializeResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGatewayCall(p.Name(), "initialize", gatewayResult(err, res != nil && res.Status), time.Since(start)) }()

	payload := map[string]any{
		"email":     in.Email,
		"amount":    in.Amount,
		"reference": in.Reference,
	}
	if len(in.Metadata) > 0 {
		payload["metadata"] = in.Metadata
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	env, _, err := p.do(ctx, http.MethodPost, "/transaction/initialize", b)
	if err != nil {
		return nil, err
	}
	out := &adapter.InitializeResult{Status: env.Status, Message: env.Message}
	if !env.Status {
		return out, nil
	}
	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if err := decodeData(env.Data, &data); err != nil {
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	out.AuthorizationURL = data.AuthorizationURL
	out.AccessCode = data.AccessCode
	out.Reference = data.Reference
	if out.Reference == "" {
		out.Reference = in.Reference
	}
	return out, nil
}

// Verify calls GET /transaction/verify/{reference}. The raw response body
// is kept on the result for auditing.
func (p *PaystackGateway) Verify(ctx context.Context, reference string) (res *adapter.VerifyResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGatewayCall(p.Name(), "verify", gatewayResult(err, res.Succeeded()), time.Since(start)) }()

	env, raw, err := p.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}
	out := &adapter.VerifyResult{
		Status:    env.Status,
		Message:   env.Message,
		Reference: reference,
		Raw:       raw,
	}
	if !env.Status {
		return out, nil
	}

	var data struct {
		ID        json.Number     `json:"id"`
		Status    string          `json:"status"`
		Reference string          `json:"reference"`
		Amount    int64           `json:"amount"`
		Currency  string          `json:"currency"`
		PaidAt    *string         `json:"paid_at"`
		Metadata  json.RawMessage `json:"metadata"`
	}
	if err := decodeData(env.Data, &data); err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	out.TxStatus = data.Status
	out.TransactionID = data.ID.String()
	out.Amount = data.Amount
	out.Currency = data.Currency
	out.Metadata = decodeMetadata(data.Metadata)
	if data.Reference != "" {
		out.Reference = data.Reference
	}
	if data.PaidAt != nil && *data.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, *data.PaidAt); err == nil {
			out.PaidAt = &t
		}
	}
	return out, nil
}

// do performs an authenticated call and decodes the envelope. Any response
// that is not a JSON envelope is a transport error; a JSON envelope is
// returned whatever the HTTP status, since Paystack reports business
// failures as status=false with a 4xx code.
func (p *PaystackGateway) do(ctx context.Context, method, path string, body []byte) (*envelope, json.RawMessage, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, rdr)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, nil, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, fmt.Errorf("paystack http %d: undecodable response: %w", resp.StatusCode, err)
	}
	return &env, raw, nil
}

func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return errors.New("missing data")
	}
	return json.Unmarshal(raw, v)
}

// decodeMetadata accepts the object form and the JSON-in-a-string form
// Paystack uses for metadata set through some dashboards. Anything else
// yields nil.
func decodeMetadata(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err == nil {
		return m
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			return m
		}
	}
	return nil
}

func gatewayResult(err error, ok bool) string {
	switch {
	case err != nil:
		return "error"
	case ok:
		return "ok"
	default:
		return "refused"
	}
}
