package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"

	"paystack-billing/internal/domain/ports/adapter"
)

// SignatureHeader carries the webhook signature.
const SignatureHeader = "x-paystack-signature"

var _ adapter.WebhookVerifier = (*PaystackWebhookVerifier)(nil)

// PaystackWebhookVerifier checks x-paystack-signature: lowercase hex of
// HMAC-SHA512 over the exact request body, keyed with the secret key.
type PaystackWebhookVerifier struct {
	secret []byte
}

func NewPaystackWebhookVerifier(secretKey string) *PaystackWebhookVerifier {
	return &PaystackWebhookVerifier{secret: []byte(secretKey)}
}

// Verify compares in constant time. An empty secret or signature never
// verifies.
func (v *PaystackWebhookVerifier) Verify(body []byte, signature string) bool {
	if len(v.secret) == 0 || signature == "" {
		return false
	}
	expected := Sign(body, v.secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign returns the signature Paystack would send for body.
func Sign(body, secret []byte) string {
	mac := hmac.New(sha512.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
