package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	ErrUnauthorized      = errors.New("Unauthorized")
	ErrInvalidSignature  = errors.New("Invalid webhook signature")
	ErrMissingReference  = errors.New("reference required")
	ErrMissingWebhookRef = errors.New("Missing reference")
	ErrMissingFields     = errors.New("to, subject and message are required")
	ErrRateLimited       = errors.New("too many requests")
	ErrLockHeld          = errors.New("lock held by another worker")
)

// GatewayError is a business failure reported by the payment gateway: the
// HTTP call went through but the provider answered status=false (or, for
// verify, the transaction is not in the success state).
type GatewayError struct {
	Op      string // initialize | verify
	Message string
}

func (e *GatewayError) Error() string { return e.Message }

const (
	GatewayOpInitialize = "initialize"
	GatewayOpVerify     = "verify"
)
