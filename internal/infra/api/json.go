package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/infra/logging"
)

const msgUnexpected = "Unexpected error"

var errBadJSON = errors.New("invalid request body")

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error to its HTTP status and client-facing message.
func statusFor(err error) (int, string) {
	var gwErr *domain.GatewayError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, domain.ErrUnauthorized.Error()
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusUnauthorized, domain.ErrInvalidSignature.Error()
	case errors.As(err, &gwErr):
		return http.StatusBadRequest, gwErr.Message
	case errors.Is(err, domain.ErrMissingReference),
		errors.Is(err, domain.ErrMissingWebhookRef),
		errors.Is(err, domain.ErrMissingFields),
		errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, errBadJSON):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrOperationFailed):
		return http.StatusInternalServerError, domain.ErrOperationFailed.Error()
	}
	if msg := err.Error(); msg != "" {
		return http.StatusInternalServerError, msg
	}
	return http.StatusInternalServerError, msgUnexpected
}

func writeError(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		l := logging.With(r.Context(), logger)
		l.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, code, errorBody{Error: msg})
}

// readBody reads at most limit bytes. An empty body is not an error.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var mbErr *http.MaxBytesError
		if errors.As(err, &mbErr) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}
	return b, nil
}

// decodeJSON treats an empty or whitespace body as {}.
func decodeJSON(b []byte, v any) error {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errBadJSON
	}
	return nil
}
