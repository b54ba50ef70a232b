package api

import (
	"errors"
	"net/http"
	"strings"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/infra/adapters/payment"
	"paystack-billing/internal/infra/logging"
	"paystack-billing/internal/infra/metrics"
	"paystack-billing/internal/usecase"
)

type initializeRequest struct {
	Plan any `json:"plan"`
}

type initializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, s.maxBody)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	var req initializeRequest
	if err := decodeJSON(body, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	out, err := s.payments.Initialize(r.Context(), IdentityFrom(r.Context()), req.Plan)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, initializeResponse{
		AuthorizationURL: out.AuthorizationURL,
		AccessCode:       out.AccessCode,
		Reference:        out.Reference,
	})
}

type verifyRequest struct {
	Reference any `json:"reference"`
}

type verifyResponse struct {
	Verified  bool   `json:"verified"`
	CompanyID string `json:"company_id,omitempty"`
	Plan      string `json:"plan,omitempty"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, s.maxBody)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	var req verifyRequest
	if err := decodeJSON(body, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	ref := strings.TrimSpace(usecase.Stringify(req.Reference))
	ctx := r.Context()
	if ref != "" {
		ctx = logging.WithReference(ctx, ref)
	}
	out, err := s.payments.Verify(ctx, IdentityFrom(ctx), ref)
	if err != nil {
		var gwErr *domain.GatewayError
		if errors.As(err, &gwErr) {
			writeJSON(w, http.StatusBadRequest, verifyResponse{Verified: false, Error: gwErr.Message})
			return
		}
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{
		Verified:  true,
		CompanyID: out.CompanyID,
		Plan:      out.Plan,
		Status:    string(out.Status),
	})
}

type okResponse struct {
	OK      bool `json:"ok"`
	Ignored bool `json:"ignored,omitempty"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, s.maxBody)
	if err != nil {
		metrics.IncWebhookEvent("error")
		writeError(w, r, s.log, err)
		return
	}

	res, err := s.webhooks.Handle(r.Context(), body, r.Header.Get(payment.SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			metrics.IncWebhookEvent("bad_signature")
		case errors.Is(err, domain.ErrMissingWebhookRef):
			metrics.IncWebhookEvent("missing_reference")
		default:
			metrics.IncWebhookEvent("error")
		}
		writeError(w, r, s.log, err)
		return
	}
	if res.Ignored {
		metrics.IncWebhookEvent("ignored")
		writeJSON(w, http.StatusOK, okResponse{OK: true, Ignored: true})
		return
	}
	metrics.IncWebhookEvent("accepted")
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

type notificationRequest struct {
	To      any `json:"to"`
	Subject any `json:"subject"`
	Message any `json:"message"`
}

func (s *Server) handleNotification(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, s.maxBody)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	var req notificationRequest
	if err := decodeJSON(body, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	_, err = s.notify.Send(r.Context(), usecase.NotificationInput{
		To:      truthy(req.To),
		Subject: truthy(req.Subject),
		Message: truthy(req.Message),
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			metrics.IncNotification("invalid")
		} else {
			metrics.IncNotification("error")
		}
		writeError(w, r, s.log, err)
		return
	}
	metrics.IncNotification("accepted")
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// truthy stringifies v, mapping false, zero and empty values to "".
func truthy(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
	}
	return usecase.Stringify(v)
}
