package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jordan12251/telegram-form-api/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError traduz a taxonomia de erros do domínio para status HTTP. A
// mensagem devolvida é a do sentinel, nunca o detalhe interno, para não vazar
// configuração nem estado de outros destinatários.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrInvalidChatID),
		errors.Is(err, domain.ErrInvalidPayload):
		status = http.StatusBadRequest
		msg = sentinelMessage(err)
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
		msg = domain.ErrUnauthorized.Error()
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
		msg = domain.ErrForbidden.Error()
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
		msg = domain.ErrRateLimited.Error()
	case errors.Is(err, domain.ErrDeliveryFailed):
		status = http.StatusBadGateway
		msg = domain.ErrDeliveryFailed.Error()
	case errors.Is(err, domain.ErrMisconfigured):
		status = http.StatusInternalServerError
		msg = domain.ErrMisconfigured.Error()
	}

	writeJSON(w, status, errorResponse{Error: msg})
}

func sentinelMessage(err error) string {
	for _, sentinel := range []error{domain.ErrInvalidCode, domain.ErrInvalidChatID, domain.ErrInvalidPayload} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "bad request"
}
