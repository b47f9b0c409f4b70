// Package handlers agrupa os handlers HTTP do gateway.
package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jordan12251/telegram-form-api/internal/core/domain"
	"github.com/jordan12251/telegram-form-api/internal/core/services"
)

// OwnerKeyHeader carrega a credencial privilegiada opcional da requisição.
const OwnerKeyHeader = "X-Owner-Key"

type Handler struct {
	gateway *services.GatewayService
}

func New(gateway *services.GatewayService) *Handler {
	return &Handler{gateway: gateway}
}

type sendFormRequest struct {
	Source string            `json:"source"`
	Form   map[string]string `json:"form"`
}

type sendPhotoRequest struct {
	Source string `json:"source"`
	Photo  string `json:"photo"`
}

type receiptResponse struct {
	DeliveryID string `json:"delivery_id"`
	Status     string `json:"status"`
}

// SendForm trata POST /api/send/{code}.
func (h *Handler) SendForm(w http.ResponseWriter, r *http.Request) {
	var req sendFormRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	receipt, err := h.gateway.SendForm(r.Context(), chi.URLParam(r, "code"), req.Source, r.Header.Get(OwnerKeyHeader), req.Form)
	if err != nil {
		logRejection(r, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, receiptResponse{DeliveryID: receipt.DeliveryID, Status: "delivered"})
}

// SendPhoto trata POST /api/photo/{code}.
func (h *Handler) SendPhoto(w http.ResponseWriter, r *http.Request) {
	var req sendPhotoRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	receipt, err := h.gateway.SendPhoto(r.Context(), chi.URLParam(r, "code"), req.Source, r.Header.Get(OwnerKeyHeader), req.Photo)
	if err != nil {
		logRejection(r, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, receiptResponse{DeliveryID: receipt.DeliveryID, Status: "delivered"})
}

// EncodeChat trata GET /api/code/{chatID}; operação restrita à owner key.
func (h *Handler) EncodeChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: chat id must be numeric", domain.ErrInvalidChatID))
		return
	}

	code, err := h.gateway.EncodeChat(chatID, r.Header.Get(OwnerKeyHeader))
	if err != nil {
		logRejection(r, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"code": code})
}

// Health responde ao probe de liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 10<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidPayload)
	}
	return nil
}

func logRejection(r *http.Request, err error) {
	// err aqui é sempre um sentinel da taxonomia, sem chave nem contadores.
	log.Printf("%s %s rejected: %v", r.Method, r.URL.Path, err)
}
