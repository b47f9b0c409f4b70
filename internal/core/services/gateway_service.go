// Package services implementa a lógica central do gateway de submissões.
package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jordan12251/telegram-form-api/internal/core/domain"
	"github.com/jordan12251/telegram-form-api/internal/core/ports"
)

// escaper cobre apenas os caracteres com significado no parse HTML do
// Telegram; nada além de &, < e > pode ser alterado.
var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// GatewayService compõe codec, política de acesso, rate limiter e o
// colaborador de entrega. A ordem é fixa: decode, authorize, admit, entrega —
// uma negação de acesso nunca consome orçamento de janela do destinatário.
type GatewayService struct {
	policy    *AccessPolicy
	limiter   ports.RateLimiter
	messenger ports.Messenger
	codeWidth int
}

func NewGatewayService(policy *AccessPolicy, limiter ports.RateLimiter, messenger ports.Messenger, codeWidth int) (*GatewayService, error) {
	if policy == nil || limiter == nil || messenger == nil {
		return nil, fmt.Errorf("policy, limiter and messenger are required")
	}
	if codeWidth <= 0 || codeWidth > domain.MaxCodeWidth {
		return nil, fmt.Errorf("code width must be between 1 and %d", domain.MaxCodeWidth)
	}
	return &GatewayService{
		policy:    policy,
		limiter:   limiter,
		messenger: messenger,
		codeWidth: codeWidth,
	}, nil
}

// SendForm entrega os campos de um formulário como mensagem de texto ao chat
// escondido atrás do código público.
func (s *GatewayService) SendForm(ctx context.Context, code, source, providedKey string, form map[string]string) (domain.Receipt, error) {
	if len(form) == 0 {
		return domain.Receipt{}, fmt.Errorf("%w: empty form", domain.ErrInvalidPayload)
	}

	chatID, err := s.admit(ctx, code, providedKey)
	if err != nil {
		return domain.Receipt{}, err
	}

	if err := s.messenger.SendText(ctx, chatID, renderForm(source, form)); err != nil {
		return domain.Receipt{}, fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return domain.Receipt{DeliveryID: uuid.NewString(), ChatID: chatID}, nil
}

// SendPhoto entrega uma foto enviada como data URI (data:<mime>;base64,...),
// com legenda derivada do rótulo de origem quando presente.
func (s *GatewayService) SendPhoto(ctx context.Context, code, source, providedKey, dataURI string) (domain.Receipt, error) {
	photo, err := parseDataURI(dataURI)
	if err != nil {
		return domain.Receipt{}, err
	}

	chatID, err := s.admit(ctx, code, providedKey)
	if err != nil {
		return domain.Receipt{}, err
	}

	caption := ""
	if source != "" {
		caption = fmt.Sprintf("Photo from %s", source)
	}
	if err := s.messenger.SendPhoto(ctx, chatID, photo, caption); err != nil {
		return domain.Receipt{}, fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return domain.Receipt{DeliveryID: uuid.NewString(), ChatID: chatID}, nil
}

// EncodeChat devolve o código público de um chat id. Operação privilegiada:
// exige a owner key.
func (s *GatewayService) EncodeChat(chatID int64, providedKey string) (string, error) {
	if !s.policy.HasOwnerKey() {
		return "", fmt.Errorf("%w: owner key is not set", domain.ErrMisconfigured)
	}
	if !s.policy.IsOwner(providedKey) {
		return "", domain.ErrUnauthorized
	}
	return domain.EncodeChatID(chatID, s.codeWidth)
}

func (s *GatewayService) admit(ctx context.Context, code, providedKey string) (int64, error) {
	chatID, err := domain.DecodeCode(code)
	if err != nil {
		return 0, err
	}

	if err := s.policy.Authorize(chatID, providedKey); err != nil {
		return 0, err
	}

	if _, err := s.limiter.Admit(ctx, chatID); err != nil {
		return 0, err
	}
	return chatID, nil
}

// renderForm monta uma linha "chave: valor" por campo, em ordem estável,
// escapando somente &, < e >.
func renderForm(source string, form map[string]string) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	if source != "" {
		fmt.Fprintf(&b, "New submission from %s\n", escaper.Replace(source))
	}
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", escaper.Replace(k), escaper.Replace(form[k]))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func parseDataURI(dataURI string) (domain.Photo, error) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return domain.Photo{}, fmt.Errorf("%w: photo must be a data URI", domain.ErrInvalidPayload)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return domain.Photo{}, fmt.Errorf("%w: data URI has no payload", domain.ErrInvalidPayload)
	}
	mime, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return domain.Photo{}, fmt.Errorf("%w: data URI must be base64 encoded", domain.ErrInvalidPayload)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("%w: broken base64 payload", domain.ErrInvalidPayload)
	}
	if len(data) == 0 {
		return domain.Photo{}, fmt.Errorf("%w: empty photo", domain.ErrInvalidPayload)
	}
	return domain.Photo{Data: data, MIME: mime}, nil
}
