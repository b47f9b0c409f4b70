package services

import (
	"crypto/subtle"
	"strconv"

	"github.com/jordan12251/telegram-form-api/internal/core/domain"
)

// AccessPolicy decide se uma requisição pode atingir um chat: a owner key
// configurada libera qualquer destino; sem ela, vale a allow-list.
type AccessPolicy struct {
	ownerKey      string
	allowed       map[string]struct{}
	openWhenEmpty bool
}

// NewAccessPolicy monta a política a partir da configuração imutável de
// startup. openWhenEmpty controla o comportamento com allow-list vazia;
// o padrão da aplicação é fechado.
func NewAccessPolicy(ownerKey string, allowList []string, openWhenEmpty bool) *AccessPolicy {
	allowed := make(map[string]struct{}, len(allowList))
	for _, id := range allowList {
		if id != "" {
			allowed[id] = struct{}{}
		}
	}
	return &AccessPolicy{
		ownerKey:      ownerKey,
		allowed:       allowed,
		openWhenEmpty: openWhenEmpty,
	}
}

// Authorize retorna nil quando o chat pode receber a submissão e
// domain.ErrForbidden caso contrário. Função pura, sem efeitos colaterais.
func (p *AccessPolicy) Authorize(chatID int64, providedKey string) error {
	if p.IsOwner(providedKey) {
		return nil
	}

	if len(p.allowed) == 0 {
		if p.openWhenEmpty {
			return nil
		}
		return domain.ErrForbidden
	}

	if _, ok := p.allowed[strconv.FormatInt(chatID, 10)]; ok {
		return nil
	}
	return domain.ErrForbidden
}

// IsOwner compara a credencial recebida com a owner key em tempo constante.
// Uma owner key vazia nunca casa.
func (p *AccessPolicy) IsOwner(providedKey string) bool {
	if p.ownerKey == "" || providedKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(p.ownerKey), []byte(providedKey)) == 1
}

// HasOwnerKey informa se existe owner key configurada.
func (p *AccessPolicy) HasOwnerKey() bool {
	return p.ownerKey != ""
}
