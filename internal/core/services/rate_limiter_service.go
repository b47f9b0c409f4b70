package services

import (
	"context"
	"fmt"

	"github.com/jordan12251/telegram-form-api/internal/core/domain"
	"github.com/jordan12251/telegram-form-api/internal/core/ports"
)

// RateLimiterService implementa a admissão por janela fixa sobre o storage.
type RateLimiterService struct {
	storage ports.Storage
	rule    domain.RateLimitRule
}

// NewRateLimiterService cria uma nova instância do serviço.
func NewRateLimiterService(storage ports.Storage, rule domain.RateLimitRule) (*RateLimiterService, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if rule.Requests <= 0 || rule.Window <= 0 {
		return nil, fmt.Errorf("rate limit rule must have positive values")
	}
	return &RateLimiterService{storage: storage, rule: rule}, nil
}

// Admit avalia se mais uma requisição para o chat cabe na janela corrente.
// O contador avança mesmo quando a resposta é rejeição, para que sondagens
// acima do limite não saiam de graça.
func (s *RateLimiterService) Admit(ctx context.Context, chatID int64) (domain.Decision, error) {
	key := fmt.Sprintf("ratelimit:chat:%d", chatID)

	count, err := s.storage.Increment(ctx, key, s.rule.Window)
	if err != nil {
		return domain.Decision{}, err
	}

	decision := domain.Decision{
		Allowed:      count <= int64(s.rule.Requests),
		ChatID:       chatID,
		CurrentCount: count,
	}
	if !decision.Allowed {
		return decision, domain.ErrRateLimited
	}
	return decision, nil
}
