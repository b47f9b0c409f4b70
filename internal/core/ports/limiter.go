package ports

import (
	"context"

	"github.com/jordan12251/telegram-form-api/internal/core/domain"
)

type RateLimiter interface {
	Admit(ctx context.Context, chatID int64) (domain.Decision, error)
}
