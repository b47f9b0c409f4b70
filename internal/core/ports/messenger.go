package ports

import (
	"context"

	"github.com/jordan12251/telegram-form-api/internal/core/domain"
)

// Messenger é o colaborador externo que entrega conteúdo ao chat.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, photo domain.Photo, caption string) error
}
