package ports

import (
	"context"
	"time"
)

// Storage mantém os contadores de janela fixa por chave. Increment cria a
// janela na primeira chamada, zera o contador quando a janela corrente já
// passou e sempre incrementa, inclusive na chamada que será rejeitada.
type Storage interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}
