// Package memory disponibiliza a implementação do storage em memória de
// processo. Estado vive só até o restart, o que basta para um sinal grosseiro
// de abuso.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jordan12251/telegram-form-api/internal/clock"
	"github.com/jordan12251/telegram-form-api/internal/core/ports"
)

type Storage struct {
	mu      sync.Mutex
	entries map[string]*entry

	clk          clock.Clock
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type entry struct {
	count     int64
	windowEnd time.Time
}

var _ ports.Storage = (*Storage)(nil)

type Option func(*Storage)

func WithClock(clk clock.Clock) Option {
	return func(s *Storage) { s.clk = clk }
}

func WithIdleTTL(d time.Duration) Option {
	return func(s *Storage) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) Option {
	return func(s *Storage) { s.cleanupEvery = d }
}

func New(opts ...Option) *Storage {
	s := &Storage{
		entries:      make(map[string]*entry),
		clk:          clock.System{},
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Increment avança o contador da chave dentro da janela corrente. Na primeira
// chamada, e sempre que a janela corrente já expirou, o contador recomeça e a
// janela é ancorada em now+window.
func (s *Storage) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	now := s.clk.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{windowEnd: now.Add(window)}
		s.entries[key] = e
	} else if now.After(e.windowEnd) {
		e.count = 0
		e.windowEnd = now.Add(window)
	}

	e.count++
	return e.count, nil
}

// Cleanup remove entradas cuja janela expirou há mais de idleTTL. Sem isso o
// mapa cresce com a cardinalidade de destinatários vista no processo.
func (s *Storage) Cleanup() {
	cutoff := s.clk.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, e := range s.entries {
		if e.windowEnd.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor limpa chaves inativas periodicamente até o contexto encerrar.
func (s *Storage) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// Len informa quantas chaves estão vivas; usado em testes e diagnóstico.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
