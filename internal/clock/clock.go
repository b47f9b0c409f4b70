// Package clock abstrai a fonte de tempo para permitir testes determinísticos.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// System usa o relógio do sistema.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Manual é um relógio controlado manualmente, usado apenas em testes.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance avança o relógio pela duração informada.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
