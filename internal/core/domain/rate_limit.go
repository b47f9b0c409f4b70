package domain

import "time"

// RateLimitRule descreve uma janela fixa de admissão por destinatário.
type RateLimitRule struct {
	Requests int
	Window   time.Duration
}

// Decision é o resultado de uma checagem de admissão.
type Decision struct {
	Allowed      bool
	ChatID       int64
	CurrentCount int64
}
