// Package sessions содержит реализации хранилища refresh-токенов.
package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"notekeeper/internal/notes/domain/services"
	"notekeeper/internal/notes/ports/repositories"
)

const (
	errCtxStoringToken  = "storing refresh token"
	errCtxFindingToken  = "finding refresh token"
	errCtxRevokingToken = "revoking refresh token"
)

// Memory реализует TokenRepository в памяти процесса.
// Используется по умолчанию: сервис остается однопроцессным и не требует
// внешней инфраструктуры.
type Memory struct {
	mu     sync.RWMutex
	tokens map[string]*services.RefreshToken
}

// NewMemory создает новое хранилище токенов в памяти.
func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]*services.RefreshToken)}
}

// StoreRefreshToken сохраняет refresh-токен.
func (m *Memory) StoreRefreshToken(_ context.Context, token *services.RefreshToken) error {
	if token == nil || token.Token == "" {
		return fmt.Errorf("%s: %w", errCtxStoringToken, services.ErrInvalidRefreshToken)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *token
	m.tokens[token.Token] = &stored
	return nil
}

// FindByToken ищет refresh-токен. Истекшие токены удаляются при обращении.
func (m *Memory) FindByToken(_ context.Context, token string) (*services.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tokens[token]
	if !ok {
		return nil, fmt.Errorf("%s: %w", errCtxFindingToken, services.ErrInvalidRefreshToken)
	}
	if time.Now().After(stored.ExpiresAt) {
		delete(m.tokens, token)
		return nil, fmt.Errorf("%s: %w", errCtxFindingToken, services.ErrInvalidRefreshToken)
	}

	found := *stored
	return &found, nil
}

// RevokeToken отзывает refresh-токен.
func (m *Memory) RevokeToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tokens[token]
	if !ok {
		return fmt.Errorf("%s: %w", errCtxRevokingToken, services.ErrInvalidRefreshToken)
	}
	stored.IsRevoked = true
	return nil
}

// Compile-time проверка реализации интерфейса.
var _ repositories.TokenRepository = (*Memory)(nil)
