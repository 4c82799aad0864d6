package repositories

import (
	"context"

	"notekeeper/internal/notes/domain/services"
)

// TokenRepository определяет интерфейс для хранилища refresh-токенов.
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, token *services.RefreshToken) error

	FindByToken(ctx context.Context, token string) (*services.RefreshToken, error)

	RevokeToken(ctx context.Context, token string) error
}
