package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notekeeper/internal/notes/config"
	"notekeeper/internal/notes/domain/services"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodStore  = "store"
	LogMethodFind   = "find"
	LogMethodRevoke = "revoke"

	ErrorFailedToStore  = "failed to store token in redis"
	ErrorFailedToFind   = "failed to find token in redis"
	ErrorFailedToRevoke = "failed to revoke token in redis"
	ErrorFailedToClose  = "failed to close redis connection"

	tokenKeyPrefix = "refresh_token:" // #nosec G101 - key namespace, not a credential
)

// Redis реализует TokenRepository поверх Redis. Время жизни ключа
// совпадает со сроком действия токена.
type Redis struct {
	client *redis.Client
}

// NewRedis создает новое хранилище токенов в Redis.
func NewRedis(ctx context.Context, cfg *config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.GetAddress(),
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     cfg.ConnectTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdle,
		ConnMaxIdleTime: cfg.IdleTimeout,
		ConnMaxLifetime: cfg.MaxConnLifetime,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{client: client}, nil
}

// StoreRefreshToken сохраняет refresh-токен с TTL до его истечения.
func (r *Redis) StoreRefreshToken(ctx context.Context, token *services.RefreshToken) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodStore))

	if token == nil || token.Token == "" {
		return fmt.Errorf("%s: %w", errCtxStoringToken, services.ErrInvalidRefreshToken)
	}

	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%s: %w", errCtxStoringToken, services.ErrInvalidRefreshToken)
	}

	data, err := json.Marshal(token)
	if err != nil {
		log.Error(ctx, ErrorFailedToStore, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToStore, err)
	}

	if err := r.client.Set(ctx, tokenKeyPrefix+token.Token, data, ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToStore, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToStore, err)
	}

	return nil
}

// FindByToken ищет refresh-токен. Истекшие ключи удаляет сам Redis.
func (r *Redis) FindByToken(ctx context.Context, token string) (*services.RefreshToken, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodFind))

	data, err := r.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", errCtxFindingToken, services.ErrInvalidRefreshToken)
		}
		log.Error(ctx, ErrorFailedToFind, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToFind, err)
	}

	var stored services.RefreshToken
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		log.Error(ctx, ErrorFailedToFind, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToFind, err)
	}

	return &stored, nil
}

// RevokeToken отзывает refresh-токен, сохраняя оставшийся TTL ключа.
func (r *Redis) RevokeToken(ctx context.Context, token string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRevoke))

	stored, err := r.FindByToken(ctx, token)
	if err != nil {
		return err
	}

	stored.IsRevoked = true
	data, err := json.Marshal(stored)
	if err != nil {
		log.Error(ctx, ErrorFailedToRevoke, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRevoke, err)
	}

	if err := r.client.Set(ctx, tokenKeyPrefix+token, data, redis.KeepTTL).Err(); err != nil {
		log.Error(ctx, ErrorFailedToRevoke, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRevoke, err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (r *Redis) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}

// Compile-time проверка реализации интерфейса.
var _ repositories.TokenRepository = (*Redis)(nil)
