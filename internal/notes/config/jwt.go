package config

import (
	"time"
)

// JWTConfig содержит настройки для JWT токенов.
type JWTConfig struct {
	SecretKey       string        `yaml:"secret_key" env:"NOTES_JWT_SECRET_KEY" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"NOTES_JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"NOTES_JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
	BcryptCost      int           `yaml:"bcrypt_cost" env:"NOTES_BCRYPT_COST" env-default:"10"`
}
