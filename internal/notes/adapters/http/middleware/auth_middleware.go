package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	domain "notekeeper/internal/notes/domain/services"
	svc "notekeeper/internal/notes/ports/services"
	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorInvalidToken       = "invalid or expired access token"

	// UserIDKey - ключ Locals с идентификатором действующего пользователя.
	UserIDKey = "userID"
)

// NewAuthMiddleware создает промежуточное ПО, которое резолвит действующего
// пользователя из Bearer access-токена. Email в качестве учетных данных не
// принимается.
func NewAuthMiddleware(tokenSvc svc.TokenService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get("Authorization")
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrorNoAuthHeader,
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrorInvalidTokenFormat,
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := tokenSvc.ValidateAccessToken(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
			message := ErrorInvalidToken
			if errors.Is(err, domain.ErrExpiredJWTToken) {
				message = domain.ErrExpiredJWTToken.Error()
			}
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": message,
			})
		}

		ctx.Locals(UserIDKey, userID)

		return ctx.Next()
	}
}
