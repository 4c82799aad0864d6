// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"notekeeper/internal/notes/adapters/http/auth"
	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/adapters/http/notes"
	"notekeeper/internal/notes/ports/api"
	svc "notekeeper/internal/notes/ports/services"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
// Пути соответствуют исходному публичному контракту сервиса.
func SetupRouter(app *fiber.App, authUseCase api.AuthUseCase, noteUseCase api.NoteUseCase, tokenSvc svc.TokenService) {
	authHandler := auth.NewHandler(authUseCase)
	notesHandler := notes.NewHandler(noteUseCase)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// Публичные маршруты аутентификации.
	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)
	app.Post("/refresh", authHandler.RefreshTokens)
	app.Post("/logout", authHandler.Logout)

	// Защищенные маршруты: действующий пользователь резолвится из
	// access-токена.
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)
	app.Post("/create-note", notesHandler.CreateNote, authMiddleware)
	app.Get("/notes", notesHandler.ListNotes, authMiddleware)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
