// Package notes содержит HTTP обработчики для операций с заметками.
package notes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/http/dto"
	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/api"
	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerCreateNote = "notes handler: create note"
	LogHandlerListNotes  = "notes handler: list notes"

	ErrorInvalidRequest       = "invalid request"
	ErrorFailedToServeRequest = "failed to serve request"
	ErrorInternalServer       = "internal server error"
	ErrorUnauthorized         = "unauthorized"
)

// Вспомогательная функция для обработки ошибок HTTP.
func sendErrorResponse(ctx fiber.Ctx, statusCode int, message string) error {
	if err := ctx.Status(statusCode).JSON(fiber.Map{
		"error": message,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Handler содержит HTTP обработчики для заметок.
type Handler struct {
	noteUseCase api.NoteUseCase
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(noteUseCase api.NoteUseCase) *Handler {
	return &Handler{
		noteUseCase: noteUseCase,
	}
}

// actingUserID извлекает идентификатор действующего пользователя,
// сохраненный auth middleware.
func actingUserID(ctx fiber.Ctx) (string, bool) {
	userID, ok := ctx.Locals(middleware.UserIDKey).(string)
	return userID, ok && userID != ""
}

// CreateNote обрабатывает запрос на создание заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreateNote)

	userID, ok := actingUserID(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, ErrorUnauthorized)
	}

	var req dto.CreateNoteRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	note, err := h.noteUseCase.CreateNote(requestCtx, userID, req.Text)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		switch {
		case errors.Is(err, entities.ErrEmptyNoteText):
			return sendErrorResponse(ctx, http.StatusBadRequest, entities.ErrEmptyNoteText.Error())
		case errors.Is(err, entities.ErrUserNotFound):
			return sendErrorResponse(ctx, http.StatusNotFound, entities.ErrUserNotFound.Error())
		default:
			return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorInternalServer)
		}
	}

	if err := ctx.Status(http.StatusCreated).JSON(dto.NoteResponse{
		ID:   note.ID,
		Text: note.Text,
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// ListNotes обрабатывает запрос на получение списка заметок пользователя.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerListNotes)

	userID, ok := actingUserID(ctx)
	if !ok {
		return sendErrorResponse(ctx, http.StatusUnauthorized, ErrorUnauthorized)
	}

	notes, err := h.noteUseCase.ListNotes(requestCtx, userID)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		if errors.Is(err, entities.ErrUserNotFound) {
			return sendErrorResponse(ctx, http.StatusNotFound, entities.ErrUserNotFound.Error())
		}
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorInternalServer)
	}

	response := make([]dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		response = append(response, dto.NoteResponse{
			ID:   note.ID,
			Text: note.Text,
		})
	}

	if err := ctx.Status(http.StatusOK).JSON(response); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
