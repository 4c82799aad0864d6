package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/api"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

const (
	methodCreateNote = "CreateNote"
	methodListNotes  = "ListNotes"

	msgCreatingNote  = "creating note"
	msgEmptyNoteText = "empty note text provided"
	msgNoteCreated   = "note created successfully"
	msgListingNotes  = "listing notes"

	msgErrAddingNote   = "failed to add note"
	msgErrListingNotes = "failed to list notes"

	errCtxValidatingNote = "validating note text"
	errCtxAddingNote     = "adding note"
	errCtxListingNotes   = "listing notes"
)

// NoteUseCaseImpl реализует интерфейс NoteUseCase.
type NoteUseCaseImpl struct {
	noteRepo repositories.NoteRepository
}

// NewNoteUseCase создает новый экземпляр сервиса заметок.
func NewNoteUseCase(noteRepo repositories.NoteRepository) api.NoteUseCase {
	return &NoteUseCaseImpl{noteRepo: noteRepo}
}

// CreateNote создает новую заметку для пользователя. Текст, пустой после
// обрезки пробелов, отклоняется; идентификатор назначает хранилище.
func (uc *NoteUseCaseImpl) CreateNote(ctx context.Context, userID, text string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateNote), zap.String("userID", userID))
	log.Debug(ctx, msgCreatingNote)

	if strings.TrimSpace(text) == "" {
		log.Debug(ctx, msgEmptyNoteText)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingNote, entities.ErrEmptyNoteText)
	}

	note, err := uc.noteRepo.AddNote(ctx, userID, text)
	if err != nil {
		log.Error(ctx, msgErrAddingNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxAddingNote, err)
	}

	log.Info(ctx, msgNoteCreated, zap.Int("noteID", note.ID))
	return note, nil
}

// ListNotes возвращает заметки пользователя в порядке создания.
func (uc *NoteUseCaseImpl) ListNotes(ctx context.Context, userID string) ([]entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListNotes), zap.String("userID", userID))
	log.Debug(ctx, msgListingNotes)

	notes, err := uc.noteRepo.ListNotes(ctx, userID)
	if err != nil {
		log.Error(ctx, msgErrListingNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingNotes, err)
	}

	return notes, nil
}
