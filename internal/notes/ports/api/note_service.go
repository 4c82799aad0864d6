package api

import (
	"context"

	"notekeeper/internal/notes/domain/entities"
)

// NoteUseCase определяет основной порт для операций с заметками.
type NoteUseCase interface {
	CreateNote(ctx context.Context, userID, text string) (*entities.Note, error)

	ListNotes(ctx context.Context, userID string) ([]entities.Note, error)
}
