package repositories

import (
	"context"

	"notekeeper/internal/notes/domain/entities"
)

// NoteRepository определяет интерфейс для операций над заметками пользователя.
// Заметки хранятся внутри записи владельца; обновление и удаление не
// поддерживаются.
type NoteRepository interface {
	AddNote(ctx context.Context, userID, text string) (*entities.Note, error)

	ListNotes(ctx context.Context, userID string) ([]entities.Note, error)
}
