// Package jsonfile реализует хранилище пользователей поверх одного JSON файла.
// Набор пользователей целиком держится в памяти, каждая мутация синхронно
// переписывает файл через временный файл и rename.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/domain/services"
	"notekeeper/pkg/logger"
)

const (
	methodCreate      = "Create"
	methodFindByEmail = "FindByEmail"
	methodFindByID    = "FindByID"
	methodAddNote     = "AddNote"
	methodListNotes   = "ListNotes"

	msgStoreLoaded     = "user store loaded"
	msgUserCreated     = "user persisted"
	msgNoteAdded       = "note persisted"
	msgErrReadingFile  = "failed to read store file"
	msgErrParsingFile  = "failed to parse store file"
	msgErrPersisting   = "failed to persist store file"
	msgMutationRevert  = "reverting in-memory mutation after failed persist"

	errCtxLoadingStore    = "loading store"
	errCtxValidatingStore = "validating store"
	errCtxPersistingStore = "persisting store"
	errCtxCreatingUser    = "creating user"
	errCtxAddingNote      = "adding note"
)

// Store - авторитетная коллекция пользователей процесса, зеркалируемая
// в файл. Все операции чтения и записи сериализуются одним RWMutex:
// проверка уникальности email и вставка, как и назначение идентификатора
// заметки, выполняются в одной критической секции.
type Store struct {
	path string

	mu      sync.RWMutex
	users   []*entities.User
	byEmail map[string]*entities.User
	byID    map[string]*entities.User
}

// NewStore создает хранилище и загружает сохраненное состояние.
// Отсутствующий файл означает пустое хранилище; нечитаемое или
// некорректное содержимое - ошибку entities.ErrStoreCorrupted,
// данные при этом не сбрасываются.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxLoadingStore, err)
	}

	s := &Store{
		path:    path,
		byEmail: make(map[string]*entities.User),
		byID:    make(map[string]*entities.User),
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("path", s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info(ctx, msgStoreLoaded, zap.Int("users", 0))
			return nil
		}
		log.Error(ctx, msgErrReadingFile, zap.Error(err))
		return fmt.Errorf("%s: %w: %w", errCtxLoadingStore, entities.ErrStoreCorrupted, err)
	}

	// Пустой файл эквивалентен отсутствующему.
	if strings.TrimSpace(string(data)) == "" {
		log.Info(ctx, msgStoreLoaded, zap.Int("users", 0))
		return nil
	}

	var users []*entities.User
	if err := json.Unmarshal(data, &users); err != nil {
		log.Error(ctx, msgErrParsingFile, zap.Error(err))
		return fmt.Errorf("%s: %w: %w", errCtxLoadingStore, entities.ErrStoreCorrupted, err)
	}

	if err := validateUsers(users); err != nil {
		log.Error(ctx, msgErrParsingFile, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxValidatingStore, err)
	}

	s.users = users
	for _, u := range users {
		s.byEmail[u.Email] = u
		s.byID[u.ID] = u
	}

	log.Info(ctx, msgStoreLoaded, zap.Int("users", len(users)))
	return nil
}

// validateUsers проверяет обязательные поля каждой записи: отсутствие
// ожидаемого поля - это повреждение хранилища, а не значение по умолчанию.
func validateUsers(users []*entities.User) error {
	seenEmails := make(map[string]struct{}, len(users))
	for i, u := range users {
		if u == nil {
			return fmt.Errorf("%w: user record %d is null", entities.ErrStoreCorrupted, i)
		}
		if u.ID == "" || u.Username == "" || u.Email == "" || u.PasswordHash == "" {
			return fmt.Errorf("%w: user record %d is missing required fields", entities.ErrStoreCorrupted, i)
		}
		if _, ok := seenEmails[u.Email]; ok {
			return fmt.Errorf("%w: duplicate email %q", entities.ErrStoreCorrupted, u.Email)
		}
		seenEmails[u.Email] = struct{}{}

		for j, n := range u.Notes {
			if n.ID != j+1 {
				return fmt.Errorf("%w: user %q has non-sequential note id %d at position %d", entities.ErrStoreCorrupted, u.ID, n.ID, j)
			}
			if n.Text == "" {
				return fmt.Errorf("%w: user %q has empty note text at position %d", entities.ErrStoreCorrupted, u.ID, j)
			}
		}
	}
	return nil
}

// persistLocked переписывает файл хранилища атомарно: запись во временный
// файл в том же каталоге, fsync, затем rename поверх целевого пути.
// Вызывается только под write-блокировкой.
func (s *Store) persistLocked(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("path", s.path))

	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		log.Error(ctx, msgErrPersisting, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxPersistingStore, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		log.Error(ctx, msgErrPersisting, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxPersistingStore, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		log.Error(ctx, msgErrPersisting, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxPersistingStore, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		log.Error(ctx, msgErrPersisting, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxPersistingStore, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		log.Error(ctx, msgErrPersisting, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxPersistingStore, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		log.Error(ctx, msgErrPersisting, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxPersistingStore, err)
	}

	return nil
}

// Create добавляет нового пользователя. Проверка уникальности email и
// вставка - одна критическая секция: из двух конкурентных регистраций с
// одинаковым email успешной будет максимум одна.
func (s *Store) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreate), zap.String("email", user.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, services.ErrEmailAlreadyExists)
	}

	stored := user.Clone()
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	s.users = append(s.users, stored)
	s.byEmail[stored.Email] = stored
	s.byID[stored.ID] = stored

	if err := s.persistLocked(ctx); err != nil {
		log.Warn(ctx, msgMutationRevert)
		s.users = s.users[:len(s.users)-1]
		delete(s.byEmail, stored.Email)
		delete(s.byID, stored.ID)
		return nil, err
	}

	log.Info(ctx, msgUserCreated, zap.String("userID", stored.ID))
	return stored.Clone(), nil
}

// FindByEmail ищет пользователя по точному совпадению email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("%s: %w", methodFindByEmail, entities.ErrUserNotFound)
	}
	return user.Clone(), nil
}

// FindByID ищет пользователя по идентификатору.
func (s *Store) FindByID(ctx context.Context, id string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", methodFindByID, entities.ErrUserNotFound)
	}
	return user.Clone(), nil
}

// AddNote добавляет заметку пользователю. Идентификатор назначается как
// количество существующих заметок плюс один; назначение и вставка
// выполняются под той же блокировкой, что и запись файла, поэтому
// последовательность идентификаторов не может перемешаться.
func (s *Store) AddNote(ctx context.Context, userID, text string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAddNote), zap.String("userID", userID))

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[userID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", errCtxAddingNote, entities.ErrUserNotFound)
	}

	note := entities.Note{
		ID:   user.NextNoteID(),
		Text: text,
	}
	user.Notes = append(user.Notes, note)

	if err := s.persistLocked(ctx); err != nil {
		log.Warn(ctx, msgMutationRevert)
		user.Notes = user.Notes[:len(user.Notes)-1]
		return nil, err
	}

	log.Info(ctx, msgNoteAdded, zap.Int("noteID", note.ID))
	return &note, nil
}

// ListNotes возвращает заметки пользователя в порядке создания.
func (s *Store) ListNotes(ctx context.Context, userID string) ([]entities.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[userID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", methodListNotes, entities.ErrUserNotFound)
	}

	notes := make([]entities.Note, len(user.Notes))
	copy(notes, user.Notes)
	return notes, nil
}

// Len возвращает количество пользователей в хранилище.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
