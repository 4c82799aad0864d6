package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"notekeeper/internal/notes/adapters/jsonfile"
	adapters "notekeeper/internal/notes/adapters/services"
	"notekeeper/internal/notes/adapters/sessions"
	"notekeeper/internal/notes/app"
	"notekeeper/internal/notes/domain/services"
	"notekeeper/internal/notes/ports/api"
)

// Сквозной сценарий на реальных компонентах: файловое хранилище, bcrypt,
// JWT и сессии в памяти, без моков.
func newRealUseCases(t *testing.T) (api.AuthUseCase, api.NoteUseCase, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.json")
	ctx := context.Background()

	store, err := jsonfile.NewStore(ctx, path)
	require.NoError(t, err)

	passwordSvc := adapters.NewBcrypt(bcrypt.MinCost)
	tokenSvc := adapters.NewJWT("scenario-secret", 15*time.Minute, time.Hour)
	tokenRepo := sessions.NewMemory()

	authUC := app.NewAuthUseCase(store, tokenRepo, passwordSvc, tokenSvc)
	noteUC := app.NewNoteUseCase(store)

	return authUC, noteUC, path
}

func TestFullUserJourney(t *testing.T) {
	authUC, noteUC, path := newRealUseCases(t)
	ctx := context.Background()

	pair, err := authUC.Register(ctx, "alice@example.com", "alice", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.UserID)
	require.NotEmpty(t, pair.AccessToken)

	_, err = authUC.Register(ctx, "alice@example.com", "other", "pw2")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrEmailAlreadyExists)

	_, err = authUC.Login(ctx, "alice@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	loginPair, err := authUC.Login(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, pair.UserID, loginPair.UserID)

	first, err := noteUC.CreateNote(ctx, pair.UserID, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	second, err := noteUC.CreateNote(ctx, pair.UserID, "call bob")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	notes, err := noteUC.ListNotes(ctx, pair.UserID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "buy milk", notes[0].Text)
	assert.Equal(t, "call bob", notes[1].Text)

	// Перезапуск: новое хранилище над тем же файлом видит те же данные.
	reopened, err := jsonfile.NewStore(ctx, path)
	require.NoError(t, err)

	restored, err := reopened.ListNotes(ctx, pair.UserID)
	require.NoError(t, err)
	require.Len(t, restored, 2)
	assert.Equal(t, "buy milk", restored[0].Text)
}

func TestRefreshRotationJourney(t *testing.T) {
	authUC, _, _ := newRealUseCases(t)
	ctx := context.Background()

	pair, err := authUC.Register(ctx, "bob@example.com", "bob", "pw1")
	require.NoError(t, err)

	rotated, err := authUC.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Старый refresh-токен отозван ротацией.
	_, err = authUC.RefreshTokens(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrRevokedRefreshToken)

	require.NoError(t, authUC.Logout(ctx, rotated.RefreshToken))

	_, err = authUC.RefreshTokens(ctx, rotated.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrRevokedRefreshToken)
}
