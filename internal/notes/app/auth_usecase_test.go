package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/notes/app"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/domain/services"
	"notekeeper/internal/notes/ports/api"
)

type authMocks struct {
	userRepo    *mockUserRepository
	tokenRepo   *mockTokenRepository
	passwordSvc *mockPasswordService
	tokenSvc    *mockTokenService
}

func newAuthUseCase(t *testing.T) (authMocks, context.Context, api.AuthUseCase) {
	t.Helper()

	m := authMocks{
		userRepo:    &mockUserRepository{},
		tokenRepo:   &mockTokenRepository{},
		passwordSvc: &mockPasswordService{},
		tokenSvc:    &mockTokenService{},
	}

	uc := app.NewAuthUseCase(m.userRepo, m.tokenRepo, m.passwordSvc, m.tokenSvc)

	return m, context.Background(), uc
}

func expectTokenPair(m authMocks, userID, username string) {
	expires := time.Now().Add(15 * time.Minute)
	m.tokenSvc.On("GenerateAccessToken", mock.Anything, userID, username).
		Return("access-token", expires, nil)
	m.tokenSvc.On("GenerateRefreshToken", mock.Anything, userID).
		Return("refresh-token", time.Now().Add(time.Hour), nil)
	m.tokenRepo.On("StoreRefreshToken", mock.Anything, mock.Anything).Return(nil)
}

func TestRegisterSuccess(t *testing.T) {
	m, ctx, uc := newAuthUseCase(t)

	created := &entities.User{ID: "user-1", Email: "a@x.com", Username: "alice", PasswordHash: "digest"}
	m.passwordSvc.On("Hash", mock.Anything, "pw1").Return("digest", nil)
	m.userRepo.On("Create", mock.Anything, mock.Anything).Return(created, nil)
	expectTokenPair(m, "user-1", "alice")

	pair, err := uc.Register(ctx, "a@x.com", "alice", "pw1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", pair.UserID)
	assert.Equal(t, "access-token", pair.AccessToken)
	assert.Equal(t, "refresh-token", pair.RefreshToken)
	m.userRepo.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	m, ctx, uc := newAuthUseCase(t)

	m.passwordSvc.On("Hash", mock.Anything, "pw1").Return("digest", nil)
	m.userRepo.On("Create", mock.Anything, mock.Anything).
		Return(nil, services.ErrEmailAlreadyExists)

	_, err := uc.Register(ctx, "a@x.com", "alice", "pw1")

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrEmailAlreadyExists)
}

func TestRegisterInvalidEmail(t *testing.T) {
	m, ctx, uc := newAuthUseCase(t)

	_, err := uc.Register(ctx, "not-an-email", "alice", "pw1")

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInvalidEmail)
	m.passwordSvc.AssertNotCalled(t, "Hash", mock.Anything, mock.Anything)
}

func TestRegisterEmptyUsername(t *testing.T) {
	_, ctx, uc := newAuthUseCase(t)

	_, err := uc.Register(ctx, "a@x.com", "   ", "pw1")

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrEmptyUsername)
}

func TestRegisterEmptyPassword(t *testing.T) {
	_, ctx, uc := newAuthUseCase(t)

	_, err := uc.Register(ctx, "a@x.com", "alice", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrEmptyPassword)
}

func TestRegisterHashFailureDoesNotCreateUser(t *testing.T) {
	m, ctx, uc := newAuthUseCase(t)

	m.passwordSvc.On("Hash", mock.Anything, "pw1").Return("", services.ErrHashingFailed)

	_, err := uc.Register(ctx, "a@x.com", "alice", "pw1")

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrHashingFailed)
	m.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginSuccess(t *testing.T) {
	m, ctx, uc := newAuthUseCase(t)

	user := &entities.User{ID: "user-1", Email: "a@x.com", Username: "alice", PasswordHash: "digest"}
	m.userRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
	m.passwordSvc.On("Verify", mock.Anything, "pw1", "digest").Return(true, nil)
	expectTokenPair(m, "user-1", "alice")

	pair, err := uc.Login(ctx, "a@x.com", "pw1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", pair.UserID)
}

func TestLoginErrorsAreIndistinguishable(t *testing.T) {
	// Несуществующий email и неверный пароль должны давать одну и ту же
	// ошибку, чтобы нельзя было перечислять учетные записи.
	m, ctx, uc := newAuthUseCase(t)

	user := &entities.User{ID: "user-1", Email: "a@x.com", Username: "alice", PasswordHash: "digest"}
	m.userRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
	m.userRepo.On("FindByEmail", mock.Anything, "ghost@x.com").Return(nil, entities.ErrUserNotFound)
	m.passwordSvc.On("Verify", mock.Anything, "wrong", "digest").Return(false, nil)

	_, wrongPasswordErr := uc.Login(ctx, "a@x.com", "wrong")
	_, unknownEmailErr := uc.Login(ctx, "ghost@x.com", "whatever")

	require.Error(t, wrongPasswordErr)
	require.Error(t, unknownEmailErr)
	assert.ErrorIs(t, wrongPasswordErr, services.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmailErr, services.ErrInvalidCredentials)
}

func TestLoginVerifyFailure(t *testing.T) {
	m, ctx, uc := newAuthUseCase(t)

	user := &entities.User{ID: "user-1", Email: "a@x.com", Username: "alice", PasswordHash: "broken"}
	m.userRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
	m.passwordSvc.On("Verify", mock.Anything, "pw1", "broken").
		Return(false, services.ErrCorruptCredential)

	_, err := uc.Login(ctx, "a@x.com", "pw1")

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrCorruptCredential)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestRefreshTokensSuccess(t *testing.T) {
	m, ctx, uc := newAuthUseCase(t)

	stored := &services.RefreshToken{UserID: "user-1", Token: "old-refresh", ExpiresAt: time.Now().Add(time.Hour)}
	user := &entities.User{ID: "user-1", Email: "a@x.com", Username: "alice", PasswordHash: "digest"}

	m.tokenRepo.On("FindByToken", mock.Anything, "old-refresh").Return(stored, nil)
	m.userRepo.On("FindByID", mock.Anything, "user-1").Return(user, nil)
	m.tokenRepo.On("RevokeToken", mock.Anything, "old-refresh").Return(nil)
	expectTokenPair(m, "user-1", "alice")

	pair, err := uc.RefreshTokens(ctx, "old-refresh")

	require.NoError(t, err)
	assert.Equal(t, "refresh-token", pair.RefreshToken)
	m.tokenRepo.AssertCalled(t, "RevokeToken", mock.Anything, "old-refresh")
}

func TestRefreshTokensRevoked(t *testing.T) {
	m, ctx, uc := newAuthUseCase(t)

	stored := &services.RefreshToken{UserID: "user-1", Token: "old-refresh", IsRevoked: true}
	m.tokenRepo.On("FindByToken", mock.Anything, "old-refresh").Return(stored, nil)

	_, err := uc.RefreshTokens(ctx, "old-refresh")

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrRevokedRefreshToken)
}

func TestRefreshTokensUnknown(t *testing.T) {
	m, ctx, uc := newAuthUseCase(t)

	m.tokenRepo.On("FindByToken", mock.Anything, "missing").
		Return(nil, services.ErrInvalidRefreshToken)

	_, err := uc.RefreshTokens(ctx, "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestLogoutSuccess(t *testing.T) {
	m, ctx, uc := newAuthUseCase(t)

	stored := &services.RefreshToken{UserID: "user-1", Token: "refresh"}
	m.tokenRepo.On("FindByToken", mock.Anything, "refresh").Return(stored, nil)
	m.tokenRepo.On("RevokeToken", mock.Anything, "refresh").Return(nil)

	err := uc.Logout(ctx, "refresh")

	require.NoError(t, err)
	m.tokenRepo.AssertCalled(t, "RevokeToken", mock.Anything, "refresh")
}
