package impl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/persistence/memory"
	"storefront/internal/usecase"
)

func accountTestConfig(maxSessions int) *config.Config {
	cfg := &config.Config{Sandbox: &config.SandboxConfig{
		AccessTTL:         time.Minute,
		RefreshTTL:        time.Hour,
		BcryptCost:        bcrypt.MinCost,
		MaxActiveSessions: maxSessions,
	}}
	cfg.Sandbox.SecretKey.Access = "access-secret"
	cfg.Sandbox.SecretKey.Refresh = "refresh-secret"

	return cfg
}

func newAccountService(t *testing.T, maxSessions int) (usecase.AccountUsecase, *memory.Store) {
	t.Helper()

	cfg := accountTestConfig(maxSessions)
	store := memory.NewStore(testLogger)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	account := NewAccountService(AccountServiceParams{
		UserRepo:         store,
		RefreshTokenRepo: store,
		Hasher:           auth.NewBcryptHasher(cfg),
		TokenService:     tokens,
		Config:           cfg,
		Logger:           testLogger,
	})

	return account, store
}

func signupVerified(t *testing.T, account usecase.AccountUsecase, store *memory.Store, email string) *entity.User {
	t.Helper()
	ctx := context.Background()

	user, err := account.Signup(ctx, entity.SignupRequest{Username: "jane", Email: email, Password: "secret1"})
	require.NoError(t, err)

	token, ok := store.VerificationToken(email)
	require.True(t, ok)
	_, err = account.VerifyEmail(ctx, token)
	require.NoError(t, err)

	return user
}

func TestAccountService_SignupRequiresVerification(t *testing.T) {
	account, store := newAccountService(t, 0)
	ctx := context.Background()

	user, err := account.Signup(ctx, entity.SignupRequest{Username: "jane", Email: "jane@example.com", Password: "secret1", Age: 31})
	require.NoError(t, err)
	assert.Equal(t, entity.Roles{entity.RoleUser}, user.Roles)
	require.NotNil(t, user.Age)
	assert.Equal(t, 31, *user.Age)

	_, err = account.Login(ctx, entity.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domainerrors.ErrEmailNotVerified)

	token, ok := store.VerificationToken("jane@example.com")
	require.True(t, ok)

	verified, err := account.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	tokens, err := account.Login(ctx, entity.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, user.ID, tokens.User.ID)
}

func TestAccountService_SignupDuplicateEmail(t *testing.T) {
	account, _ := newAccountService(t, 0)
	ctx := context.Background()

	_, err := account.Signup(ctx, entity.SignupRequest{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = account.Signup(ctx, entity.SignupRequest{Username: "jane2", Email: "jane@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAccountService_VerifyUnknownToken(t *testing.T) {
	account, _ := newAccountService(t, 0)

	_, err := account.VerifyEmail(context.Background(), "nope")

	assert.ErrorIs(t, err, domainerrors.ErrVerificationTokenInvalid)
}

func TestAccountService_LoginRejectsBadCredentials(t *testing.T) {
	account, store := newAccountService(t, 0)
	signupVerified(t, account, store, "jane@example.com")
	ctx := context.Background()

	tests := []struct {
		name string
		req  entity.LoginRequest
	}{
		{name: "unknown email", req: entity.LoginRequest{Email: "ghost@example.com", Password: "secret1"}},
		{name: "wrong password", req: entity.LoginRequest{Email: "jane@example.com", Password: "wrong"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := account.Login(ctx, tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
		})
	}
}

func TestAccountService_RefreshAndLogout(t *testing.T) {
	account, store := newAccountService(t, 0)
	user := signupVerified(t, account, store, "jane@example.com")
	ctx := context.Background()

	tokens, err := account.Login(ctx, entity.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := account.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Empty(t, refreshed.RefreshToken)
	assert.Equal(t, user.ID, refreshed.User.ID)

	_, err = account.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	require.NoError(t, account.Logout(ctx, tokens.RefreshToken))
	_, err = account.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	assert.NoError(t, account.Logout(ctx, "garbage"))
}

func TestAccountService_LogoutAll(t *testing.T) {
	account, store := newAccountService(t, 0)
	user := signupVerified(t, account, store, "jane@example.com")
	ctx := context.Background()

	first, err := account.Login(ctx, entity.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	second, err := account.Login(ctx, entity.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, account.LogoutAll(ctx, user.ID))

	for _, refresh := range []string{first.RefreshToken, second.RefreshToken} {
		_, err := account.Refresh(ctx, refresh)
		assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
	}
}

func TestAccountService_SessionLimit(t *testing.T) {
	account, store := newAccountService(t, 2)
	user := signupVerified(t, account, store, "jane@example.com")
	ctx := context.Background()
	login := entity.LoginRequest{Email: "jane@example.com", Password: "secret1"}

	for range 2 {
		_, err := account.Login(ctx, login)
		require.NoError(t, err)
	}

	_, err := account.Login(ctx, login)
	assert.ErrorIs(t, err, domainerrors.ErrSessionLimitExceeded)

	require.NoError(t, account.LogoutAll(ctx, user.ID))
	_, err = account.Login(ctx, login)
	assert.NoError(t, err)
}
