package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo          repository.UserRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	maxActiveSessions int
	now               func() time.Time
	logger            *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Sandbox != nil {
		maxActiveSessions = params.Config.Sandbox.MaxActiveSessions
	}

	return &accountService{
		userRepo:          params.UserRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		maxActiveSessions: maxActiveSessions,
		now:               time.Now,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup creates a ROLE_USER account that must verify its email before signing in.
func (srv *accountService) Signup(ctx context.Context, req entity.SignupRequest) (*entity.User, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", req.Email))

	hash, err := srv.hasher.Hash(req.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	user := &entity.User{
		Username: req.Username,
		Email:    req.Email,
		Roles:    entity.Roles{entity.RoleUser},
	}
	if req.Age > 0 {
		age := req.Age
		user.Age = &age
	}

	cred := &entity.Credential{PasswordHash: hash, VerifyToken: uuid.NewString()}
	if err := srv.userRepo.CreateUser(ctx, user, cred); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "registration failed")
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	// No mail is sent; the link is logged instead.
	srv.log(ctx).Info("Registration completed, verification pending",
		slog.Int64("userID", user.ID),
		slog.String("verifyURL", "/auth/verify?token="+cred.VerifyToken),
	)

	return user, nil
}

// Login checks the credentials and opens a new session.
func (srv *accountService) Login(ctx context.Context, req entity.LoginRequest) (*usecase.AuthTokens, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", req.Email))

	user, err := srv.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", req.Email), slog.Any("error", err))

		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	cred, err := srv.userRepo.FindCredential(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load credential")
	}

	if !srv.hasher.Check(req.Password, cred.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", req.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}
	if !cred.Verified {
		return nil, errors.Wrap(domainerrors.ErrEmailNotVerified, "login failed")
	}

	if srv.maxActiveSessions > 0 {
		active, err := srv.refreshTokenRepo.CountActiveSessionsByUserID(ctx, user.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to count active sessions")
		}
		if active >= srv.maxActiveSessions {
			return nil, errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
		}
	}

	pair, err := srv.tokenService.GenerateTokens(user.ID, user.Roles.Normalized().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	now := srv.now()
	if err := srv.refreshTokenRepo.CreateRefreshToken(ctx, &entity.RefreshToken{
		ID:        pair.RefreshID,
		UserID:    user.ID,
		ExpiresAt: now.Add(srv.tokenService.RefreshTokenDuration()),
		CreatedAt: now,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Int64("userID", user.ID))

	return &usecase.AuthTokens{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, User: user}, nil
}

// Refresh issues a new access token carrying the user's current roles.
// The refresh token remains unchanged.
func (srv *accountService) Refresh(ctx context.Context, refreshToken string) (*usecase.AuthTokens, error) {
	srv.log(ctx).Debug("Attempting to refresh access token")

	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, err.Error())
	}

	stored, err := srv.refreshTokenRepo.FindRefreshTokenByID(ctx, claims.ID)
	if err != nil || stored.UserID != claims.UserID {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token not found or expired")
	}

	user, err := srv.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token owner not found")
	}

	pair, err := srv.tokenService.GenerateTokens(user.ID, user.Roles.Normalized().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.AuthTokens{AccessToken: pair.AccessToken, User: user}, nil
}

// Logout deletes the session behind refreshToken. An unknown or invalid token is not an error.
func (srv *accountService) Logout(ctx context.Context, refreshToken string) error {
	srv.log(ctx).Info("Attempting to log out")

	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))

		return nil
	}

	if err := srv.refreshTokenRepo.DeleteRefreshToken(ctx, claims.ID); err != nil {
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}

	return nil
}

// LogoutAll deletes every session of the user.
func (srv *accountService) LogoutAll(ctx context.Context, userID int64) error {
	srv.log(ctx).Info("Attempting to log out from all devices", slog.Int64("userID", userID))

	if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
		srv.log(ctx).Error("Failed to delete all refresh tokens", slog.Any("error", err), slog.Int64("userID", userID))

		return errors.Wrap(err, "failed to delete all refresh tokens")
	}

	return nil
}

func (srv *accountService) VerifyEmail(ctx context.Context, token string) (*entity.User, error) {
	user, err := srv.userRepo.VerifyEmail(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrVerifyTokenNotFound) {
			return nil, errors.Wrap(domainerrors.ErrVerificationTokenInvalid, "verification failed")
		}

		return nil, errors.Wrap(err, "failed to verify email")
	}

	srv.log(ctx).Info("Email verified", slog.Int64("userID", user.ID))

	return user, nil
}
