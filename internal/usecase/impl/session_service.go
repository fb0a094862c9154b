package impl

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
	"storefront/internal/infra/transport"
	"storefront/internal/infra/validation"
	"storefront/internal/state"
	"storefront/internal/usecase"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	client    Transport
	validator *validation.Validator
	logger    *slog.Logger

	session  *state.Value[entity.Session]
	activity *state.Activity
}

// NewSessionService is the constructor for sessionService. The session starts unknown
// until Probe resolves it.
func NewSessionService(client Transport, validator *validation.Validator, logger *slog.Logger) usecase.SessionUsecase {
	srv := &sessionService{
		client:    client,
		validator: validator,
		logger:    logger.With(slog.String("store", "session")),
		session:   state.NewValue(entity.Session{Status: entity.SessionUnknown}),
		activity:  state.NewActivity(),
	}

	srv.activity.Subscribe(func(loading bool) {
		srv.session.Update(func(s entity.Session) entity.Session {
			s.Loading = loading

			return s
		})
	})

	return srv
}

// Probe resolves the startup session silently.
func (srv *sessionService) Probe(ctx context.Context) {
	var user entity.User
	err := srv.client.Do(ctx, &transport.Request{Method: http.MethodGet, Path: pathMe, SuppressRedirect: true}, &user)
	if err != nil {
		srv.log(ctx).Debug("No active session", slog.String("kind", domainerrors.Kind(err).String()))
		srv.clear()

		return
	}

	srv.adopt(&user)
	srv.log(ctx).Info("Session restored", slog.Int64("userID", user.ID))
}

// Signup registers a new account. The user still has to verify the email and log in.
func (srv *sessionService) Signup(ctx context.Context, req entity.SignupRequest) error {
	defer srv.begin()()

	if err := srv.validator.Struct(req); err != nil {
		return srv.fail(ctx, err, "Signup failed")
	}

	err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPost, Path: pathSignup, Body: req, SkipRefresh: true}, nil)
	if err != nil {
		return srv.fail(ctx, errors.Wrap(err, "failed to sign up"), "Signup failed")
	}

	srv.log(ctx).Info("User signed up", slog.String("email", req.Email))

	return nil
}

// Login exchanges credentials for session cookies and then loads the full user.
func (srv *sessionService) Login(ctx context.Context, req entity.LoginRequest) error {
	defer srv.begin()()

	if err := srv.validator.Struct(req); err != nil {
		return srv.fail(ctx, err, "Login failed")
	}

	srv.setStatus(entity.SessionAuthenticating)

	err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPost, Path: pathLogin, Body: req, SkipRefresh: true}, nil)
	if err == nil {
		err = srv.fetchUser(ctx)
	}
	if err != nil {
		srv.clear()

		return srv.fail(ctx, errors.Wrap(err, "failed to log in"), "Login failed")
	}

	srv.log(ctx).Info("User logged in", slog.String("email", req.Email))

	return nil
}

// Logout ends this device's session. The local session is cleared either way.
func (srv *sessionService) Logout(ctx context.Context) error {
	return srv.endSession(ctx, pathLogout)
}

// LogoutAll ends every session of the user. The local session is cleared either way.
func (srv *sessionService) LogoutAll(ctx context.Context) error {
	return srv.endSession(ctx, pathLogoutAll)
}

func (srv *sessionService) endSession(ctx context.Context, path string) error {
	err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPost, Path: path, Body: struct{}{}}, nil)
	srv.clear()
	if err != nil {
		return errors.Wrapf(err, "failed to call %s", path)
	}

	srv.log(ctx).Info("Session ended", slog.String("path", path))

	return nil
}

// VerifyEmail confirms the address behind token.
func (srv *sessionService) VerifyEmail(ctx context.Context, token string) error {
	defer srv.begin()()

	query := url.Values{"token": []string{token}}
	err := srv.client.Do(ctx, &transport.Request{Method: http.MethodGet, Path: pathVerify, Query: query, SkipRefresh: true}, nil)
	if err != nil {
		return srv.fail(ctx, errors.Wrap(err, "failed to verify email"), "Email verification failed")
	}

	return nil
}

// Refresh rotates the session cookies. A failed refresh clears the session.
func (srv *sessionService) Refresh(ctx context.Context) error {
	err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPost, Path: pathRefresh, SkipRefresh: true}, nil)
	if err != nil {
		srv.clear()

		return errors.Wrap(err, "failed to refresh session")
	}

	return nil
}

// FetchCurrentUser re-validates the session. Any failure clears it.
func (srv *sessionService) FetchCurrentUser(ctx context.Context) error {
	if err := srv.fetchUser(ctx); err != nil {
		return errors.Wrap(err, "failed to fetch current user")
	}

	return nil
}

func (srv *sessionService) fetchUser(ctx context.Context) error {
	var user entity.User
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodGet, Path: pathMe}, &user); err != nil {
		srv.clear()

		return err
	}

	srv.adopt(&user)

	return nil
}

// UpdateProfile applies a partial update and adopts the returned user.
func (srv *sessionService) UpdateProfile(ctx context.Context, req entity.UpdateUserRequest) (*entity.User, error) {
	defer srv.begin()()

	if err := srv.validator.Struct(req); err != nil {
		return nil, srv.fail(ctx, err, "Update failed")
	}

	var user entity.User
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPatch, Path: pathMe, Body: req}, &user); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to update profile"), "Update failed")
	}

	srv.adopt(&user)

	return &user, nil
}

// UploadProfileImage replaces the user's picture and re-fetches the user for the new URL.
func (srv *sessionService) UploadProfileImage(ctx context.Context, file entity.Upload) (string, error) {
	defer srv.begin()()

	user := srv.User()
	if user == nil {
		return "", srv.fail(ctx, domainerrors.ErrNoCurrentUser, "Image upload failed")
	}

	form := transport.NewForm().AddFile("file", file)

	var resp entity.MessageResponse
	err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPost, Path: idPath("/users/", user.ID, "/update-image"), Form: form}, &resp)
	if err == nil {
		err = srv.fetchUser(ctx)
	}
	if err != nil {
		return "", srv.fail(ctx, errors.Wrap(err, "failed to upload profile image"), "Image upload failed")
	}

	return resp.Message, nil
}

// AddAddress creates an address and re-fetches the user for the authoritative list.
func (srv *sessionService) AddAddress(ctx context.Context, req entity.AddressRequest) (*entity.Address, error) {
	defer srv.begin()()

	if err := srv.validator.Struct(req); err != nil {
		return nil, srv.fail(ctx, err, "Add address failed")
	}

	var address entity.Address
	err := srv.client.Do(ctx, &transport.Request{Method: http.MethodPost, Path: pathMyAddress, Body: req}, &address)
	if err == nil {
		err = srv.fetchUser(ctx)
	}
	if err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to add address"), "Add address failed")
	}

	return &address, nil
}

// DeleteAddress removes an address and re-fetches the user.
func (srv *sessionService) DeleteAddress(ctx context.Context, addressID int64) error {
	defer srv.begin()()

	err := srv.client.Do(ctx, &transport.Request{Method: http.MethodDelete, Path: idPath(pathMyAddress+"/", addressID)}, nil)
	if err == nil {
		err = srv.fetchUser(ctx)
	}
	if err != nil {
		return srv.fail(ctx, errors.Wrap(err, "failed to delete address"), "Delete address failed")
	}

	return nil
}

// DeleteAccount removes the user's account and clears the session.
func (srv *sessionService) DeleteAccount(ctx context.Context) error {
	defer srv.begin()()

	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodDelete, Path: pathMe}, nil); err != nil {
		return srv.fail(ctx, errors.Wrap(err, "failed to delete account"), "Delete account failed")
	}

	srv.clear()
	srv.log(ctx).Info("Account deleted")

	return nil
}

// HasRole reports whether the resident user holds role in any of its backend spellings.
func (srv *sessionService) HasRole(role entity.Role) bool {
	return srv.Snapshot().Roles().Has(role)
}

// HasAnyRole reports whether the resident user holds at least one of roles.
func (srv *sessionService) HasAnyRole(roles ...entity.Role) bool {
	return srv.Snapshot().Roles().HasAny(roles...)
}

func (srv *sessionService) Snapshot() entity.Session {
	return srv.session.Get()
}

func (srv *sessionService) User() *entity.User {
	return srv.session.Get().User
}

func (srv *sessionService) Status() entity.SessionStatus {
	return srv.session.Get().Status
}

func (srv *sessionService) Authenticated() bool {
	return srv.session.Get().Authenticated()
}

func (srv *sessionService) Subscribe(fn func(entity.Session)) (cancel func()) {
	return srv.session.Subscribe(fn)
}

func (srv *sessionService) ClearError() {
	srv.setError("")
}

func (srv *sessionService) Invalidate() {
	srv.clear()
}

// begin clears the recorded error and raises the loading flag until the returned func runs.
func (srv *sessionService) begin() func() {
	srv.setError("")

	return srv.activity.Begin()
}

// fail records the normalized message. An unrecoverable 401 also clears the session.
func (srv *sessionService) fail(ctx context.Context, err error, fallback string) error {
	if domainerrors.IsSessionExpired(err) {
		srv.clear()
	}

	msg := domainerrors.MessageOf(err, fallback)
	srv.setError(msg)
	srv.log(ctx).Warn(fallback, slog.String("message", msg), slog.Any("error", err))

	return err
}

func (srv *sessionService) adopt(user *entity.User) {
	srv.session.Update(func(s entity.Session) entity.Session {
		s.User = user
		s.Status = entity.SessionAuthenticated

		return s
	})
}

// clear drops the user and any recorded error.
func (srv *sessionService) clear() {
	srv.session.Update(func(s entity.Session) entity.Session {
		s.User = nil
		s.Status = entity.SessionUnauthenticated
		s.LastError = ""

		return s
	})
}

func (srv *sessionService) setStatus(status entity.SessionStatus) {
	srv.session.Update(func(s entity.Session) entity.Session {
		s.Status = status

		return s
	})
}

func (srv *sessionService) setError(msg string) {
	srv.session.Update(func(s entity.Session) entity.Session {
		s.LastError = msg

		return s
	})
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}
