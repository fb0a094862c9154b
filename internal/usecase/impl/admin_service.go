package impl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
	"storefront/internal/infra/transport"
	"storefront/internal/state"
	"storefront/internal/usecase"
)

type userFetch struct {
	path   string
	params entity.PageParams
}

// adminService implements the AdminUsecase interface.
type adminService struct {
	*resource

	client    Transport
	users     *pageCache[entity.User]
	lastFetch *state.Value[userFetch]
}

// NewAdminService is the constructor for adminService.
func NewAdminService(
	client Transport,
	session usecase.SessionUsecase,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.AdminUsecase {
	srv := &adminService{
		resource:  newResource("admin", session, logger),
		client:    client,
		users:     newPageCache[entity.User](cfg.State.DiscardStalePages),
		lastFetch: state.NewValue(userFetch{path: pathAllUsers}),
	}
	srv.resetOnSignOut(session, func() {
		srv.users.reset()
		srv.lastFetch.Set(userFetch{path: pathAllUsers})
		srv.ClearError()
	})

	return srv
}

// ListUsers fetches one page of accounts.
func (srv *adminService) ListUsers(ctx context.Context, params entity.PageParams) (*entity.Page[entity.User], error) {
	return srv.fetchUsers(ctx, userFetch{path: pathAllUsers, params: params})
}

// ListUsersWithAddresses fetches one page of accounts including their addresses.
func (srv *adminService) ListUsersWithAddresses(ctx context.Context, params entity.PageParams) (*entity.Page[entity.User], error) {
	return srv.fetchUsers(ctx, userFetch{path: pathUsersAddr, params: params})
}

func (srv *adminService) fetchUsers(ctx context.Context, fetch userFetch) (*entity.Page[entity.User], error) {
	defer srv.begin()()

	srv.lastFetch.Set(fetch)
	ticket := srv.users.ticket()

	var page entity.Page[entity.User]
	if err := srv.client.Do(ctx, &transport.Request{Method: http.MethodGet, Path: fetch.path, Query: fetch.params.Query()}, &page); err != nil {
		return nil, srv.fail(ctx, errors.Wrap(err, "failed to load users"), "Failed to load users")
	}

	srv.users.adopt(ticket, &page)

	return &page, nil
}

// FindUser looks an account up by username or email.
func (srv *adminService) FindUser(ctx context.Context, query string) (*entity.User, error) {
	defer srv.begin()()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, srv.fail(ctx, domainerrors.ErrEmptyQuery, "Search failed")
	}

	var user entity.User
	err := srv.client.Do(ctx, &transport.Request{Method: http.MethodGet, Path: pathFindUser, Query: url.Values{"query": []string{query}}}, &user)
	if err != nil {
		if domainerrors.IsStatus(err, http.StatusNotFound) {
			err = domainerrors.NewBaseError(
				http.StatusNotFound,
				domainerrors.ErrUserNotFound.ErrorCode(),
				fmt.Sprintf("No user found for %q", query),
				err.Error(),
			)
		}

		return nil, srv.fail(ctx, err, "Search failed")
	}

	return &user, nil
}

// SetRole grants role and refreshes the user list.
func (srv *adminService) SetRole(ctx context.Context, userID int64, role entity.Role) error {
	return srv.mutate(ctx, "Failed to set role", &transport.Request{
		Method: http.MethodPatch,
		Path:   idPath(pathSetRole, userID),
		Body:   entity.RoleRequest{Role: role.Normalize()},
	}, nil)
}

// RemoveRole revokes role and refreshes the user list.
func (srv *adminService) RemoveRole(ctx context.Context, userID int64, role entity.Role) error {
	return srv.mutate(ctx, "Failed to remove role", &transport.Request{
		Method: http.MethodPatch,
		Path:   idPath(pathRemoveRole, userID),
		Body:   entity.RoleRequest{Role: role.Normalize()},
	}, nil)
}

// DeleteUser removes an account and refreshes the user list. The backend answers with text.
func (srv *adminService) DeleteUser(ctx context.Context, userID int64) (string, error) {
	var msg string
	err := srv.mutate(ctx, "Failed to delete user", &transport.Request{
		Method: http.MethodDelete,
		Path:   idPath(pathDeleteUser, userID),
	}, &msg)

	return msg, err
}

func (srv *adminService) mutate(ctx context.Context, fallback string, req *transport.Request, out any) error {
	if err := srv.send(ctx, fallback, req, out); err != nil {
		return err
	}

	srv.log(ctx).Info("User account changed", slog.String("method", req.Method), slog.String("path", req.Path))

	_, err := srv.fetchUsers(ctx, srv.lastFetch.Get())

	return err
}

func (srv *adminService) send(ctx context.Context, fallback string, req *transport.Request, out any) error {
	defer srv.begin()()

	if err := srv.client.Do(ctx, req, out); err != nil {
		return srv.fail(ctx, errors.Wrapf(err, "failed to %s %s", req.Method, req.Path), fallback)
	}

	return nil
}

// AvailableRoles returns the roles user does not hold yet, in grant order.
func (srv *adminService) AvailableRoles(user entity.User) entity.Roles {
	return user.Roles.Missing(entity.AllRoles...)
}

func (srv *adminService) Users() []entity.User {
	return srv.users.current()
}

func (srv *adminService) Page() *entity.Page[entity.User] {
	return srv.users.page.Get()
}

func (srv *adminService) Subscribe(fn func([]entity.User)) (cancel func()) {
	return srv.users.items.Subscribe(fn)
}
