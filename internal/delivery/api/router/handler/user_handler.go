package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// UserHandler holds dependencies for profile and user administration handlers.
type UserHandler struct {
	users     repository.UserRepository
	addresses repository.AddressRepository
	images    repository.ImageRepository
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(users repository.UserRepository, addresses repository.AddressRepository, images repository.ImageRepository) *UserHandler {
	return &UserHandler{users: users, addresses: addresses, images: images}
}

// GetMe returns the caller with their addresses.
func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.users.FindUserByID(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user)
}

// UpdateMe applies a partial profile update.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req entity.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateUser(c.Request().Context(), middleware.CallerID(c), req)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user)
}

// DeleteMe removes the caller's account and every session of it.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	if err := h.users.DeleteUser(c.Request().Context(), middleware.CallerID(c)); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Account deleted")
}

// UploadImage stores a profile picture. Only the owner or an administrator may change it.
func (h *UserHandler) UploadImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if id != middleware.CallerID(c) && !middleware.CallerRoles(c).Has(entity.RoleAdmin) {
		return errors.Wrap(domainerrors.ErrForbidden, "image of another user")
	}

	img, err := readImage(c, "file")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	name, err := h.images.SaveImage(ctx, img)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := h.users.SetImageURL(ctx, id, imageURL(name)); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, imageURL(name))
}

// AddAddress adds a shipping address to the caller.
func (h *UserHandler) AddAddress(c echo.Context) error {
	var req entity.AddressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	address, err := h.addresses.CreateAddress(c.Request().Context(), middleware.CallerID(c), req)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, address)
}

// DeleteAddress removes one of the caller's addresses.
func (h *UserHandler) DeleteAddress(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.addresses.DeleteAddress(c.Request().Context(), middleware.CallerID(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Address deleted")
}

// ListUsers returns a page of users without addresses.
func (h *UserHandler) ListUsers(c echo.Context) error {
	return h.listUsers(c, false)
}

// ListUsersWithAddresses returns a page of users with their addresses.
func (h *UserHandler) ListUsersWithAddresses(c echo.Context) error {
	return h.listUsers(c, true)
}

func (h *UserHandler) listUsers(c echo.Context, withAddresses bool) error {
	page, err := h.users.ListUsers(c.Request().Context(), pageRequest(c), withAddresses)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page)
}

// FindUser looks a user up by username or email.
func (h *UserHandler) FindUser(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return errors.WithStack(domainerrors.ErrEmptyQuery)
	}

	user, err := h.users.FindUserByQuery(c.Request().Context(), query)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user)
}

// SetRole grants a role.
func (h *UserHandler) SetRole(c echo.Context) error {
	return h.editRole(c, h.users.AddRole)
}

// RemoveRole revokes a role.
func (h *UserHandler) RemoveRole(c echo.Context) error {
	return h.editRole(c, h.users.RemoveRole)
}

func (h *UserHandler) editRole(c echo.Context, apply func(ctx context.Context, id int64, role entity.Role) (*entity.User, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req entity.RoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if !req.Role.IsKnown() {
		return domainerrors.NewValidationError(domainerrors.Field{Name: "role", Message: "role must be one of " + joinRoles(entity.AllRoles)})
	}

	user, err := apply(c.Request().Context(), id, req.Role.Normalize())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user)
}

// DeleteUser removes an account. The backend answers with plain text.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.String(http.StatusOK, "User deleted successfully")
}

func joinRoles(roles entity.Roles) string {
	return strings.Join(roles.ToStrings(), ", ")
}
