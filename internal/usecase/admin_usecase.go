package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// AdminUsecase manages user accounts from the back office.
type AdminUsecase interface {
	StoreStatus

	ListUsers(ctx context.Context, params entity.PageParams) (*entity.Page[entity.User], error)
	ListUsersWithAddresses(ctx context.Context, params entity.PageParams) (*entity.Page[entity.User], error)
	FindUser(ctx context.Context, query string) (*entity.User, error)
	SetRole(ctx context.Context, userID int64, role entity.Role) error
	RemoveRole(ctx context.Context, userID int64, role entity.Role) error
	DeleteUser(ctx context.Context, userID int64) (string, error)

	// AvailableRoles returns the roles the user could still be granted.
	AvailableRoles(user entity.User) entity.Roles

	Users() []entity.User
	Page() *entity.Page[entity.User]
	Subscribe(fn func([]entity.User)) (cancel func())
}
