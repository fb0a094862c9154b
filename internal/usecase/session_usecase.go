// Package usecase contains the application-specific business rules.
// It defines the stores the views and the navigation layer depend on.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// SessionUsecase owns the client's belief about the authenticated user.
// It is constructed once per process and shared by reference.
type SessionUsecase interface {
	// Probe asks the backend who is signed in. Failure leaves the session
	// unauthenticated without recording or returning an error.
	Probe(ctx context.Context)

	Signup(ctx context.Context, req entity.SignupRequest) error
	Login(ctx context.Context, req entity.LoginRequest) error
	Logout(ctx context.Context) error
	LogoutAll(ctx context.Context) error
	VerifyEmail(ctx context.Context, token string) error
	Refresh(ctx context.Context) error
	FetchCurrentUser(ctx context.Context) error

	UpdateProfile(ctx context.Context, req entity.UpdateUserRequest) (*entity.User, error)
	UploadProfileImage(ctx context.Context, file entity.Upload) (string, error)
	AddAddress(ctx context.Context, req entity.AddressRequest) (*entity.Address, error)
	DeleteAddress(ctx context.Context, addressID int64) error
	DeleteAccount(ctx context.Context) error

	HasRole(role entity.Role) bool
	HasAnyRole(roles ...entity.Role) bool

	Snapshot() entity.Session
	User() *entity.User
	Status() entity.SessionStatus
	Authenticated() bool
	Subscribe(fn func(entity.Session)) (cancel func())
	ClearError()

	// Invalidate drops the session after another store saw an unrecoverable 401.
	Invalidate()
}
