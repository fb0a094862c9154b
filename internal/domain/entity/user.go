// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// User is the authenticated account as the backend describes it.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Age       *int      `json:"age"`
	ImageURL  *string   `json:"imageURL"`
	Roles     Roles     `json:"role"`
	Addresses []Address `json:"addresses,omitempty"`
}

// SignupRequest is the payload for POST /auth/signup.
// The client only checks presence; field rules under the backend tag are enforced by the sandbox.
type SignupRequest struct {
	Username string `json:"username" validate:"required" backend:"required,min=3,max=50"`
	Password string `json:"password" validate:"required" backend:"required,min=6"`
	Email    string `json:"email" validate:"required" backend:"required,email"`
	Age      int    `json:"age" backend:"gte=0,lte=150"`
	Reason   string `json:"reason"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required" backend:"required,email"`
	Password string `json:"password" validate:"required" backend:"required"`
}

// UpdateUserRequest is a partial profile update; nil fields are left untouched by the backend.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" backend:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty" backend:"omitempty,email"`
	Age      *int    `json:"age,omitempty" backend:"omitempty,gte=0,lte=150"`
}

// RoleRequest is the payload of the admin role edit endpoints.
type RoleRequest struct {
	Role Role `json:"role" validate:"required" backend:"required"`
}

// MessageResponse is the {message} body several endpoints answer with.
type MessageResponse struct {
	Message string `json:"message"`
}
