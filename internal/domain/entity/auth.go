package entity

import "time"

// Credential is the password login of a user as the sandbox backend stores it.
type Credential struct {
	UserID       int64
	PasswordHash string
	Verified     bool
	// VerifyToken is the one-time token of the verification link; empty once used.
	VerifyToken string
	CreatedAt   time.Time
}

// RefreshToken is one issued session. ID is the jti of the refresh JWT.
type RefreshToken struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
