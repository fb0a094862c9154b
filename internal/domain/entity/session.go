package entity

// SessionStatus is the client's belief about the authentication state.
type SessionStatus string

const (
	// SessionUnknown is the state before the startup probe resolves.
	SessionUnknown SessionStatus = "unknown"
	// SessionAuthenticating is held while a login is in flight.
	SessionAuthenticating SessionStatus = "authenticating"
	// SessionAuthenticated means a user snapshot is resident.
	SessionAuthenticated SessionStatus = "authenticated"
	// SessionUnauthenticated means there is no usable session.
	SessionUnauthenticated SessionStatus = "unauthenticated"
)

// Session is a snapshot of the session store.
type Session struct {
	User      *User
	Status    SessionStatus
	Loading   bool
	LastError string
}

// Authenticated reports whether a user is signed in.
func (s Session) Authenticated() bool {
	return s.Status == SessionAuthenticated
}

// Roles returns the resident user's roles, or nil without a user.
func (s Session) Roles() Roles {
	if s.User == nil {
		return nil
	}

	return s.User.Roles
}
