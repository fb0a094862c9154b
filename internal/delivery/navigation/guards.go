package navigation

import "storefront/internal/domain/entity"

// Decision is the outcome of a guard. A denial names where to go instead.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Allow lets the navigation through.
func Allow() Decision {
	return Decision{Allowed: true}
}

// DenyTo blocks the navigation and redirects to path.
func DenyTo(path string) Decision {
	return Decision{Redirect: path}
}

// Guard is a synchronous check against the resident session state. It never fetches.
type Guard func() Decision

// SessionReader is the part of the session store guards consult.
type SessionReader interface {
	Authenticated() bool
	HasAnyRole(roles ...entity.Role) bool
}

// RequireAuthenticated denies an unauthenticated session and sends it to loginPath.
func RequireAuthenticated(session SessionReader, loginPath string) Guard {
	return func() Decision {
		if session.Authenticated() {
			return Allow()
		}

		return DenyTo(loginPath)
	}
}

// RequireAnyRole denies a session holding none of roles and sends it to homePath.
func RequireAnyRole(session SessionReader, homePath string, roles ...entity.Role) Guard {
	return func() Decision {
		if session.HasAnyRole(roles...) {
			return Allow()
		}

		return DenyTo(homePath)
	}
}

// Evaluate runs guards in order and stops at the first denial.
func Evaluate(guards ...Guard) Decision {
	for _, guard := range guards {
		if d := guard(); !d.Allowed {
			return d
		}
	}

	return Allow()
}
