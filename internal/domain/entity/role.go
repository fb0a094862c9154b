// Package entity contains the core business objects of the project.
package entity

import (
	"slices"
	"strings"
)

// Role is a named privilege attached to a user.
type Role string

const (
	// RoleUser indicates a regular customer.
	RoleUser Role = "ROLE_USER"
	// RoleSeller indicates a user allowed to manage products.
	RoleSeller Role = "ROLE_SELLER"
	// RoleAdmin indicates a back-office administrator.
	RoleAdmin Role = "ROLE_ADMIN"
)

// legacyRolePrefix is the enum-qualified form some backend versions emit.
const legacyRolePrefix = "ERole."

// AllRoles lists the roles an administrator can grant.
var AllRoles = Roles{RoleUser, RoleSeller, RoleAdmin}

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// Normalize strips any dotted qualifier, so "ERole.ROLE_ADMIN" becomes "ROLE_ADMIN".
func (r Role) Normalize() Role {
	s := string(r)
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		return Role(s[idx+1:])
	}

	return r
}

// Matches reports whether r names the same privilege as name, whatever form r arrived in.
func (r Role) Matches(name Role) bool {
	s, n := string(r), string(name.Normalize())
	if n == "" {
		return false
	}

	return s == n || s == legacyRolePrefix+n || strings.HasSuffix(s, "."+n)
}

// IsKnown checks if the Role, once normalized, is one the system defines.
func (r Role) IsKnown() bool {
	return slices.Contains(AllRoles, r.Normalize())
}

// Roles is a user's role set.
type Roles []Role

// Has reports whether the set grants name.
func (rs Roles) Has(name Role) bool {
	return slices.ContainsFunc(rs, func(r Role) bool { return r.Matches(name) })
}

// HasAny reports whether the set grants at least one of names.
func (rs Roles) HasAny(names ...Role) bool {
	return slices.ContainsFunc(names, rs.Has)
}

// Normalized returns the set with every qualifier stripped.
func (rs Roles) Normalized() Roles {
	out := make(Roles, len(rs))
	for i, r := range rs {
		out[i] = r.Normalize()
	}

	return out
}

// Missing returns the options the set does not grant yet, in options order.
func (rs Roles) Missing(options ...Role) Roles {
	out := make(Roles, 0, len(options))
	for _, opt := range options {
		if !rs.Has(opt) {
			out = append(out, opt)
		}
	}

	return out
}

// ToStrings converts Roles to []string.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RolesFromStrings converts []string to Roles without filtering; unknown roles are kept.
func RolesFromStrings(ss []string) Roles {
	result := make(Roles, len(ss))
	for i, s := range ss {
		result[i] = Role(s)
	}

	return result
}
