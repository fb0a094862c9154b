// Package service defines the stateless domain services the stores and the sandbox depend on.
package service

// PasswordHasher hashes and checks sandbox account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Check reports whether password matches hash. A malformed hash never matches.
	Check(password, hash string) bool
}
