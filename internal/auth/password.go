// Package auth implements the credential and session layer: bcrypt
// password hashing, the two signed session cookies, and the opaque
// per-login session token stored on the user record.
package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the cost factor of existing password hashes.
const DefaultBcryptCost = 10

// HashPassword returns a salted bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
