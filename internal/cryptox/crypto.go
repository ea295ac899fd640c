// Package cryptox wraps the password-hashing primitives used by the auth
// service. Hashes are bcrypt with a per-hash random salt, so hashing the
// same password twice yields different strings, and verification never
// degrades to a plain comparison.
package cryptox

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes plaintext with bcrypt at the library default cost.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plaintext matches the stored bcrypt hash.
func CheckPassword(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
