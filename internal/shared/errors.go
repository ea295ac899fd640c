// Package shared defines sentinel errors and small helpers used across
// the service layers. Callers should use errors.Is to match these values.
package shared

import "errors"

var (
	// repository-level errors
	ErrorNotFound = errors.New("not found")

	// service-level errors
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("unauthenticated")

	// validation / uniqueness errors
	ErrorValidation    = errors.New("validation error")
	ErrorEmailTaken    = errors.New("email already registered")
	ErrorUsernameTaken = errors.New("username already taken")

	// credential errors
	ErrorInvalidCredentials = errors.New("incorrect email or password")
	ErrorIncorrectPassword  = errors.New("current password is incorrect")

	// token lifecycle errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
