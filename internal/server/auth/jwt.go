// Package auth issues and validates the stateless access tokens used by the
// service. Tokens are HS256 JWTs signed with a process-wide secret; they
// carry the user id in the registered "sub" claim and cannot be revoked
// before expiry.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/saedev/sae-auth/internal/shared"
)

// GenerateToken mints a signed token for userID that expires after
// validityDuration.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
	})

	return token.SignedString(secretKey)
}

// GetUserIDFromToken validates tokenString and returns the subject user id.
// Expired tokens yield shared.ErrTokenExpired; any other structural or
// signature failure yields shared.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, shared.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", shared.ErrTokenExpired
		}
		return "", shared.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", shared.ErrInvalidToken
	}

	return claims.Subject, nil
}
