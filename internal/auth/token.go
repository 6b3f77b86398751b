package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Static errors for err113 compliance.
var (
	ErrInvalidToken      = errors.New("invalid JWT")
	ErrNoExpirationClaim = errors.New("no expiration claim found")
)

// Claims are the claims the users-permissions plugin puts in its tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"id,omitempty"`
}

// ParseClaims decodes the claims of token without verifying its signature.
// The client never holds the signing secret; the server remains the authority
// on validity.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return claims, nil
}

// TokenExpiry returns the expiry recorded in token.
func TokenExpiry(token string) (time.Time, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return time.Time{}, err
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpirationClaim
	}

	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether expiresAt falls within buffer of now. A zero
// expiresAt never expires.
func IsExpired(expiresAt time.Time, buffer time.Duration) bool {
	if expiresAt.IsZero() {
		return false
	}

	return time.Now().Add(buffer).After(expiresAt)
}
