package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/lankaconnect-client/internal/errors"
)

// RefreshLeeway is how long before expiry a token is refreshed proactively.
const RefreshLeeway = 5 * time.Minute

// Claims is the subset of the access token the client reads.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// ParseClaims decodes token without verifying the signature. Verification is the
// server's job, the client only needs the expiry and identity.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "parse access token: %v", err)
	}
	return claims, nil
}

// TokenExpiry returns the token's exp claim.
func TokenExpiry(token string) (time.Time, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.Wrapf(errors.ErrInvalidToken, "token has no exp claim")
	}
	return claims.ExpiresAt.Time, nil
}

// RefreshAt is the moment a proactive refresh becomes due.
func RefreshAt(token string) (time.Time, error) {
	exp, err := TokenExpiry(token)
	if err != nil {
		return time.Time{}, err
	}
	return exp.Add(-RefreshLeeway), nil
}

// IsExpired treats a token without a readable expiry as expired.
func IsExpired(token string, now time.Time) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	return !now.Before(exp)
}

// NeedsRefresh reports whether now is inside the refresh leeway. Unreadable tokens
// are left to the 401 path.
func NeedsRefresh(token string, now time.Time) bool {
	at, err := RefreshAt(token)
	if err != nil {
		return false
	}
	return !now.Before(at)
}
