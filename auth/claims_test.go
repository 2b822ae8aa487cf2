package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/lankaconnect-client/auth"
	"github.com/jrsteele09/lankaconnect-client/internal/errors"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-server-key"))
	require.NoError(t, err)
	return token
}

func TestClaims(t *testing.T) {
	exp := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "email": "a@b.lk", "role": "Admin", "exp": exp.Unix()})

	claims, err := auth.ParseClaims(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.Subject)
	require.Equal(t, "a@b.lk", claims.Email)
	require.Equal(t, "Admin", claims.Role)

	got, err := auth.TokenExpiry(token)
	require.NoError(t, err)
	require.True(t, exp.Equal(got))

	at, err := auth.RefreshAt(token)
	require.NoError(t, err)
	require.True(t, exp.Add(-auth.RefreshLeeway).Equal(at))

	require.False(t, auth.IsExpired(token, exp.Add(-time.Second)))
	require.True(t, auth.IsExpired(token, exp))
	require.False(t, auth.NeedsRefresh(token, exp.Add(-10*time.Minute)))
	require.True(t, auth.NeedsRefresh(token, exp.Add(-time.Minute)))
}

func TestClaimsUnreadable(t *testing.T) {
	now := time.Now()

	_, err := auth.ParseClaims("not.a.jwt")
	require.ErrorIs(t, err, errors.ErrInvalidToken)

	noExp := signedToken(t, jwt.MapClaims{"sub": "u1"})
	_, err = auth.TokenExpiry(noExp)
	require.ErrorIs(t, err, errors.ErrInvalidToken)

	require.True(t, auth.IsExpired("garbage", now))
	require.True(t, auth.IsExpired(noExp, now))
	require.False(t, auth.NeedsRefresh("garbage", now))
}
