package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/lankaconnect-client/internal/errors"
	"github.com/jrsteele09/lankaconnect-client/users"
)

const (
	issuer             = "https://lankaconnect.test"
	refreshTokenLength = 32
)

// hmacSigner signs access tokens with HS256.
type hmacSigner struct {
	key []byte
}

func newHMACSigner() (*hmacSigner, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	return &hmacSigner{key: key}, nil
}

func (s *hmacSigner) Sign(claims jwt.MapClaims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *hmacSigner) verificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.key, nil
}

// accessClaims is what the handlers know about the caller.
type accessClaims struct {
	UserID     string
	Email      string
	Role       users.Role
	Generation int
}

type storedRefreshToken struct {
	Token  string
	UserID string
	Iat    time.Time
}

// tokenIssuer creates and checks access tokens and rotates refresh tokens. Access
// tokens carry a generation, bumping it revokes every token issued so far. It is
// not safe for concurrent use, the server's lock covers it.
type tokenIssuer struct {
	signer     *hmacSigner
	now        func() time.Time
	accessTTL  time.Duration
	refreshTTL time.Duration
	generation int
	refresh    map[string]storedRefreshToken
}

func newTokenIssuer(now func() time.Time, accessTTL, refreshTTL time.Duration) (*tokenIssuer, error) {
	signer, err := newHMACSigner()
	if err != nil {
		return nil, err
	}
	return &tokenIssuer{
		signer:     signer,
		now:        now,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		refresh:    make(map[string]storedRefreshToken),
	}, nil
}

func (t *tokenIssuer) createAccessToken(u users.User) (string, time.Time, error) {
	iat := t.now()
	exp := iat.Add(t.accessTTL)
	token, err := t.signer.Sign(jwt.MapClaims{
		"iss":   issuer,
		"sub":   u.UserID,
		"email": u.Email,
		"role":  string(u.Role),
		"gen":   t.generation,
		"iat":   iat.Unix(),
		"exp":   exp.Unix(),
		"jti":   uuid.NewString(),
	})
	return token, exp, err
}

func (t *tokenIssuer) parseAccessToken(token string) (*accessClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, t.signer.verificationKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "%v", err)
	}
	gen, _ := claims["gen"].(float64)
	if int(gen) != t.generation {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "token revoked")
	}
	sub, _ := claims.GetSubject()
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &accessClaims{UserID: sub, Email: email, Role: users.Role(role), Generation: int(gen)}, nil
}

func (t *tokenIssuer) revokeAccessTokens() {
	t.generation++
}

// createRefreshToken replaces any refresh token the user already holds.
func (t *tokenIssuer) createRefreshToken(userID string) (string, error) {
	for token, rt := range t.refresh {
		if rt.UserID == userID {
			delete(t.refresh, token)
		}
	}
	b := make([]byte, refreshTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	token := hex.EncodeToString(b)
	t.refresh[token] = storedRefreshToken{Token: token, UserID: userID, Iat: t.now()}
	return token, nil
}

// rotate consumes a refresh token and returns the user it belonged to.
func (t *tokenIssuer) rotate(token string) (string, error) {
	rt, ok := t.refresh[token]
	if !ok {
		return "", errors.Wrapf(errors.ErrInvalidToken, "unknown refresh token")
	}
	delete(t.refresh, token)
	if t.now().Sub(rt.Iat) > t.refreshTTL {
		return "", errors.Wrapf(errors.ErrTokenExpired, "refresh token")
	}
	return rt.UserID, nil
}

func (t *tokenIssuer) revokeRefreshToken(token string) {
	delete(t.refresh, token)
}

func (t *tokenIssuer) revokeRefreshTokens() {
	clear(t.refresh)
}
