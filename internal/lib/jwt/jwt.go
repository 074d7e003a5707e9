package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Manager mints and verifies the two token kinds. Access and refresh tokens
// are signed with distinct secrets so a leaked access token can never be
// presented to the refresh endpoint.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (m *Manager) NewAccessToken(userID uuid.UUID) (string, error) {
	return newToken(userID, m.accessSecret, m.accessTTL)
}

func (m *Manager) NewRefreshToken(userID uuid.UUID) (string, error) {
	return newToken(userID, m.refreshSecret, m.refreshTTL)
}

// ParseAccess verifies signature and expiry against the access secret and
// returns the subject account id.
func (m *Manager) ParseAccess(token string) (uuid.UUID, error) {
	return parse(token, m.accessSecret)
}

// ParseRefresh verifies signature and expiry against the refresh secret and
// returns the subject account id. Presence in the account's active set is the
// caller's concern.
func (m *Manager) ParseRefresh(token string) (uuid.UUID, error) {
	return parse(token, m.refreshSecret)
}

func newToken(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parse(token string, secret []byte) (uuid.UUID, error) {
	const op = "lib.jwt.parse"

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return userID, nil
}
