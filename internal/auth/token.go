// Package auth issues and validates the JWT access tokens used to
// authenticate API requests.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avelasko/todoapp/pkg/errors"
)

// AccessTokenTTL is how long an issued token stays valid.
const AccessTokenTTL = 30 * time.Minute

// Claims is the token payload. Subject carries the username; UserID and Role
// are custom claims.
type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a manager around the given signing secret.
func NewTokenManager(secret []byte) *TokenManager {
	return &TokenManager{
		secret: secret,
		ttl:    AccessTokenTTL,
		now:    time.Now,
	}
}

// Generate issues a signed access token for the user.
func (m *TokenManager) Generate(username string, userID int64, role string) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string, returning its claims. It
// rejects tokens signed with a different method, expired tokens, and tokens
// missing the subject or user id claims.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, errors.Unauthorized("invalid authentication credentials")
	}
	if !token.Valid {
		return nil, errors.Unauthorized("invalid authentication credentials")
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return nil, errors.Unauthorized("invalid authentication credentials")
	}
	return claims, nil
}
