package utils

import (
	"errors"
	"time"

	"github.com/giftdraw/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionIssuer = "giftdraw"

var (
	sessionSecret   = []byte("change-me-in-production")
	sessionLifetime = 24 * time.Hour
)

// SessionClaims is the payload of an organizer session token. The role
// travels in the token so admin routes can refuse cheaply, but the user row
// is always reloaded before it is trusted.
type SessionClaims struct {
	UserID uuid.UUID       `json:"uid"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func ConfigureJWT(secret string, expirationHours int) {
	if secret != "" {
		sessionSecret = []byte(secret)
	}
	if expirationHours > 0 {
		sessionLifetime = time.Duration(expirationHours) * time.Hour
	}
}

func GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionLifetime)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sessionSecret)
}

var errInvalidSession = errors.New("invalid session token")

func ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(*jwt.Token) (interface{}, error) { return sessionSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errInvalidSession
	}
	return claims, nil
}
