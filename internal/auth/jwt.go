package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mkulima/soko/internal/models"
)

// Claims defines the structure of the session cookie JWT. It carries the
// session ID plus a display-only user hint; the backend owns real
// authentication, so this token never functions as a security boundary.
type Claims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"uid,omitempty"`
	Fullname  string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// User reconstructs the user hint carried in the claims, or nil for an
// anonymous session.
func (c *Claims) User() *models.User {
	if c.UserID == 0 && c.Fullname == "" {
		return nil
	}
	return &models.User{
		ID:       c.UserID,
		Fullname: c.Fullname,
		Phone:    c.Phone,
		Role:     c.Role,
	}
}

// GenerateSessionToken creates a signed JWT for a session, optionally
// embedding the logged-in user hint.
func GenerateSessionToken(sessionID string, user *models.User, secretKey string, ttl time.Duration) (string, error) {
	expirationTime := time.Now().Add(ttl)
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   sessionID,
		},
	}
	if user != nil {
		claims.UserID = user.ID
		claims.Fullname = user.Fullname
		claims.Phone = user.Phone
		claims.Role = user.Role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken verifies a session JWT and returns the claims if valid.
func ValidateSessionToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	return claims, nil
}
