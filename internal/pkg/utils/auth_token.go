package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var ErrInvalidAuthToken = errors.New("invalid auth token")

// AuthTokenWrapper is the payload of a session token.
type AuthTokenWrapper struct {
	UserID int64 `json:"uid"`
	jwt.StandardClaims
}

func GenerateAuthToken(token *AuthTokenWrapper, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token.Id = uuid.NewString()
	token.IssuedAt = now.Unix()
	if ttl > 0 {
		token.ExpiresAt = now.Add(ttl).Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, token).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("SignedString: %w", err)
	}

	return signed, nil
}

func ParseAuthToken(raw, secret string) (*AuthTokenWrapper, error) {
	var claims AuthTokenWrapper

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidAuthToken
	}

	return &claims, nil
}
