// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TokenTTL is how long an access token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// NewID creates a random ID for a new entity row.
func NewID() string {
	return uuid.NewString()
}

// HashPassword creates a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a stored hash against a login attempt.
// Returns ErrInvalidCredentials on mismatch.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateToken creates a signed access token carrying the voter
// identity and admin flag
func GenerateToken(voterID string, isAdmin bool, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":       voterID,
		"is_admin": isAdmin,
		"exp":      time.Now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and extracts the voter identity.
func ParseToken(tokenString, secret string) (voterID string, isAdmin bool, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", false, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false, ErrInvalidToken
	}

	voterID, ok = claims["id"].(string)
	if !ok || voterID == "" {
		return "", false, ErrInvalidToken
	}
	isAdmin, _ = claims["is_admin"].(bool)

	return voterID, isAdmin, nil
}
