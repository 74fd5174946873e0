// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/danielhkuo/pollgate/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingToken = errors.New("missing bearer token")
)

// Caller is the verified identity behind a request. The zero value is an
// anonymous caller.
type Caller struct {
	ID   string
	Role string
}

func (c Caller) Anonymous() bool {
	return c.ID == ""
}

// IsAdmin reports whether the caller holds the administrator role.
func IsAdmin(c Caller) bool {
	return c.ID != "" && c.Role == models.RoleAdmin
}

// CanModerate reports whether the caller may edit or delete a poll owned by creatorID.
func CanModerate(c Caller, creatorID string) bool {
	if c.Anonymous() {
		return false
	}
	return IsAdmin(c) || c.ID == creatorID
}

// CanSeeHidden reports whether a deactivated poll is visible to the caller.
func CanSeeHidden(c Caller, creatorID string) bool {
	return CanModerate(c, creatorID)
}

// Claims are the token claims issued by the identity provider.
// The identity id travels in the standard "sub" claim.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token for identityID. Used by tests and local tooling;
// production tokens come from the identity provider.
func SignToken(secret, identityID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies tok against secret and returns the caller it names.
func ParseToken(secret, tok string) (Caller, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || strings.TrimSpace(c.Subject) == "" {
		return Caller{}, ErrInvalidToken
	}

	role := models.RoleUser
	if c.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}
	return Caller{ID: c.Subject, Role: role}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrMissingToken
	}
	tok := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tok == "" {
		return "", ErrMissingToken
	}
	return tok, nil
}
