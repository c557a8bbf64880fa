/*
 * Copyright 2026 The Couchkit Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package auth provides the JSON Web Tokens accepted by the store as bearer
// credentials and as session cookies.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/couchkit/couchkit/pkg/errors"
)

var (
	// ErrUnexpectedSigningMethod is returned when the signing method is unexpected.
	ErrUnexpectedSigningMethod = errors.Unauthenticated(
		"unexpected signing method",
	).WithCode("ErrUnexpectedSigningMethod")

	// ErrInvalidToken is returned when a token cannot be verified.
	ErrInvalidToken = errors.Unauthenticated("invalid token").WithCode("ErrInvalidToken")
)

// UserClaims are the claims of a token. The user name is the subject and the
// roles use the claim name the store reads them from.
type UserClaims struct {
	jwt.StandardClaims

	Roles []string `json:"_couchdb.roles,omitempty"`
}

// Username returns the subject of the token.
func (c *UserClaims) Username() string {
	return c.Subject
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	secretKey     string
	tokenDuration time.Duration
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(secretKey string, tokenDuration time.Duration) *TokenManager {
	return &TokenManager{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
	}
}

// Generate generates a new token for the user.
func (m *TokenManager) Generate(username string, roles ...string) (string, error) {
	now := time.Now()
	claims := UserClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   username,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.tokenDuration).Unix(),
		},
		Roles: roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signedToken, nil
}

// Verify verifies the given token and returns its claims.
func (m *TokenManager) Verify(token string) (*UserClaims, error) {
	claims := &UserClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: %w", token.Method.Alg(), ErrUnexpectedSigningMethod)
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %v: %w", err, ErrInvalidToken)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("parse token: missing subject: %w", ErrInvalidToken)
	}

	return claims, nil
}
