// Package auth issues and verifies the JWTs that carry a back-office user's
// role and branch scope. The branch claim is the explicit branch context for
// every storage query made on the user's behalf.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for expired, malformed or forged tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the token payload: who, what they may do, and which branch
// their requests are scoped to.
type Claims struct {
	Role      string `json:"role"`
	BranchID  string `json:"branch_id"`
	ShortCode string `json:"short_code"`
	jwt.RegisteredClaims
}

// Maker signs and verifies tokens with a shared HMAC secret.
type Maker struct {
	secret []byte
}

// NewMaker creates a token Maker. The secret must not be empty.
func NewMaker(secret string) (*Maker, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Maker{secret: []byte(secret)}, nil
}

// Issue creates a signed token for the user, valid for 24 hours.
func (m *Maker) Issue(user *models.User) (string, error) {
	claims := Claims{
		Role:      user.Role,
		BranchID:  user.BranchID,
		ShortCode: user.ShortCode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (m *Maker) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Allows reports whether the role may act as any of the required roles. The
// owner role passes every check.
func (c *Claims) Allows(roles ...string) bool {
	if c.Role == models.RoleOwner {
		return true
	}
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}
