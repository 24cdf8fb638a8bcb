package seed

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret is returned when a token is minted or verified with no
// signing secret.
var ErrEmptySecret = errors.New("jwt secret is required")

// adminClaims are the claims of a privileged seeding token.
type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// MintAdminToken mints a short-lived HS256 token for privileged content
// insertion through the admin API. The subject is the superadmin email.
func MintAdminToken(secret, email string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	now := time.Now()
	claims := adminClaims{
		Role: "SuperAdmin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    "sessionkit-seed",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAdminToken parses and validates a minted token, returning the
// subject email. Used by tests and by operators checking a token before
// handing it to automation.
func VerifyAdminToken(secret, token string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	var claims adminClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid || claims.Role != "SuperAdmin" {
		return "", errors.New("token is not a valid superadmin token")
	}
	return claims.Subject, nil
}
