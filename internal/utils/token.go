package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BearerToken is a signed HS256 JWT together with its expiry. The JWT
// travels in the Authorization header; its SHA-256 digest is what the
// token repository stores, so a login can revoke earlier issues.
type BearerToken struct {
	Token string
	Exp   time.Time
}

// NewBearerToken signs a JWT for a user carrying subject, role and the
// usual exp/iat claims. ttlMin is the token lifetime in minutes.
func NewBearerToken(secret string, userID uint64, role uint8, ttlMin int) (BearerToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return BearerToken{}, err
	}
	return BearerToken{Token: signed, Exp: exp}, nil
}

// HashToken returns the SHA-256 hex digest of a token string, the form
// in which tokens are persisted and looked up.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
