package model

import "time"

// Role values stored in users.role. The application knows exactly two
// roles and RoleUpdate flips between them.
const (
	RoleMember uint8 = 0
	RoleAdmin  uint8 = 1
)

// User mirrors the `users` table. PasswordHash is never serialized.
// Rating is not a column: it is the read-time average over the uratings
// ledger and is only populated by queries that compute it.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         uint8     `json:"role"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccessToken models a row in `access_tokens`. Only the SHA-256 hex
// digest of the issued JWT is stored; a token is usable while it is
// neither expired nor revoked.
type AccessToken struct {
	ID        uint64     // access_tokens.id
	UserID    uint64     // access_tokens.user_id
	TokenHash string     // access_tokens.token_hash
	ExpiresAt time.Time  // access_tokens.expires_at
	RevokedAt *time.Time // access_tokens.revoked_at (nullable)
	CreatedAt time.Time  // access_tokens.created_at
}
