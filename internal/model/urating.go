package model

import "time"

// Urating is one user's 1-5 rating of another user. UserID is the rated
// user, RaterID the user who gave the score. At most one row exists per
// (user_id, rater_id) pair; rating again overwrites the score.
type Urating struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	RaterID   uint64    `json:"rater_id"`
	Rating    uint8     `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingSummary is the derived aggregate for a rated user, computed
// from the uratings ledger at read time.
type RatingSummary struct {
	UserID  uint64  `json:"user_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
