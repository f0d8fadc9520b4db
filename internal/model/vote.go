package model

import "time"

// Vote is a single user's up/down vote on a response. There is at most
// one row per (user_id, response_id) pair; casting again with a
// different type updates the row in place. Type true means upvote.
// Read starts false and flips when the voter acknowledges their
// notification feed.
type Vote struct {
	ID         uint64    `json:"id"`
	Type       bool      `json:"type"`
	UserID     uint64    `json:"user_id"`
	ResponseID uint64    `json:"response_id"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UnreadVote joins an unread vote with the response it was cast on for
// the notification feed.
type UnreadVote struct {
	Vote
	Response Response `json:"response"`
}
