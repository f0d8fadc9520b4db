package model

import "time"

// Thread is a discussion topic created by a user. Responses hang off a
// thread and are removed together with it.
type Thread struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    uint64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
