package model

import "time"

// Response is a reply posted on a thread.
type Response struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	UserID    uint64    `json:"user_id"`
	ThreadID  uint64    `json:"thread_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResponseWithUser carries a response together with its author's public
// identity, as returned by the thread response listing.
type ResponseWithUser struct {
	Response
	User ResponseAuthor `json:"user"`
}

// ResponseAuthor is the subset of user fields exposed next to a response.
type ResponseAuthor struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
