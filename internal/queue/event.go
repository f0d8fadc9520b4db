// Package queue defines message payloads exchanged over the message broker.
package queue

// VoteRecordedEvent is published whenever a vote is created or its type
// changes. It carries enough for downstream consumers (notification
// fan-out, analytics) to act without querying the primary database.
// No event is published for a repeat vote with an unchanged type.
type VoteRecordedEvent struct {
	VoteID           uint64 `json:"vote_id"`
	ResponseID       uint64 `json:"response_id"`
	ThreadID         uint64 `json:"thread_id"`
	ResponseAuthorID uint64 `json:"response_author_id"`
	VoterID          uint64 `json:"voter_id"`
	Upvote           bool   `json:"upvote"`
	FirstVote        bool   `json:"first_vote"`
	RecordedAt       string `json:"recorded_at"`
}
