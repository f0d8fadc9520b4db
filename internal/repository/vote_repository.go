package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/arnaupv/forum-api/internal/model"
)

// VoteRepo persists rows of the `votes` table. The table carries a
// UNIQUE key on (user_id, response_id); Upsert relies on it to stay
// single-row under concurrent writers.
type VoteRepo struct{ DB *sql.DB }

func NewVoteRepo(db *sql.DB) *VoteRepo { return &VoteRepo{DB: db} }

// VoteResult describes what Upsert did. Changed is false when the
// stored type already matched and no write was performed.
type VoteResult struct {
	Vote    model.Vote
	Created bool
	Changed bool
}

// Upsert records a vote for (voterID, responseID). First vote inserts
// an unread row; a repeat with the same type writes nothing; a repeat
// with the opposite type updates the row in place without touching the
// read flag. An insert that loses a race to a concurrent first vote
// falls through to the update path on the duplicate-key error.
func (r *VoteRepo) Upsert(ctx context.Context, voterID, responseID uint64, upvote bool) (VoteResult, error) {
	existing, err := r.getByVoterAndResponse(ctx, voterID, responseID)
	if err != nil && err != sql.ErrNoRows {
		return VoteResult{}, err
	}

	if err == sql.ErrNoRows {
		now := time.Now().UTC()
		res, insErr := r.DB.ExecContext(ctx,
			"INSERT INTO votes (type, user_id, response_id, `read`, created_at, updated_at) VALUES (?,?,?,?,?,?)",
			upvote, voterID, responseID, false, now, now)
		if insErr == nil {
			id, idErr := res.LastInsertId()
			if idErr != nil {
				return VoteResult{}, idErr
			}
			return VoteResult{
				Vote: model.Vote{
					ID: uint64(id), Type: upvote, UserID: voterID, ResponseID: responseID,
					Read: false, CreatedAt: now, UpdatedAt: now,
				},
				Created: true, Changed: true,
			}, nil
		}
		if !isDuplicate(insErr) {
			return VoteResult{}, insErr
		}
		// Lost the race: a concurrent request created the row first.
		existing, err = r.getByVoterAndResponse(ctx, voterID, responseID)
		if err != nil {
			return VoteResult{}, err
		}
	}

	if existing.Type == upvote {
		return VoteResult{Vote: existing}, nil
	}
	now := time.Now().UTC()
	_, err = r.DB.ExecContext(ctx,
		"UPDATE votes SET type=?, updated_at=? WHERE id=?", upvote, now, existing.ID)
	if err != nil {
		return VoteResult{}, err
	}
	existing.Type = upvote
	existing.UpdatedAt = now
	return VoteResult{Vote: existing, Changed: true}, nil
}

func (r *VoteRepo) getByVoterAndResponse(ctx context.Context, voterID, responseID uint64) (model.Vote, error) {
	var v model.Vote
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, type, user_id, response_id, `read`, created_at, updated_at FROM votes WHERE user_id=? AND response_id=? LIMIT 1",
		voterID, responseID).Scan(&v.ID, &v.Type, &v.UserID, &v.ResponseID, &v.Read, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

// ListUnread returns a voter's unread votes, each joined with the
// response it was cast on. The dashboard polls this for its badge.
func (r *VoteRepo) ListUnread(ctx context.Context, voterID uint64) ([]model.UnreadVote, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT v.id, v.type, v.user_id, v.response_id, v.`read`, v.created_at, v.updated_at, "+
			"r.id, r.content, r.user_id, r.thread_id, r.created_at, r.updated_at "+
			"FROM votes v JOIN responses r ON r.id = v.response_id "+
			"WHERE v.user_id=? AND v.`read`=? ORDER BY v.id ASC",
		voterID, false)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.UnreadVote{}
	for rows.Next() {
		var uv model.UnreadVote
		if err := rows.Scan(&uv.ID, &uv.Type, &uv.UserID, &uv.ResponseID, &uv.Read, &uv.CreatedAt, &uv.UpdatedAt,
			&uv.Response.ID, &uv.Response.Content, &uv.Response.UserID, &uv.Response.ThreadID,
			&uv.Response.CreatedAt, &uv.Response.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, uv)
	}
	return out, rows.Err()
}

// MarkAllRead acknowledges a voter's notification feed and returns how
// many votes flipped from unread to read.
func (r *VoteRepo) MarkAllRead(ctx context.Context, voterID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE votes SET `read`=?, updated_at=? WHERE user_id=? AND `read`=?",
		true, time.Now().UTC(), voterID, false)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
