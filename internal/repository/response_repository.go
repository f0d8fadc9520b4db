package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/arnaupv/forum-api/internal/model"
)

// ResponseRepo persists rows of the `responses` table.
type ResponseRepo struct{ DB *sql.DB }

func NewResponseRepo(db *sql.DB) *ResponseRepo { return &ResponseRepo{DB: db} }

// Create inserts a response on an existing thread. When the thread id
// does not reference a thread, ErrThreadNotFound is returned and
// nothing is written.
func (r *ResponseRepo) Create(ctx context.Context, content string, threadID, authorID uint64) (model.Response, error) {
	var exists uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM threads WHERE id=? LIMIT 1", threadID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Response{}, ErrThreadNotFound
		}
		return model.Response{}, err
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO responses (content, user_id, thread_id, created_at, updated_at) VALUES (?,?,?,?,?)",
		content, authorID, threadID, now, now)
	if err != nil {
		return model.Response{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Response{}, err
	}
	return model.Response{
		ID: uint64(id), Content: content, UserID: authorID, ThreadID: threadID,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

// GetByID fetches a response by primary key.
func (r *ResponseRepo) GetByID(ctx context.Context, id uint64) (model.Response, error) {
	var resp model.Response
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,content,user_id,thread_id,created_at,updated_at FROM responses WHERE id=? LIMIT 1",
		id).Scan(&resp.ID, &resp.Content, &resp.UserID, &resp.ThreadID, &resp.CreatedAt, &resp.UpdatedAt)
	return resp, err
}

// ListByThread returns a thread's responses in creation order, each
// joined with its author's public identity.
func (r *ResponseRepo) ListByThread(ctx context.Context, threadID uint64) ([]model.ResponseWithUser, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.content, r.user_id, r.thread_id, r.created_at, r.updated_at,
		        u.id, u.name, u.email, u.username
		 FROM responses r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.thread_id=?
		 ORDER BY r.created_at ASC, r.id ASC`,
		threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ResponseWithUser{}
	for rows.Next() {
		var rw model.ResponseWithUser
		if err := rows.Scan(&rw.ID, &rw.Content, &rw.UserID, &rw.ThreadID, &rw.CreatedAt, &rw.UpdatedAt,
			&rw.User.ID, &rw.User.Name, &rw.User.Email, &rw.User.Username); err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, rows.Err()
}

// GetAuthor returns the public identity of the user who wrote a
// response. Unknown response ids yield sql.ErrNoRows.
func (r *ResponseRepo) GetAuthor(ctx context.Context, responseID uint64) (model.ResponseAuthor, error) {
	var a model.ResponseAuthor
	err := r.DB.QueryRowContext(ctx,
		`SELECT u.id, u.name, u.email, u.username
		 FROM responses r JOIN users u ON u.id = r.user_id
		 WHERE r.id=? LIMIT 1`,
		responseID).Scan(&a.ID, &a.Name, &a.Email, &a.Username)
	return a, err
}
