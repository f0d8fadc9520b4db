package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/arnaupv/forum-api/internal/model"
)

// ThreadRepo persists rows of the `threads` table.
type ThreadRepo struct{ DB *sql.DB }

func NewThreadRepo(db *sql.DB) *ThreadRepo { return &ThreadRepo{DB: db} }

// Create inserts a thread for the given owner and returns it.
func (r *ThreadRepo) Create(ctx context.Context, title, content string, ownerID uint64) (model.Thread, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO threads (title, content, user_id, created_at, updated_at) VALUES (?,?,?,?,?)",
		title, content, ownerID, now, now)
	if err != nil {
		return model.Thread{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Thread{}, err
	}
	return model.Thread{
		ID: uint64(id), Title: title, Content: content, UserID: ownerID,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

// GetByID fetches a thread by primary key.
func (r *ThreadRepo) GetByID(ctx context.Context, id uint64) (model.Thread, error) {
	var t model.Thread
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,content,user_id,created_at,updated_at FROM threads WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.Title, &t.Content, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListAll returns every thread, unfiltered and unpaginated, newest last.
func (r *ThreadRepo) ListAll(ctx context.Context) ([]model.Thread, error) {
	return r.list(ctx,
		"SELECT id,title,content,user_id,created_at,updated_at FROM threads ORDER BY id ASC")
}

// ListByOwner returns the threads created by one user.
func (r *ThreadRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Thread, error) {
	return r.list(ctx,
		"SELECT id,title,content,user_id,created_at,updated_at FROM threads WHERE user_id=? ORDER BY id ASC",
		ownerID)
}

func (r *ThreadRepo) list(ctx context.Context, query string, args ...any) ([]model.Thread, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	threads := []model.Thread{}
	for rows.Next() {
		var t model.Thread
		if err := rows.Scan(&t.ID, &t.Title, &t.Content, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// DeleteByIDAndOwner removes a thread plus its responses and the votes
// on those responses, but only when the requester owns it. A missing
// thread and a thread owned by someone else are indistinguishable to
// the caller: both return sql.ErrNoRows.
func (r *ThreadRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var found uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM threads WHERE id=? AND user_id=? LIMIT 1", id, ownerID).Scan(&found)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM votes WHERE response_id IN (SELECT id FROM responses WHERE thread_id=?)", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM responses WHERE thread_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM threads WHERE id=?", id); err != nil {
		return err
	}
	return tx.Commit()
}
