package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/arnaupv/forum-api/internal/model"
)

// UratingRepo persists rows of the `uratings` table: one 1-5 score per
// (rated user, rater) pair, guarded by a UNIQUE key on the pair.
type UratingRepo struct{ DB *sql.DB }

func NewUratingRepo(db *sql.DB) *UratingRepo { return &UratingRepo{DB: db} }

// Upsert stores rater's score for the rated user, overwriting any
// previous score. The rated user must exist (ErrUserNotFound
// otherwise). Re-applying the same score is a no-op and still succeeds.
func (r *UratingRepo) Upsert(ctx context.Context, ratedID, raterID uint64, score uint8) (model.Urating, error) {
	var exists uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE id=? LIMIT 1", ratedID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Urating{}, ErrUserNotFound
		}
		return model.Urating{}, err
	}

	existing, err := r.getByPair(ctx, ratedID, raterID)
	if err != nil && err != sql.ErrNoRows {
		return model.Urating{}, err
	}

	if err == sql.ErrNoRows {
		now := time.Now().UTC()
		res, insErr := r.DB.ExecContext(ctx,
			"INSERT INTO uratings (user_id, rater_id, rating, created_at, updated_at) VALUES (?,?,?,?,?)",
			ratedID, raterID, score, now, now)
		if insErr == nil {
			id, idErr := res.LastInsertId()
			if idErr != nil {
				return model.Urating{}, idErr
			}
			return model.Urating{
				ID: uint64(id), UserID: ratedID, RaterID: raterID, Rating: score,
				CreatedAt: now, UpdatedAt: now,
			}, nil
		}
		if !isDuplicate(insErr) {
			return model.Urating{}, insErr
		}
		// Concurrent rater for the same pair won the insert; update instead.
		existing, err = r.getByPair(ctx, ratedID, raterID)
		if err != nil {
			return model.Urating{}, err
		}
	}

	if existing.Rating == score {
		return existing, nil
	}
	now := time.Now().UTC()
	_, err = r.DB.ExecContext(ctx,
		"UPDATE uratings SET rating=?, updated_at=? WHERE id=?", score, now, existing.ID)
	if err != nil {
		return model.Urating{}, err
	}
	existing.Rating = score
	existing.UpdatedAt = now
	return existing, nil
}

func (r *UratingRepo) getByPair(ctx context.Context, ratedID, raterID uint64) (model.Urating, error) {
	var u model.Urating
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, rater_id, rating, created_at, updated_at FROM uratings WHERE user_id=? AND rater_id=? LIMIT 1",
		ratedID, raterID).Scan(&u.ID, &u.UserID, &u.RaterID, &u.Rating, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// SummaryFor computes the derived rating aggregate for a user at read
// time. Users with no ratings get a zero average, not an error.
func (r *UratingRepo) SummaryFor(ctx context.Context, ratedID uint64) (model.RatingSummary, error) {
	s := model.RatingSummary{UserID: ratedID}
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(rating),0), COUNT(1) FROM uratings WHERE user_id=?",
		ratedID).Scan(&s.Average, &s.Count)
	return s, err
}
